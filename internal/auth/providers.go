package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
	"golang.org/x/oauth2/google"
)

// OAuthUserInfo is the identity a provider vouches for
type OAuthUserInfo struct {
	ProviderID  string
	Email       string
	DisplayName string
}

// ProviderConfig holds the credentials for an OAuth provider
type ProviderConfig struct {
	ClientID     string
	ClientSecret string
}

// userInfoFetcher reads the signed-in identity with an authorized client
type userInfoFetcher func(client *http.Client) (*OAuthUserInfo, error)

type oauthProvider struct {
	config   *oauth2.Config
	userInfo userInfoFetcher
}

// OAuthConfig holds the configured OAuth providers.
// Providers without credentials are left out.
type OAuthConfig struct {
	providers map[Provider]*oauthProvider
}

// NewOAuthConfig creates OAuth configurations for all providers
func NewOAuthConfig(googleCfg, githubCfg ProviderConfig, callbackBaseURL string) *OAuthConfig {
	c := &OAuthConfig{providers: map[Provider]*oauthProvider{}}

	if googleCfg.ClientID != "" && googleCfg.ClientSecret != "" {
		c.providers[ProviderGoogle] = &oauthProvider{
			config: &oauth2.Config{
				ClientID:     googleCfg.ClientID,
				ClientSecret: googleCfg.ClientSecret,
				RedirectURL:  callbackBaseURL + "/api/auth/callback/google",
				Scopes: []string{
					"https://www.googleapis.com/auth/userinfo.email",
					"https://www.googleapis.com/auth/userinfo.profile",
				},
				Endpoint: google.Endpoint,
			},
			userInfo: googleUserInfo,
		}
	}

	if githubCfg.ClientID != "" && githubCfg.ClientSecret != "" {
		c.providers[ProviderGitHub] = &oauthProvider{
			config: &oauth2.Config{
				ClientID:     githubCfg.ClientID,
				ClientSecret: githubCfg.ClientSecret,
				RedirectURL:  callbackBaseURL + "/api/auth/callback/github",
				Scopes:       []string{"user:email", "read:user"},
				Endpoint:     github.Endpoint,
			},
			userInfo: githubUserInfo,
		}
	}

	return c
}

// IsProviderConfigured checks if a provider is configured
func (c *OAuthConfig) IsProviderConfigured(provider Provider) bool {
	_, ok := c.providers[provider]
	return ok
}

// AuthURL returns the consent page URL for a provider
func (c *OAuthConfig) AuthURL(provider Provider, state string) (string, error) {
	p, err := c.get(provider)
	if err != nil {
		return "", err
	}
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOffline), nil
}

// Exchange trades an authorization code for a token and the user's identity
func (c *OAuthConfig) Exchange(ctx context.Context, provider Provider, code string) (*oauth2.Token, *OAuthUserInfo, error) {
	p, err := c.get(provider)
	if err != nil {
		return nil, nil, err
	}
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, nil, fmt.Errorf("exchange code: %w", err)
	}
	info, err := p.userInfo(p.config.Client(ctx, token))
	if err != nil {
		return nil, nil, fmt.Errorf("fetch %s user info: %w", provider, err)
	}
	return token, info, nil
}

func (c *OAuthConfig) get(provider Provider) (*oauthProvider, error) {
	p, ok := c.providers[provider]
	if !ok {
		return nil, fmt.Errorf("%s OAuth not configured", provider)
	}
	return p, nil
}

// getJSON decodes a successful JSON response from url into v
func getJSON(client *http.Client, url string, v interface{}) error {
	resp, err := client.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%s: %s", resp.Status, string(body))
	}
	return json.NewDecoder(resp.Body).Decode(v)
}

func googleUserInfo(client *http.Client) (*OAuthUserInfo, error) {
	var info struct {
		ID    string `json:"id"`
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := getJSON(client, "https://www.googleapis.com/oauth2/v2/userinfo", &info); err != nil {
		return nil, err
	}
	if info.Email == "" {
		return nil, fmt.Errorf("email not provided by Google")
	}

	displayName := info.Name
	if displayName == "" {
		displayName = info.Email
	}
	return &OAuthUserInfo{ProviderID: info.ID, Email: info.Email, DisplayName: displayName}, nil
}

func githubUserInfo(client *http.Client) (*OAuthUserInfo, error) {
	var info struct {
		ID    int64  `json:"id"`
		Login string `json:"login"`
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := getJSON(client, "https://api.github.com/user", &info); err != nil {
		return nil, err
	}

	// Private emails are only listed on the emails endpoint
	email := info.Email
	if email == "" {
		var emails []struct {
			Email    string `json:"email"`
			Primary  bool   `json:"primary"`
			Verified bool   `json:"verified"`
		}
		if err := getJSON(client, "https://api.github.com/user/emails", &emails); err != nil {
			return nil, err
		}
		for _, e := range emails {
			if e.Verified && (e.Primary || email == "") {
				email = e.Email
			}
		}
		if email == "" {
			return nil, fmt.Errorf("no verified email found")
		}
	}

	displayName := info.Name
	if displayName == "" {
		displayName = info.Login
	}
	return &OAuthUserInfo{
		ProviderID:  strconv.FormatInt(info.ID, 10),
		Email:       email,
		DisplayName: displayName,
	}, nil
}

/*
MealCal is the meal planning calendar: a JSON API for planned meals and the client that keeps a rendered calendar in sync with it.
MealCal Copyright (C) 2025 The MealCal Authors
    This program is free software: you can redistribute it and/or modify
    it under the terms of the GNU General Public License as published by
    the Free Software Foundation, either version 3 of the License, or
    (at your option) any later version.

    This program is distributed in the hope that it will be useful,
    but WITHOUT ANY WARRANTY; without even the implied warranty of
    MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
    GNU General Public License for more details.

    You should have received a copy of the GNU General Public License
    along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/
