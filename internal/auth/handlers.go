package auth

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"mealcal/internal/common"

	"github.com/gin-gonic/gin"
)

const (
	OAuthStateCookieName = "mealcal_oauth_state"
)

// Handler handles authentication endpoints
type Handler struct {
	repo         *Repository
	oauthConfig  *OAuthConfig
	stateStore   *OAuthStateStore
	sessionStore *SessionStore
	tokenStore   *TokenStore
}

// NewHandler creates a new auth handler
func NewHandler(
	repo *Repository,
	oauthConfig *OAuthConfig,
	stateStore *OAuthStateStore,
	sessionStore *SessionStore,
	tokenStore *TokenStore,
) *Handler {
	return &Handler{
		repo:         repo,
		oauthConfig:  oauthConfig,
		stateStore:   stateStore,
		sessionStore: sessionStore,
		tokenStore:   tokenStore,
	}
}

// Register creates a password account
// POST /auth/register
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.CreateErrorResponse([]string{err.Error()}))
		return
	}

	existing, err := h.repo.GetUserByEmail(req.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.CreateErrorResponse([]string{"failed to check email"}))
		return
	}
	if existing != nil {
		c.JSON(http.StatusConflict, common.CreateErrorResponse([]string{"Email already registered!"}))
		return
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.CreateErrorResponse([]string{"failed to hash password"}))
		return
	}

	user, err := h.repo.CreateUser(req.Email, strings.TrimSpace(req.Username), &hash)
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.CreateErrorResponse([]string{"failed to create user"}))
		return
	}

	c.JSON(http.StatusCreated, common.CreateSuccessResponse(gin.H{
		"message": "Registration successful! You can now log in.",
		"user":    user,
	}))
}

// Login checks email and password and starts a session
// POST /auth/login
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.CreateErrorResponse([]string{err.Error()}))
		return
	}

	user, err := h.repo.Authenticate(req.Email, req.Password)
	if err != nil {
		h.writeAuthError(c, err)
		return
	}

	h.startSession(c, user)
}

// Logout logs out the current user
// GET /auth/logout
func (h *Handler) Logout(c *gin.Context) {
	sessionID, err := h.sessionStore.GetSessionFromCookie(c)
	if err == nil && sessionID != "" {
		if err := h.sessionStore.DeleteSession(sessionID); err != nil {
			log.Printf("auth: delete session: %v", err)
		}
	}

	h.sessionStore.ClearSessionCookie(c)

	c.JSON(http.StatusOK, common.CreateSuccessResponse(gin.H{
		"message": "You have been logged out.",
	}))
}

// Me returns the current authenticated user
// GET /auth/me
func (h *Handler) Me(c *gin.Context) {
	user := GetUserFromContext(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, common.CreateErrorResponse([]string{"not authenticated"}))
		return
	}
	c.JSON(http.StatusOK, common.CreateSuccessResponse(gin.H{"user": user}))
}

// OAuthLogin redirects to the provider's consent page
// GET /auth/login/:provider
func (h *Handler) OAuthLogin(c *gin.Context) {
	provider := Provider(c.Param("provider"))
	if !h.oauthConfig.IsProviderConfigured(provider) {
		c.JSON(http.StatusBadRequest, common.CreateErrorResponse([]string{"provider not configured"}))
		return
	}

	state, err := h.stateStore.Issue()
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.CreateErrorResponse([]string{"failed to create auth state"}))
		return
	}
	h.sessionStore.setCookie(c, OAuthStateCookieName, state, int(OAuthStateExpiry.Seconds()))

	authURL, err := h.oauthConfig.AuthURL(provider, state)
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.CreateErrorResponse([]string{"failed to create auth URL"}))
		return
	}
	c.Redirect(http.StatusTemporaryRedirect, authURL)
}

// OAuthCallback finishes the provider round trip and starts a session
// GET /auth/callback/:provider
func (h *Handler) OAuthCallback(c *gin.Context) {
	provider := Provider(c.Param("provider"))
	if !h.oauthConfig.IsProviderConfigured(provider) {
		c.JSON(http.StatusBadRequest, common.CreateErrorResponse([]string{"provider not configured"}))
		return
	}

	// 1. The state must match the cookie and still be live
	queryState := c.Query("state")
	cookieState, err := c.Cookie(OAuthStateCookieName)
	if err != nil || cookieState == "" || queryState != cookieState {
		c.JSON(http.StatusBadRequest, common.CreateErrorResponse([]string{"OAuth state mismatch"}))
		return
	}
	valid, err := h.stateStore.Consume(queryState)
	if err != nil || !valid {
		c.JSON(http.StatusBadRequest, common.CreateErrorResponse([]string{"invalid or expired OAuth state"}))
		return
	}
	h.sessionStore.setCookie(c, OAuthStateCookieName, "", -1)

	// 2. The provider may report a denied consent
	if errMsg := c.Query("error"); errMsg != "" {
		c.JSON(http.StatusBadRequest, common.CreateErrorResponse([]string{"OAuth error: " + errMsg}))
		return
	}
	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, common.CreateErrorResponse([]string{"missing authorization code"}))
		return
	}

	// 3. Exchange the code and resolve the account
	token, info, err := h.oauthConfig.Exchange(c.Request.Context(), provider, code)
	if err != nil {
		log.Printf("auth: %s callback: %v", provider, err)
		c.JSON(http.StatusBadGateway, common.CreateErrorResponse([]string{"failed to sign in with " + string(provider)}))
		return
	}

	user, err := h.findOrCreateUser(info, provider, token.AccessToken, token.RefreshToken)
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.CreateErrorResponse([]string{"failed to create user"}))
		return
	}
	if user.Status != StatusActive {
		h.writeAuthError(c, ErrInactiveAccount)
		return
	}

	h.startSession(c, user)
}

func (h *Handler) findOrCreateUser(info *OAuthUserInfo, provider Provider, accessToken, refreshToken string) (*User, error) {
	identity, err := h.repo.GetOAuthIdentity(provider, info.ProviderID)
	if err != nil {
		return nil, err
	}
	if identity != nil {
		if err := h.repo.LinkOAuthIdentity(identity.UserID, provider, info.ProviderID, accessToken, refreshToken); err != nil {
			return nil, err
		}
		return h.repo.GetUserByID(identity.UserID)
	}

	// Link the provider to an existing account with the same email
	user, err := h.repo.GetUserByEmail(info.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		user, err = h.repo.CreateUser(info.Email, info.DisplayName, nil)
		if err != nil {
			return nil, err
		}
	}

	if err := h.repo.LinkOAuthIdentity(user.ID, provider, info.ProviderID, accessToken, refreshToken); err != nil {
		return nil, err
	}
	return user, nil
}

// ListTokens returns all tokens for the current user
// GET /auth/tokens
func (h *Handler) ListTokens(c *gin.Context) {
	user := GetUserFromContext(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, common.CreateErrorResponse([]string{"not authenticated"}))
		return
	}

	tokens, err := h.tokenStore.ListUserTokens(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.CreateErrorResponse([]string{"failed to list tokens"}))
		return
	}

	c.JSON(http.StatusOK, common.CreateSuccessResponse(gin.H{
		"tokens": tokens,
	}))
}

// CreateToken issues a bearer token. Callers without a session
// authenticate with email and password in the body (mealctl login).
// POST /auth/tokens
func (h *Handler) CreateToken(c *gin.Context) {
	var req TokenCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.CreateErrorResponse([]string{err.Error()}))
		return
	}

	user := GetUserFromContext(c)
	if user == nil {
		var err error
		user, err = h.repo.Authenticate(req.Email, req.Password)
		if err != nil {
			h.writeAuthError(c, err)
			return
		}
	}

	token, err := h.tokenStore.CreateToken(user.ID, req.Label, req.ExpiresAt)
	if err != nil {
		c.JSON(http.StatusBadRequest, common.CreateErrorResponse([]string{err.Error()}))
		return
	}

	c.JSON(http.StatusCreated, common.CreateSuccessResponse(gin.H{
		"token":   token.RawToken,
		"details": token.Token,
		"message": "Token created. Save this token now - it will not be shown again.",
	}))
}

// RevokeToken revokes a token owned by the current user
// DELETE /auth/tokens/:id
func (h *Handler) RevokeToken(c *gin.Context) {
	user := GetUserFromContext(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, common.CreateErrorResponse([]string{"not authenticated"}))
		return
	}

	tokenID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || tokenID <= 0 {
		c.JSON(http.StatusBadRequest, common.CreateErrorResponse([]string{"Invalid token ID"}))
		return
	}

	if err := h.tokenStore.RevokeToken(tokenID, user.ID); err != nil {
		c.JSON(http.StatusNotFound, common.CreateErrorResponse([]string{err.Error()}))
		return
	}

	c.JSON(http.StatusOK, common.CreateSuccessResponse(gin.H{
		"message": "Token revoked successfully",
	}))
}

func (h *Handler) startSession(c *gin.Context, user *User) {
	session, err := h.sessionStore.CreateSession(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.CreateErrorResponse([]string{"failed to create session"}))
		return
	}
	h.sessionStore.SetSessionCookie(c, session.ID)

	c.JSON(http.StatusOK, common.CreateSuccessResponse(gin.H{
		"message": "Login successful!",
		"user":    user,
	}))
}

func (h *Handler) writeAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, common.CreateErrorResponse([]string{err.Error()}))
	case errors.Is(err, ErrInactiveAccount):
		c.JSON(http.StatusForbidden, common.CreateErrorResponse([]string{err.Error()}))
	default:
		log.Printf("auth: %v", err)
		c.JSON(http.StatusInternalServerError, common.CreateErrorResponse([]string{"authentication failed"}))
	}
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
