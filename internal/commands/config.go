package commands

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"mealcal/internal/env"
	"mealcal/internal/mealsync"
)

var errNotLoggedIn = errors.New("not logged in: run `mealctl login` or set " + env.EnvToken)

// Config is what every subcommand needs to reach the server
type Config struct {
	ServerURL   string
	Token       string
	TokenFile   string
	SettleDelay time.Duration
}

// LoadConfig reads the client settings from the environment
func LoadConfig() Config {
	cfg := Config{
		ServerURL:   env.GetEnv(env.EnvServerURL, env.DefaultServerURL),
		Token:       env.GetEnv(env.EnvToken, ""),
		SettleDelay: env.GetDuration(env.EnvSettleDelay, mealsync.DefaultSettleDelay),
	}
	if dir, err := os.UserConfigDir(); err == nil {
		cfg.TokenFile = filepath.Join(dir, "mealcal", "token")
	}
	return cfg
}

// token returns the configured token, falling back to the stored one
func (cfg Config) token() (string, error) {
	if cfg.Token != "" {
		return cfg.Token, nil
	}
	if cfg.TokenFile == "" {
		return "", errNotLoggedIn
	}
	raw, err := os.ReadFile(cfg.TokenFile)
	if errors.Is(err, os.ErrNotExist) {
		return "", errNotLoggedIn
	}
	if err != nil {
		return "", err
	}
	token := strings.TrimSpace(string(raw))
	if token == "" {
		return "", errNotLoggedIn
	}
	return token, nil
}

func (cfg Config) storeToken(token string) error {
	if cfg.TokenFile == "" {
		return errors.New("no config directory to store the token in")
	}
	if err := os.MkdirAll(filepath.Dir(cfg.TokenFile), 0o700); err != nil {
		return err
	}
	return os.WriteFile(cfg.TokenFile, []byte(token+"\n"), 0o600)
}

// workspace is one invocation's calendar and controller
type workspace struct {
	client   *mealsync.Client
	calendar *mealsync.MemoryCalendar
	ctrl     *mealsync.Controller
	pacer    mealsync.Pacer
}

// open loads the user's meals and mounts a controller over them
func (cfg Config) open(ctx context.Context, surface mealsync.Surface) (*workspace, error) {
	token, err := cfg.token()
	if err != nil {
		return nil, err
	}
	client := mealsync.NewClient(cfg.ServerURL, mealsync.WithToken(token))

	initial, err := client.ListMeals(ctx)
	if err != nil {
		return nil, err
	}
	calendar := mealsync.NewMemoryCalendar(initial, client.ListMeals)
	ctrl := mealsync.NewController(calendar, client, surface)
	if err := ctrl.Mount(); err != nil {
		return nil, err
	}
	return &workspace{
		client:   client,
		calendar: calendar,
		ctrl:     ctrl,
		pacer:    mealsync.NewPacer(cfg.SettleDelay),
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
