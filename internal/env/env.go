package env

import (
	"os"
	"strconv"
	"time"
)

func GetEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func GetInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func GetBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func GetDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Server environment variable keys
const (
	EnvAddr          = "MEALCAL_ADDR"
	EnvDBPath        = "MEALCAL_DB_PATH"
	EnvMigrationsURL = "MEALCAL_MIGRATIONS"
	EnvAutoMigrate   = "MEALCAL_AUTO_MIGRATE"
	EnvCleanupEvery  = "CLEANUP_INTERVAL"
)

// Auth-related environment variable keys
const (
	// OAuth Providers
	EnvGoogleClientID     = "GOOGLE_CLIENT_ID"
	EnvGoogleClientSecret = "GOOGLE_CLIENT_SECRET"
	EnvGitHubClientID     = "GITHUB_CLIENT_ID"
	EnvGitHubClientSecret = "GITHUB_CLIENT_SECRET"

	// Auth Configuration
	EnvAuthCallbackBaseURL = "AUTH_CALLBACK_BASE_URL"
	EnvSessionDuration     = "SESSION_DURATION"
	EnvSecureCookies       = "SECURE_COOKIES"
)

// Client environment variable keys (mealctl)
const (
	EnvServerURL   = "MEALCAL_SERVER"
	EnvToken       = "MEALCAL_TOKEN"
	EnvSettleDelay = "MEALCAL_SETTLE_DELAY"
)

// Defaults shared by the server and the client
const (
	DefaultAddr      = ":9237"
	DefaultDBPath    = "./internal/databases/meals.db"
	DefaultServerURL = "http://localhost:9237"
)

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
