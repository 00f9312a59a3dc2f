package auth

import (
	"database/sql"
	"time"
)

// Status represents user account status
type Status string

const (
	StatusActive    Status = "active"
	StatusSuspended Status = "suspended"
)

// Provider represents OAuth providers
type Provider string

const (
	ProviderGoogle Provider = "google"
	ProviderGitHub Provider = "github"
)

// User represents a meal planner account
type User struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// OAuthIdentity links a user to an OAuth provider
type OAuthIdentity struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"userId"`
	Provider     Provider  `json:"provider"`
	ProviderID   string    `json:"providerId"`
	AccessToken  *string   `json:"-"` // Never expose in JSON
	RefreshToken *string   `json:"-"` // Never expose in JSON
	CreatedAt    time.Time `json:"createdAt"`
}

// Session represents a server-side browser session
type Session struct {
	ID        string    `json:"id"`
	UserID    int64     `json:"userId"`
	ExpiresAt time.Time `json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
}

// Token represents an API token used by non-browser clients
type Token struct {
	ID        int64      `json:"id"`
	UserID    int64      `json:"userId"`
	TokenHash string     `json:"-"` // Never expose
	Label     string     `json:"label"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
	RevokedAt *time.Time `json:"revokedAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

// TokenWithRaw includes the raw token value (only returned on creation)
type TokenWithRaw struct {
	Token
	RawToken string `json:"token"`
}

// ValidatedToken holds the result of token validation
type ValidatedToken struct {
	Token *Token
	User  *User
}

// RegisterRequest is the body of POST /auth/register
type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// LoginRequest is the body of POST /auth/login
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// TokenCreateRequest represents the request body for creating a token.
// Email and Password are only read when the caller has no session.
type TokenCreateRequest struct {
	Label     string     `json:"label" binding:"required"`
	ExpiresAt *time.Time `json:"expiresAt"`
	Email     string     `json:"email"`
	Password  string     `json:"password"`
}

// ScanNullableString helper for scanning nullable string
func ScanNullableString(n sql.NullString) *string {
	if n.Valid {
		return &n.String
	}
	return nil
}

// ScanNullableTime helper for scanning nullable time
func ScanNullableTime(n sql.NullTime) *time.Time {
	if n.Valid {
		return &n.Time
	}
	return nil
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
