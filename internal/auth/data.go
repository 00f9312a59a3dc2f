package auth

import (
	"database/sql"
	"strings"
)

// Repository provides access to account-related database operations
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new auth repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// --- User Operations ---

// GetUserByID returns a user by ID, or nil when none exists
func (r *Repository) GetUserByID(id int64) (*User, error) {
	var u User
	err := r.db.QueryRow(`
		SELECT id, email, username, status, created_at
		FROM users WHERE id = ?
	`, id).Scan(&u.ID, &u.Email, &u.Username, &u.Status, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUserByEmail returns a user by email, or nil when none exists.
// Emails are compared case-insensitively.
func (r *Repository) GetUserByEmail(email string) (*User, error) {
	var u User
	err := r.db.QueryRow(`
		SELECT id, email, username, status, created_at
		FROM users WHERE email = ?
	`, normalizeEmail(email)).Scan(&u.ID, &u.Email, &u.Username, &u.Status, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetPasswordHash returns the user and bcrypt hash for an email.
// OAuth-only accounts have a nil hash.
func (r *Repository) GetPasswordHash(email string) (*User, *string, error) {
	var u User
	var hash sql.NullString
	err := r.db.QueryRow(`
		SELECT id, email, username, status, created_at, password_hash
		FROM users WHERE email = ?
	`, normalizeEmail(email)).Scan(&u.ID, &u.Email, &u.Username, &u.Status, &u.CreatedAt, &hash)
	if err == sql.ErrNoRows {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}
	return &u, ScanNullableString(hash), nil
}

// CreateUser creates a new user. passwordHash is nil for OAuth sign-ups.
func (r *Repository) CreateUser(email, username string, passwordHash *string) (*User, error) {
	result, err := r.db.Exec(`
		INSERT INTO users (email, username, password_hash) VALUES (?, ?, ?)
	`, normalizeEmail(email), username, passwordHash)
	if err != nil {
		return nil, err
	}
	id, _ := result.LastInsertId()
	return r.GetUserByID(id)
}

// SetUserStatus activates or suspends a user
func (r *Repository) SetUserStatus(id int64, status Status) error {
	_, err := r.db.Exec("UPDATE users SET status = ? WHERE id = ?", status, id)
	return err
}

// --- OAuth Identity Operations ---

// GetOAuthIdentity returns an OAuth identity by provider and provider ID
func (r *Repository) GetOAuthIdentity(provider Provider, providerID string) (*OAuthIdentity, error) {
	var o OAuthIdentity
	var accessToken, refreshToken sql.NullString
	err := r.db.QueryRow(`
		SELECT id, user_id, provider, provider_id, access_token, refresh_token, created_at
		FROM oauth_identities
		WHERE provider = ? AND provider_id = ?
	`, provider, providerID).Scan(&o.ID, &o.UserID, &o.Provider, &o.ProviderID, &accessToken, &refreshToken, &o.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	o.AccessToken = ScanNullableString(accessToken)
	o.RefreshToken = ScanNullableString(refreshToken)
	return &o, nil
}

// LinkOAuthIdentity stores provider credentials for a user, replacing the
// tokens of an existing link
func (r *Repository) LinkOAuthIdentity(userID int64, provider Provider, providerID, accessToken, refreshToken string) error {
	_, err := r.db.Exec(`
		INSERT INTO oauth_identities (user_id, provider, provider_id, access_token, refresh_token)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (provider, provider_id)
		DO UPDATE SET access_token = excluded.access_token, refresh_token = excluded.refresh_token
	`, userID, provider, providerID, accessToken, refreshToken)
	return err
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
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
