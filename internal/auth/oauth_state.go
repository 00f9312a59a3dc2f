package auth

import (
	"crypto/rand"
	"encoding/base64"
	"time"
)

// OAuthStateExpiry is how long an OAuth state is valid
const OAuthStateExpiry = 10 * time.Minute

// OAuthStateStore keeps single-use CSRF states for the OAuth round trip
type OAuthStateStore struct {
	repo *Repository
}

// NewOAuthStateStore creates a new OAuth state store
func NewOAuthStateStore(repo *Repository) *OAuthStateStore {
	return &OAuthStateStore{repo: repo}
}

// Issue stores and returns a fresh URL-safe state
func (s *OAuthStateStore) Issue() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	state := base64.RawURLEncoding.EncodeToString(buf)

	_, err := s.repo.db.Exec(`
		INSERT INTO oauth_states (state, expires_at) VALUES (?, ?)
	`, state, time.Now().UTC().Add(OAuthStateExpiry))
	if err != nil {
		return "", err
	}
	return state, nil
}

// Consume deletes state and reports whether it was live.
// A state can be consumed once.
func (s *OAuthStateStore) Consume(state string) (bool, error) {
	result, err := s.repo.db.Exec(`
		DELETE FROM oauth_states WHERE state = ? AND expires_at > ?
	`, state, time.Now().UTC())
	if err != nil {
		return false, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// CleanupExpiredStates removes all expired states and reports how many
func (s *OAuthStateStore) CleanupExpiredStates() (int64, error) {
	result, err := s.repo.db.Exec(`
		DELETE FROM oauth_states WHERE expires_at <= ?
	`, time.Now().UTC())
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
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
