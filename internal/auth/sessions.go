package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// SessionCookieName is the name of the session cookie
	SessionCookieName = "mealcal_session"

	// DefaultSessionDuration is the default session lifetime
	DefaultSessionDuration = 7 * 24 * time.Hour // 7 days
)

// ErrInactiveAccount is returned when a suspended user tries to sign in
var ErrInactiveAccount = errors.New("account is not active")

// SessionStore manages server-side sessions
type SessionStore struct {
	repo            *Repository
	sessionDuration time.Duration
	secureCookie    bool
}

// NewSessionStore creates a new session store
func NewSessionStore(repo *Repository, sessionDuration time.Duration, secureCookie bool) *SessionStore {
	if sessionDuration == 0 {
		sessionDuration = DefaultSessionDuration
	}
	return &SessionStore{
		repo:            repo,
		sessionDuration: sessionDuration,
		secureCookie:    secureCookie,
	}
}

// CreateSession creates a new session for a user
func (s *SessionStore) CreateSession(userID int64) (*Session, error) {
	now := time.Now().UTC()
	session := &Session{
		ID:        uuid.New().String(),
		UserID:    userID,
		ExpiresAt: now.Add(s.sessionDuration),
		CreatedAt: now,
	}

	_, err := s.repo.db.Exec(`
		INSERT INTO sessions (id, user_id, expires_at, created_at) VALUES (?, ?, ?, ?)
	`, session.ID, session.UserID, session.ExpiresAt, session.CreatedAt)
	if err != nil {
		return nil, err
	}
	return session, nil
}

// GetUserFromSession returns the user of a live session
func (s *SessionStore) GetUserFromSession(sessionID string) (*User, error) {
	var userID int64
	err := s.repo.db.QueryRow(`
		SELECT user_id FROM sessions WHERE id = ? AND expires_at > ?
	`, sessionID, time.Now().UTC()).Scan(&userID)
	if err != nil {
		return nil, err
	}
	return s.repo.GetUserByID(userID)
}

// DeleteSession removes a session
func (s *SessionStore) DeleteSession(sessionID string) error {
	_, err := s.repo.db.Exec("DELETE FROM sessions WHERE id = ?", sessionID)
	return err
}

// CleanupExpiredSessions removes all expired sessions and reports how many
func (s *SessionStore) CleanupExpiredSessions() (int64, error) {
	result, err := s.repo.db.Exec("DELETE FROM sessions WHERE expires_at <= ?", time.Now().UTC())
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// SetSessionCookie sets the session cookie on the response
func (s *SessionStore) SetSessionCookie(c *gin.Context, sessionID string) {
	s.setCookie(c, SessionCookieName, sessionID, int(s.sessionDuration.Seconds()))
}

// ClearSessionCookie removes the session cookie
func (s *SessionStore) ClearSessionCookie(c *gin.Context) {
	s.setCookie(c, SessionCookieName, "", -1)
}

// GetSessionFromCookie retrieves the session ID from the request cookie
func (s *SessionStore) GetSessionFromCookie(c *gin.Context) (string, error) {
	return c.Cookie(SessionCookieName)
}

// setCookie writes an httpOnly, SameSite=Lax cookie scoped to the whole site
func (s *SessionStore) setCookie(c *gin.Context, name, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, value, maxAge, "/", "", s.secureCookie, true)
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
