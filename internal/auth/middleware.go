package auth

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	// Context keys
	ContextKeyUser  = "auth_user"
	ContextKeyToken = "auth_token"

	// Headers
	HeaderAuthorization = "Authorization"
)

// Middleware provides authentication middleware
type Middleware struct {
	tokenStore   *TokenStore
	sessionStore *SessionStore
}

// NewMiddleware creates a new middleware instance
func NewMiddleware(tokenStore *TokenStore, sessionStore *SessionStore) *Middleware {
	return &Middleware{
		tokenStore:   tokenStore,
		sessionStore: sessionStore,
	}
}

// RequireUser accepts either a bearer token or a session cookie.
// Browsers use the cookie, mealctl sends the token.
func (m *Middleware) RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(HeaderAuthorization)
		if authHeader == "" {
			if !m.loadSession(c) {
				return
			}
			c.Next()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "invalid authorization header format",
			})
			return
		}

		validated, err := m.tokenStore.ValidateToken(strings.TrimSpace(parts[1]))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   err.Error(),
			})
			return
		}

		c.Set(ContextKeyUser, validated.User)
		c.Set(ContextKeyToken, validated.Token)
		c.Next()
	}
}

// loadSession puts the session user into the context or aborts the request
func (m *Middleware) loadSession(c *gin.Context) bool {
	sessionID, err := m.sessionStore.GetSessionFromCookie(c)
	if err != nil || sessionID == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error":   "not authenticated",
		})
		return false
	}

	user, err := m.sessionStore.GetUserFromSession(sessionID)
	if err != nil || user == nil {
		m.sessionStore.ClearSessionCookie(c)
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error":   "session expired or invalid",
		})
		return false
	}

	if user.Status != StatusActive {
		m.sessionStore.ClearSessionCookie(c)
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"success": false,
			"error":   fmt.Sprintf("account is %s", user.Status),
		})
		return false
	}

	c.Set(ContextKeyUser, user)
	return true
}

// OptionalSession attempts to load a session but doesn't fail if none exists
func (m *Middleware) OptionalSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := m.sessionStore.GetSessionFromCookie(c)
		if err == nil && sessionID != "" {
			user, err := m.sessionStore.GetUserFromSession(sessionID)
			if err == nil && user != nil && user.Status == StatusActive {
				c.Set(ContextKeyUser, user)
			}
		}
		c.Next()
	}
}

// GetUserFromContext retrieves the authenticated user from the context
func GetUserFromContext(c *gin.Context) *User {
	userVal, exists := c.Get(ContextKeyUser)
	if !exists {
		return nil
	}
	user, ok := userVal.(*User)
	if !ok {
		return nil
	}
	return user
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
