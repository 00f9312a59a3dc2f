package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mr-tron/base58"
)

const (
	// TokenPrefix is the prefix for all generated tokens
	TokenPrefix = "mealcal_"

	// MaxTokensPerUser caps the live tokens a user may hold
	MaxTokensPerUser = 10
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenRevoked = errors.New("token has been revoked")
	ErrTokenExpired = errors.New("token has expired")
)

// TokenStore manages API token operations
type TokenStore struct {
	repo *Repository
}

// NewTokenStore creates a new token store
func NewTokenStore(repo *Repository) *TokenStore {
	return &TokenStore{repo: repo}
}

// GenerateToken creates a new random token.
// Format: mealcal_ + Base58(SHA256(random_bytes))
func GenerateToken() (rawToken string, tokenHash string, err error) {
	randomBytes := make([]byte, 32)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", "", err
	}
	sum := sha256.Sum256(randomBytes)
	rawToken = TokenPrefix + base58.Encode(sum[:])
	return rawToken, hashToken(rawToken), nil
}

// hashToken creates a SHA256 hash of a token for storage
func hashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}

// CreateToken issues a token for a user. Only the hash is stored.
func (s *TokenStore) CreateToken(userID int64, label string, expiresAt *time.Time) (*TokenWithRaw, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return nil, fmt.Errorf("token label is required")
	}

	var count int
	err := s.repo.db.QueryRow(`
		SELECT COUNT(*) FROM tokens WHERE user_id = ? AND revoked_at IS NULL
	`, userID).Scan(&count)
	if err != nil {
		return nil, err
	}
	if count >= MaxTokensPerUser {
		return nil, fmt.Errorf("maximum token limit (%d) reached", MaxTokensPerUser)
	}

	rawToken, tokenHash, err := GenerateToken()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	result, err := s.repo.db.Exec(`
		INSERT INTO tokens (user_id, token_hash, label, expires_at, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, userID, tokenHash, label, expiresAt, now)
	if err != nil {
		return nil, err
	}
	tokenID, _ := result.LastInsertId()

	return &TokenWithRaw{
		Token: Token{
			ID:        tokenID,
			UserID:    userID,
			Label:     label,
			ExpiresAt: expiresAt,
			CreatedAt: now,
		},
		RawToken: rawToken,
	}, nil
}

// ValidateToken resolves a raw bearer token to its live token and active user
func (s *TokenStore) ValidateToken(rawToken string) (*ValidatedToken, error) {
	if !strings.HasPrefix(rawToken, TokenPrefix) {
		return nil, ErrInvalidToken
	}

	var t Token
	var expiresAt, revokedAt sql.NullTime
	err := s.repo.db.QueryRow(`
		SELECT id, user_id, token_hash, label, expires_at, revoked_at, created_at
		FROM tokens WHERE token_hash = ?
	`, hashToken(rawToken)).Scan(&t.ID, &t.UserID, &t.TokenHash, &t.Label, &expiresAt, &revokedAt, &t.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrInvalidToken
	}
	if err != nil {
		return nil, err
	}
	t.ExpiresAt = ScanNullableTime(expiresAt)
	t.RevokedAt = ScanNullableTime(revokedAt)

	if t.RevokedAt != nil {
		return nil, ErrTokenRevoked
	}
	if t.ExpiresAt != nil && t.ExpiresAt.Before(time.Now()) {
		return nil, ErrTokenExpired
	}

	user, err := s.repo.GetUserByID(t.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("user not found")
	}
	if user.Status != StatusActive {
		return nil, ErrInactiveAccount
	}

	return &ValidatedToken{Token: &t, User: user}, nil
}

// ListUserTokens returns all tokens for a user (without raw values)
func (s *TokenStore) ListUserTokens(userID int64) ([]Token, error) {
	rows, err := s.repo.db.Query(`
		SELECT id, user_id, label, expires_at, revoked_at, created_at
		FROM tokens WHERE user_id = ? ORDER BY created_at DESC, id DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tokens := []Token{}
	for rows.Next() {
		var t Token
		var expiresAt, revokedAt sql.NullTime
		if err := rows.Scan(&t.ID, &t.UserID, &t.Label, &expiresAt, &revokedAt, &t.CreatedAt); err != nil {
			return nil, err
		}
		t.ExpiresAt = ScanNullableTime(expiresAt)
		t.RevokedAt = ScanNullableTime(revokedAt)
		tokens = append(tokens, t)
	}
	return tokens, rows.Err()
}

// RevokeToken revokes a token (user can only revoke their own tokens)
func (s *TokenStore) RevokeToken(tokenID int64, userID int64) error {
	result, err := s.repo.db.Exec(`
		UPDATE tokens SET revoked_at = ?
		WHERE id = ? AND user_id = ? AND revoked_at IS NULL
	`, time.Now().UTC(), tokenID, userID)
	if err != nil {
		return err
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("token not found or already revoked")
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
