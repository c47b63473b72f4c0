// Package auth resolves bearer credentials to user identities.
//
// Passwords are bcrypt-hashed. Session tokens are opaque random values
// held in a TokenStore with a TTL; nothing is encoded in the token
// itself.
package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"fintrack/internal/core"
)

// TokenStore persists session tokens. Implementations: Redis for
// multi-instance deployments, memory for tests and single-node runs.
type TokenStore interface {
	// Save associates token with a user id for the given TTL.
	Save(ctx context.Context, token string, userID int64, ttl time.Duration) error

	// Resolve returns the user id a token belongs to, or
	// core.ErrForbidden for unknown or expired tokens.
	Resolve(ctx context.Context, token string) (int64, error)

	// Revoke invalidates a token. Revoking an unknown token is not an
	// error.
	Revoke(ctx context.Context, token string) error
}

// Service issues and verifies credentials.
type Service struct {
	store      TokenStore
	ttl        time.Duration
	bcryptCost int
}

func NewService(store TokenStore, ttl time.Duration, bcryptCost int) *Service {
	return &Service{store: store, ttl: ttl, bcryptCost: bcryptCost}
}

// HashPassword returns the bcrypt hash of a plaintext password.
func (s *Service) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether the plaintext matches the stored hash.
func (s *Service) CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// IssueToken creates a session token for the user and stores it.
func (s *Service) IssueToken(ctx context.Context, userID int64) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	token := hex.EncodeToString(buf)

	if err := s.store.Save(ctx, token, userID, s.ttl); err != nil {
		return "", fmt.Errorf("save token: %w", err)
	}
	return token, nil
}

// Authenticate resolves a bearer token to a user id.
func (s *Service) Authenticate(ctx context.Context, token string) (int64, error) {
	if token == "" {
		return 0, core.ErrForbidden
	}
	return s.store.Resolve(ctx, token)
}

// Revoke invalidates a session token.
func (s *Service) Revoke(ctx context.Context, token string) error {
	return s.store.Revoke(ctx, token)
}
