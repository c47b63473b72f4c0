package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"fintrack/internal/auth"
	"fintrack/internal/core"
)

// UserStore is the persistence surface the user service needs.
type UserStore interface {
	CreateUser(ctx context.Context, name, email, passwordHash string) (core.User, error)
	GetUserByEmail(ctx context.Context, email string) (core.User, string, error)
	GetUser(ctx context.Context, id int64) (core.User, error)
}

const minPasswordLen = 6

// UserService handles registration, login and session lookup.
type UserService struct {
	store UserStore
	auth  *auth.Service
}

func NewUserService(store UserStore, authSvc *auth.Service) *UserService {
	return &UserService{
		store: store,
		auth:  authSvc,
	}
}

// Register creates an account and opens a session. A taken email yields
// core.ErrConflict.
func (s *UserService) Register(ctx context.Context, name, email, password string) (core.User, string, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))

	if name == "" {
		return core.User{}, "", fmt.Errorf("%w: name is required", core.ErrInvalidInput)
	}
	if email == "" || !strings.Contains(email, "@") {
		return core.User{}, "", fmt.Errorf("%w: valid email is required", core.ErrInvalidInput)
	}
	if len(password) < minPasswordLen {
		return core.User{}, "", fmt.Errorf("%w: password must be at least %d characters", core.ErrInvalidInput, minPasswordLen)
	}

	hash, err := s.auth.HashPassword(password)
	if err != nil {
		return core.User{}, "", fmt.Errorf("hash password: %w", err)
	}

	user, err := s.store.CreateUser(ctx, name, email, hash)
	if err != nil {
		return core.User{}, "", err
	}

	token, err := s.auth.IssueToken(ctx, user.ID)
	if err != nil {
		return core.User{}, "", fmt.Errorf("issue token: %w", err)
	}

	return user, token, nil
}

// Login checks credentials and opens a session. Unknown email and wrong
// password are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, email, password string) (core.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, hash, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return core.User{}, "", fmt.Errorf("%w: invalid credentials", core.ErrForbidden)
		}
		return core.User{}, "", err
	}

	if !s.auth.CheckPassword(hash, password) {
		return core.User{}, "", fmt.Errorf("%w: invalid credentials", core.ErrForbidden)
	}

	token, err := s.auth.IssueToken(ctx, user.ID)
	if err != nil {
		return core.User{}, "", fmt.Errorf("issue token: %w", err)
	}

	return user, token, nil
}

// Get returns the account behind an authenticated session.
func (s *UserService) Get(ctx context.Context, id int64) (core.User, error) {
	return s.store.GetUser(ctx, id)
}
