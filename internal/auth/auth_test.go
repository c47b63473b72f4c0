package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"fintrack/internal/core"
)

func newTestService() *Service {
	return NewService(NewMemoryStore(), time.Hour, bcrypt.MinCost)
}

func TestPasswordHashing(t *testing.T) {
	svc := newTestService()

	h, err := svc.HashPassword("secret123")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if h == "secret123" {
		t.Fatalf("hash equals plaintext")
	}
	if !svc.CheckPassword(h, "secret123") {
		t.Fatalf("correct password rejected")
	}
	if svc.CheckPassword(h, "wrong") {
		t.Fatalf("wrong password accepted")
	}
}

func TestTokenLifecycle(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	token, err := svc.IssueToken(ctx, 42)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	if len(token) != 64 {
		t.Fatalf("token length = %d, want 64 hex chars", len(token))
	}

	id, err := svc.Authenticate(ctx, token)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if id != 42 {
		t.Fatalf("resolved id = %d", id)
	}

	// two tokens for the same user are distinct
	other, err := svc.IssueToken(ctx, 42)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	if other == token {
		t.Fatalf("tokens must be unique")
	}

	if err := svc.Revoke(ctx, token); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	if _, err := svc.Authenticate(ctx, token); !errors.Is(err, core.ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}
	// the other session survives
	if _, err := svc.Authenticate(ctx, other); err != nil {
		t.Fatalf("other session: %v", err)
	}
}

func TestAuthenticateRejectsUnknownAndEmpty(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	if _, err := svc.Authenticate(ctx, ""); !errors.Is(err, core.ErrForbidden) {
		t.Fatalf("empty token err = %v", err)
	}
	if _, err := svc.Authenticate(ctx, "deadbeef"); !errors.Is(err, core.ErrForbidden) {
		t.Fatalf("unknown token err = %v", err)
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.Save(ctx, "tok", 7, 10*time.Millisecond); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := store.Resolve(ctx, "tok"); err != nil {
		t.Fatalf("Resolve before expiry: %v", err)
	}

	time.Sleep(20 * time.Millisecond)
	if _, err := store.Resolve(ctx, "tok"); !errors.Is(err, core.ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden after expiry", err)
	}
}
