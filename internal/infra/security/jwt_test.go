package security

import (
	"errors"
	"testing"
	"time"

	"github.com/skabera/TaskManagementSystem/internal/core/domain"
	"github.com/skabera/TaskManagementSystem/internal/infra/config"
)

func newTestJWTManager(t *testing.T, clock func() time.Time) *JWTManager {
	t.Helper()
	manager, err := NewJWTManager(config.JWTSettings{
		Secret:         "unit-test-secret-key",
		Issuer:         "taskmg-api",
		Audience:       "taskmg-clients",
		AccessTokenTTL: time.Hour,
	})
	if err != nil {
		t.Fatalf("NewJWTManager returned error: %v", err)
	}
	manager.WithClock(clock)
	return manager
}

func TestJWTManagerIssueAndParse(t *testing.T) {
	fixed := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	manager := newTestJWTManager(t, func() time.Time { return fixed })

	account := domain.Account{
		ID:        "acct-1",
		Email:     "jane.doe@example.com",
		FirstName: "Jane",
		LastName:  "Doe",
	}

	token, expiresAt, err := manager.Issue(account)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	if expiresAt != fixed.Add(time.Hour) {
		t.Fatalf("expected expiry %v, got %v", fixed.Add(time.Hour), expiresAt)
	}

	claims, err := manager.Parse(token)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if claims.Subject != account.ID {
		t.Fatalf("expected subject %s, got %s", account.ID, claims.Subject)
	}
	if claims.Email != account.Email {
		t.Fatalf("expected email %s, got %s", account.Email, claims.Email)
	}
	if claims.Name != "Jane Doe" {
		t.Fatalf("expected name Jane Doe, got %s", claims.Name)
	}
	if claims.ID == "" {
		t.Fatal("expected a jti claim")
	}
}

func TestJWTManagerIssueRequiresAccountID(t *testing.T) {
	manager := newTestJWTManager(t, time.Now)
	if _, _, err := manager.Issue(domain.Account{Email: "no-id@example.com"}); err == nil {
		t.Fatal("expected error for account without id")
	}
}

func TestJWTManagerParseExpiredToken(t *testing.T) {
	issuedAt := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	manager := newTestJWTManager(t, func() time.Time { return issuedAt })

	token, _, err := manager.Issue(domain.Account{ID: "acct-2", Email: "late@example.com"})
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	manager.WithClock(func() time.Time { return issuedAt.Add(2 * time.Hour) })

	if _, err := manager.Parse(token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestJWTManagerParseRejectsForeignSignature(t *testing.T) {
	fixed := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	manager := newTestJWTManager(t, func() time.Time { return fixed })

	other, err := NewJWTManager(config.JWTSettings{
		Secret:         "a-different-secret",
		Issuer:         "taskmg-api",
		Audience:       "taskmg-clients",
		AccessTokenTTL: time.Hour,
	})
	if err != nil {
		t.Fatalf("NewJWTManager returned error: %v", err)
	}
	other.WithClock(func() time.Time { return fixed })

	token, _, err := other.Issue(domain.Account{ID: "acct-3", Email: "forged@example.com"})
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	if _, err := manager.Parse(token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestJWTManagerParseRejectsGarbage(t *testing.T) {
	manager := newTestJWTManager(t, time.Now)
	if _, err := manager.Parse("not.a.token"); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
	if _, err := manager.Parse(""); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for empty token, got %v", err)
	}
}

func TestNewJWTManagerRequiresSecret(t *testing.T) {
	if _, err := NewJWTManager(config.JWTSettings{}); err == nil {
		t.Fatal("expected error for missing secret")
	}
}
