package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v2"

	"github.com/skabera/TaskManagementSystem/internal/core/domain"
	"github.com/skabera/TaskManagementSystem/internal/repository"
)

func TestTokenRepository_CreateRefreshToken(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewTokenRepository(mock)

	createdAt := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	ip := "203.0.113.50"
	token := domain.RefreshToken{
		ID:        "token-1",
		AccountID: "acct-1",
		TokenHash: "abc123hash",
		IP:        &ip,
		CreatedAt: createdAt,
		ExpiresAt: createdAt.Add(7 * 24 * time.Hour),
	}

	mock.ExpectExec(`INSERT INTO taskmg\.refresh_tokens`).
		WithArgs(
			token.ID,
			token.AccountID,
			token.TokenHash,
			token.IP,
			token.UserAgent,
			token.CreatedAt,
			token.ExpiresAt,
			token.RevokedAt,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	if err := repo.CreateRefreshToken(context.Background(), token); err != nil {
		t.Fatalf("CreateRefreshToken returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTokenRepository_GetRefreshTokenByHash(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewTokenRepository(mock)

	createdAt := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	ip := "203.0.113.50"

	rows := pgxmock.NewRows([]string{
		"id", "account_id", "token_hash", "ip", "user_agent", "created_at", "expires_at", "revoked_at",
	}).AddRow(
		"token-1", "acct-1", "abc123hash", &ip, nil, createdAt, createdAt.Add(7*24*time.Hour), nil,
	)

	mock.ExpectQuery(`SELECT .*FROM taskmg\.refresh_tokens`).
		WithArgs("abc123hash").
		WillReturnRows(rows)

	token, err := repo.GetRefreshTokenByHash(context.Background(), "abc123hash")
	if err != nil {
		t.Fatalf("GetRefreshTokenByHash returned error: %v", err)
	}
	if token.ID != "token-1" || token.AccountID != "acct-1" {
		t.Fatalf("unexpected token: %+v", token)
	}
	if token.IP == nil || *token.IP != ip {
		t.Fatalf("expected ip pointer populated")
	}
	if token.RevokedAt != nil {
		t.Fatalf("expected token not revoked")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTokenRepository_GetRefreshTokenByHashNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewTokenRepository(mock)

	mock.ExpectQuery(`SELECT .*FROM taskmg\.refresh_tokens`).
		WithArgs("missing-hash").
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "account_id", "token_hash", "ip", "user_agent", "created_at", "expires_at", "revoked_at",
		}))

	if _, err := repo.GetRefreshTokenByHash(context.Background(), "missing-hash"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTokenRepository_RevokeRefreshToken(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewTokenRepository(mock)

	fixed := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	repo.WithClock(func() time.Time { return fixed })

	mock.ExpectExec(`UPDATE taskmg\.refresh_tokens`).
		WithArgs(fixed, "token-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	if err := repo.RevokeRefreshToken(context.Background(), "token-1"); err != nil {
		t.Fatalf("RevokeRefreshToken returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTokenRepository_RevokeRefreshTokenAlreadyRevoked(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewTokenRepository(mock)

	mock.ExpectExec(`UPDATE taskmg\.refresh_tokens`).
		WithArgs(pgxmock.AnyArg(), "token-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	if err := repo.RevokeRefreshToken(context.Background(), "token-1"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTokenRepository_RevokeRefreshTokensForAccount(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewTokenRepository(mock)

	mock.ExpectExec(`UPDATE taskmg\.refresh_tokens`).
		WithArgs(pgxmock.AnyArg(), "acct-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 3))

	count, err := repo.RevokeRefreshTokensForAccount(context.Background(), "acct-1")
	if err != nil {
		t.Fatalf("RevokeRefreshTokensForAccount returned error: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected three revocations, got %d", count)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
