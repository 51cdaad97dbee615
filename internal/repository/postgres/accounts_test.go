package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v2"

	"github.com/skabera/TaskManagementSystem/internal/core/domain"
	"github.com/skabera/TaskManagementSystem/internal/repository"
)

var accountRowColumns = []string{
	"id", "email", "first_name", "last_name", "password_hash", "password_algo",
	"status", "two_factor_enabled", "email_verified", "is_active", "created_at", "last_login",
}

func TestAccountRepository_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewAccountRepository(mock)

	createdAt := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	account := domain.Account{
		ID:               "acct-1",
		Email:            "Jane.Doe@Example.com",
		FirstName:        "Jane",
		LastName:         "Doe",
		PasswordHash:     "salt:hash",
		PasswordAlgo:     "argon2id",
		Status:           domain.AccountStatusPending,
		TwoFactorEnabled: true,
		CreatedAt:        createdAt,
	}

	mock.ExpectExec(`INSERT INTO taskmg\.accounts`).
		WithArgs(
			account.ID,
			"jane.doe@example.com",
			account.FirstName,
			account.LastName,
			account.PasswordHash,
			account.PasswordAlgo,
			account.Status,
			account.TwoFactorEnabled,
			account.EmailVerified,
			account.IsActive,
			account.CreatedAt,
			account.LastLogin,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	if err := repo.Create(context.Background(), account); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAccountRepository_CreateDuplicateEmail(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewAccountRepository(mock)

	account := domain.Account{
		ID:           "acct-2",
		Email:        "jane.doe@example.com",
		FirstName:    "Jane",
		LastName:     "Doe",
		PasswordHash: "salt:hash",
		PasswordAlgo: "argon2id",
		Status:       domain.AccountStatusPending,
		CreatedAt:    time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC),
	}

	mock.ExpectExec(`INSERT INTO taskmg\.accounts`).
		WithArgs(
			account.ID,
			account.Email,
			account.FirstName,
			account.LastName,
			account.PasswordHash,
			account.PasswordAlgo,
			account.Status,
			account.TwoFactorEnabled,
			account.EmailVerified,
			account.IsActive,
			account.CreatedAt,
			account.LastLogin,
		).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "accounts_email_key"})

	if err := repo.Create(context.Background(), account); !errors.Is(err, repository.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAccountRepository_GetByEmail(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewAccountRepository(mock)

	createdAt := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	lastLogin := createdAt.Add(time.Hour)

	rows := pgxmock.NewRows(accountRowColumns).AddRow(
		"acct-1", "jane.doe@example.com", "Jane", "Doe", "salt:hash", "argon2id",
		domain.AccountStatusActive, true, true, true, createdAt, &lastLogin,
	)

	mock.ExpectQuery(`SELECT .*FROM taskmg\.accounts`).
		WithArgs("jane.doe@example.com").
		WillReturnRows(rows)

	account, err := repo.GetByEmail(context.Background(), "  Jane.Doe@Example.com ")
	if err != nil {
		t.Fatalf("GetByEmail returned error: %v", err)
	}
	if account.ID != "acct-1" {
		t.Fatalf("expected account acct-1, got %s", account.ID)
	}
	if account.LastLogin == nil || !account.LastLogin.Equal(lastLogin) {
		t.Fatalf("expected last login populated")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAccountRepository_GetByIDNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewAccountRepository(mock)

	mock.ExpectQuery(`SELECT .*FROM taskmg\.accounts`).
		WithArgs("acct-ghost").
		WillReturnRows(pgxmock.NewRows(accountRowColumns))

	if _, err := repo.GetByID(context.Background(), "acct-ghost"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAccountRepository_UpdateNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewAccountRepository(mock)

	mock.ExpectExec(`UPDATE taskmg\.accounts`).
		WithArgs("Jane", "Doe", domain.AccountStatusActive, false, true, true, "acct-ghost").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	account := domain.Account{
		ID:            "acct-ghost",
		FirstName:     "Jane",
		LastName:      "Doe",
		Status:        domain.AccountStatusActive,
		EmailVerified: true,
		IsActive:      true,
	}

	if err := repo.Update(context.Background(), account); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAccountRepository_MarkEmailVerified(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewAccountRepository(mock)

	verifiedAt := time.Date(2026, 6, 1, 10, 5, 0, 0, time.UTC)

	mock.ExpectExec(`UPDATE taskmg\.accounts`).
		WithArgs(true, verifiedAt, domain.AccountStatusActive, "acct-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	if err := repo.MarkEmailVerified(context.Background(), "acct-1", verifiedAt); err != nil {
		t.Fatalf("MarkEmailVerified returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAccountRepository_AssignRolesIgnoresEmptyInput(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewAccountRepository(mock)

	if err := repo.AssignRoles(context.Background(), "acct-1", nil); err != nil {
		t.Fatalf("AssignRoles returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAccountRepository_GetAccountRoles(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewAccountRepository(mock)

	assignedAt := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)

	rows := pgxmock.NewRows([]string{"account_id", "role_id", "assigned_at"}).
		AddRow("acct-1", "role-admin", assignedAt).
		AddRow("acct-1", "role-manager", assignedAt.Add(time.Minute))

	mock.ExpectQuery(`SELECT .*FROM taskmg\.account_roles`).
		WithArgs("acct-1").
		WillReturnRows(rows)

	links, err := repo.GetAccountRoles(context.Background(), "acct-1")
	if err != nil {
		t.Fatalf("GetAccountRoles returned error: %v", err)
	}
	if len(links) != 2 {
		t.Fatalf("expected two role links, got %d", len(links))
	}
	if links[0].RoleID != "role-admin" || links[1].RoleID != "role-manager" {
		t.Fatalf("unexpected role link order: %+v", links)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
