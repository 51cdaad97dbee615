package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/skabera/TaskManagementSystem/internal/core/domain"
	"github.com/skabera/TaskManagementSystem/internal/infra/security"
)

func TestAccountService_AdminCreateBypassesOnboarding(t *testing.T) {
	fixed := time.Date(2026, 5, 6, 9, 0, 0, 0, time.UTC)
	accounts := newAccountRepoMock()
	audit := &auditRepoMock{}
	svc := NewAccountService(accounts, newRoleRepoMock(), audit, security.DefaultPasswordValidator(), nil)
	svc.now = func() time.Time { return fixed }

	account, err := svc.AdminCreate(context.Background(), AdminCreateInput{
		Email:     "Provisioned@Example.com",
		Password:  "Nightfall#Cascade2026",
		FirstName: "Pro",
		LastName:  "Visioned",
		ActorID:   "acct-admin",
	})
	if err != nil {
		t.Fatalf("AdminCreate returned error: %v", err)
	}

	if account.Status != domain.AccountStatusActive {
		t.Fatalf("expected active status, got %s", account.Status)
	}
	if !account.EmailVerified {
		t.Fatal("expected email pre-verified for admin-created account")
	}
	if account.TwoFactorEnabled {
		t.Fatal("expected two-factor off by default for admin-created account")
	}
	if account.PasswordHash != "" {
		t.Fatal("expected password hash stripped from result")
	}
	if len(audit.entries) != 1 || audit.entries[0].Action != "account.admin_created" {
		t.Fatalf("expected account.admin_created audit entry, got %v", audit.actions())
	}
}

func TestAccountService_AdminCreateRejectsDuplicate(t *testing.T) {
	existing := domain.Account{ID: "acct-1", Email: "taken@example.com"}
	svc := NewAccountService(newAccountRepoMock(existing), newRoleRepoMock(), nil, security.DefaultPasswordValidator(), nil)

	_, err := svc.AdminCreate(context.Background(), AdminCreateInput{
		Email:     "taken@example.com",
		Password:  "Nightfall#Cascade2026",
		FirstName: "Du",
		LastName:  "Plicate",
	})
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestAccountService_UpdateTogglesActivation(t *testing.T) {
	fixed := time.Date(2026, 5, 6, 10, 0, 0, 0, time.UTC)
	existing := domain.Account{
		ID:        "acct-1",
		Email:     "toggle@example.com",
		FirstName: "Old",
		LastName:  "Name",
		Status:    domain.AccountStatusActive,
		IsActive:  true,
	}
	accounts := newAccountRepoMock(existing)
	svc := NewAccountService(accounts, newRoleRepoMock(), &auditRepoMock{}, nil, nil)
	svc.now = func() time.Time { return fixed }

	inactive := false
	newFirst := "New"
	account, err := svc.Update(context.Background(), UpdateInput{
		ID:        "acct-1",
		FirstName: &newFirst,
		IsActive:  &inactive,
		ActorID:   "acct-admin",
	})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	if account.FirstName != "New" {
		t.Fatalf("expected first name updated, got %s", account.FirstName)
	}
	if account.LastName != "Name" {
		t.Fatalf("expected last name untouched, got %s", account.LastName)
	}
	if account.IsActive || account.Status != domain.AccountStatusDisabled {
		t.Fatalf("expected deactivation to disable the account, got active=%v status=%s", account.IsActive, account.Status)
	}
}

func TestAccountService_UpdateUnknownAccount(t *testing.T) {
	svc := NewAccountService(newAccountRepoMock(), newRoleRepoMock(), nil, nil, nil)
	if _, err := svc.Update(context.Background(), UpdateInput{ID: "acct-ghost"}); !errors.Is(err, ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestAccountService_ResetPasswordValidatesPolicy(t *testing.T) {
	accounts := newAccountRepoMock(domain.Account{ID: "acct-1", Email: "reset@example.com"})
	svc := NewAccountService(accounts, newRoleRepoMock(), &auditRepoMock{}, security.DefaultPasswordValidator(), nil)

	var validationErr *ValidationError
	if err := svc.ResetPassword(context.Background(), "acct-1", "weak", "acct-admin"); !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError for weak password, got %v", err)
	}

	if err := svc.ResetPassword(context.Background(), "acct-1", "Nightfall#Cascade2026", "acct-admin"); err != nil {
		t.Fatalf("ResetPassword returned error: %v", err)
	}
}

func TestAccountService_GetByIDStripsHash(t *testing.T) {
	existing := domain.Account{ID: "acct-1", Email: "peek@example.com", PasswordHash: "secret-hash"}
	svc := NewAccountService(newAccountRepoMock(existing), newRoleRepoMock(), nil, nil, nil)

	account, err := svc.GetByID(context.Background(), "acct-1")
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	if account.PasswordHash != "" {
		t.Fatal("expected password hash stripped")
	}

	if _, err := svc.GetByID(context.Background(), "acct-ghost"); !errors.Is(err, ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestAccountService_RolesFor(t *testing.T) {
	roles := newRoleRepoMock()
	roles.roles["acct-1"] = []domain.Role{{ID: "role-admin", Name: "Admin"}}
	svc := NewAccountService(newAccountRepoMock(), roles, nil, nil, nil)

	got, err := svc.RolesFor(context.Background(), "acct-1")
	if err != nil {
		t.Fatalf("RolesFor returned error: %v", err)
	}
	if len(got) != 1 || got[0].Name != "Admin" {
		t.Fatalf("expected Admin role, got %v", got)
	}
}
