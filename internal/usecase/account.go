package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	uuid "github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/skabera/TaskManagementSystem/internal/core/domain"
	"github.com/skabera/TaskManagementSystem/internal/core/port"
	"github.com/skabera/TaskManagementSystem/internal/infra/security"
	"github.com/skabera/TaskManagementSystem/internal/repository"
)

// ErrAccountNotFound indicates the requested account does not exist.
var ErrAccountNotFound = errors.New("account not found")

// AccountService exposes administrative account operations.
type AccountService struct {
	accounts          port.AccountRepository
	roles             port.RoleRepository
	audit             port.AuditRepository
	passwordValidator *security.PasswordValidator
	logger            *zap.Logger
	now               func() time.Time
}

// NewAccountService constructs an AccountService instance.
func NewAccountService(accounts port.AccountRepository, roles port.RoleRepository, audit port.AuditRepository, validator *security.PasswordValidator, log *zap.Logger) *AccountService {
	if validator == nil {
		validator = security.DefaultPasswordValidator()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &AccountService{
		accounts:          accounts,
		roles:             roles,
		audit:             audit,
		passwordValidator: validator,
		logger:            log,
		now:               time.Now,
	}
}

// GetByID fetches a single account without its password hash.
func (s *AccountService) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("lookup account: %w", err)
	}

	account.PasswordHash = ""
	return account, nil
}

// List returns accounts matching the filter without password hashes.
func (s *AccountService) List(ctx context.Context, filter port.AccountFilter) ([]domain.Account, error) {
	accounts, err := s.accounts.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}

	for i := range accounts {
		accounts[i].PasswordHash = ""
	}
	return accounts, nil
}

// AdminCreateInput captures an admin-initiated account creation. The
// account is born active and verified; no OTP challenge is issued.
type AdminCreateInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	ActorID   string
}

// AdminCreate provisions an account directly, bypassing the two-factor
// onboarding flow.
func (s *AccountService) AdminCreate(ctx context.Context, input AdminCreateInput) (domain.Account, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	firstName := strings.TrimSpace(input.FirstName)
	lastName := strings.TrimSpace(input.LastName)

	var violations []string
	if email == "" {
		violations = append(violations, "email is required")
	} else if _, err := mail.ParseAddress(email); err != nil {
		violations = append(violations, "email format is invalid")
	}
	if firstName == "" {
		violations = append(violations, "first name is required")
	}
	if lastName == "" {
		violations = append(violations, "last name is required")
	}
	if input.Password == "" {
		violations = append(violations, "password is required")
	} else if err := s.passwordValidator.Validate(input.Password, email, firstName, lastName); err != nil {
		violations = append(violations, err.Error())
	}
	if len(violations) > 0 {
		return domain.Account{}, &ValidationError{Messages: violations}
	}

	if existing, err := s.accounts.GetByEmail(ctx, email); err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return domain.Account{}, fmt.Errorf("lookup account: %w", err)
		}
	} else if existing != nil {
		return domain.Account{}, ErrEmailTaken
	}

	passwordHash, err := security.HashPassword(input.Password)
	if err != nil {
		return domain.Account{}, fmt.Errorf("hash password: %w", err)
	}

	now := s.now().UTC()
	account := domain.Account{
		ID:            uuid.NewString(),
		Email:         email,
		FirstName:     firstName,
		LastName:      lastName,
		PasswordHash:  passwordHash,
		PasswordAlgo:  "argon2id",
		Status:        domain.AccountStatusActive,
		EmailVerified: true,
		IsActive:      true,
		CreatedAt:     now,
	}

	if err := s.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return domain.Account{}, ErrEmailTaken
		}
		return domain.Account{}, fmt.Errorf("create account: %w", err)
	}

	s.auditAction(ctx, "account.admin_created", account.ID, input.ActorID, now)

	account.PasswordHash = ""
	return account, nil
}

// UpdateInput captures mutable profile fields. Nil pointers leave the
// current value untouched.
type UpdateInput struct {
	ID               string
	FirstName        *string
	LastName         *string
	TwoFactorEnabled *bool
	IsActive         *bool
	ActorID          string
}

// Update applies profile changes to an existing account.
func (s *AccountService) Update(ctx context.Context, input UpdateInput) (domain.Account, error) {
	account, err := s.accounts.GetByID(ctx, input.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Account{}, ErrAccountNotFound
		}
		return domain.Account{}, fmt.Errorf("lookup account: %w", err)
	}

	if input.FirstName != nil {
		if name := strings.TrimSpace(*input.FirstName); name != "" {
			account.FirstName = name
		}
	}
	if input.LastName != nil {
		if name := strings.TrimSpace(*input.LastName); name != "" {
			account.LastName = name
		}
	}
	if input.TwoFactorEnabled != nil {
		account.TwoFactorEnabled = *input.TwoFactorEnabled
	}
	if input.IsActive != nil {
		account.IsActive = *input.IsActive
		if account.IsActive {
			account.Status = domain.AccountStatusActive
		} else {
			account.Status = domain.AccountStatusDisabled
		}
	}

	if err := s.accounts.Update(ctx, *account); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Account{}, ErrAccountNotFound
		}
		return domain.Account{}, fmt.Errorf("update account: %w", err)
	}

	s.auditAction(ctx, "account.updated", account.ID, input.ActorID, s.now().UTC())

	account.PasswordHash = ""
	return *account, nil
}

// ResetPassword replaces the account password on behalf of an admin.
func (s *AccountService) ResetPassword(ctx context.Context, id, newPassword, actorID string) error {
	if newPassword == "" {
		return &ValidationError{Messages: []string{"password is required"}}
	}
	if err := s.passwordValidator.Validate(newPassword); err != nil {
		return &ValidationError{Messages: []string{err.Error()}}
	}

	passwordHash, err := security.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	now := s.now().UTC()
	if err := s.accounts.UpdatePassword(ctx, id, passwordHash, "argon2id", now); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrAccountNotFound
		}
		return fmt.Errorf("update password: %w", err)
	}

	s.auditAction(ctx, "account.password_reset", id, actorID, now)
	return nil
}

// RolesFor returns the roles assigned to the account.
func (s *AccountService) RolesFor(ctx context.Context, accountID string) ([]domain.Role, error) {
	roles, err := s.roles.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("list account roles: %w", err)
	}
	return roles, nil
}

func (s *AccountService) auditAction(ctx context.Context, action, entityID, actorID string, now time.Time) {
	if s.audit == nil {
		return
	}

	entry := domain.AuditEntry{
		ID:         uuid.NewString(),
		Action:     action,
		EntityType: "account",
		CreatedAt:  now,
	}
	if entityID != "" {
		entry.EntityID = &entityID
	}
	if actorID != "" {
		entry.ActorID = &actorID
	}

	if err := s.audit.Record(ctx, entry); err != nil {
		s.logger.Warn("audit record failed", zap.String("action", action), zap.Error(err))
	}
}
