package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	uuid "github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/skabera/TaskManagementSystem/internal/core/domain"
	"github.com/skabera/TaskManagementSystem/internal/core/port"
	"github.com/skabera/TaskManagementSystem/internal/repository"
)

var (
	// ErrRoleNotFound indicates the requested role does not exist.
	ErrRoleNotFound = errors.New("role not found")
	// ErrRoleExists indicates a role with this name already exists.
	ErrRoleExists = errors.New("role already exists")
)

// RoleService coordinates role management and assignment.
type RoleService struct {
	roles    port.RoleRepository
	accounts port.AccountRepository
	audit    port.AuditRepository
	logger   *zap.Logger
	now      func() time.Time
}

// NewRoleService constructs a RoleService instance.
func NewRoleService(roles port.RoleRepository, accounts port.AccountRepository, audit port.AuditRepository, log *zap.Logger) *RoleService {
	if log == nil {
		log = zap.NewNop()
	}
	return &RoleService{
		roles:    roles,
		accounts: accounts,
		audit:    audit,
		logger:   log,
		now:      time.Now,
	}
}

// Create inserts a new role with a unique name.
func (s *RoleService) Create(ctx context.Context, name, description, actorID string) (domain.Role, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Role{}, &ValidationError{Messages: []string{"name is required"}}
	}

	if existing, err := s.roles.GetByName(ctx, name); err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return domain.Role{}, fmt.Errorf("lookup role: %w", err)
		}
	} else if existing != nil {
		return domain.Role{}, ErrRoleExists
	}

	now := s.now().UTC()
	role := domain.Role{
		ID:          uuid.NewString(),
		Name:        name,
		Description: strings.TrimSpace(description),
		CreatedAt:   now,
	}

	if err := s.roles.Create(ctx, role); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return domain.Role{}, ErrRoleExists
		}
		return domain.Role{}, fmt.Errorf("create role: %w", err)
	}

	if s.audit != nil {
		entry := domain.AuditEntry{
			ID:         uuid.NewString(),
			Action:     "role.created",
			EntityType: "role",
			EntityID:   &role.ID,
			CreatedAt:  now,
		}
		if actorID != "" {
			entry.ActorID = &actorID
		}
		if err := s.audit.Record(ctx, entry); err != nil {
			s.logger.Warn("audit record failed", zap.String("action", "role.created"), zap.Error(err))
		}
	}

	return role, nil
}

// List returns every role.
func (s *RoleService) List(ctx context.Context) ([]domain.Role, error) {
	roles, err := s.roles.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	return roles, nil
}

// Assign links the named role to the account.
func (s *RoleService) Assign(ctx context.Context, accountID, roleName, actorID string) error {
	if _, err := s.accounts.GetByID(ctx, accountID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrAccountNotFound
		}
		return fmt.Errorf("lookup account: %w", err)
	}

	role, err := s.roles.GetByName(ctx, roleName)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrRoleNotFound
		}
		return fmt.Errorf("lookup role: %w", err)
	}

	if err := s.accounts.AssignRoles(ctx, accountID, []string{role.ID}); err != nil {
		return fmt.Errorf("assign role: %w", err)
	}

	if s.audit != nil {
		entry := domain.AuditEntry{
			ID:         uuid.NewString(),
			Action:     "role.assigned",
			EntityType: "account",
			EntityID:   &accountID,
			CreatedAt:  s.now().UTC(),
		}
		if actorID != "" {
			entry.ActorID = &actorID
		}
		if err := s.audit.Record(ctx, entry); err != nil {
			s.logger.Warn("audit record failed", zap.String("action", "role.assigned"), zap.Error(err))
		}
	}

	return nil
}
