package port

import (
	"context"

	"github.com/skabera/TaskManagementSystem/internal/core/domain"
)

// RoleRepository abstracts persistence for roles.
type RoleRepository interface {
	Create(ctx context.Context, role domain.Role) error
	GetByName(ctx context.Context, name string) (*domain.Role, error)
	List(ctx context.Context) ([]domain.Role, error)
	// ListByAccount returns the roles assigned to the account.
	ListByAccount(ctx context.Context, accountID string) ([]domain.Role, error)
}
