package port

import (
	"context"
	"time"

	"github.com/skabera/TaskManagementSystem/internal/core/domain"
)

// AccountFilter narrows account listings.
type AccountFilter struct {
	Status   domain.AccountStatus
	IsActive *bool
	Limit    int
	Offset   int
}

// AccountRepository abstracts persistence for accounts.
type AccountRepository interface {
	Create(ctx context.Context, account domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	// GetByEmail performs a case-insensitive lookup.
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	Update(ctx context.Context, account domain.Account) error
	UpdatePassword(ctx context.Context, id, passwordHash, passwordAlgo string, changedAt time.Time) error
	MarkEmailVerified(ctx context.Context, id string, at time.Time) error
	RecordLogin(ctx context.Context, id string, at time.Time) error
	List(ctx context.Context, filter AccountFilter) ([]domain.Account, error)
	AssignRoles(ctx context.Context, accountID string, roleIDs []string) error
	GetAccountRoles(ctx context.Context, accountID string) ([]domain.AccountRole, error)
}
