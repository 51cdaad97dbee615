package port

import (
	"context"

	"github.com/skabera/TaskManagementSystem/internal/core/domain"
)

// ProjectRepository abstracts persistence for projects.
type ProjectRepository interface {
	Create(ctx context.Context, project domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context, limit, offset int) ([]domain.Project, error)
}
