package port

import (
	"context"

	"github.com/skabera/TaskManagementSystem/internal/core/domain"
)

// TaskFilter narrows task listings.
type TaskFilter struct {
	ProjectID    string
	AssignedToID string
	Status       domain.TaskStatus
	Limit        int
	Offset       int
}

// TaskRepository abstracts persistence for tasks.
type TaskRepository interface {
	Create(ctx context.Context, task domain.Task) error
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	List(ctx context.Context, filter TaskFilter) ([]domain.Task, error)
	UpdateStatus(ctx context.Context, id string, status domain.TaskStatus) error
	UpdateAssignee(ctx context.Context, id string, assigneeID *string) error
	SoftDelete(ctx context.Context, id string) error
}
