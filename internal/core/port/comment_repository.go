package port

import (
	"context"

	"github.com/skabera/TaskManagementSystem/internal/core/domain"
)

// CommentRepository abstracts persistence for task comments.
type CommentRepository interface {
	Create(ctx context.Context, comment domain.Comment) error
	ListByTask(ctx context.Context, taskID string, limit, offset int) ([]domain.Comment, error)
}
