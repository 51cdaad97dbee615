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

// CommentService coordinates task comment operations.
type CommentService struct {
	comments port.CommentRepository
	tasks    port.TaskRepository
	logger   *zap.Logger
	now      func() time.Time
}

// NewCommentService constructs a CommentService instance.
func NewCommentService(comments port.CommentRepository, tasks port.TaskRepository, log *zap.Logger) *CommentService {
	if log == nil {
		log = zap.NewNop()
	}
	return &CommentService{
		comments: comments,
		tasks:    tasks,
		logger:   log,
		now:      time.Now,
	}
}

// Create validates the target task and appends a comment.
func (s *CommentService) Create(ctx context.Context, taskID, authorID, content string) (domain.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return domain.Comment{}, &ValidationError{Messages: []string{"content is required"}}
	}
	if authorID == "" {
		return domain.Comment{}, &ValidationError{Messages: []string{"author is required"}}
	}

	if _, err := s.tasks.GetByID(ctx, taskID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Comment{}, ErrTaskNotFound
		}
		return domain.Comment{}, fmt.Errorf("lookup task: %w", err)
	}

	comment := domain.Comment{
		ID:        uuid.NewString(),
		TaskID:    taskID,
		AuthorID:  authorID,
		Content:   content,
		CreatedAt: s.now().UTC(),
	}

	if err := s.comments.Create(ctx, comment); err != nil {
		return domain.Comment{}, fmt.Errorf("create comment: %w", err)
	}

	return comment, nil
}

// ListByTask returns a task's comments in chronological order.
func (s *CommentService) ListByTask(ctx context.Context, taskID string, limit, offset int) ([]domain.Comment, error) {
	if _, err := s.tasks.GetByID(ctx, taskID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("lookup task: %w", err)
	}

	comments, err := s.comments.ListByTask(ctx, taskID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return comments, nil
}
