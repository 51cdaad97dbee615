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
	// ErrTaskNotFound indicates the requested task does not exist or was deleted.
	ErrTaskNotFound = errors.New("task not found")
	// ErrInvalidTaskStatus indicates an unknown status value.
	ErrInvalidTaskStatus = errors.New("invalid task status")
	// ErrInvalidTaskPriority indicates an unknown priority value.
	ErrInvalidTaskPriority = errors.New("invalid task priority")
)

// TaskService coordinates task lifecycle operations.
type TaskService struct {
	tasks    port.TaskRepository
	projects port.ProjectRepository
	accounts port.AccountRepository
	audit    port.AuditRepository
	logger   *zap.Logger
	now      func() time.Time
}

// NewTaskService constructs a TaskService instance.
func NewTaskService(tasks port.TaskRepository, projects port.ProjectRepository, accounts port.AccountRepository, audit port.AuditRepository, log *zap.Logger) *TaskService {
	if log == nil {
		log = zap.NewNop()
	}
	return &TaskService{
		tasks:    tasks,
		projects: projects,
		accounts: accounts,
		audit:    audit,
		logger:   log,
		now:      time.Now,
	}
}

// CreateTaskInput captures a task creation request.
type CreateTaskInput struct {
	ProjectID    string
	Title        string
	Description  string
	Priority     string
	AssignedToID string
	CreatedByID  string
	DueDate      *time.Time
}

// Create validates references and inserts a new pending task.
func (s *TaskService) Create(ctx context.Context, input CreateTaskInput) (domain.Task, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return domain.Task{}, &ValidationError{Messages: []string{"title is required"}}
	}
	if input.CreatedByID == "" {
		return domain.Task{}, &ValidationError{Messages: []string{"creator is required"}}
	}

	priority := domain.TaskPriorityMedium
	if raw := strings.TrimSpace(input.Priority); raw != "" {
		priority = domain.TaskPriority(raw)
		if !domain.ValidTaskPriority(priority) {
			return domain.Task{}, ErrInvalidTaskPriority
		}
	}

	if projectID := strings.TrimSpace(input.ProjectID); projectID != "" {
		if _, err := s.projects.GetByID(ctx, projectID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return domain.Task{}, ErrProjectNotFound
			}
			return domain.Task{}, fmt.Errorf("lookup project: %w", err)
		}
	}

	if assignee := strings.TrimSpace(input.AssignedToID); assignee != "" {
		if _, err := s.accounts.GetByID(ctx, assignee); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return domain.Task{}, ErrAccountNotFound
			}
			return domain.Task{}, fmt.Errorf("lookup assignee: %w", err)
		}
	}

	now := s.now().UTC()
	task := domain.Task{
		ID:          uuid.NewString(),
		Title:       title,
		Description: strings.TrimSpace(input.Description),
		Status:      domain.TaskStatusPending,
		Priority:    priority,
		CreatedByID: input.CreatedByID,
		DueDate:     input.DueDate,
		CreatedAt:   now,
	}
	if projectID := strings.TrimSpace(input.ProjectID); projectID != "" {
		task.ProjectID = &projectID
	}
	if assignee := strings.TrimSpace(input.AssignedToID); assignee != "" {
		task.AssignedToID = &assignee
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		return domain.Task{}, fmt.Errorf("create task: %w", err)
	}

	s.auditAction(ctx, "task.created", task.ID, input.CreatedByID, now)

	return task, nil
}

// GetByID fetches a single non-deleted task.
func (s *TaskService) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("lookup task: %w", err)
	}
	return task, nil
}

// List returns non-deleted tasks matching the filter.
func (s *TaskService) List(ctx context.Context, filter port.TaskFilter) ([]domain.Task, error) {
	if filter.Status != "" && !domain.ValidTaskStatus(filter.Status) {
		return nil, ErrInvalidTaskStatus
	}

	tasks, err := s.tasks.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// UpdateStatus validates and applies a status change.
func (s *TaskService) UpdateStatus(ctx context.Context, id, status, actorID string) (*domain.Task, error) {
	next := domain.TaskStatus(strings.TrimSpace(status))
	if !domain.ValidTaskStatus(next) {
		return nil, ErrInvalidTaskStatus
	}

	if err := s.tasks.UpdateStatus(ctx, id, next); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("update task status: %w", err)
	}

	s.auditAction(ctx, "task.status_changed", id, actorID, s.now().UTC())

	return s.GetByID(ctx, id)
}

// Reassign changes or clears the task assignee.
func (s *TaskService) Reassign(ctx context.Context, id string, assigneeID *string, actorID string) (*domain.Task, error) {
	if assigneeID != nil {
		trimmed := strings.TrimSpace(*assigneeID)
		if trimmed == "" {
			assigneeID = nil
		} else {
			if _, err := s.accounts.GetByID(ctx, trimmed); err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return nil, ErrAccountNotFound
				}
				return nil, fmt.Errorf("lookup assignee: %w", err)
			}
			assigneeID = &trimmed
		}
	}

	if err := s.tasks.UpdateAssignee(ctx, id, assigneeID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("update task assignee: %w", err)
	}

	s.auditAction(ctx, "task.reassigned", id, actorID, s.now().UTC())

	return s.GetByID(ctx, id)
}

// Delete soft-deletes the task; it disappears from listings but the row
// survives.
func (s *TaskService) Delete(ctx context.Context, id, actorID string) error {
	if err := s.tasks.SoftDelete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("soft delete task: %w", err)
	}

	s.auditAction(ctx, "task.deleted", id, actorID, s.now().UTC())
	return nil
}

func (s *TaskService) auditAction(ctx context.Context, action, entityID, actorID string, now time.Time) {
	if s.audit == nil {
		return
	}

	entry := domain.AuditEntry{
		ID:         uuid.NewString(),
		Action:     action,
		EntityType: "task",
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
