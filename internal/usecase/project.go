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

// ErrProjectNotFound indicates the requested project does not exist.
var ErrProjectNotFound = errors.New("project not found")

// ProjectService coordinates project operations.
type ProjectService struct {
	projects port.ProjectRepository
	audit    port.AuditRepository
	logger   *zap.Logger
	now      func() time.Time
}

// NewProjectService constructs a ProjectService instance.
func NewProjectService(projects port.ProjectRepository, audit port.AuditRepository, log *zap.Logger) *ProjectService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ProjectService{
		projects: projects,
		audit:    audit,
		logger:   log,
		now:      time.Now,
	}
}

// CreateProjectInput captures a project creation request.
type CreateProjectInput struct {
	Name        string
	Description string
	StartDate   *time.Time
	EndDate     *time.Time
	ActorID     string
}

// Create validates and inserts a new project.
func (s *ProjectService) Create(ctx context.Context, input CreateProjectInput) (domain.Project, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return domain.Project{}, &ValidationError{Messages: []string{"name is required"}}
	}
	if input.StartDate != nil && input.EndDate != nil && input.EndDate.Before(*input.StartDate) {
		return domain.Project{}, &ValidationError{Messages: []string{"end date must not precede start date"}}
	}

	now := s.now().UTC()
	project := domain.Project{
		ID:          uuid.NewString(),
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		CreatedAt:   now,
	}

	if err := s.projects.Create(ctx, project); err != nil {
		return domain.Project{}, fmt.Errorf("create project: %w", err)
	}

	if s.audit != nil {
		entry := domain.AuditEntry{
			ID:         uuid.NewString(),
			Action:     "project.created",
			EntityType: "project",
			EntityID:   &project.ID,
			CreatedAt:  now,
		}
		if input.ActorID != "" {
			actor := input.ActorID
			entry.ActorID = &actor
		}
		if err := s.audit.Record(ctx, entry); err != nil {
			s.logger.Warn("audit record failed", zap.String("action", "project.created"), zap.Error(err))
		}
	}

	return project, nil
}

// GetByID fetches a single project.
func (s *ProjectService) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	project, err := s.projects.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("lookup project: %w", err)
	}
	return project, nil
}

// List returns projects newest first.
func (s *ProjectService) List(ctx context.Context, limit, offset int) ([]domain.Project, error) {
	projects, err := s.projects.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return projects, nil
}
