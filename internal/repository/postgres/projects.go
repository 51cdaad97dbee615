package postgres

import (
	"context"
	"errors"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/skabera/TaskManagementSystem/internal/core/domain"
	"github.com/skabera/TaskManagementSystem/internal/core/port"
	"github.com/skabera/TaskManagementSystem/internal/repository"
)

// ProjectRepository implements port.ProjectRepository using PostgreSQL.
type ProjectRepository struct {
	pool    *pgxpool.Pool
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewProjectRepository constructs a repository backed by any executor that
// satisfies pgExecutor.
func NewProjectRepository(exec pgExecutor) *ProjectRepository {
	repo := &ProjectRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
	if pool, ok := exec.(*pgxpool.Pool); ok {
		repo.pool = pool
	}
	return repo
}

// Create inserts a new project row.
func (r *ProjectRepository) Create(ctx context.Context, project domain.Project) error {
	sql, args, err := r.builder.Insert("taskmg.projects").
		Columns("id", "name", "description", "start_date", "end_date", "created_at").
		Values(
			project.ID,
			project.Name,
			project.Description,
			project.StartDate,
			project.EndDate,
			project.CreatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert project sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert project: %w", err)
	}

	return nil
}

// GetByID retrieves a project by identifier.
func (r *ProjectRepository) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	stmt, args, err := r.builder.
		Select("id", "name", "description", "start_date", "end_date", "created_at").
		From("taskmg.projects").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select project sql: %w", err)
	}

	var project domain.Project
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(
		&project.ID,
		&project.Name,
		&project.Description,
		&project.StartDate,
		&project.EndDate,
		&project.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan project: %w", err)
	}

	return &project, nil
}

// List returns projects ordered by creation time, newest first.
func (r *ProjectRepository) List(ctx context.Context, limit, offset int) ([]domain.Project, error) {
	query := r.builder.
		Select("id", "name", "description", "start_date", "end_date", "created_at").
		From("taskmg.projects").
		OrderBy("created_at DESC")

	if limit > 0 {
		query = query.Limit(uint64(limit))
	}
	if offset > 0 {
		query = query.Offset(uint64(offset))
	}

	stmt, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list projects sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var projects []domain.Project
	for rows.Next() {
		var project domain.Project
		if err := rows.Scan(
			&project.ID,
			&project.Name,
			&project.Description,
			&project.StartDate,
			&project.EndDate,
			&project.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, project)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate projects: %w", err)
	}

	return projects, nil
}

var _ port.ProjectRepository = (*ProjectRepository)(nil)
