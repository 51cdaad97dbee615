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

// TaskRepository implements port.TaskRepository using PostgreSQL.
type TaskRepository struct {
	pool    *pgxpool.Pool
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewTaskRepository constructs a repository backed by any executor that
// satisfies pgExecutor.
func NewTaskRepository(exec pgExecutor) *TaskRepository {
	repo := &TaskRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
	if pool, ok := exec.(*pgxpool.Pool); ok {
		repo.pool = pool
	}
	return repo
}

// WithTx returns a repository instance executing within the supplied transaction.
func (r *TaskRepository) WithTx(tx pgx.Tx) *TaskRepository {
	if tx == nil {
		return r
	}
	return &TaskRepository{
		pool:    r.pool,
		exec:    tx,
		builder: r.builder,
	}
}

// Create inserts a new task row.
func (r *TaskRepository) Create(ctx context.Context, task domain.Task) error {
	sql, args, err := r.builder.Insert("taskmg.tasks").
		Columns(
			"id",
			"project_id",
			"title",
			"description",
			"status",
			"priority",
			"assigned_to_id",
			"created_by_id",
			"due_date",
			"created_at",
			"is_deleted",
		).
		Values(
			task.ID,
			task.ProjectID,
			task.Title,
			task.Description,
			task.Status,
			task.Priority,
			task.AssignedToID,
			task.CreatedByID,
			task.DueDate,
			task.CreatedAt,
			task.IsDeleted,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert task sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert task: %w", err)
	}

	return nil
}

func (r *TaskRepository) selectTasks() squirrel.SelectBuilder {
	return r.builder.Select(
		"id",
		"project_id",
		"title",
		"description",
		"status",
		"priority",
		"assigned_to_id",
		"created_by_id",
		"due_date",
		"created_at",
		"is_deleted",
	).From("taskmg.tasks")
}

func scanTask(row pgx.Row) (*domain.Task, error) {
	var task domain.Task

	if err := row.Scan(
		&task.ID,
		&task.ProjectID,
		&task.Title,
		&task.Description,
		&task.Status,
		&task.Priority,
		&task.AssignedToID,
		&task.CreatedByID,
		&task.DueDate,
		&task.CreatedAt,
		&task.IsDeleted,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan task: %w", err)
	}

	return &task, nil
}

// GetByID retrieves a task by identifier. Soft-deleted tasks are not
// returned.
func (r *TaskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	stmt, args, err := r.selectTasks().
		Where(squirrel.Eq{"id": id, "is_deleted": false}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select task sql: %w", err)
	}

	return scanTask(r.exec.QueryRow(ctx, stmt, args...))
}

// List returns non-deleted tasks matching the filter, newest first.
func (r *TaskRepository) List(ctx context.Context, filter port.TaskFilter) ([]domain.Task, error) {
	query := r.selectTasks().
		Where(squirrel.Eq{"is_deleted": false}).
		OrderBy("created_at DESC")

	if filter.ProjectID != "" {
		query = query.Where(squirrel.Eq{"project_id": filter.ProjectID})
	}
	if filter.AssignedToID != "" {
		query = query.Where(squirrel.Eq{"assigned_to_id": filter.AssignedToID})
	}
	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"status": filter.Status})
	}
	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		query = query.Offset(uint64(filter.Offset))
	}

	stmt, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list tasks sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}

	return tasks, nil
}

// UpdateStatus sets the task status.
func (r *TaskRepository) UpdateStatus(ctx context.Context, id string, status domain.TaskStatus) error {
	sql, args, err := r.builder.Update("taskmg.tasks").
		Set("status", status).
		Where(squirrel.Eq{"id": id, "is_deleted": false}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update task status sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update task status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// UpdateAssignee reassigns the task. A nil assignee clears the assignment.
func (r *TaskRepository) UpdateAssignee(ctx context.Context, id string, assigneeID *string) error {
	sql, args, err := r.builder.Update("taskmg.tasks").
		Set("assigned_to_id", assigneeID).
		Where(squirrel.Eq{"id": id, "is_deleted": false}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update task assignee sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update task assignee: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// SoftDelete marks the task deleted without removing the row.
func (r *TaskRepository) SoftDelete(ctx context.Context, id string) error {
	sql, args, err := r.builder.Update("taskmg.tasks").
		Set("is_deleted", true).
		Where(squirrel.Eq{"id": id, "is_deleted": false}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build soft delete task sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("soft delete task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

var _ port.TaskRepository = (*TaskRepository)(nil)
