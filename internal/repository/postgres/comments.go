package postgres

import (
	"context"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/skabera/TaskManagementSystem/internal/core/domain"
	"github.com/skabera/TaskManagementSystem/internal/core/port"
)

// CommentRepository implements port.CommentRepository using PostgreSQL.
type CommentRepository struct {
	pool    *pgxpool.Pool
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewCommentRepository constructs a repository backed by any executor that
// satisfies pgExecutor.
func NewCommentRepository(exec pgExecutor) *CommentRepository {
	repo := &CommentRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
	if pool, ok := exec.(*pgxpool.Pool); ok {
		repo.pool = pool
	}
	return repo
}

// Create inserts a new comment row.
func (r *CommentRepository) Create(ctx context.Context, comment domain.Comment) error {
	sql, args, err := r.builder.Insert("taskmg.comments").
		Columns("id", "task_id", "author_id", "content", "created_at").
		Values(
			comment.ID,
			comment.TaskID,
			comment.AuthorID,
			comment.Content,
			comment.CreatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert comment sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert comment: %w", err)
	}

	return nil
}

// ListByTask returns the comments on a task in chronological order.
func (r *CommentRepository) ListByTask(ctx context.Context, taskID string, limit, offset int) ([]domain.Comment, error) {
	query := r.builder.
		Select("id", "task_id", "author_id", "content", "created_at").
		From("taskmg.comments").
		Where(squirrel.Eq{"task_id": taskID}).
		OrderBy("created_at ASC")

	if limit > 0 {
		query = query.Limit(uint64(limit))
	}
	if offset > 0 {
		query = query.Offset(uint64(offset))
	}

	stmt, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list comments sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	var comments []domain.Comment
	for rows.Next() {
		var comment domain.Comment
		if err := rows.Scan(
			&comment.ID,
			&comment.TaskID,
			&comment.AuthorID,
			&comment.Content,
			&comment.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, comment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate comments: %w", err)
	}

	return comments, nil
}

var _ port.CommentRepository = (*CommentRepository)(nil)
