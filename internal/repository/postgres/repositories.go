package postgres

import "github.com/jackc/pgx/v5/pgxpool"

// Repositories groups concrete PostgreSQL repository implementations.
type Repositories struct {
	Accounts *AccountRepository
	Tasks    *TaskRepository
	Projects *ProjectRepository
	Comments *CommentRepository
	Roles    *RoleRepository
	Tokens   *TokenRepository
	Audit    *AuditRepository
}

// NewRepositories wires all repositories backed by the provided pool.
func NewRepositories(pool *pgxpool.Pool) *Repositories {
	return &Repositories{
		Accounts: NewAccountRepository(pool),
		Tasks:    NewTaskRepository(pool),
		Projects: NewProjectRepository(pool),
		Comments: NewCommentRepository(pool),
		Roles:    NewRoleRepository(pool),
		Tokens:   NewTokenRepository(pool),
		Audit:    NewAuditRepository(pool),
	}
}
