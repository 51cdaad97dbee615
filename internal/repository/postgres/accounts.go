package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/skabera/TaskManagementSystem/internal/core/domain"
	"github.com/skabera/TaskManagementSystem/internal/core/port"
	"github.com/skabera/TaskManagementSystem/internal/repository"
)

// AccountRepository implements port.AccountRepository using PostgreSQL.
type AccountRepository struct {
	pool    *pgxpool.Pool
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewAccountRepository constructs a repository backed by any executor that
// satisfies pgExecutor.
func NewAccountRepository(exec pgExecutor) *AccountRepository {
	repo := &AccountRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
	if pool, ok := exec.(*pgxpool.Pool); ok {
		repo.pool = pool
	}
	return repo
}

// WithTx returns a repository instance executing within the supplied transaction.
func (r *AccountRepository) WithTx(tx pgx.Tx) *AccountRepository {
	if tx == nil {
		return r
	}
	return &AccountRepository{
		pool:    r.pool,
		exec:    tx,
		builder: r.builder,
	}
}

// Create inserts a new account row. Email is stored lowercased so the
// case-insensitive lookup stays index-friendly.
func (r *AccountRepository) Create(ctx context.Context, account domain.Account) error {
	sql, args, err := r.builder.Insert("taskmg.accounts").
		Columns(
			"id",
			"email",
			"first_name",
			"last_name",
			"password_hash",
			"password_algo",
			"status",
			"two_factor_enabled",
			"email_verified",
			"is_active",
			"created_at",
			"last_login",
		).
		Values(
			account.ID,
			strings.ToLower(account.Email),
			account.FirstName,
			account.LastName,
			account.PasswordHash,
			account.PasswordAlgo,
			account.Status,
			account.TwoFactorEnabled,
			account.EmailVerified,
			account.IsActive,
			account.CreatedAt,
			account.LastLogin,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert account sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, sql, args...); err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("insert account: %w", err)
	}

	return nil
}

func (r *AccountRepository) selectAccounts() squirrel.SelectBuilder {
	return r.builder.Select(
		"id",
		"email",
		"first_name",
		"last_name",
		"password_hash",
		"password_algo",
		"status",
		"two_factor_enabled",
		"email_verified",
		"is_active",
		"created_at",
		"last_login",
	).From("taskmg.accounts")
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var (
		account   domain.Account
		lastLogin *time.Time
	)

	if err := row.Scan(
		&account.ID,
		&account.Email,
		&account.FirstName,
		&account.LastName,
		&account.PasswordHash,
		&account.PasswordAlgo,
		&account.Status,
		&account.TwoFactorEnabled,
		&account.EmailVerified,
		&account.IsActive,
		&account.CreatedAt,
		&lastLogin,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan account: %w", err)
	}

	account.LastLogin = lastLogin
	return &account, nil
}

// GetByID retrieves an account by identifier.
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	stmt, args, err := r.selectAccounts().
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select account sql: %w", err)
	}

	return scanAccount(r.exec.QueryRow(ctx, stmt, args...))
}

// GetByEmail retrieves an account by email, matched case-insensitively.
func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	stmt, args, err := r.selectAccounts().
		Where(squirrel.Eq{"email": strings.ToLower(strings.TrimSpace(email))}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select account by email sql: %w", err)
	}

	return scanAccount(r.exec.QueryRow(ctx, stmt, args...))
}

// Update persists mutable account fields.
func (r *AccountRepository) Update(ctx context.Context, account domain.Account) error {
	sql, args, err := r.builder.Update("taskmg.accounts").
		Set("first_name", account.FirstName).
		Set("last_name", account.LastName).
		Set("status", account.Status).
		Set("two_factor_enabled", account.TwoFactorEnabled).
		Set("email_verified", account.EmailVerified).
		Set("is_active", account.IsActive).
		Where(squirrel.Eq{"id": account.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update account sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// UpdatePassword replaces the stored password hash.
func (r *AccountRepository) UpdatePassword(ctx context.Context, id, passwordHash, passwordAlgo string, changedAt time.Time) error {
	sql, args, err := r.builder.Update("taskmg.accounts").
		Set("password_hash", passwordHash).
		Set("password_algo", passwordAlgo).
		Set("password_changed_at", changedAt).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update password sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// MarkEmailVerified flips the email_verified flag and activates the account.
func (r *AccountRepository) MarkEmailVerified(ctx context.Context, id string, at time.Time) error {
	sql, args, err := r.builder.Update("taskmg.accounts").
		Set("email_verified", true).
		Set("email_verified_at", at).
		Set("status", domain.AccountStatusActive).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build mark email verified sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("mark email verified: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// RecordLogin stamps the last successful login time.
func (r *AccountRepository) RecordLogin(ctx context.Context, id string, at time.Time) error {
	sql, args, err := r.builder.Update("taskmg.accounts").
		Set("last_login", at).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build record login sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("record login: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// List returns accounts matching the filter ordered by creation time.
func (r *AccountRepository) List(ctx context.Context, filter port.AccountFilter) ([]domain.Account, error) {
	query := r.selectAccounts().OrderBy("created_at DESC")

	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"status": filter.Status})
	}
	if filter.IsActive != nil {
		query = query.Where(squirrel.Eq{"is_active": *filter.IsActive})
	}
	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		query = query.Offset(uint64(filter.Offset))
	}

	stmt, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list accounts sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, *account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate accounts: %w", err)
	}

	return accounts, nil
}

// AssignRoles links the account to each role, ignoring duplicates.
func (r *AccountRepository) AssignRoles(ctx context.Context, accountID string, roleIDs []string) error {
	if len(roleIDs) == 0 {
		return nil
	}

	insert := r.builder.Insert("taskmg.account_roles").
		Columns("account_id", "role_id", "assigned_at")

	now := time.Now().UTC()
	for _, roleID := range roleIDs {
		insert = insert.Values(accountID, roleID, now)
	}

	sql, args, err := insert.
		Suffix("ON CONFLICT (account_id, role_id) DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("build assign roles sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("assign roles: %w", err)
	}

	return nil
}

// GetAccountRoles returns the raw account-role links for the account.
func (r *AccountRepository) GetAccountRoles(ctx context.Context, accountID string) ([]domain.AccountRole, error) {
	stmt, args, err := r.builder.Select("account_id", "role_id", "assigned_at").
		From("taskmg.account_roles").
		Where(squirrel.Eq{"account_id": accountID}).
		OrderBy("assigned_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select account roles sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("select account roles: %w", err)
	}
	defer rows.Close()

	var links []domain.AccountRole
	for rows.Next() {
		var link domain.AccountRole
		if err := rows.Scan(&link.AccountID, &link.RoleID, &link.AssignedAt); err != nil {
			return nil, fmt.Errorf("scan account role: %w", err)
		}
		links = append(links, link)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate account roles: %w", err)
	}

	return links, nil
}

var _ port.AccountRepository = (*AccountRepository)(nil)
