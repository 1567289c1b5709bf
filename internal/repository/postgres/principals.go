package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/Velroxe/Khatri-College/internal/core/domain"
	"github.com/Velroxe/Khatri-College/internal/core/port"
	"github.com/Velroxe/Khatri-College/internal/repository"
)

// PrincipalRepository implements port.PrincipalRepository for one principal
// kind. The same code serves admins and students; the kind supplies the table
// name and whether a status column exists.
type PrincipalRepository struct {
	exec    pgExecutor
	kind    domain.PrincipalKind
	builder squirrel.StatementBuilderType
}

// NewPrincipalRepository constructs a repository bound to the kind's table.
func NewPrincipalRepository(exec pgExecutor, kind domain.PrincipalKind) *PrincipalRepository {
	return &PrincipalRepository{
		exec:    exec,
		kind:    kind,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// WithTx returns a repository instance executing within the provided transaction.
func (r *PrincipalRepository) WithTx(tx pgx.Tx) *PrincipalRepository {
	if tx == nil {
		return r
	}
	return &PrincipalRepository{
		exec:    tx,
		kind:    r.kind,
		builder: r.builder,
	}
}

func (r *PrincipalRepository) columns() []string {
	cols := []string{"id", "name", "email", "password", "created_at", "updated_at", "last_login_at"}
	if r.kind.HasStatus {
		cols = append(cols, "status")
	}
	return cols
}

func (r *PrincipalRepository) scanRow(row pgx.Row) (*domain.Principal, error) {
	var (
		p           domain.Principal
		lastLoginAt sql.NullTime
		status      sql.NullString
	)

	dest := []any{&p.ID, &p.Name, &p.Email, &p.PasswordHash, &p.CreatedAt, &p.UpdatedAt, &lastLoginAt}
	if r.kind.HasStatus {
		dest = append(dest, &status)
	}

	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan %s: %w", r.kind.Name, err)
	}

	if lastLoginAt.Valid {
		t := lastLoginAt.Time
		p.LastLoginAt = &t
	}
	if status.Valid {
		p.Status = domain.StudentStatus(status.String)
	}

	return &p, nil
}

// GetByEmail fetches a principal by its unique email.
func (r *PrincipalRepository) GetByEmail(ctx context.Context, email string) (*domain.Principal, error) {
	stmt, args, err := r.builder.Select(r.columns()...).
		From(r.kind.Table).
		Where(squirrel.Eq{"email": email}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select %s by email sql: %w", r.kind.Name, err)
	}

	return r.scanRow(r.exec.QueryRow(ctx, stmt, args...))
}

// GetByID fetches a principal by primary key.
func (r *PrincipalRepository) GetByID(ctx context.Context, id int64) (*domain.Principal, error) {
	stmt, args, err := r.builder.Select(r.columns()...).
		From(r.kind.Table).
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select %s by id sql: %w", r.kind.Name, err)
	}

	return r.scanRow(r.exec.QueryRow(ctx, stmt, args...))
}

// Create inserts a new principal row and returns it with generated fields.
func (r *PrincipalRepository) Create(ctx context.Context, p domain.Principal) (*domain.Principal, error) {
	cols := []string{"name", "email", "password"}
	vals := []any{p.Name, p.Email, p.PasswordHash}
	if r.kind.HasStatus {
		status := p.Status
		if status == "" {
			status = domain.StudentStatusActive
		}
		cols = append(cols, "status")
		vals = append(vals, status)
	}

	stmt, args, err := r.builder.Insert(r.kind.Table).
		Columns(cols...).
		Values(vals...).
		Suffix("RETURNING " + returning(r.columns())).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert %s sql: %w", r.kind.Name, err)
	}

	created, err := r.scanRow(r.exec.QueryRow(ctx, stmt, args...))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, repository.ErrConflict
		}
		return nil, fmt.Errorf("insert %s: %w", r.kind.Name, err)
	}
	return created, nil
}

// Update overwrites the mutable columns of a principal row.
func (r *PrincipalRepository) Update(ctx context.Context, p domain.Principal) (*domain.Principal, error) {
	update := r.builder.Update(r.kind.Table).
		Set("name", p.Name).
		Set("email", p.Email).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": p.ID}).
		Suffix("RETURNING " + returning(r.columns()))
	if r.kind.HasStatus && p.Status != "" {
		update = update.Set("status", p.Status)
	}

	stmt, args, err := update.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build update %s sql: %w", r.kind.Name, err)
	}

	updated, err := r.scanRow(r.exec.QueryRow(ctx, stmt, args...))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, repository.ErrConflict
		}
		return nil, err
	}
	return updated, nil
}

// Delete removes a principal row.
func (r *PrincipalRepository) Delete(ctx context.Context, id int64) error {
	stmt, args, err := r.builder.Delete(r.kind.Table).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete %s sql: %w", r.kind.Name, err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("delete %s: %w", r.kind.Name, err)
	}
	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// List returns all principal rows ordered by creation time, newest first.
func (r *PrincipalRepository) List(ctx context.Context) ([]domain.Principal, error) {
	stmt, args, err := r.builder.Select(r.columns()...).
		From(r.kind.Table).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list %s sql: %w", r.kind.Name, err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", r.kind.Name, err)
	}
	defer rows.Close()

	var principals []domain.Principal
	for rows.Next() {
		p, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		principals = append(principals, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s rows: %w", r.kind.Name, err)
	}

	return principals, nil
}

// Count returns the number of principal rows.
func (r *PrincipalRepository) Count(ctx context.Context) (int, error) {
	stmt, args, err := r.builder.Select("count(*)").
		From(r.kind.Table).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count %s sql: %w", r.kind.Name, err)
	}

	var count int
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count %s: %w", r.kind.Name, err)
	}

	return count, nil
}

// UpdatePassword replaces the stored password hash for a principal id.
func (r *PrincipalRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	stmt, args, err := r.builder.Update(r.kind.Table).
		Set("password", passwordHash).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update %s password sql: %w", r.kind.Name, err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update %s password: %w", r.kind.Name, err)
	}
	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// UpdatePasswordByEmail replaces the stored password hash for a principal
// identified by email, as the forgot-password flow does.
func (r *PrincipalRepository) UpdatePasswordByEmail(ctx context.Context, email, passwordHash string) error {
	stmt, args, err := r.builder.Update(r.kind.Table).
		Set("password", passwordHash).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"email": email}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update %s password by email sql: %w", r.kind.Name, err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update %s password by email: %w", r.kind.Name, err)
	}
	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// touchLastLogin stamps last_login_at; used inside login transactions.
func (r *PrincipalRepository) touchLastLogin(ctx context.Context, id int64, at time.Time) error {
	stmt, args, err := r.builder.Update(r.kind.Table).
		Set("last_login_at", at.UTC()).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build touch %s last login sql: %w", r.kind.Name, err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("touch %s last login: %w", r.kind.Name, err)
	}
	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

var _ port.PrincipalRepository = (*PrincipalRepository)(nil)
