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

// RefreshTokenRepository implements port.RefreshTokenRepository over the
// kind's refresh token table. Rotation and login run in transactions so a
// cookie is never handed out before its backing row is durable.
type RefreshTokenRepository struct {
	pool    pgPool
	kind    domain.PrincipalKind
	builder squirrel.StatementBuilderType
}

// NewRefreshTokenRepository constructs a repository bound to the kind's
// refresh token table.
func NewRefreshTokenRepository(pool pgPool, kind domain.PrincipalKind) *RefreshTokenRepository {
	return &RefreshTokenRepository{
		pool:    pool,
		kind:    kind,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *RefreshTokenRepository) insert(ctx context.Context, exec pgExecutor, principalID int64, token string, expiresAt time.Time) error {
	stmt, args, err := r.builder.Insert(r.kind.RefreshTable).
		Columns("token", r.kind.RefTokenIDCol, "expires_at").
		Values(token, principalID, expiresAt.UTC()).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert %s refresh token sql: %w", r.kind.Name, err)
	}

	if _, err := exec.Exec(ctx, stmt, args...); err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("insert %s refresh token: %w", r.kind.Name, err)
	}

	return nil
}

// RecordLogin persists a fresh refresh token. With touchLastLogin set, the
// principal's last_login_at is stamped in the same transaction; OTP logins
// leave the timestamp alone.
func (r *RefreshTokenRepository) RecordLogin(ctx context.Context, principalID int64, token string, expiresAt time.Time, touchLastLogin bool) error {
	if !touchLastLogin {
		return r.insert(ctx, r.pool, principalID, token, expiresAt)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin login tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := r.insert(ctx, tx, principalID, token, expiresAt); err != nil {
		return err
	}

	principals := NewPrincipalRepository(tx, r.kind)
	if err := principals.touchLastLogin(ctx, principalID, time.Now()); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit login tx: %w", err)
	}

	return nil
}

// GetByToken looks up a refresh token row by its opaque value.
func (r *RefreshTokenRepository) GetByToken(ctx context.Context, token string) (*domain.RefreshToken, error) {
	stmt, args, err := r.builder.Select("token", r.kind.RefTokenIDCol, "expires_at").
		From(r.kind.RefreshTable).
		Where(squirrel.Eq{"token": token}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select %s refresh token sql: %w", r.kind.Name, err)
	}

	var rt domain.RefreshToken
	if err := r.pool.QueryRow(ctx, stmt, args...).Scan(&rt.Token, &rt.PrincipalID, &rt.ExpiresAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan %s refresh token: %w", r.kind.Name, err)
	}

	return &rt, nil
}

// Delete removes a refresh token row. A missing row is not an error so
// logout stays idempotent.
func (r *RefreshTokenRepository) Delete(ctx context.Context, token string) error {
	stmt, args, err := r.builder.Delete(r.kind.RefreshTable).
		Where(squirrel.Eq{"token": token}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete %s refresh token sql: %w", r.kind.Name, err)
	}

	if _, err := r.pool.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("delete %s refresh token: %w", r.kind.Name, err)
	}

	return nil
}

// ExtendExpiry slides the expiry of an existing token without changing its
// value.
func (r *RefreshTokenRepository) ExtendExpiry(ctx context.Context, token string, expiresAt time.Time) error {
	stmt, args, err := r.builder.Update(r.kind.RefreshTable).
		Set("expires_at", expiresAt.UTC()).
		Where(squirrel.Eq{"token": token}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build extend %s refresh token sql: %w", r.kind.Name, err)
	}

	ct, err := r.pool.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("extend %s refresh token: %w", r.kind.Name, err)
	}
	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// Rotate atomically replaces oldToken with newToken. Both statements share a
// transaction; if either fails the old token stays valid.
func (r *RefreshTokenRepository) Rotate(ctx context.Context, oldToken string, principalID int64, newToken string, expiresAt time.Time) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin rotate tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	delStmt, delArgs, err := r.builder.Delete(r.kind.RefreshTable).
		Where(squirrel.Eq{"token": oldToken}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build rotate delete sql: %w", err)
	}

	ct, err := tx.Exec(ctx, delStmt, delArgs...)
	if err != nil {
		return fmt.Errorf("rotate delete %s refresh token: %w", r.kind.Name, err)
	}
	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	if err := r.insert(ctx, tx, principalID, newToken, expiresAt); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit rotate tx: %w", err)
	}

	return nil
}

// DeleteExpired purges rows whose expiry is at or before the cutoff and
// reports how many were removed.
func (r *RefreshTokenRepository) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	stmt, args, err := r.builder.Delete(r.kind.RefreshTable).
		Where(squirrel.LtOrEq{"expires_at": cutoff.UTC()}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build purge %s refresh tokens sql: %w", r.kind.Name, err)
	}

	ct, err := r.pool.Exec(ctx, stmt, args...)
	if err != nil {
		return 0, fmt.Errorf("purge %s refresh tokens: %w", r.kind.Name, err)
	}

	return ct.RowsAffected(), nil
}

var _ port.RefreshTokenRepository = (*RefreshTokenRepository)(nil)
