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

// OTPRepository implements port.OTPRepository over the kind's OTP table.
type OTPRepository struct {
	pool    pgPool
	kind    domain.PrincipalKind
	builder squirrel.StatementBuilderType
}

// NewOTPRepository constructs a repository bound to the kind's OTP table.
func NewOTPRepository(pool pgPool, kind domain.PrincipalKind) *OTPRepository {
	return &OTPRepository{
		pool:    pool,
		kind:    kind,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Replace deletes any previous code for (email, purpose) and inserts the new
// one in a single transaction, so at most one live code exists per key.
func (r *OTPRepository) Replace(ctx context.Context, otp domain.OTP) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin otp replace tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	delStmt, delArgs, err := r.builder.Delete(r.kind.OTPTable).
		Where(squirrel.Eq{"email": otp.Email, "purpose": otp.Purpose}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete %s otp sql: %w", r.kind.Name, err)
	}
	if _, err := tx.Exec(ctx, delStmt, delArgs...); err != nil {
		return fmt.Errorf("delete superseded %s otp: %w", r.kind.Name, err)
	}

	insStmt, insArgs, err := r.builder.Insert(r.kind.OTPTable).
		Columns("email", "otp", "purpose", "expires_at").
		Values(otp.Email, otp.Code, otp.Purpose, otp.ExpiresAt.UTC()).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert %s otp sql: %w", r.kind.Name, err)
	}
	if _, err := tx.Exec(ctx, insStmt, insArgs...); err != nil {
		return fmt.Errorf("insert %s otp: %w", r.kind.Name, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit otp replace tx: %w", err)
	}

	return nil
}

// Get fetches the code matching (email, code, purpose) exactly.
func (r *OTPRepository) Get(ctx context.Context, email, code string, purpose domain.OTPPurpose) (*domain.OTP, error) {
	stmt, args, err := r.builder.Select("email", "otp", "purpose", "expires_at").
		From(r.kind.OTPTable).
		Where(squirrel.Eq{"email": email, "otp": code, "purpose": purpose}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select %s otp sql: %w", r.kind.Name, err)
	}

	var otp domain.OTP
	if err := r.pool.QueryRow(ctx, stmt, args...).Scan(&otp.Email, &otp.Code, &otp.Purpose, &otp.ExpiresAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan %s otp: %w", r.kind.Name, err)
	}

	return &otp, nil
}

// Delete removes any code stored for (email, purpose). Missing rows are not
// an error; consuming a code twice simply finds nothing the second time.
func (r *OTPRepository) Delete(ctx context.Context, email string, purpose domain.OTPPurpose) error {
	stmt, args, err := r.builder.Delete(r.kind.OTPTable).
		Where(squirrel.Eq{"email": email, "purpose": purpose}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete %s otp sql: %w", r.kind.Name, err)
	}

	if _, err := r.pool.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("delete %s otp: %w", r.kind.Name, err)
	}

	return nil
}

// DeleteExpired purges codes whose expiry is at or before the cutoff and
// reports how many were removed.
func (r *OTPRepository) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	stmt, args, err := r.builder.Delete(r.kind.OTPTable).
		Where(squirrel.LtOrEq{"expires_at": cutoff.UTC()}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build purge %s otps sql: %w", r.kind.Name, err)
	}

	ct, err := r.pool.Exec(ctx, stmt, args...)
	if err != nil {
		return 0, fmt.Errorf("purge %s otps: %w", r.kind.Name, err)
	}

	return ct.RowsAffected(), nil
}

var _ port.OTPRepository = (*OTPRepository)(nil)
