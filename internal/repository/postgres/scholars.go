package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/Velroxe/Khatri-College/internal/core/domain"
	"github.com/Velroxe/Khatri-College/internal/core/port"
	"github.com/Velroxe/Khatri-College/internal/repository"
)

// ScholarRepository implements port.ScholarRepository backed by PostgreSQL.
// Writes that touch both the scholar row and its subjects run in one
// transaction, so it holds the pool rather than a plain executor.
type ScholarRepository struct {
	pool    pgPool
	builder squirrel.StatementBuilderType
}

// NewScholarRepository constructs a new scholar repository.
func NewScholarRepository(pool pgPool) *ScholarRepository {
	return &ScholarRepository{
		pool:    pool,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

const scholarColumns = "id, name, degree, image_url, created_at, updated_at"

func scanScholar(row pgx.Row) (*domain.Scholar, error) {
	var (
		s        domain.Scholar
		imageURL sql.NullString
	)
	if err := row.Scan(&s.ID, &s.Name, &s.Degree, &imageURL, &s.CreatedAt, &s.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan scholar: %w", err)
	}
	s.ImageURL = imageURL.String
	return &s, nil
}

func (r *ScholarRepository) insertSubjects(ctx context.Context, exec pgExecutor, scholarID int64, subjects []domain.ScholarSubject) error {
	for _, sub := range subjects {
		stmt, args, err := r.builder.Insert("scholar_top_subjects").
			Columns("scholar_id", "subject_name", "marks").
			Values(scholarID, sub.Subject, sub.Marks).
			ToSql()
		if err != nil {
			return fmt.Errorf("build insert scholar subject sql: %w", err)
		}
		if _, err := exec.Exec(ctx, stmt, args...); err != nil {
			return fmt.Errorf("insert scholar subject: %w", err)
		}
	}
	return nil
}

func (r *ScholarRepository) listSubjects(ctx context.Context, scholarID int64) ([]domain.ScholarSubject, error) {
	stmt, args, err := r.builder.Select("id", "scholar_id", "subject_name", "marks").
		From("scholar_top_subjects").
		Where(squirrel.Eq{"scholar_id": scholarID}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list scholar subjects sql: %w", err)
	}

	rows, err := r.pool.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("list scholar subjects: %w", err)
	}
	defer rows.Close()

	var subjects []domain.ScholarSubject
	for rows.Next() {
		var sub domain.ScholarSubject
		if err := rows.Scan(&sub.ID, &sub.ScholarID, &sub.Subject, &sub.Marks); err != nil {
			return nil, fmt.Errorf("scan scholar subject: %w", err)
		}
		subjects = append(subjects, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate scholar subject rows: %w", err)
	}

	return subjects, nil
}

// Create inserts a scholar and their subject marks in one transaction.
func (r *ScholarRepository) Create(ctx context.Context, s domain.Scholar) (*domain.Scholar, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin create scholar tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	stmt, args, err := r.builder.Insert("scholars").
		Columns("name", "degree", "image_url").
		Values(s.Name, s.Degree, s.ImageURL).
		Suffix("RETURNING " + scholarColumns).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert scholar sql: %w", err)
	}

	created, err := scanScholar(tx.QueryRow(ctx, stmt, args...))
	if err != nil {
		return nil, err
	}

	if err := r.insertSubjects(ctx, tx, created.ID, s.Subjects); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit create scholar tx: %w", err)
	}

	return r.GetByID(ctx, created.ID)
}

// GetByID fetches a scholar with their subject marks.
func (r *ScholarRepository) GetByID(ctx context.Context, id int64) (*domain.Scholar, error) {
	stmt, args, err := r.builder.Select(scholarColumns).
		From("scholars").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select scholar sql: %w", err)
	}

	scholar, err := scanScholar(r.pool.QueryRow(ctx, stmt, args...))
	if err != nil {
		return nil, err
	}

	subjects, err := r.listSubjects(ctx, id)
	if err != nil {
		return nil, err
	}
	scholar.Subjects = subjects

	return scholar, nil
}

// List returns all scholars, newest first, without their subjects.
func (r *ScholarRepository) List(ctx context.Context) ([]domain.Scholar, error) {
	stmt, args, err := r.builder.Select(scholarColumns).
		From("scholars").
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list scholars sql: %w", err)
	}

	rows, err := r.pool.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("list scholars: %w", err)
	}
	defer rows.Close()

	var scholars []domain.Scholar
	for rows.Next() {
		s, err := scanScholar(rows)
		if err != nil {
			return nil, err
		}
		scholars = append(scholars, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate scholar rows: %w", err)
	}

	return scholars, nil
}

// Update overwrites a scholar's basic info and, when a non-nil Subjects
// slice is given, replaces the stored subject set in the same transaction.
func (r *ScholarRepository) Update(ctx context.Context, s domain.Scholar) (*domain.Scholar, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin update scholar tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	stmt, args, err := r.builder.Update("scholars").
		Set("name", s.Name).
		Set("degree", s.Degree).
		Set("image_url", s.ImageURL).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": s.ID}).
		Suffix("RETURNING " + scholarColumns).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build update scholar sql: %w", err)
	}

	if _, err := scanScholar(tx.QueryRow(ctx, stmt, args...)); err != nil {
		return nil, err
	}

	if s.Subjects != nil {
		del, delArgs, err := r.builder.Delete("scholar_top_subjects").
			Where(squirrel.Eq{"scholar_id": s.ID}).
			ToSql()
		if err != nil {
			return nil, fmt.Errorf("build delete scholar subjects sql: %w", err)
		}
		if _, err := tx.Exec(ctx, del, delArgs...); err != nil {
			return nil, fmt.Errorf("delete scholar subjects: %w", err)
		}

		if err := r.insertSubjects(ctx, tx, s.ID, s.Subjects); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit update scholar tx: %w", err)
	}

	return r.GetByID(ctx, s.ID)
}

// Delete removes a scholar; subject rows cascade in schema.
func (r *ScholarRepository) Delete(ctx context.Context, id int64) error {
	stmt, args, err := r.builder.Delete("scholars").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete scholar sql: %w", err)
	}

	ct, err := r.pool.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("delete scholar: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

var _ port.ScholarRepository = (*ScholarRepository)(nil)
