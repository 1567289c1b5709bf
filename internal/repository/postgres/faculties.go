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

// FacultyRepository implements port.FacultyRepository backed by PostgreSQL.
type FacultyRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewFacultyRepository constructs a new faculty repository.
func NewFacultyRepository(exec pgExecutor) *FacultyRepository {
	return &FacultyRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

const facultyColumns = "id, name, qualifications, description, specialities, experience_years, image_url, created_at, updated_at"

func scanFaculty(row pgx.Row) (*domain.Faculty, error) {
	var (
		f              domain.Faculty
		qualifications sql.NullString
		description    sql.NullString
		specialities   sql.NullString
		experience     sql.NullInt64
		imageURL       sql.NullString
	)
	if err := row.Scan(&f.ID, &f.Name, &qualifications, &description, &specialities, &experience, &imageURL, &f.CreatedAt, &f.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan faculty: %w", err)
	}
	f.Qualifications = qualifications.String
	f.Description = description.String
	f.Specialities = specialities.String
	f.ExperienceYears = int(experience.Int64)
	f.ImageURL = imageURL.String
	return &f, nil
}

// Create inserts a faculty profile and returns the stored row.
func (r *FacultyRepository) Create(ctx context.Context, f domain.Faculty) (*domain.Faculty, error) {
	stmt, args, err := r.builder.Insert("faculties").
		Columns("name", "qualifications", "description", "specialities", "experience_years", "image_url").
		Values(f.Name, f.Qualifications, f.Description, f.Specialities, f.ExperienceYears, f.ImageURL).
		Suffix("RETURNING " + facultyColumns).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert faculty sql: %w", err)
	}

	return scanFaculty(r.exec.QueryRow(ctx, stmt, args...))
}

// GetByID fetches a faculty profile by primary key.
func (r *FacultyRepository) GetByID(ctx context.Context, id int64) (*domain.Faculty, error) {
	stmt, args, err := r.builder.Select(facultyColumns).
		From("faculties").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select faculty sql: %w", err)
	}

	return scanFaculty(r.exec.QueryRow(ctx, stmt, args...))
}

// List returns all faculty profiles, newest first.
func (r *FacultyRepository) List(ctx context.Context) ([]domain.Faculty, error) {
	stmt, args, err := r.builder.Select(facultyColumns).
		From("faculties").
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list faculties sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("list faculties: %w", err)
	}
	defer rows.Close()

	var faculties []domain.Faculty
	for rows.Next() {
		f, err := scanFaculty(rows)
		if err != nil {
			return nil, err
		}
		faculties = append(faculties, *f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate faculty rows: %w", err)
	}

	return faculties, nil
}

// Update overwrites the mutable columns of a faculty profile.
func (r *FacultyRepository) Update(ctx context.Context, f domain.Faculty) (*domain.Faculty, error) {
	stmt, args, err := r.builder.Update("faculties").
		Set("name", f.Name).
		Set("qualifications", f.Qualifications).
		Set("description", f.Description).
		Set("specialities", f.Specialities).
		Set("experience_years", f.ExperienceYears).
		Set("image_url", f.ImageURL).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": f.ID}).
		Suffix("RETURNING " + facultyColumns).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build update faculty sql: %w", err)
	}

	return scanFaculty(r.exec.QueryRow(ctx, stmt, args...))
}

// Delete removes a faculty profile.
func (r *FacultyRepository) Delete(ctx context.Context, id int64) error {
	stmt, args, err := r.builder.Delete("faculties").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete faculty sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("delete faculty: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

var _ port.FacultyRepository = (*FacultyRepository)(nil)
