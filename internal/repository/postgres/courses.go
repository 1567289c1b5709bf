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

// CourseRepository implements port.CourseRepository backed by PostgreSQL.
type CourseRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewCourseRepository constructs a new course repository.
func NewCourseRepository(exec pgExecutor) *CourseRepository {
	return &CourseRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

const courseColumns = "id, name, description, status, created_at, updated_at"

func scanCourse(row pgx.Row) (*domain.Course, error) {
	var (
		c           domain.Course
		description sql.NullString
	)
	if err := row.Scan(&c.ID, &c.Name, &description, &c.Status, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan course: %w", err)
	}
	c.Description = description.String
	return &c, nil
}

// Create inserts a course and returns the stored row.
func (r *CourseRepository) Create(ctx context.Context, c domain.Course) (*domain.Course, error) {
	status := c.Status
	if status == "" {
		status = domain.CourseStatusOngoing
	}

	stmt, args, err := r.builder.Insert("courses").
		Columns("name", "description", "status").
		Values(c.Name, c.Description, status).
		Suffix("RETURNING " + courseColumns).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert course sql: %w", err)
	}

	created, err := scanCourse(r.exec.QueryRow(ctx, stmt, args...))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, repository.ErrConflict
		}
		return nil, err
	}
	return created, nil
}

// GetByID fetches a course by primary key.
func (r *CourseRepository) GetByID(ctx context.Context, id int64) (*domain.Course, error) {
	stmt, args, err := r.builder.Select(courseColumns).
		From("courses").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select course sql: %w", err)
	}

	return scanCourse(r.exec.QueryRow(ctx, stmt, args...))
}

// List returns all courses ordered by creation time, newest first.
func (r *CourseRepository) List(ctx context.Context) ([]domain.Course, error) {
	stmt, args, err := r.builder.Select(courseColumns).
		From("courses").
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list courses sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	defer rows.Close()

	var courses []domain.Course
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		courses = append(courses, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate course rows: %w", err)
	}

	return courses, nil
}

// Update overwrites the mutable columns of a course.
func (r *CourseRepository) Update(ctx context.Context, c domain.Course) (*domain.Course, error) {
	stmt, args, err := r.builder.Update("courses").
		Set("name", c.Name).
		Set("description", c.Description).
		Set("status", c.Status).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": c.ID}).
		Suffix("RETURNING " + courseColumns).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build update course sql: %w", err)
	}

	return scanCourse(r.exec.QueryRow(ctx, stmt, args...))
}

// Delete removes a course; enrollment and document rows cascade in schema.
func (r *CourseRepository) Delete(ctx context.Context, id int64) error {
	stmt, args, err := r.builder.Delete("courses").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete course sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("delete course: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// ListStudents returns the students enrolled in a course.
func (r *CourseRepository) ListStudents(ctx context.Context, courseID int64) ([]domain.Principal, error) {
	stmt, args, err := r.builder.
		Select("s.id", "s.name", "s.email", "s.status", "s.created_at").
		From("students s").
		Join("student_courses sc ON sc.student_id = s.id").
		Where(squirrel.Eq{"sc.course_id": courseID}).
		OrderBy("s.name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list course students sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("list course students: %w", err)
	}
	defer rows.Close()

	var students []domain.Principal
	for rows.Next() {
		var p domain.Principal
		if err := rows.Scan(&p.ID, &p.Name, &p.Email, &p.Status, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan course student: %w", err)
		}
		students = append(students, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate course student rows: %w", err)
	}

	return students, nil
}

// Enroll links a student to a course. Re-enrolling reports ErrConflict.
func (r *CourseRepository) Enroll(ctx context.Context, courseID, studentID int64) error {
	stmt, args, err := r.builder.Insert("student_courses").
		Columns("student_id", "course_id").
		Values(studentID, courseID).
		ToSql()
	if err != nil {
		return fmt.Errorf("build enroll sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("enroll student: %w", err)
	}

	return nil
}

// Unenroll removes the link between a student and a course.
func (r *CourseRepository) Unenroll(ctx context.Context, courseID, studentID int64) error {
	stmt, args, err := r.builder.Delete("student_courses").
		Where(squirrel.Eq{"student_id": studentID, "course_id": courseID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build unenroll sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("unenroll student: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// ListDocuments returns document metadata for a course, newest first.
func (r *CourseRepository) ListDocuments(ctx context.Context, courseID int64) ([]domain.Document, error) {
	stmt, args, err := r.builder.Select("id", "name", "public_file_id", "course_id", "created_at").
		From("documents").
		Where(squirrel.Eq{"course_id": courseID}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list documents sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var docs []domain.Document
	for rows.Next() {
		var d domain.Document
		if err := rows.Scan(&d.ID, &d.Name, &d.PublicFileID, &d.CourseID, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate document rows: %w", err)
	}

	return docs, nil
}

// AddDocument stores document metadata for a course.
func (r *CourseRepository) AddDocument(ctx context.Context, d domain.Document) (*domain.Document, error) {
	stmt, args, err := r.builder.Insert("documents").
		Columns("name", "public_file_id", "course_id").
		Values(d.Name, d.PublicFileID, d.CourseID).
		Suffix("RETURNING id, name, public_file_id, course_id, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert document sql: %w", err)
	}

	var stored domain.Document
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&stored.ID, &stored.Name, &stored.PublicFileID, &stored.CourseID, &stored.CreatedAt); err != nil {
		return nil, fmt.Errorf("insert document: %w", err)
	}

	return &stored, nil
}

// DeleteDocument removes document metadata by id.
func (r *CourseRepository) DeleteDocument(ctx context.Context, id int64) error {
	stmt, args, err := r.builder.Delete("documents").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete document sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

var _ port.CourseRepository = (*CourseRepository)(nil)
