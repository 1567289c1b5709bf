package postgres

import (
	"context"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"

	"github.com/Velroxe/Khatri-College/internal/core/domain"
	"github.com/Velroxe/Khatri-College/internal/core/port"
)

// DashboardRepository runs the aggregation queries behind the admin
// dashboard. Counts come from one combined scalar query; the three panels
// are separate ordered selects.
type DashboardRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewDashboardRepository constructs a new dashboard repository.
func NewDashboardRepository(exec pgExecutor) *DashboardRepository {
	return &DashboardRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Stats gathers all dashboard aggregates in one pass.
func (r *DashboardRepository) Stats(ctx context.Context) (*domain.DashboardStats, error) {
	stats := &domain.DashboardStats{
		RecentStudents:    []domain.RecentStudent{},
		StudentsPerCourse: []domain.CourseHeadcount{},
		TopEnrolled:       []domain.EnrollmentLeader{},
	}

	const countsQuery = `
		SELECT
			(SELECT count(*) FROM students),
			(SELECT count(*) FROM courses),
			(SELECT count(*) FROM documents),
			(SELECT count(*) FROM student_courses),
			(SELECT count(*) FROM courses WHERE status = 'completed'),
			(SELECT count(*) FROM courses WHERE status = 'ongoing')
	`
	if err := r.exec.QueryRow(ctx, countsQuery).Scan(
		&stats.TotalStudents,
		&stats.TotalCourses,
		&stats.TotalDocuments,
		&stats.TotalEnrollments,
		&stats.CompletedCourses,
		&stats.OngoingCourses,
	); err != nil {
		return nil, fmt.Errorf("dashboard counts: %w", err)
	}

	if err := r.recentStudents(ctx, stats); err != nil {
		return nil, err
	}
	if err := r.studentsPerCourse(ctx, stats); err != nil {
		return nil, err
	}
	if err := r.topEnrolled(ctx, stats); err != nil {
		return nil, err
	}

	return stats, nil
}

func (r *DashboardRepository) recentStudents(ctx context.Context, stats *domain.DashboardStats) error {
	stmt, args, err := r.builder.Select("id", "name", "email", "created_at").
		From("students").
		OrderBy("created_at DESC").
		Limit(5).
		ToSql()
	if err != nil {
		return fmt.Errorf("build recent students sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("recent students: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var s domain.RecentStudent
		if err := rows.Scan(&s.ID, &s.Name, &s.Email, &s.CreatedAt); err != nil {
			return fmt.Errorf("scan recent student: %w", err)
		}
		stats.RecentStudents = append(stats.RecentStudents, s)
	}
	return rows.Err()
}

func (r *DashboardRepository) studentsPerCourse(ctx context.Context, stats *domain.DashboardStats) error {
	const query = `
		SELECT c.id, c.name, count(sc.student_id)
		  FROM courses c
		  LEFT JOIN student_courses sc ON sc.course_id = c.id
		 GROUP BY c.id, c.name
		 ORDER BY count(sc.student_id) DESC, c.name ASC
	`
	rows, err := r.exec.Query(ctx, query)
	if err != nil {
		return fmt.Errorf("students per course: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var h domain.CourseHeadcount
		if err := rows.Scan(&h.CourseID, &h.CourseName, &h.StudentCount); err != nil {
			return fmt.Errorf("scan course headcount: %w", err)
		}
		stats.StudentsPerCourse = append(stats.StudentsPerCourse, h)
	}
	return rows.Err()
}

func (r *DashboardRepository) topEnrolled(ctx context.Context, stats *domain.DashboardStats) error {
	const query = `
		SELECT s.id, s.name, s.email, count(sc.course_id)
		  FROM students s
		  JOIN student_courses sc ON sc.student_id = s.id
		 GROUP BY s.id, s.name, s.email
		 ORDER BY count(sc.course_id) DESC, s.name ASC
		 LIMIT 5
	`
	rows, err := r.exec.Query(ctx, query)
	if err != nil {
		return fmt.Errorf("top enrolled students: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var l domain.EnrollmentLeader
		if err := rows.Scan(&l.ID, &l.Name, &l.Email, &l.CoursesEnrolled); err != nil {
			return fmt.Errorf("scan enrollment leader: %w", err)
		}
		stats.TopEnrolled = append(stats.TopEnrolled, l)
	}
	return rows.Err()
}

var _ port.DashboardRepository = (*DashboardRepository)(nil)
