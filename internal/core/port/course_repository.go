package port

import (
	"context"

	"github.com/Velroxe/Khatri-College/internal/core/domain"
)

// CourseRepository persists courses, enrollments, and document metadata.
type CourseRepository interface {
	Create(ctx context.Context, c domain.Course) (*domain.Course, error)
	GetByID(ctx context.Context, id int64) (*domain.Course, error)
	List(ctx context.Context) ([]domain.Course, error)
	Update(ctx context.Context, c domain.Course) (*domain.Course, error)
	Delete(ctx context.Context, id int64) error

	ListStudents(ctx context.Context, courseID int64) ([]domain.Principal, error)
	Enroll(ctx context.Context, courseID, studentID int64) error
	Unenroll(ctx context.Context, courseID, studentID int64) error

	ListDocuments(ctx context.Context, courseID int64) ([]domain.Document, error)
	AddDocument(ctx context.Context, d domain.Document) (*domain.Document, error)
	DeleteDocument(ctx context.Context, id int64) error
}

// DashboardRepository runs the aggregation queries behind the admin dashboard.
type DashboardRepository interface {
	Stats(ctx context.Context) (*domain.DashboardStats, error)
}
