package usecase

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Velroxe/Khatri-College/internal/core/domain"
	"github.com/Velroxe/Khatri-College/internal/core/port"
	"github.com/Velroxe/Khatri-College/internal/repository"
)

var (
	// ErrCourseNotFound indicates no course exists for the given id.
	ErrCourseNotFound = errors.New("course not found")
	// ErrAlreadyEnrolled indicates the student is already in the course.
	ErrAlreadyEnrolled = errors.New("student already enrolled")
	// ErrNotEnrolled indicates there is no enrollment link to remove.
	ErrNotEnrolled = errors.New("student not enrolled")
	// ErrDocumentNotFound indicates no document exists for the given id.
	ErrDocumentNotFound = errors.New("document not found")
)

// CourseService manages courses, enrollments, and course documents.
type CourseService struct {
	courses port.CourseRepository
	logger  *zap.Logger
}

// NewCourseService constructs the course management service.
func NewCourseService(courses port.CourseRepository, log *zap.Logger) *CourseService {
	if log == nil {
		log = zap.NewNop()
	}
	return &CourseService{courses: courses, logger: log}
}

// List returns all courses.
func (s *CourseService) List(ctx context.Context) ([]domain.Course, error) {
	return s.courses.List(ctx)
}

// Get returns a single course.
func (s *CourseService) Get(ctx context.Context, id int64) (*domain.Course, error) {
	course, err := s.courses.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("lookup course: %w", err)
	}
	return course, nil
}

// Create adds a new course, defaulting to ongoing status.
func (s *CourseService) Create(ctx context.Context, name, description string) (*domain.Course, error) {
	course, err := s.courses.Create(ctx, domain.Course{
		Name:        name,
		Description: description,
		Status:      domain.CourseStatusOngoing,
	})
	if err != nil {
		return nil, fmt.Errorf("create course: %w", err)
	}

	s.logger.Info("course created", zap.Int64("course_id", course.ID), zap.String("name", course.Name))

	return course, nil
}

// Update edits a course's name, description, and status.
func (s *CourseService) Update(ctx context.Context, id int64, name, description string, status domain.CourseStatus) (*domain.Course, error) {
	switch status {
	case domain.CourseStatusOngoing, domain.CourseStatusCompleted:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStatus, status)
	}

	course, err := s.courses.Update(ctx, domain.Course{ID: id, Name: name, Description: description, Status: status})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("update course: %w", err)
	}
	return course, nil
}

// Delete removes a course along with its enrollments and document metadata.
func (s *CourseService) Delete(ctx context.Context, id int64) error {
	if err := s.courses.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrCourseNotFound
		}
		return fmt.Errorf("delete course: %w", err)
	}

	s.logger.Info("course deleted", zap.Int64("course_id", id))

	return nil
}

// Students lists the students enrolled in a course.
func (s *CourseService) Students(ctx context.Context, courseID int64) ([]domain.Principal, error) {
	return s.courses.ListStudents(ctx, courseID)
}

// Enroll links a student to a course.
func (s *CourseService) Enroll(ctx context.Context, courseID, studentID int64) error {
	if err := s.courses.Enroll(ctx, courseID, studentID); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return ErrAlreadyEnrolled
		}
		return fmt.Errorf("enroll student: %w", err)
	}
	return nil
}

// Unenroll removes a student from a course.
func (s *CourseService) Unenroll(ctx context.Context, courseID, studentID int64) error {
	if err := s.courses.Unenroll(ctx, courseID, studentID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotEnrolled
		}
		return fmt.Errorf("unenroll student: %w", err)
	}
	return nil
}

// Documents lists a course's document metadata.
func (s *CourseService) Documents(ctx context.Context, courseID int64) ([]domain.Document, error) {
	return s.courses.ListDocuments(ctx, courseID)
}

// AddDocument stores document metadata for a course. The file itself lives
// in external object storage under the public file id.
func (s *CourseService) AddDocument(ctx context.Context, courseID int64, name, publicFileID string) (*domain.Document, error) {
	if _, err := s.courses.GetByID(ctx, courseID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("lookup course: %w", err)
	}

	doc, err := s.courses.AddDocument(ctx, domain.Document{
		Name:         name,
		PublicFileID: publicFileID,
		CourseID:     courseID,
	})
	if err != nil {
		return nil, fmt.Errorf("add document: %w", err)
	}
	return doc, nil
}

// DeleteDocument removes document metadata by id.
func (s *CourseService) DeleteDocument(ctx context.Context, id int64) error {
	if err := s.courses.DeleteDocument(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrDocumentNotFound
		}
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}
