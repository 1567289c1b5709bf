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
	// ErrFacultyNotFound indicates no faculty profile exists for the given id.
	ErrFacultyNotFound = errors.New("faculty not found")
	// ErrScholarNotFound indicates no scholar exists for the given id.
	ErrScholarNotFound = errors.New("scholar not found")
	// ErrNoSubjects indicates a scholar write without any subject entries.
	ErrNoSubjects = errors.New("scholar needs at least one subject")
)

// CatalogService manages the public-site faculty and scholar showcase.
// Reads are public; writes sit behind the admin session.
type CatalogService struct {
	faculties port.FacultyRepository
	scholars  port.ScholarRepository
	logger    *zap.Logger
}

// NewCatalogService constructs the showcase management service.
func NewCatalogService(faculties port.FacultyRepository, scholars port.ScholarRepository, log *zap.Logger) *CatalogService {
	if log == nil {
		log = zap.NewNop()
	}
	return &CatalogService{faculties: faculties, scholars: scholars, logger: log}
}

// ListFaculties returns all faculty profiles.
func (s *CatalogService) ListFaculties(ctx context.Context) ([]domain.Faculty, error) {
	return s.faculties.List(ctx)
}

// GetFaculty returns a single faculty profile.
func (s *CatalogService) GetFaculty(ctx context.Context, id int64) (*domain.Faculty, error) {
	faculty, err := s.faculties.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrFacultyNotFound
		}
		return nil, fmt.Errorf("lookup faculty: %w", err)
	}
	return faculty, nil
}

// CreateFaculty adds a faculty profile.
func (s *CatalogService) CreateFaculty(ctx context.Context, f domain.Faculty) (*domain.Faculty, error) {
	created, err := s.faculties.Create(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("create faculty: %w", err)
	}

	s.logger.Info("faculty created", zap.Int64("faculty_id", created.ID), zap.String("name", created.Name))

	return created, nil
}

// UpdateFaculty overwrites a faculty profile.
func (s *CatalogService) UpdateFaculty(ctx context.Context, f domain.Faculty) (*domain.Faculty, error) {
	updated, err := s.faculties.Update(ctx, f)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrFacultyNotFound
		}
		return nil, fmt.Errorf("update faculty: %w", err)
	}
	return updated, nil
}

// DeleteFaculty removes a faculty profile.
func (s *CatalogService) DeleteFaculty(ctx context.Context, id int64) error {
	if err := s.faculties.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrFacultyNotFound
		}
		return fmt.Errorf("delete faculty: %w", err)
	}

	s.logger.Info("faculty deleted", zap.Int64("faculty_id", id))

	return nil
}

// ListScholars returns all scholars without their subject lists.
func (s *CatalogService) ListScholars(ctx context.Context) ([]domain.Scholar, error) {
	return s.scholars.List(ctx)
}

// GetScholar returns a scholar together with their subject marks.
func (s *CatalogService) GetScholar(ctx context.Context, id int64) (*domain.Scholar, error) {
	scholar, err := s.scholars.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrScholarNotFound
		}
		return nil, fmt.Errorf("lookup scholar: %w", err)
	}
	return scholar, nil
}

// CreateScholar adds a scholar with their subject marks. At least one
// subject entry is required.
func (s *CatalogService) CreateScholar(ctx context.Context, sch domain.Scholar) (*domain.Scholar, error) {
	if len(sch.Subjects) == 0 {
		return nil, ErrNoSubjects
	}

	created, err := s.scholars.Create(ctx, sch)
	if err != nil {
		return nil, fmt.Errorf("create scholar: %w", err)
	}

	s.logger.Info("scholar created", zap.Int64("scholar_id", created.ID), zap.String("name", created.Name))

	return created, nil
}

// UpdateScholar overwrites a scholar's basic info. A non-nil Subjects slice
// replaces the stored subject set and must not be empty.
func (s *CatalogService) UpdateScholar(ctx context.Context, sch domain.Scholar) (*domain.Scholar, error) {
	if sch.Subjects != nil && len(sch.Subjects) == 0 {
		return nil, ErrNoSubjects
	}

	updated, err := s.scholars.Update(ctx, sch)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrScholarNotFound
		}
		return nil, fmt.Errorf("update scholar: %w", err)
	}
	return updated, nil
}

// DeleteScholar removes a scholar along with their subject marks.
func (s *CatalogService) DeleteScholar(ctx context.Context, id int64) error {
	if err := s.scholars.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrScholarNotFound
		}
		return fmt.Errorf("delete scholar: %w", err)
	}

	s.logger.Info("scholar deleted", zap.Int64("scholar_id", id))

	return nil
}
