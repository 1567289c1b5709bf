package usecase

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Velroxe/Khatri-College/internal/core/domain"
	"github.com/Velroxe/Khatri-College/internal/core/port"
	"github.com/Velroxe/Khatri-College/internal/infra/logger"
	"github.com/Velroxe/Khatri-College/internal/infra/security"
	"github.com/Velroxe/Khatri-College/internal/repository"
)

// ErrUnknownStatus indicates a status value outside the known set.
var ErrUnknownStatus = errors.New("unknown student status")

// StudentService manages student accounts.
type StudentService struct {
	students port.PrincipalRepository
	logger   *zap.Logger

	hashPassword func(string) (string, error)
}

// NewStudentService constructs the student management service.
func NewStudentService(students port.PrincipalRepository, log *zap.Logger) *StudentService {
	if log == nil {
		log = zap.NewNop()
	}
	return &StudentService{
		students:     students,
		logger:       log,
		hashPassword: security.HashPassword,
	}
}

// List returns all student accounts.
func (s *StudentService) List(ctx context.Context) ([]domain.Principal, error) {
	return s.students.List(ctx)
}

// Get returns a single student account.
func (s *StudentService) Get(ctx context.Context, id int64) (*domain.Principal, error) {
	student, err := s.students.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPrincipalNotFound
		}
		return nil, fmt.Errorf("lookup student: %w", err)
	}
	return student, nil
}

// Create registers a new active student with the default password.
func (s *StudentService) Create(ctx context.Context, name, email string) (*domain.Principal, error) {
	hash, err := s.hashPassword(defaultPassword)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	student, err := s.students.Create(ctx, domain.Principal{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Status:       domain.StudentStatusActive,
	})
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create student: %w", err)
	}

	s.logger.Info("student created",
		zap.Int64("student_id", student.ID),
		zap.String("email", logger.MaskEmail(student.Email)),
	)

	return student, nil
}

// Update edits a student's name, email, and status. Setting the status to
// suspended locks the account out of every authenticated path immediately
// after the current access token lapses.
func (s *StudentService) Update(ctx context.Context, id int64, name, email string, status domain.StudentStatus) (*domain.Principal, error) {
	switch status {
	case "", domain.StudentStatusActive, domain.StudentStatusSuspended, domain.StudentStatusLeft:
	default:
		return nil, ErrUnknownStatus
	}

	student, err := s.students.Update(ctx, domain.Principal{ID: id, Name: name, Email: email, Status: status})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPrincipalNotFound
		}
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("update student: %w", err)
	}
	return student, nil
}

// Delete removes a student account.
func (s *StudentService) Delete(ctx context.Context, id int64) error {
	if err := s.students.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPrincipalNotFound
		}
		return fmt.Errorf("delete student: %w", err)
	}

	s.logger.Info("student deleted", zap.Int64("student_id", id))

	return nil
}
