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

var (
	// ErrLastAdmin guards against deleting the sole remaining admin row,
	// which would lock everyone out of the system.
	ErrLastAdmin = errors.New("cannot delete the last admin")
	// ErrEmailTaken indicates the email is already registered.
	ErrEmailTaken = errors.New("email already in use")
)

// New accounts start with this password and are expected to change it via
// the forced change-password flow on first login.
const defaultPassword = "password123"

// AdminService manages admin accounts.
type AdminService struct {
	admins port.PrincipalRepository
	logger *zap.Logger

	hashPassword func(string) (string, error)
}

// NewAdminService constructs the admin management service.
func NewAdminService(admins port.PrincipalRepository, log *zap.Logger) *AdminService {
	if log == nil {
		log = zap.NewNop()
	}
	return &AdminService{
		admins:       admins,
		logger:       log,
		hashPassword: security.HashPassword,
	}
}

// List returns all admin accounts.
func (s *AdminService) List(ctx context.Context) ([]domain.Principal, error) {
	return s.admins.List(ctx)
}

// Get returns a single admin account.
func (s *AdminService) Get(ctx context.Context, id int64) (*domain.Principal, error) {
	admin, err := s.admins.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPrincipalNotFound
		}
		return nil, fmt.Errorf("lookup admin: %w", err)
	}
	return admin, nil
}

// Create registers a new admin with the default password.
func (s *AdminService) Create(ctx context.Context, name, email string) (*domain.Principal, error) {
	hash, err := s.hashPassword(defaultPassword)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	admin, err := s.admins.Create(ctx, domain.Principal{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create admin: %w", err)
	}

	s.logger.Info("admin created",
		zap.Int64("admin_id", admin.ID),
		zap.String("email", logger.MaskEmail(admin.Email)),
	)

	return admin, nil
}

// Update renames or re-addresses an admin account.
func (s *AdminService) Update(ctx context.Context, id int64, name, email string) (*domain.Principal, error) {
	admin, err := s.admins.Update(ctx, domain.Principal{ID: id, Name: name, Email: email})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPrincipalNotFound
		}
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("update admin: %w", err)
	}
	return admin, nil
}

// Delete removes an admin account. The last remaining admin can never be
// deleted; the row count is checked first so a lone-admin delete fails
// without touching the table.
func (s *AdminService) Delete(ctx context.Context, id int64) error {
	count, err := s.admins.Count(ctx)
	if err != nil {
		return fmt.Errorf("count admins: %w", err)
	}
	if count <= 1 {
		return ErrLastAdmin
	}

	if err := s.admins.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPrincipalNotFound
		}
		return fmt.Errorf("delete admin: %w", err)
	}

	s.logger.Info("admin deleted", zap.Int64("admin_id", id))

	return nil
}
