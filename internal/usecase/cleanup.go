package usecase

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Velroxe/Khatri-College/internal/core/domain"
	"github.com/Velroxe/Khatri-College/internal/core/port"
)

// CleanupService bulk-deletes expired OTP and refresh-token rows for both
// principal kinds. It is invoked on demand, not scheduled; expiry is
// otherwise checked lazily at use time.
type CleanupService struct {
	adminTokens   port.RefreshTokenRepository
	studentTokens port.RefreshTokenRepository
	adminOTPs     port.OTPRepository
	studentOTPs   port.OTPRepository
	logger        *zap.Logger

	now func() time.Time
}

// NewCleanupService constructs the maintenance service.
func NewCleanupService(
	adminTokens, studentTokens port.RefreshTokenRepository,
	adminOTPs, studentOTPs port.OTPRepository,
	log *zap.Logger,
) *CleanupService {
	if log == nil {
		log = zap.NewNop()
	}
	return &CleanupService{
		adminTokens:   adminTokens,
		studentTokens: studentTokens,
		adminOTPs:     adminOTPs,
		studentOTPs:   studentOTPs,
		logger:        log,
		now:           time.Now,
	}
}

// WithClock overrides the internal clock, used in tests.
func (s *CleanupService) WithClock(clock func() time.Time) *CleanupService {
	if clock != nil {
		s.now = clock
	}
	return s
}

// PurgeExpired removes every expired row across all four tables and reports
// the per-table counts. Safe to run repeatedly; an immediate second run
// removes nothing.
func (s *CleanupService) PurgeExpired(ctx context.Context) (*domain.CleanupReport, error) {
	cutoff := s.now()
	report := &domain.CleanupReport{}
	var err error

	if report.StudentOTPs, err = s.studentOTPs.DeleteExpired(ctx, cutoff); err != nil {
		return nil, fmt.Errorf("purge student otps: %w", err)
	}
	if report.AdminOTPs, err = s.adminOTPs.DeleteExpired(ctx, cutoff); err != nil {
		return nil, fmt.Errorf("purge admin otps: %w", err)
	}
	if report.StudentRefreshTokens, err = s.studentTokens.DeleteExpired(ctx, cutoff); err != nil {
		return nil, fmt.Errorf("purge student refresh tokens: %w", err)
	}
	if report.AdminRefreshTokens, err = s.adminTokens.DeleteExpired(ctx, cutoff); err != nil {
		return nil, fmt.Errorf("purge admin refresh tokens: %w", err)
	}

	s.logger.Info("expired auth rows purged",
		zap.Int64("student_otps", report.StudentOTPs),
		zap.Int64("admin_otps", report.AdminOTPs),
		zap.Int64("student_refresh_tokens", report.StudentRefreshTokens),
		zap.Int64("admin_refresh_tokens", report.AdminRefreshTokens),
	)

	return report, nil
}
