package usecase

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/Velroxe/Khatri-College/internal/core/domain"
)

func TestCleanupService_PurgeExpired(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	adminTokens := newMemTokenRepo(nil)
	studentTokens := newMemTokenRepo(nil)
	adminOTPs := newMemOTPRepo()
	studentOTPs := newMemOTPRepo()

	ctx := context.Background()

	// Two expired and one live student token, one expired admin token.
	_ = studentTokens.RecordLogin(ctx, 1, "s-old-1", now.Add(-time.Hour), false)
	_ = studentTokens.RecordLogin(ctx, 2, "s-old-2", now.Add(-time.Minute), false)
	_ = studentTokens.RecordLogin(ctx, 3, "s-live", now.Add(time.Hour), false)
	_ = adminTokens.RecordLogin(ctx, 1, "a-old", now.Add(-time.Hour), false)

	_ = studentOTPs.Replace(ctx, domain.OTP{Email: "s@x.com", Code: "111111", Purpose: domain.OTPPurposeLogin, ExpiresAt: now.Add(-time.Minute)})
	_ = adminOTPs.Replace(ctx, domain.OTP{Email: "a@x.com", Code: "222222", Purpose: domain.OTPPurposeLogin, ExpiresAt: now.Add(time.Minute)})

	svc := NewCleanupService(adminTokens, studentTokens, adminOTPs, studentOTPs, zaptest.NewLogger(t)).
		WithClock(func() time.Time { return now })

	report, err := svc.PurgeExpired(ctx)
	if err != nil {
		t.Fatalf("PurgeExpired returned error: %v", err)
	}

	if report.StudentRefreshTokens != 2 {
		t.Fatalf("expected 2 student tokens purged, got %d", report.StudentRefreshTokens)
	}
	if report.AdminRefreshTokens != 1 {
		t.Fatalf("expected 1 admin token purged, got %d", report.AdminRefreshTokens)
	}
	if report.StudentOTPs != 1 || report.AdminOTPs != 0 {
		t.Fatalf("unexpected otp counts: %+v", report)
	}
	if !studentTokens.has("s-live") {
		t.Fatalf("live token must survive the purge")
	}

	// Idempotent: an immediate second run removes nothing.
	second, err := svc.PurgeExpired(ctx)
	if err != nil {
		t.Fatalf("second PurgeExpired returned error: %v", err)
	}
	if *second != (domain.CleanupReport{}) {
		t.Fatalf("second purge must be empty, got %+v", second)
	}
}
