package port

import (
	"context"
	"time"

	"github.com/Velroxe/Khatri-College/internal/core/domain"
)

// RefreshTokenRepository tracks opaque refresh tokens for one principal kind.
type RefreshTokenRepository interface {
	// RecordLogin inserts a fresh refresh token and, when touchLastLogin is
	// set, stamps the principal's last_login_at in the same transaction.
	RecordLogin(ctx context.Context, principalID int64, token string, expiresAt time.Time, touchLastLogin bool) error
	GetByToken(ctx context.Context, token string) (*domain.RefreshToken, error)
	Delete(ctx context.Context, token string) error
	// ExtendExpiry slides the expiry window without changing the token value.
	ExtendExpiry(ctx context.Context, token string, expiresAt time.Time) error
	// Rotate atomically replaces oldToken with newToken; the old row must
	// never outlive the transaction, and the new row must be durable before
	// any cookie carrying newToken is written.
	Rotate(ctx context.Context, oldToken string, principalID int64, newToken string, expiresAt time.Time) error
	DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error)
}

// OTPRepository stores one-time codes keyed by (email, purpose).
type OTPRepository interface {
	// Replace removes any existing code for the (email, purpose) key and
	// persists the supplied one, so a reissued OTP supersedes its predecessor.
	Replace(ctx context.Context, otp domain.OTP) error
	Get(ctx context.Context, email, code string, purpose domain.OTPPurpose) (*domain.OTP, error)
	Delete(ctx context.Context, email string, purpose domain.OTPPurpose) error
	DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error)
}
