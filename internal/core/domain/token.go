package domain

import "time"

// RefreshToken is an opaque, server-tracked bearer credential. The row's
// presence with expires_at in the future is the sole proof of a live session.
type RefreshToken struct {
	Token       string
	PrincipalID int64
	ExpiresAt   time.Time
}

// Expired reports whether the token is past its expiry at the given instant.
func (t RefreshToken) Expired(now time.Time) bool {
	return t.ExpiresAt.Before(now)
}
