package domain

import "time"

// OTPPurpose scopes a one-time code to a specific flow so login and
// password-reset codes never collide.
type OTPPurpose string

const (
	OTPPurposeLogin          OTPPurpose = "login"
	OTPPurposeForgotPassword OTPPurpose = "forgot_password"
)

// Valid reports whether the purpose is one of the known flow tags.
func (p OTPPurpose) Valid() bool {
	return p == OTPPurposeLogin || p == OTPPurposeForgotPassword
}

// OTP is a short-lived 6-digit code keyed by (email, purpose). At most one
// live code exists per key; issuing a new one replaces any prior code.
type OTP struct {
	Email     string
	Code      string
	Purpose   OTPPurpose
	ExpiresAt time.Time
}

// Expired reports whether the code is past its expiry at the given instant.
func (o OTP) Expired(now time.Time) bool {
	return o.ExpiresAt.Before(now)
}
