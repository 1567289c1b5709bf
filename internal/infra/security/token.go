package security

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"fmt"
)

const refreshTokenBytes = 64

// GenerateRefreshToken returns 64 bytes of cryptographically secure
// randomness as a 128-character hex string. The value carries no claims;
// authority comes solely from its presence as a live store row.
func GenerateRefreshToken() (string, error) {
	buf := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate refresh token: %w", err)
	}

	return hex.EncodeToString(buf), nil
}

// GenerateOTP returns a uniformly random 6-digit code in [100000, 999999].
func GenerateOTP() (string, error) {
	const span = 900000

	// Rejection sampling keeps the distribution uniform across the span.
	for {
		var raw [4]byte
		if _, err := rand.Read(raw[:]); err != nil {
			return "", fmt.Errorf("generate otp: %w", err)
		}

		v := binary.BigEndian.Uint32(raw[:])
		if v >= (1<<32/span)*span {
			continue
		}

		return fmt.Sprintf("%06d", 100000+v%span), nil
	}
}
