package security

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrTokenExpired indicates the access token's expiry has elapsed. Callers
	// may attempt the refresh path on this failure and only this failure.
	ErrTokenExpired = errors.New("access token expired")
	// ErrTokenInvalid indicates a malformed token or bad signature. This is a
	// hard failure; the refresh path must not be attempted.
	ErrTokenInvalid = errors.New("invalid access token")
)

// AccessTokenClaims is the payload of a signed access token: the principal
// kind discriminator plus the principal's id and email.
type AccessTokenClaims struct {
	Role        string `json:"role"`
	PrincipalID int64  `json:"pid"`
	Email       string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// TokenIssuer mints and verifies HS256-signed access tokens with a fixed
// lifetime. It is stateless; authority derives from the shared secret.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenIssuer constructs a TokenIssuer with the given signing secret and
// access-token lifetime.
func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &TokenIssuer{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// WithClock overrides the internal clock, used in tests.
func (t *TokenIssuer) WithClock(clock func() time.Time) {
	if clock != nil {
		t.now = clock
	}
}

// AccessTokenTTL returns the configured access-token lifetime.
func (t *TokenIssuer) AccessTokenTTL() time.Duration {
	return t.ttl
}

// IssueAccessToken signs a token embedding the role discriminator and the
// supplied principal claims, expiring ttl from now.
func (t *TokenIssuer) IssueAccessToken(role string, principalID int64, email string) (string, error) {
	if role == "" {
		return "", fmt.Errorf("role is required")
	}
	if principalID <= 0 {
		return "", fmt.Errorf("principal id is required")
	}

	now := t.now().UTC()
	claims := AccessTokenClaims{
		Role:        role,
		PrincipalID: principalID,
		Email:       email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signed, nil
}

// VerifyAccessToken validates the signature and expiry of a signed token,
// returning its claims. Expiry is reported as ErrTokenExpired, every other
// failure as ErrTokenInvalid so callers can distinguish the refresh-eligible
// case from tampering.
func (t *TokenIssuer) VerifyAccessToken(token string) (*AccessTokenClaims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrTokenInvalid
	}

	claims := &AccessTokenClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", tok.Header["alg"])
		}
		return t.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return t.now() }))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	if parsed == nil || !parsed.Valid {
		return nil, ErrTokenInvalid
	}
	if claims.PrincipalID <= 0 {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}
