package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Velroxe/Khatri-College/internal/core/domain"
	"github.com/Velroxe/Khatri-College/internal/core/port"
	"github.com/Velroxe/Khatri-College/internal/infra/logger"
	"github.com/Velroxe/Khatri-College/internal/infra/security"
	"github.com/Velroxe/Khatri-College/internal/repository"
)

var (
	// ErrNoCredentials indicates a request that carried neither an access nor
	// a refresh token cookie.
	ErrNoCredentials = errors.New("authentication required")
	// ErrInvalidAccessToken indicates a malformed or tampered access token.
	// The refresh path is never attempted after this failure.
	ErrInvalidAccessToken = errors.New("invalid access token")
	// ErrSessionExpired indicates the access token lapsed and no refresh
	// token was presented; the client must log in again.
	ErrSessionExpired = errors.New("session expired")
	// ErrInvalidRefreshToken indicates the presented refresh token has no
	// backing store row.
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	// ErrExpiredRefreshToken indicates the refresh token's row existed but
	// was past its expiry; the row is removed as a side effect.
	ErrExpiredRefreshToken = errors.New("refresh token expired")
	// ErrPrincipalNotFound indicates no identity exists for the given email
	// or id.
	ErrPrincipalNotFound = errors.New("account not found")
	// ErrInvalidPassword indicates a password mismatch.
	ErrInvalidPassword = errors.New("invalid password")
	// ErrInvalidOTP covers a wrong, already-consumed, or superseded code.
	ErrInvalidOTP = errors.New("invalid otp")
	// ErrExpiredOTP indicates the code matched but its expiry had elapsed;
	// the row is removed as a side effect.
	ErrExpiredOTP = errors.New("otp expired")
	// ErrEmailDelivery indicates the mail provider rejected the send.
	ErrEmailDelivery = errors.New("email delivery failed")
)

// Session is the outcome of a successful authentication. Rotated reports
// whether fresh token values were minted, in which case both must be re-set
// as cookies before the response body is written.
type Session struct {
	Principal    *domain.Principal
	AccessToken  string
	RefreshToken string
	Rotated      bool
}

// AuthService orchestrates the credential flows for one principal kind. The
// same implementation serves admins and students; the kind carries the table
// binding, the JWT role tag, and the optional account-status gate.
type AuthService struct {
	kind       domain.PrincipalKind
	principals port.PrincipalRepository
	tokens     port.RefreshTokenRepository
	otps       port.OTPRepository
	mailer     port.Mailer
	issuer     *security.TokenIssuer
	validator  *security.PasswordValidator
	refreshTTL time.Duration
	otpTTL     time.Duration
	logger     *zap.Logger

	now          func() time.Time
	newToken     func() (string, error)
	newOTP       func() (string, error)
	hashPassword func(string) (string, error)
}

// NewAuthService wires an auth service for the given kind.
func NewAuthService(
	kind domain.PrincipalKind,
	principals port.PrincipalRepository,
	tokens port.RefreshTokenRepository,
	otps port.OTPRepository,
	mailer port.Mailer,
	issuer *security.TokenIssuer,
	validator *security.PasswordValidator,
	refreshTTL time.Duration,
	otpTTL time.Duration,
	log *zap.Logger,
) *AuthService {
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}
	if otpTTL <= 0 {
		otpTTL = 5 * time.Minute
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthService{
		kind:         kind,
		principals:   principals,
		tokens:       tokens,
		otps:         otps,
		mailer:       mailer,
		issuer:       issuer,
		validator:    validator,
		refreshTTL:   refreshTTL,
		otpTTL:       otpTTL,
		logger:       log,
		now:          time.Now,
		newToken:     security.GenerateRefreshToken,
		newOTP:       security.GenerateOTP,
		hashPassword: security.HashPassword,
	}
}

// Kind exposes the principal kind this service is bound to.
func (s *AuthService) Kind() domain.PrincipalKind {
	return s.kind
}

// RefreshTokenTTL returns the configured refresh-token lifetime.
func (s *AuthService) RefreshTokenTTL() time.Duration {
	return s.refreshTTL
}

// AccessTokenTTL returns the access-token lifetime of the backing issuer.
func (s *AuthService) AccessTokenTTL() time.Duration {
	return s.issuer.AccessTokenTTL()
}

// WithClock overrides the internal clock, used in tests.
func (s *AuthService) WithClock(clock func() time.Time) *AuthService {
	if clock != nil {
		s.now = clock
	}
	return s
}

// WithTokenSource overrides refresh-token generation, used in tests.
func (s *AuthService) WithTokenSource(gen func() (string, error)) *AuthService {
	if gen != nil {
		s.newToken = gen
	}
	return s
}

// WithOTPSource overrides OTP generation, used in tests.
func (s *AuthService) WithOTPSource(gen func() (string, error)) *AuthService {
	if gen != nil {
		s.newOTP = gen
	}
	return s
}

func (s *AuthService) mintSession(ctx context.Context, p *domain.Principal, touchLastLogin bool) (*Session, error) {
	refreshToken, err := s.newToken()
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	expiresAt := s.now().Add(s.refreshTTL)
	if err := s.tokens.RecordLogin(ctx, p.ID, refreshToken, expiresAt, touchLastLogin); err != nil {
		return nil, fmt.Errorf("record %s login: %w", s.kind.Name, err)
	}

	accessToken, err := s.issuer.IssueAccessToken(s.kind.Name, p.ID, p.Email)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}

	return &Session{
		Principal:    p,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Rotated:      true,
	}, nil
}

// LoginWithPassword authenticates by email and password. On success it stamps
// last_login_at and inserts a refresh token in one transaction.
func (s *AuthService) LoginWithPassword(ctx context.Context, email, password string) (*Session, error) {
	principal, err := s.principals.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPrincipalNotFound
		}
		return nil, fmt.Errorf("lookup %s by email: %w", s.kind.Name, err)
	}

	match, err := security.VerifyPassword(password, principal.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !match {
		return nil, ErrInvalidPassword
	}

	session, err := s.mintSession(ctx, principal, true)
	if err != nil {
		return nil, err
	}

	s.logger.Info("password login",
		zap.String("kind", s.kind.Name),
		zap.Int64("principal_id", principal.ID),
		zap.String("email", logger.MaskEmail(principal.Email)),
	)

	return session, nil
}

// SendOTP issues a one-time code for an existing identity and dispatches it
// by email. A reissued code supersedes any earlier one for the same purpose.
// The row is persisted before the send attempt; a delivery failure leaves it
// in place.
func (s *AuthService) SendOTP(ctx context.Context, email string, purpose domain.OTPPurpose) error {
	if !purpose.Valid() {
		return fmt.Errorf("unknown otp purpose %q", purpose)
	}

	if _, err := s.principals.GetByEmail(ctx, email); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPrincipalNotFound
		}
		return fmt.Errorf("lookup %s by email: %w", s.kind.Name, err)
	}

	code, err := s.newOTP()
	if err != nil {
		return fmt.Errorf("generate otp: %w", err)
	}

	otp := domain.OTP{
		Email:     email,
		Code:      code,
		Purpose:   purpose,
		ExpiresAt: s.now().Add(s.otpTTL),
	}
	if err := s.otps.Replace(ctx, otp); err != nil {
		return fmt.Errorf("store otp: %w", err)
	}

	subject, body := otpEmail(purpose, code, s.otpTTL)
	if err := s.mailer.Send(ctx, email, subject, body); err != nil {
		s.logger.Error("otp email dispatch failed",
			zap.String("kind", s.kind.Name),
			zap.String("email", logger.MaskEmail(email)),
			zap.Error(err),
		)
		return fmt.Errorf("%w: %v", ErrEmailDelivery, err)
	}

	return nil
}

// checkOTP validates a code without consuming it. An expired row is deleted
// so a later retry of the same code reads as invalid, not expired.
func (s *AuthService) checkOTP(ctx context.Context, email, code string, purpose domain.OTPPurpose) error {
	otp, err := s.otps.Get(ctx, email, code, purpose)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidOTP
		}
		return fmt.Errorf("lookup otp: %w", err)
	}

	if otp.Expired(s.now()) {
		if err := s.otps.Delete(ctx, email, purpose); err != nil {
			return fmt.Errorf("delete expired otp: %w", err)
		}
		return ErrExpiredOTP
	}

	return nil
}

// VerifyOTP is the probe-only validity check. It never consumes a live code
// and never issues tokens.
func (s *AuthService) VerifyOTP(ctx context.Context, email, code string, purpose domain.OTPPurpose) error {
	if !purpose.Valid() {
		return fmt.Errorf("unknown otp purpose %q", purpose)
	}
	return s.checkOTP(ctx, email, code, purpose)
}

// LoginWithOTP authenticates by a login-purpose code, consuming it on
// success. Unlike password login this path does not stamp last_login_at.
func (s *AuthService) LoginWithOTP(ctx context.Context, email, code string) (*Session, error) {
	if err := s.checkOTP(ctx, email, code, domain.OTPPurposeLogin); err != nil {
		return nil, err
	}

	if err := s.otps.Delete(ctx, email, domain.OTPPurposeLogin); err != nil {
		return nil, fmt.Errorf("consume otp: %w", err)
	}

	principal, err := s.principals.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPrincipalNotFound
		}
		return nil, fmt.Errorf("lookup %s by email: %w", s.kind.Name, err)
	}

	session, err := s.mintSession(ctx, principal, false)
	if err != nil {
		return nil, err
	}

	s.logger.Info("otp login",
		zap.String("kind", s.kind.Name),
		zap.Int64("principal_id", principal.ID),
		zap.String("email", logger.MaskEmail(principal.Email)),
	)

	return session, nil
}

// ForgotPassword resets the password after a forgot-password code checks out,
// consuming the code. It does not log the caller in.
func (s *AuthService) ForgotPassword(ctx context.Context, email, code, newPassword string) error {
	if err := s.checkOTP(ctx, email, code, domain.OTPPurposeForgotPassword); err != nil {
		return err
	}

	if s.validator != nil {
		if err := s.validator.Validate(newPassword, email); err != nil {
			return err
		}
	}

	hash, err := s.hashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.principals.UpdatePasswordByEmail(ctx, email, hash); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPrincipalNotFound
		}
		return fmt.Errorf("update %s password: %w", s.kind.Name, err)
	}

	if err := s.otps.Delete(ctx, email, domain.OTPPurposeForgotPassword); err != nil {
		return fmt.Errorf("consume otp: %w", err)
	}

	return nil
}

// ChangePassword replaces the password of an authenticated principal after
// re-verifying the old one.
func (s *AuthService) ChangePassword(ctx context.Context, principalID int64, oldPassword, newPassword string) error {
	principal, err := s.principals.GetByID(ctx, principalID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPrincipalNotFound
		}
		return fmt.Errorf("lookup %s: %w", s.kind.Name, err)
	}

	match, err := security.VerifyPassword(oldPassword, principal.PasswordHash)
	if err != nil {
		return fmt.Errorf("verify password: %w", err)
	}
	if !match {
		return ErrInvalidPassword
	}

	if s.validator != nil {
		if err := s.validator.Validate(newPassword, principal.Email, principal.Name); err != nil {
			return err
		}
	}

	hash, err := s.hashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.principals.UpdatePassword(ctx, principalID, hash); err != nil {
		return fmt.Errorf("update %s password: %w", s.kind.Name, err)
	}

	return nil
}

// loadLiveRefreshToken resolves a refresh token value to its live row and
// backing principal, enforcing expiry and the kind's status gate.
func (s *AuthService) loadLiveRefreshToken(ctx context.Context, refreshToken string) (*domain.Principal, error) {
	record, err := s.tokens.GetByToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, fmt.Errorf("lookup refresh token: %w", err)
	}

	if record.Expired(s.now()) {
		if err := s.tokens.Delete(ctx, refreshToken); err != nil {
			return nil, fmt.Errorf("delete expired refresh token: %w", err)
		}
		return nil, ErrExpiredRefreshToken
	}

	principal, err := s.principals.GetByID(ctx, record.PrincipalID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPrincipalNotFound
		}
		return nil, fmt.Errorf("lookup %s: %w", s.kind.Name, err)
	}

	if err := s.kind.CheckGate(*principal); err != nil {
		return nil, err
	}

	return principal, nil
}

// Refresh is the explicit sliding-window renewal: it extends the expiry of
// the presented refresh token without changing its value and mints a new
// access token. The transparent middleware path rotates instead; the two are
// deliberately distinct.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	if refreshToken == "" {
		return nil, ErrNoCredentials
	}

	principal, err := s.loadLiveRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	if err := s.tokens.ExtendExpiry(ctx, refreshToken, s.now().Add(s.refreshTTL)); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, fmt.Errorf("extend refresh token: %w", err)
	}

	accessToken, err := s.issuer.IssueAccessToken(s.kind.Name, principal.ID, principal.Email)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}

	return &Session{
		Principal:    principal,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Rotated:      true,
	}, nil
}

// Logout removes the refresh token row when one is presented. It always
// succeeds so repeated calls with no cookie behave the same as the first.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}

	if err := s.tokens.Delete(ctx, refreshToken); err != nil {
		return fmt.Errorf("delete refresh token: %w", err)
	}

	return nil
}

// Authenticate evaluates the session state machine over the two cookie
// values. A verifiable access token authenticates directly; an expired or
// absent one falls through to the refresh path, which rotates the refresh
// token. An access token that fails verification for any reason other than
// expiry is rejected outright, never downgraded to the refresh path.
func (s *AuthService) Authenticate(ctx context.Context, accessToken, refreshToken string) (*Session, error) {
	if accessToken == "" && refreshToken == "" {
		return nil, ErrNoCredentials
	}

	if accessToken != "" {
		claims, err := s.issuer.VerifyAccessToken(accessToken)
		switch {
		case err == nil:
			if claims.Role != s.kind.Name {
				return nil, ErrInvalidAccessToken
			}
			principal, err := s.principals.GetByID(ctx, claims.PrincipalID)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return nil, ErrInvalidAccessToken
				}
				return nil, fmt.Errorf("lookup %s: %w", s.kind.Name, err)
			}
			if err := s.kind.CheckGate(*principal); err != nil {
				return nil, err
			}
			return &Session{Principal: principal, AccessToken: accessToken}, nil
		case errors.Is(err, security.ErrTokenExpired):
			// fall through to the refresh path
		default:
			return nil, ErrInvalidAccessToken
		}
	}

	if refreshToken == "" {
		return nil, ErrSessionExpired
	}

	principal, err := s.loadLiveRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	newToken, err := s.newToken()
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	// The new row must be durable before any cookie carrying it is written;
	// Rotate commits before returning.
	if err := s.tokens.Rotate(ctx, refreshToken, principal.ID, newToken, s.now().Add(s.refreshTTL)); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, fmt.Errorf("rotate refresh token: %w", err)
	}

	newAccess, err := s.issuer.IssueAccessToken(s.kind.Name, principal.ID, principal.Email)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}

	return &Session{
		Principal:    principal,
		AccessToken:  newAccess,
		RefreshToken: newToken,
		Rotated:      true,
	}, nil
}

func otpEmail(purpose domain.OTPPurpose, code string, ttl time.Duration) (string, string) {
	minutes := int(ttl.Minutes())
	switch purpose {
	case domain.OTPPurposeForgotPassword:
		subject := "Password Reset Code"
		body := fmt.Sprintf(
			"<p>Your password reset code is <strong>%s</strong>.</p><p>It expires in %d minutes. If you did not request a reset, you can ignore this email.</p>",
			code, minutes,
		)
		return subject, body
	default:
		subject := "Your Login Code"
		body := fmt.Sprintf(
			"<p>Your one-time login code is <strong>%s</strong>.</p><p>It expires in %d minutes.</p>",
			code, minutes,
		)
		return subject, body
	}
}
