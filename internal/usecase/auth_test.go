package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/Velroxe/Khatri-College/internal/core/domain"
	"github.com/Velroxe/Khatri-College/internal/infra/security"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func sequentialTokens(prefix string) func() (string, error) {
	var n int
	return func() (string, error) {
		n++
		return fmt.Sprintf("%s-%04d", prefix, n), nil
	}
}

func fixedOTP(code string) func() (string, error) {
	return func() (string, error) { return code, nil }
}

type authFixture struct {
	svc        *AuthService
	principals *memPrincipalRepo
	tokens     *memTokenRepo
	otps       *memOTPRepo
	mailer     *recordingMailer
	clock      *fakeClock
	issuer     *security.TokenIssuer
}

func newAuthFixture(t *testing.T, kind domain.PrincipalKind, seed ...domain.Principal) *authFixture {
	t.Helper()

	clock := &fakeClock{t: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)}
	issuer := security.NewTokenIssuer("test-secret", 15*time.Minute)
	issuer.WithClock(clock.Now)

	principals := newMemPrincipalRepo(seed...)
	tokens := newMemTokenRepo(principals)
	otps := newMemOTPRepo()
	mailer := &recordingMailer{}

	svc := NewAuthService(
		kind,
		principals,
		tokens,
		otps,
		mailer,
		issuer,
		security.DefaultPasswordValidator(),
		7*24*time.Hour,
		5*time.Minute,
		zaptest.NewLogger(t),
	)
	svc.WithClock(clock.Now)
	svc.WithTokenSource(sequentialTokens("refresh"))

	return &authFixture{
		svc:        svc,
		principals: principals,
		tokens:     tokens,
		otps:       otps,
		mailer:     mailer,
		clock:      clock,
		issuer:     issuer,
	}
}

func seedStudent(t *testing.T, email, password string, status domain.StudentStatus) domain.Principal {
	t.Helper()
	hash, err := security.HashPassword(password)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return domain.Principal{Name: "Test Student", Email: email, PasswordHash: hash, Status: status}
}

func seedAdmin(t *testing.T, email, password string) domain.Principal {
	t.Helper()
	hash, err := security.HashPassword(password)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return domain.Principal{Name: "Test Admin", Email: email, PasswordHash: hash}
}

func TestLoginWithPassword_Success(t *testing.T) {
	fx := newAuthFixture(t, domain.KindAdmin, seedAdmin(t, "admin@college.edu", "s3cure-Pa55word"))

	session, err := fx.svc.LoginWithPassword(context.Background(), "admin@college.edu", "s3cure-Pa55word")
	if err != nil {
		t.Fatalf("LoginWithPassword returned error: %v", err)
	}
	if !session.Rotated {
		t.Fatalf("expected fresh tokens on login")
	}
	if session.Principal.PasswordHash == "" {
		t.Fatalf("expected principal loaded from store")
	}
	if !fx.tokens.has(session.RefreshToken) {
		t.Fatalf("refresh token row missing after login")
	}

	claims, err := fx.issuer.VerifyAccessToken(session.AccessToken)
	if err != nil {
		t.Fatalf("access token does not verify: %v", err)
	}
	if claims.Role != "admin" || claims.PrincipalID != session.Principal.ID {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	stored, err := fx.principals.GetByID(context.Background(), session.Principal.ID)
	if err != nil {
		t.Fatalf("reload principal: %v", err)
	}
	if stored.LastLoginAt == nil {
		t.Fatalf("password login must stamp last_login_at")
	}
}

func TestLoginWithPassword_Failures(t *testing.T) {
	fx := newAuthFixture(t, domain.KindAdmin, seedAdmin(t, "admin@college.edu", "s3cure-Pa55word"))

	if _, err := fx.svc.LoginWithPassword(context.Background(), "admin@college.edu", "wrong"); !errors.Is(err, ErrInvalidPassword) {
		t.Fatalf("expected ErrInvalidPassword, got %v", err)
	}
	if _, err := fx.svc.LoginWithPassword(context.Background(), "ghost@college.edu", "whatever"); !errors.Is(err, ErrPrincipalNotFound) {
		t.Fatalf("expected ErrPrincipalNotFound, got %v", err)
	}
	if fx.tokens.count() != 0 {
		t.Fatalf("failed logins must not create refresh tokens")
	}
}

func TestLoginWithPassword_SuspendedStudentIsNotGated(t *testing.T) {
	// The status gate applies on the token paths, not at password login.
	fx := newAuthFixture(t, domain.KindStudent, seedStudent(t, "s@college.edu", "s3cure-Pa55word", domain.StudentStatusSuspended))

	session, err := fx.svc.LoginWithPassword(context.Background(), "s@college.edu", "s3cure-Pa55word")
	if err != nil {
		t.Fatalf("suspended student must still pass password login, got %v", err)
	}

	// The minted tokens are immediately useless against the middleware.
	if _, err := fx.svc.Authenticate(context.Background(), session.AccessToken, session.RefreshToken); !errors.Is(err, domain.ErrAccountSuspended) {
		t.Fatalf("expected ErrAccountSuspended from the token path, got %v", err)
	}
}

func TestLoginWithOTP_DoesNotTouchLastLogin(t *testing.T) {
	fx := newAuthFixture(t, domain.KindStudent, seedStudent(t, "s@college.edu", "s3cure-Pa55word", domain.StudentStatusActive))
	fx.svc.WithOTPSource(fixedOTP("482913"))

	if err := fx.svc.SendOTP(context.Background(), "s@college.edu", domain.OTPPurposeLogin); err != nil {
		t.Fatalf("SendOTP returned error: %v", err)
	}

	session, err := fx.svc.LoginWithOTP(context.Background(), "s@college.edu", "482913")
	if err != nil {
		t.Fatalf("LoginWithOTP returned error: %v", err)
	}
	if !fx.tokens.has(session.RefreshToken) {
		t.Fatalf("refresh token row missing after otp login")
	}

	stored, err := fx.principals.GetByID(context.Background(), session.Principal.ID)
	if err != nil {
		t.Fatalf("reload principal: %v", err)
	}
	if stored.LastLoginAt != nil {
		t.Fatalf("otp login must not stamp last_login_at")
	}
}

func TestSendOTP_RequiresExistingIdentity(t *testing.T) {
	fx := newAuthFixture(t, domain.KindAdmin)

	err := fx.svc.SendOTP(context.Background(), "nobody@college.edu", domain.OTPPurposeLogin)
	if !errors.Is(err, ErrPrincipalNotFound) {
		t.Fatalf("expected ErrPrincipalNotFound, got %v", err)
	}
	if _, ok := fx.mailer.last(); ok {
		t.Fatalf("no mail may be sent for unknown identities")
	}
}

func TestSendOTP_DeliversCodeByEmail(t *testing.T) {
	fx := newAuthFixture(t, domain.KindAdmin, seedAdmin(t, "admin@college.edu", "s3cure-Pa55word"))
	fx.svc.WithOTPSource(fixedOTP("271828"))

	if err := fx.svc.SendOTP(context.Background(), "admin@college.edu", domain.OTPPurposeForgotPassword); err != nil {
		t.Fatalf("SendOTP returned error: %v", err)
	}

	mail, ok := fx.mailer.last()
	if !ok {
		t.Fatalf("expected a mail to be sent")
	}
	if mail.to != "admin@college.edu" {
		t.Fatalf("mail sent to %q", mail.to)
	}
	if !strings.Contains(mail.body, "271828") {
		t.Fatalf("mail body does not carry the code: %q", mail.body)
	}
	if !strings.Contains(strings.ToLower(mail.subject), "reset") {
		t.Fatalf("forgot-password mail should use the reset template, got subject %q", mail.subject)
	}
}

func TestSendOTP_DeliveryFailureKeepsRow(t *testing.T) {
	fx := newAuthFixture(t, domain.KindAdmin, seedAdmin(t, "admin@college.edu", "s3cure-Pa55word"))
	fx.svc.WithOTPSource(fixedOTP("314159"))
	fx.mailer.fail = errors.New("smtp down")

	err := fx.svc.SendOTP(context.Background(), "admin@college.edu", domain.OTPPurposeLogin)
	if !errors.Is(err, ErrEmailDelivery) {
		t.Fatalf("expected ErrEmailDelivery, got %v", err)
	}

	// The row is written before the send attempt and survives the failure.
	if err := fx.svc.VerifyOTP(context.Background(), "admin@college.edu", "314159", domain.OTPPurposeLogin); err != nil {
		t.Fatalf("otp row should survive a delivery failure, got %v", err)
	}
}

func TestLoginWithOTP_OneTimeUse(t *testing.T) {
	fx := newAuthFixture(t, domain.KindStudent, seedStudent(t, "s@college.edu", "s3cure-Pa55word", domain.StudentStatusActive))
	fx.svc.WithOTPSource(fixedOTP("482913"))

	if err := fx.svc.SendOTP(context.Background(), "s@college.edu", domain.OTPPurposeLogin); err != nil {
		t.Fatalf("SendOTP returned error: %v", err)
	}
	if _, err := fx.svc.LoginWithOTP(context.Background(), "s@college.edu", "482913"); err != nil {
		t.Fatalf("first LoginWithOTP returned error: %v", err)
	}

	if _, err := fx.svc.LoginWithOTP(context.Background(), "s@college.edu", "482913"); !errors.Is(err, ErrInvalidOTP) {
		t.Fatalf("replayed code must read invalid, got %v", err)
	}
}

func TestSendOTP_SupersedesPriorCode(t *testing.T) {
	fx := newAuthFixture(t, domain.KindAdmin, seedAdmin(t, "admin@college.edu", "s3cure-Pa55word"))

	fx.svc.WithOTPSource(fixedOTP("111111"))
	if err := fx.svc.SendOTP(context.Background(), "admin@college.edu", domain.OTPPurposeLogin); err != nil {
		t.Fatalf("first SendOTP returned error: %v", err)
	}

	fx.svc.WithOTPSource(fixedOTP("222222"))
	if err := fx.svc.SendOTP(context.Background(), "admin@college.edu", domain.OTPPurposeLogin); err != nil {
		t.Fatalf("second SendOTP returned error: %v", err)
	}

	if err := fx.svc.VerifyOTP(context.Background(), "admin@college.edu", "111111", domain.OTPPurposeLogin); !errors.Is(err, ErrInvalidOTP) {
		t.Fatalf("superseded code must read invalid, got %v", err)
	}
	if err := fx.svc.VerifyOTP(context.Background(), "admin@college.edu", "222222", domain.OTPPurposeLogin); err != nil {
		t.Fatalf("latest code must verify, got %v", err)
	}
}

func TestVerifyOTP_ExpiryBoundary(t *testing.T) {
	fx := newAuthFixture(t, domain.KindStudent, seedStudent(t, "s@college.edu", "s3cure-Pa55word", domain.StudentStatusActive))
	fx.svc.WithOTPSource(fixedOTP("482913"))

	if err := fx.svc.SendOTP(context.Background(), "s@college.edu", domain.OTPPurposeLogin); err != nil {
		t.Fatalf("SendOTP returned error: %v", err)
	}

	fx.clock.Advance(5*time.Minute - time.Second)
	if err := fx.svc.VerifyOTP(context.Background(), "s@college.edu", "482913", domain.OTPPurposeLogin); err != nil {
		t.Fatalf("code one second before expiry must verify, got %v", err)
	}

	fx.clock.Advance(2 * time.Second)
	if err := fx.svc.VerifyOTP(context.Background(), "s@college.edu", "482913", domain.OTPPurposeLogin); !errors.Is(err, ErrExpiredOTP) {
		t.Fatalf("code past expiry must read expired, got %v", err)
	}

	// Expiry detection removed the row, so the same code is now invalid.
	if err := fx.svc.VerifyOTP(context.Background(), "s@college.edu", "482913", domain.OTPPurposeLogin); !errors.Is(err, ErrInvalidOTP) {
		t.Fatalf("code after expiry cleanup must read invalid, got %v", err)
	}
}

func TestVerifyOTP_DoesNotConsume(t *testing.T) {
	fx := newAuthFixture(t, domain.KindStudent, seedStudent(t, "s@college.edu", "s3cure-Pa55word", domain.StudentStatusActive))
	fx.svc.WithOTPSource(fixedOTP("482913"))

	if err := fx.svc.SendOTP(context.Background(), "s@college.edu", domain.OTPPurposeLogin); err != nil {
		t.Fatalf("SendOTP returned error: %v", err)
	}

	for i := 0; i < 3; i++ {
		if err := fx.svc.VerifyOTP(context.Background(), "s@college.edu", "482913", domain.OTPPurposeLogin); err != nil {
			t.Fatalf("probe %d consumed the code: %v", i, err)
		}
	}

	if _, err := fx.svc.LoginWithOTP(context.Background(), "s@college.edu", "482913"); err != nil {
		t.Fatalf("login after probes returned error: %v", err)
	}
}

func TestAuthenticate_NoCredentials(t *testing.T) {
	fx := newAuthFixture(t, domain.KindAdmin)

	if _, err := fx.svc.Authenticate(context.Background(), "", ""); !errors.Is(err, ErrNoCredentials) {
		t.Fatalf("expected ErrNoCredentials, got %v", err)
	}
}

func TestAuthenticate_ValidAccessToken(t *testing.T) {
	fx := newAuthFixture(t, domain.KindAdmin, seedAdmin(t, "admin@college.edu", "s3cure-Pa55word"))

	login, err := fx.svc.LoginWithPassword(context.Background(), "admin@college.edu", "s3cure-Pa55word")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	session, err := fx.svc.Authenticate(context.Background(), login.AccessToken, login.RefreshToken)
	if err != nil {
		t.Fatalf("Authenticate returned error: %v", err)
	}
	if session.Rotated {
		t.Fatalf("a live access token must not trigger rotation")
	}
	if session.Principal.Email != "admin@college.edu" {
		t.Fatalf("unexpected principal: %+v", session.Principal)
	}
	if !fx.tokens.has(login.RefreshToken) {
		t.Fatalf("refresh token must be untouched on the direct path")
	}
}

func TestAuthenticate_InvalidSignatureNeverRefreshes(t *testing.T) {
	fx := newAuthFixture(t, domain.KindAdmin, seedAdmin(t, "admin@college.edu", "s3cure-Pa55word"))

	login, err := fx.svc.LoginWithPassword(context.Background(), "admin@college.edu", "s3cure-Pa55word")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	_, err = fx.svc.Authenticate(context.Background(), login.AccessToken+"tampered", login.RefreshToken)
	if !errors.Is(err, ErrInvalidAccessToken) {
		t.Fatalf("expected ErrInvalidAccessToken, got %v", err)
	}

	// The refresh path must not have run: the original token is still the
	// only row in the store.
	if !fx.tokens.has(login.RefreshToken) || fx.tokens.count() != 1 {
		t.Fatalf("tampered access token must not rotate the refresh token")
	}
}

func TestAuthenticate_ExpiredAccessRotates(t *testing.T) {
	fx := newAuthFixture(t, domain.KindStudent, seedStudent(t, "s@college.edu", "s3cure-Pa55word", domain.StudentStatusActive))

	login, err := fx.svc.LoginWithPassword(context.Background(), "s@college.edu", "s3cure-Pa55word")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	fx.clock.Advance(16 * time.Minute)

	session, err := fx.svc.Authenticate(context.Background(), login.AccessToken, login.RefreshToken)
	if err != nil {
		t.Fatalf("Authenticate returned error: %v", err)
	}
	if !session.Rotated {
		t.Fatalf("expired access token must trigger rotation")
	}
	if session.RefreshToken == login.RefreshToken {
		t.Fatalf("rotation must change the refresh token value")
	}
	if fx.tokens.has(login.RefreshToken) {
		t.Fatalf("rotated-out token must be removed from the store")
	}
	if claims, err := fx.issuer.VerifyAccessToken(session.AccessToken); err != nil || claims.Role != "student" {
		t.Fatalf("rotated access token does not verify: %v", err)
	}

	// Replaying the pre-rotation refresh token is a hard failure.
	if _, err := fx.svc.Authenticate(context.Background(), login.AccessToken, login.RefreshToken); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("pre-rotation token replay must fail, got %v", err)
	}
}

func TestAuthenticate_ExpiredAccessWithoutRefreshCookie(t *testing.T) {
	fx := newAuthFixture(t, domain.KindAdmin, seedAdmin(t, "admin@college.edu", "s3cure-Pa55word"))

	login, err := fx.svc.LoginWithPassword(context.Background(), "admin@college.edu", "s3cure-Pa55word")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	fx.clock.Advance(16 * time.Minute)

	if _, err := fx.svc.Authenticate(context.Background(), login.AccessToken, ""); !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
}

func TestAuthenticate_ExpiredRefreshTokenIsRemoved(t *testing.T) {
	fx := newAuthFixture(t, domain.KindAdmin, seedAdmin(t, "admin@college.edu", "s3cure-Pa55word"))

	login, err := fx.svc.LoginWithPassword(context.Background(), "admin@college.edu", "s3cure-Pa55word")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	fx.clock.Advance(8 * 24 * time.Hour)

	if _, err := fx.svc.Authenticate(context.Background(), "", login.RefreshToken); !errors.Is(err, ErrExpiredRefreshToken) {
		t.Fatalf("expected ErrExpiredRefreshToken, got %v", err)
	}
	if fx.tokens.has(login.RefreshToken) {
		t.Fatalf("expired refresh token row must be deleted on detection")
	}

	// With the row gone the same value now reads as invalid.
	if _, err := fx.svc.Authenticate(context.Background(), "", login.RefreshToken); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("expected ErrInvalidRefreshToken after cleanup, got %v", err)
	}
}

func TestAuthenticate_SuspendedStudentBothPaths(t *testing.T) {
	fx := newAuthFixture(t, domain.KindStudent, seedStudent(t, "s@college.edu", "s3cure-Pa55word", domain.StudentStatusActive))

	login, err := fx.svc.LoginWithPassword(context.Background(), "s@college.edu", "s3cure-Pa55word")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if _, err := fx.principals.Update(context.Background(), domain.Principal{
		ID:     login.Principal.ID,
		Name:   login.Principal.Name,
		Email:  login.Principal.Email,
		Status: domain.StudentStatusSuspended,
	}); err != nil {
		t.Fatalf("suspend student: %v", err)
	}

	// Direct access-token path.
	if _, err := fx.svc.Authenticate(context.Background(), login.AccessToken, login.RefreshToken); !errors.Is(err, domain.ErrAccountSuspended) {
		t.Fatalf("expected ErrAccountSuspended on the access path, got %v", err)
	}

	// Refresh path.
	fx.clock.Advance(16 * time.Minute)
	if _, err := fx.svc.Authenticate(context.Background(), login.AccessToken, login.RefreshToken); !errors.Is(err, domain.ErrAccountSuspended) {
		t.Fatalf("expected ErrAccountSuspended on the refresh path, got %v", err)
	}
	if !fx.tokens.has(login.RefreshToken) {
		t.Fatalf("suspension must not consume the refresh token")
	}
}

func TestRefresh_SlidesExpiryWithoutRotation(t *testing.T) {
	fx := newAuthFixture(t, domain.KindAdmin, seedAdmin(t, "admin@college.edu", "s3cure-Pa55word"))

	login, err := fx.svc.LoginWithPassword(context.Background(), "admin@college.edu", "s3cure-Pa55word")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	before, err := fx.tokens.GetByToken(context.Background(), login.RefreshToken)
	if err != nil {
		t.Fatalf("load token row: %v", err)
	}

	fx.clock.Advance(3 * 24 * time.Hour)

	session, err := fx.svc.Refresh(context.Background(), login.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}
	if session.RefreshToken != login.RefreshToken {
		t.Fatalf("explicit refresh must keep the token value")
	}

	after, err := fx.tokens.GetByToken(context.Background(), login.RefreshToken)
	if err != nil {
		t.Fatalf("reload token row: %v", err)
	}
	if !after.ExpiresAt.After(before.ExpiresAt) {
		t.Fatalf("refresh must slide the expiry forward: before=%v after=%v", before.ExpiresAt, after.ExpiresAt)
	}
}

func TestLogout_Idempotent(t *testing.T) {
	fx := newAuthFixture(t, domain.KindStudent, seedStudent(t, "s@college.edu", "s3cure-Pa55word", domain.StudentStatusActive))

	login, err := fx.svc.LoginWithPassword(context.Background(), "s@college.edu", "s3cure-Pa55word")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if err := fx.svc.Logout(context.Background(), login.RefreshToken); err != nil {
		t.Fatalf("first logout returned error: %v", err)
	}
	if fx.tokens.has(login.RefreshToken) {
		t.Fatalf("logout must delete the refresh token row")
	}

	// Second call, this time with no cookie, still succeeds.
	if err := fx.svc.Logout(context.Background(), ""); err != nil {
		t.Fatalf("second logout returned error: %v", err)
	}
	// And with the stale value too.
	if err := fx.svc.Logout(context.Background(), login.RefreshToken); err != nil {
		t.Fatalf("logout with stale token returned error: %v", err)
	}
}

func TestChangePassword(t *testing.T) {
	fx := newAuthFixture(t, domain.KindAdmin, seedAdmin(t, "admin@college.edu", "s3cure-Pa55word"))

	login, err := fx.svc.LoginWithPassword(context.Background(), "admin@college.edu", "s3cure-Pa55word")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	id := login.Principal.ID

	err = fx.svc.ChangePassword(context.Background(), id, "wrong-old", "fresh-Tr0uble-942")
	if !errors.Is(err, ErrInvalidPassword) {
		t.Fatalf("expected ErrInvalidPassword for wrong old password, got %v", err)
	}
	if _, err := fx.svc.LoginWithPassword(context.Background(), "admin@college.edu", "s3cure-Pa55word"); err != nil {
		t.Fatalf("password must be unchanged after a rejected change: %v", err)
	}

	if err := fx.svc.ChangePassword(context.Background(), id, "s3cure-Pa55word", "fresh-Tr0uble-942"); err != nil {
		t.Fatalf("ChangePassword returned error: %v", err)
	}

	if _, err := fx.svc.LoginWithPassword(context.Background(), "admin@college.edu", "s3cure-Pa55word"); !errors.Is(err, ErrInvalidPassword) {
		t.Fatalf("old password must stop working, got %v", err)
	}
	if _, err := fx.svc.LoginWithPassword(context.Background(), "admin@college.edu", "fresh-Tr0uble-942"); err != nil {
		t.Fatalf("new password must work, got %v", err)
	}
}

func TestChangePassword_RejectsWeakPassword(t *testing.T) {
	fx := newAuthFixture(t, domain.KindAdmin, seedAdmin(t, "admin@college.edu", "s3cure-Pa55word"))

	login, err := fx.svc.LoginWithPassword(context.Background(), "admin@college.edu", "s3cure-Pa55word")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	var policyErr *security.PasswordValidationError
	err = fx.svc.ChangePassword(context.Background(), login.Principal.ID, "s3cure-Pa55word", "short")
	if !errors.As(err, &policyErr) {
		t.Fatalf("expected a password policy violation, got %v", err)
	}
}

func TestForgotPassword_ConsumesCodeAndResets(t *testing.T) {
	fx := newAuthFixture(t, domain.KindStudent, seedStudent(t, "s@college.edu", "s3cure-Pa55word", domain.StudentStatusActive))
	fx.svc.WithOTPSource(fixedOTP("646464"))

	if err := fx.svc.SendOTP(context.Background(), "s@college.edu", domain.OTPPurposeForgotPassword); err != nil {
		t.Fatalf("SendOTP returned error: %v", err)
	}

	if err := fx.svc.ForgotPassword(context.Background(), "s@college.edu", "646464", "fresh-Tr0uble-942"); err != nil {
		t.Fatalf("ForgotPassword returned error: %v", err)
	}

	// Reset does not log the caller in; it only changes the credential.
	if _, err := fx.svc.LoginWithPassword(context.Background(), "s@college.edu", "fresh-Tr0uble-942"); err != nil {
		t.Fatalf("login with reset password: %v", err)
	}

	// The code is single-use.
	if err := fx.svc.ForgotPassword(context.Background(), "s@college.edu", "646464", "another-Str0ng-one"); !errors.Is(err, ErrInvalidOTP) {
		t.Fatalf("consumed code must read invalid, got %v", err)
	}
}

func TestForgotPassword_WrongPurposeDoesNotMatch(t *testing.T) {
	fx := newAuthFixture(t, domain.KindStudent, seedStudent(t, "s@college.edu", "s3cure-Pa55word", domain.StudentStatusActive))
	fx.svc.WithOTPSource(fixedOTP("505050"))

	if err := fx.svc.SendOTP(context.Background(), "s@college.edu", domain.OTPPurposeLogin); err != nil {
		t.Fatalf("SendOTP returned error: %v", err)
	}

	// A login-purpose code must not reset a password.
	if err := fx.svc.ForgotPassword(context.Background(), "s@college.edu", "505050", "fresh-Tr0uble-942"); !errors.Is(err, ErrInvalidOTP) {
		t.Fatalf("cross-purpose code must read invalid, got %v", err)
	}
}
