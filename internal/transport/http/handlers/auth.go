package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Velroxe/Khatri-College/internal/core/domain"
	"github.com/Velroxe/Khatri-College/internal/infra/security"
	"github.com/Velroxe/Khatri-College/internal/transport/http/middleware"
	"github.com/Velroxe/Khatri-College/internal/usecase"
)

// AuthHandler exposes the credential endpoints for one principal kind. The
// same handler serves the admin and student route groups; each instance is
// bound to its kind's service and cookie names.
type AuthHandler struct {
	auth    *usecase.AuthService
	cookies middleware.CookieSettings
}

// NewAuthHandler builds an auth handler over the kind-bound service.
func NewAuthHandler(auth *usecase.AuthService, cookies middleware.CookieSettings) *AuthHandler {
	return &AuthHandler{auth: auth, cookies: cookies}
}

var authErrorCases = []ErrorCase{
	{Err: usecase.ErrPrincipalNotFound, Status: http.StatusNotFound, Message: "account not found"},
	{Err: usecase.ErrInvalidPassword, Status: http.StatusUnauthorized, Message: "invalid credentials"},
	{Err: usecase.ErrInvalidOTP, Status: http.StatusUnauthorized, Message: "invalid OTP"},
	{Err: usecase.ErrExpiredOTP, Status: http.StatusUnauthorized, Message: "OTP expired"},
	{Err: usecase.ErrNoCredentials, Status: http.StatusUnauthorized, Message: "authentication required"},
	{Err: usecase.ErrInvalidRefreshToken, Status: http.StatusUnauthorized, Message: "invalid refresh token"},
	{Err: usecase.ErrExpiredRefreshToken, Status: http.StatusUnauthorized, Message: "refresh token expired"},
	{Err: domain.ErrAccountSuspended, Status: http.StatusForbidden, Message: "account is suspended"},
	{Err: usecase.ErrEmailDelivery, Status: http.StatusInternalServerError, Message: "failed to send email"},
}

func (h *AuthHandler) respondAuthError(c *gin.Context, err error) {
	var policyErr *security.PasswordValidationError
	if errors.As(err, &policyErr) {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, policyErr.Message))
		return
	}
	RespondWithMappedError(c, err, authErrorCases, http.StatusInternalServerError, "something went wrong")
}

func (h *AuthHandler) respondSession(c *gin.Context, session *usecase.Session) {
	h.cookies.SetAuthCookies(c, h.auth.Kind(), session.AccessToken, session.RefreshToken)
	c.JSON(http.StatusOK, session.Principal.Profile())
}

// LoginPassword handles POST /login-password.
func (h *AuthHandler) LoginPassword(c *gin.Context) {
	var req PasswordLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "email and password are required"))
		return
	}

	session, err := h.auth.LoginWithPassword(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.respondAuthError(c, err)
		return
	}

	h.respondSession(c, session)
}

// LoginOTP handles POST /login-otp.
func (h *AuthHandler) LoginOTP(c *gin.Context) {
	var req OTPLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "email and otp are required"))
		return
	}

	session, err := h.auth.LoginWithOTP(c.Request.Context(), req.Email, req.OTP)
	if err != nil {
		h.respondAuthError(c, err)
		return
	}

	h.respondSession(c, session)
}

// SendOTP handles POST /send-otp.
func (h *AuthHandler) SendOTP(c *gin.Context) {
	var req SendOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "email and purpose are required"))
		return
	}

	purpose := domain.OTPPurpose(req.Purpose)
	if !purpose.Valid() {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "unknown otp purpose"))
		return
	}

	if err := h.auth.SendOTP(c.Request.Context(), req.Email, purpose); err != nil {
		h.respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "OTP sent"})
}

// VerifyOTP handles POST /verify-otp. It never consumes the code.
func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "email, otp, and purpose are required"))
		return
	}

	purpose := domain.OTPPurpose(req.Purpose)
	if !purpose.Valid() {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "unknown otp purpose"))
		return
	}

	if err := h.auth.VerifyOTP(c.Request.Context(), req.Email, req.OTP, purpose); err != nil {
		h.respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "OTP verified"})
}

// ForgotPassword handles POST /forgot-password.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "email, otp, and newPassword are required"))
		return
	}

	if err := h.auth.ForgotPassword(c.Request.Context(), req.Email, req.OTP, req.NewPassword); err != nil {
		h.respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "password reset"})
}

// ChangePassword handles PATCH /change-password. It runs behind
// RequireSession, so the principal is taken from the request context.
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	principal, ok := middleware.PrincipalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "oldPassword and newPassword are required"))
		return
	}

	if err := h.auth.ChangePassword(c.Request.Context(), principal.ID, req.OldPassword, req.NewPassword); err != nil {
		h.respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "password changed"})
}

// Refresh handles POST /refresh: the explicit sliding-window renewal driven
// by the refresh cookie alone.
func (h *AuthHandler) Refresh(c *gin.Context) {
	kind := h.auth.Kind()
	refreshToken, _ := c.Cookie(kind.RefreshCookie)

	session, err := h.auth.Refresh(c.Request.Context(), refreshToken)
	if err != nil {
		h.respondAuthError(c, err)
		return
	}

	h.respondSession(c, session)
}

// Me handles GET /me: the session probe. "Not logged in" is a soft outcome
// with a 200 status, never a hard auth error; only suspension and unexpected
// failures surface as errors.
func (h *AuthHandler) Me(c *gin.Context) {
	kind := h.auth.Kind()
	accessToken, _ := c.Cookie(kind.AccessCookie)
	refreshToken, _ := c.Cookie(kind.RefreshCookie)

	session, err := h.auth.Authenticate(c.Request.Context(), accessToken, refreshToken)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAccountSuspended):
			c.JSON(http.StatusForbidden, NewErrorResponse(c, "account is suspended"))
		case errors.Is(err, usecase.ErrNoCredentials),
			errors.Is(err, usecase.ErrInvalidAccessToken),
			errors.Is(err, usecase.ErrSessionExpired),
			errors.Is(err, usecase.ErrInvalidRefreshToken),
			errors.Is(err, usecase.ErrExpiredRefreshToken),
			errors.Is(err, usecase.ErrPrincipalNotFound):
			c.JSON(http.StatusOK, SessionProbeResponse{LoggedIn: false})
		default:
			c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "something went wrong"))
		}
		return
	}

	if session.Rotated {
		h.cookies.SetAuthCookies(c, kind, session.AccessToken, session.RefreshToken)
	}

	profile := session.Principal.Profile()
	c.JSON(http.StatusOK, SessionProbeResponse{LoggedIn: true, Profile: &profile})
}

// Logout handles POST /logout. It always succeeds and always clears both
// cookies, whether or not a refresh token row existed.
func (h *AuthHandler) Logout(c *gin.Context) {
	kind := h.auth.Kind()
	refreshToken, _ := c.Cookie(kind.RefreshCookie)

	if err := h.auth.Logout(c.Request.Context(), refreshToken); err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "something went wrong"))
		return
	}

	h.cookies.ClearAuthCookies(c, kind)
	c.JSON(http.StatusOK, MessageResponse{Message: "logged out"})
}
