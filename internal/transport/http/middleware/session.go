package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Velroxe/Khatri-College/internal/core/domain"
	"github.com/Velroxe/Khatri-College/internal/usecase"
)

// PrincipalKey is the gin context key under which the authenticated
// principal is stored for downstream handlers.
const PrincipalKey = "principal"

// RequireSession authenticates every request from the kind's two cookies.
// A live access token passes straight through; an expired one is recovered
// transparently via the refresh path, in which case the rotated cookie pair
// is written onto the response before the handler runs. An access token that
// fails verification for any reason other than expiry is rejected without
// touching the refresh token.
func RequireSession(auth *usecase.AuthService, cookies CookieSettings) gin.HandlerFunc {
	kind := auth.Kind()

	return func(c *gin.Context) {
		accessToken, _ := c.Cookie(kind.AccessCookie)
		refreshToken, _ := c.Cookie(kind.RefreshCookie)

		session, err := auth.Authenticate(c.Request.Context(), accessToken, refreshToken)
		if err != nil {
			status, message := sessionErrorStatus(err)
			c.AbortWithStatusJSON(status, gin.H{"error": message})
			return
		}

		if session.Rotated {
			// The rotated row is already committed; the cookies must follow
			// before any response body is written.
			cookies.SetAuthCookies(c, kind, session.AccessToken, session.RefreshToken)
		}

		c.Set(PrincipalKey, session.Principal)
		c.Next()
	}
}

func sessionErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrAccountSuspended):
		return http.StatusForbidden, "account is suspended"
	case errors.Is(err, usecase.ErrNoCredentials):
		return http.StatusUnauthorized, "authentication required"
	case errors.Is(err, usecase.ErrInvalidAccessToken):
		return http.StatusUnauthorized, "invalid access token"
	case errors.Is(err, usecase.ErrSessionExpired):
		return http.StatusUnauthorized, "session expired"
	case errors.Is(err, usecase.ErrInvalidRefreshToken):
		return http.StatusUnauthorized, "invalid refresh token"
	case errors.Is(err, usecase.ErrExpiredRefreshToken):
		return http.StatusUnauthorized, "refresh token expired"
	case errors.Is(err, usecase.ErrPrincipalNotFound):
		return http.StatusUnauthorized, "account not found"
	default:
		return http.StatusInternalServerError, "authentication failed"
	}
}

// PrincipalFromContext returns the principal attached by RequireSession.
func PrincipalFromContext(c *gin.Context) (*domain.Principal, bool) {
	value, exists := c.Get(PrincipalKey)
	if !exists {
		return nil, false
	}
	principal, ok := value.(*domain.Principal)
	return principal, ok
}
