package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Velroxe/Khatri-College/internal/core/domain"
)

// CookieSettings carries the auth-cookie contract. httpOnly is always on;
// secure and SameSite=None apply in production only, so local development
// over plain HTTP keeps working with SameSite=Lax.
type CookieSettings struct {
	Domain     string
	Secure     bool
	SameSite   http.SameSite
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// NewCookieSettings derives the cookie contract from the runtime environment.
func NewCookieSettings(domain string, production bool, accessTTL, refreshTTL time.Duration) CookieSettings {
	settings := CookieSettings{
		Domain:     domain,
		Secure:     production,
		SameSite:   http.SameSiteLaxMode,
		AccessTTL:  accessTTL,
		RefreshTTL: refreshTTL,
	}
	if production {
		// Cross-subdomain requests need None; the secure flag is mandatory
		// alongside it.
		settings.SameSite = http.SameSiteNoneMode
	}
	return settings
}

// SetAuthCookies writes both auth cookies for the kind onto the response.
func (s CookieSettings) SetAuthCookies(c *gin.Context, kind domain.PrincipalKind, accessToken, refreshToken string) {
	c.SetSameSite(s.SameSite)
	c.SetCookie(kind.AccessCookie, accessToken, int(s.AccessTTL.Seconds()), "/", s.Domain, s.Secure, true)
	c.SetCookie(kind.RefreshCookie, refreshToken, int(s.RefreshTTL.Seconds()), "/", s.Domain, s.Secure, true)
}

// ClearAuthCookies expires both auth cookies for the kind.
func (s CookieSettings) ClearAuthCookies(c *gin.Context, kind domain.PrincipalKind) {
	c.SetSameSite(s.SameSite)
	c.SetCookie(kind.AccessCookie, "", -1, "/", s.Domain, s.Secure, true)
	c.SetCookie(kind.RefreshCookie, "", -1, "/", s.Domain, s.Secure, true)
}
