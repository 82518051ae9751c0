package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

// TokenTransport abstracts how the session token travels: an http-only
// cookie or a bearer header, selected by configuration rather than by
// branching in handlers.
type TokenTransport interface {
	Extract(c echo.Context) string
	Issue(c echo.Context, token string, ttl time.Duration)
	Clear(c echo.Context)
}

type CookieTransport struct {
	Name     string
	Domain   string
	Secure   bool
	SameSite http.SameSite
}

func NewCookieTransport(domain string, secure bool) *CookieTransport {
	return &CookieTransport{
		Name:     "session_token",
		Domain:   domain,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// Extract prefers the cookie and falls back to a bearer header, so clients
// from the header era keep working.
func (t *CookieTransport) Extract(c echo.Context) string {
	if cookie, err := c.Cookie(t.Name); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	return extractBearerToken(c.Request())
}

func (t *CookieTransport) Issue(c echo.Context, token string, ttl time.Duration) {
	c.SetCookie(&http.Cookie{
		Name:     t.Name,
		Value:    token,
		Path:     "/",
		Domain:   t.Domain,
		MaxAge:   int(ttl.Seconds()),
		Expires:  time.Now().Add(ttl),
		HttpOnly: true,
		Secure:   t.Secure,
		SameSite: t.SameSite,
	})
}

func (t *CookieTransport) Clear(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     t.Name,
		Value:    "",
		Path:     "/",
		Domain:   t.Domain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   t.Secure,
		SameSite: t.SameSite,
	})
}

// BearerTransport carries the token in the Authorization header only; the
// handler returns it in the response body and the client stores it.
type BearerTransport struct{}

func (BearerTransport) Extract(c echo.Context) string {
	return extractBearerToken(c.Request())
}

func (BearerTransport) Issue(echo.Context, string, time.Duration) {}

func (BearerTransport) Clear(echo.Context) {}

func extractBearerToken(r *http.Request) string {
	authorization := r.Header.Get("Authorization")
	if authorization == "" {
		return ""
	}
	parts := strings.SplitN(authorization, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
