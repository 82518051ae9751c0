package middleware

import (
	"net/http"

	"booktrack/internal/utils"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// SessionGuard verifies the session token and attaches the resolved user id
// to the request context. Purely cryptographic: no server-side session state.
type SessionGuard struct {
	JWT       *utils.JWTManager
	Transport TokenTransport
}

func (m SessionGuard) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if m.JWT == nil || m.Transport == nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
		}
		token := m.Transport.Extract(c)
		if token == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "access denied, no token provided")
		}
		claims, err := m.JWT.ParseSessionToken(token)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
		}
		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
		}
		SetAuthContext(c, userID)
		return next(c)
	}
}
