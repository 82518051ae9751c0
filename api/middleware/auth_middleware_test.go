package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"booktrack/internal/utils"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runGuard(t *testing.T, guard SessionGuard, configure func(r *http.Request)) (*httptest.ResponseRecorder, *uuid.UUID, error) {
	t.Helper()
	e := echo.New()
	request := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	if configure != nil {
		configure(request)
	}
	recorder := httptest.NewRecorder()
	c := e.NewContext(request, recorder)

	var seen *uuid.UUID
	handler := guard.RequireAuth(func(c echo.Context) error {
		id, ok := UserIDFromContext(c)
		require.True(t, ok)
		seen = &id
		return c.NoContent(http.StatusOK)
	})
	err := handler(c)
	return recorder, seen, err
}

func TestRequireAuthMissingToken(t *testing.T) {
	manager := &utils.JWTManager{Secret: []byte("test-secret")}
	guard := SessionGuard{JWT: manager, Transport: NewCookieTransport("", false)}

	_, _, err := runGuard(t, guard, nil)

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
	assert.Equal(t, "access denied, no token provided", httpErr.Message)
}

func TestRequireAuthInvalidToken(t *testing.T) {
	manager := &utils.JWTManager{Secret: []byte("test-secret")}
	guard := SessionGuard{JWT: manager, Transport: NewCookieTransport("", false)}

	_, _, err := runGuard(t, guard, func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: "session_token", Value: "garbage"})
	})

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
	assert.Equal(t, "invalid token", httpErr.Message)
}

func TestRequireAuthValidCookie(t *testing.T) {
	manager := &utils.JWTManager{Secret: []byte("test-secret")}
	guard := SessionGuard{JWT: manager, Transport: NewCookieTransport("", false)}
	userID := uuid.New()
	token, _, err := manager.IssueSessionToken(userID.String())
	require.NoError(t, err)

	recorder, seen, err := runGuard(t, guard, func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: "session_token", Value: token})
	})

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, recorder.Code)
	require.NotNil(t, seen)
	assert.Equal(t, userID, *seen)
}

func TestRequireAuthBearerFallback(t *testing.T) {
	manager := &utils.JWTManager{Secret: []byte("test-secret")}
	guard := SessionGuard{JWT: manager, Transport: NewCookieTransport("", false)}
	userID := uuid.New()
	token, _, err := manager.IssueSessionToken(userID.String())
	require.NoError(t, err)

	_, seen, err := runGuard(t, guard, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	})

	require.NoError(t, err)
	require.NotNil(t, seen)
	assert.Equal(t, userID, *seen)
}

func TestRequireAuthExpiredToken(t *testing.T) {
	manager := &utils.JWTManager{Secret: []byte("test-secret"), SessionTTL: -time.Minute}
	guard := SessionGuard{JWT: manager, Transport: BearerTransport{}}
	token, _, err := manager.IssueSessionToken(uuid.New().String())
	require.NoError(t, err)

	_, _, err = runGuard(t, guard, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	})

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestCookieTransportIssueAndClear(t *testing.T) {
	transport := NewCookieTransport("example.com", true)
	e := echo.New()
	recorder := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/", nil), recorder)

	transport.Issue(c, "token-value", time.Hour)
	cookies := recorder.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "session_token", cookies[0].Name)
	assert.Equal(t, "token-value", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.True(t, cookies[0].Secure)
	assert.Equal(t, 3600, cookies[0].MaxAge)

	recorder = httptest.NewRecorder()
	c = e.NewContext(httptest.NewRequest(http.MethodPost, "/", nil), recorder)
	transport.Clear(c)
	cookies = recorder.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Empty(t, cookies[0].Value)
	assert.Negative(t, cookies[0].MaxAge)
}

func TestBearerTransportExtract(t *testing.T) {
	transport := BearerTransport{}
	e := echo.New()

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set("Authorization", "Bearer some-token")
	c := e.NewContext(request, httptest.NewRecorder())
	assert.Equal(t, "some-token", transport.Extract(c))

	request = httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	c = e.NewContext(request, httptest.NewRecorder())
	assert.Empty(t, transport.Extract(c))
}
