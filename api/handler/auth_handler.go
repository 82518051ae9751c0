package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"booktrack/api/middleware"
	"booktrack/internal/dto"
	"booktrack/internal/service"
	"booktrack/internal/utils"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const oauthStateCookie = "oauth_state"

type AuthHandler struct {
	Service        *service.AuthService
	Validate       *validator.Validate
	Transport      middleware.TokenTransport
	FrontendOrigin string
	SecureCookies  bool
}

func NewAuthHandler(svc *service.AuthService, validate *validator.Validate, transport middleware.TokenTransport) *AuthHandler {
	return &AuthHandler{
		Service:       svc,
		Validate:      validate,
		Transport:     transport,
		SecureCookies: true,
	}
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req dto.RegisterRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	input := service.RegisterInput{Name: req.Name, Email: req.Email, Password: req.Password}
	result, err := h.Service.Register(c.Request().Context(), input)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.RegisterResponse{
		UserID: result.UserID.String(),
		Email:  result.Email,
	})
}

func (h *AuthHandler) VerifyOTP(c echo.Context) error {
	var req dto.VerifyOTPRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return writeError(c, http.StatusBadRequest, errors.New("invalid user id"))
	}
	result, err := h.Service.VerifyOTP(c.Request().Context(), userID, req.OTP)
	if err != nil {
		return writeServiceError(c, err)
	}
	return h.respondSession(c, result)
}

func (h *AuthHandler) ResendOTP(c echo.Context) error {
	var req dto.ResendOTPRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return writeError(c, http.StatusBadRequest, errors.New("invalid user id"))
	}
	if err := h.Service.ResendOTP(c.Request().Context(), userID); err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "verification code sent"})
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req dto.LoginRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	input := service.LoginInput{
		Email:     req.Email,
		Password:  req.Password,
		IPAddress: stringPtr(c.RealIP()),
	}
	result, err := h.Service.Login(c.Request().Context(), input)
	if err != nil {
		return writeServiceError(c, err)
	}
	return h.respondSession(c, result)
}

// GoogleRedirect starts the authorization-code flow. The random state lands
// in a short-lived cookie checked again on callback.
func (h *AuthHandler) GoogleRedirect(c echo.Context) error {
	state, err := utils.GenerateRandomToken(16)
	if err != nil {
		return writeError(c, http.StatusInternalServerError, err)
	}
	c.SetCookie(&http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/",
		MaxAge:   int((10 * time.Minute).Seconds()),
		HttpOnly: true,
		Secure:   h.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	authURL := h.Service.GoogleAuthURL(state)
	if authURL == "" {
		return writeError(c, http.StatusInternalServerError, errors.New("google login not configured"))
	}
	return c.Redirect(http.StatusTemporaryRedirect, authURL)
}

func (h *AuthHandler) GoogleCallback(c echo.Context) error {
	stateCookie, err := c.Cookie(oauthStateCookie)
	if err != nil || stateCookie.Value == "" || c.QueryParam("state") != stateCookie.Value {
		return h.redirectWithError(c, "invalid_state")
	}
	code := c.QueryParam("code")
	if code == "" {
		return h.redirectWithError(c, "missing_code")
	}

	result, err := h.Service.LoginGoogle(c.Request().Context(), code, stringPtr(c.RealIP()))
	if err != nil {
		return h.redirectWithError(c, "google_auth_failed")
	}
	h.Transport.Issue(c, result.Token, time.Duration(result.ExpiresIn)*time.Second)
	return c.Redirect(http.StatusFound, h.frontendURL(""))
}

func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req dto.ForgotPasswordRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.Service.ForgotPassword(c.Request().Context(), req.Email); err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "if that account exists, a reset code was sent"})
}

func (h *AuthHandler) VerifyResetOTP(c echo.Context) error {
	var req dto.VerifyResetOTPRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	result, err := h.Service.VerifyResetOTP(c.Request().Context(), req.Email, req.OTP)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.VerifyResetOTPResponse{
		ResetToken: result.ResetToken,
		ExpiresIn:  result.ExpiresIn,
	})
}

func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req dto.ResetPasswordRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.Service.ResetPassword(c.Request().Context(), req.ResetToken, req.NewPassword); err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "password updated"})
}

// Logout is purely client-side: the cookie is cleared, the token stays valid
// until its natural expiry.
func (h *AuthHandler) Logout(c echo.Context) error {
	h.Transport.Clear(c)
	return c.JSON(http.StatusOK, map[string]string{"message": "logged out"})
}

func (h *AuthHandler) Me(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, errors.New("unauthorized"))
	}
	user, err := h.Service.GetCurrentUser(c.Request().Context(), userID)
	if err != nil {
		return writeServiceError(c, err)
	}
	if user == nil {
		return writeError(c, http.StatusNotFound, errors.New("user not found"))
	}
	return c.JSON(http.StatusOK, dto.UserResponseFromEntity(user))
}

func (h *AuthHandler) respondSession(c echo.Context, result *service.SessionResult) error {
	h.Transport.Issue(c, result.Token, time.Duration(result.ExpiresIn)*time.Second)
	response := dto.SessionResponse{User: dto.UserResponseFromEntity(result.User)}
	if _, cookie := h.Transport.(*middleware.CookieTransport); !cookie {
		response.Token = result.Token
	}
	return c.JSON(http.StatusOK, response)
}

func (h *AuthHandler) redirectWithError(c echo.Context, code string) error {
	return c.Redirect(http.StatusFound, h.frontendURL("/login?error="+code))
}

func (h *AuthHandler) frontendURL(path string) string {
	base := strings.TrimRight(h.FrontendOrigin, "/")
	if base == "" {
		if path == "" {
			return "/"
		}
		return path
	}
	return base + path
}

func (h *AuthHandler) validate(payload any) error {
	if h.Validate == nil {
		return nil
	}
	return h.Validate.Struct(payload)
}

func stringPtr(value string) *string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return &value
}
