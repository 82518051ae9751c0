package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"booktrack/internal/entity"
	"booktrack/internal/repository"
	"booktrack/internal/utils"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const dummyPasswordHash = "$2a$10$CwTycUXWue0Thq9StjUM0uJ8yQbWc1x9uxw2sQ2sXUNx5x9xJ9F2S"

type AuthService struct {
	users        repository.UserRepository
	securityLogs repository.SecurityLogRepository

	emailSender   EmailSender
	passwordHash  PasswordHasher
	sessionTokens SessionTokenIssuer
	resetTokens   ResetTokenIssuer
	google        GoogleProvider
	clock         Clock
	config        AuthConfig
}

func NewAuthService(
	users repository.UserRepository,
	securityLogs repository.SecurityLogRepository,
	emailSender EmailSender,
	passwordHash PasswordHasher,
	sessionTokens SessionTokenIssuer,
	resetTokens ResetTokenIssuer,
	google GoogleProvider,
	clock Clock,
	config AuthConfig,
) *AuthService {
	return &AuthService{
		users:         users,
		securityLogs:  securityLogs,
		emailSender:   emailSender,
		passwordHash:  passwordHash,
		sessionTokens: sessionTokens,
		resetTokens:   resetTokens,
		google:        google,
		clock:         clock,
		config:        config,
	}
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*RegisterResult, error) {
	email := utils.NormalizeEmail(input.Email)

	var violations []string
	violations = append(violations, validateName(input.Name)...)
	violations = append(violations, validateEmail(email, s.config.AllowedEmailDomains)...)
	violations = append(violations, validatePassword(input.Password)...)
	if len(violations) > 0 {
		return nil, &ValidationError{Violations: violations}
	}

	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateEmail
	}

	hash, err := s.passwordHash.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		Name:           input.Name,
		Email:          email,
		PasswordHash:   &hash,
		AuthProvider:   entity.ProviderLocal,
		AvatarGradient: rand.Intn(5),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	if err := s.issueOTP(ctx, user, false); err != nil {
		return nil, err
	}
	return &RegisterResult{UserID: user.ID, Email: user.Email}, nil
}

// issueOTP starts a fresh code and sends exactly one email. It never consults
// the lock, so a resend mid-lockout clears it.
func (s *AuthService) issueOTP(ctx context.Context, user *entity.User, reset bool) error {
	code, err := utils.GenerateOTPCode()
	if err != nil {
		return err
	}
	user.OTP = user.OTP.Issue(code, s.now())
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}
	if reset {
		return s.emailSender.SendPasswordResetCode(ctx, user.Email, user.Name, code)
	}
	return s.emailSender.SendVerificationCode(ctx, user.Email, user.Name, code)
}

func (s *AuthService) VerifyOTP(ctx context.Context, userID uuid.UUID, code string) (*SessionResult, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	next, outcome := user.OTP.Verify(code, s.now())
	switch outcome {
	case entity.OTPOutcomeLocked:
		justLocked := user.OTP.Attempts != next.Attempts
		user.OTP = next
		if err := s.users.Update(ctx, user); err != nil {
			return nil, err
		}
		if justLocked {
			_ = s.logSecurity(ctx, &user.ID, nil, entity.OTPLocked, nil)
		}
		return nil, ErrRateLimited
	case entity.OTPOutcomeMismatch:
		user.OTP = next
		if err := s.users.Update(ctx, user); err != nil {
			return nil, err
		}
		_ = s.logSecurity(ctx, &user.ID, nil, entity.OTPFailed, map[string]any{"attempts": next.Attempts})
		return nil, ErrInvalidCode
	case entity.OTPOutcomeExpired:
		return nil, ErrCodeExpired
	}

	user.OTP = next
	user.EmailVerified = true
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return s.openSession(user)
}

func (s *AuthService) ResendOTP(ctx context.Context, userID uuid.UUID) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	return s.issueOTP(ctx, user, false)
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (*SessionResult, error) {
	email := utils.NormalizeEmail(input.Email)
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil || user.PasswordHash == nil {
		_ = s.passwordHash.Verify(dummyPasswordHash, input.Password)
		_ = s.logSecurity(ctx, nil, input.IPAddress, entity.LoginFailed, map[string]any{"email": email})
		return nil, ErrInvalidCredentials
	}
	if !s.passwordHash.Verify(*user.PasswordHash, input.Password) {
		_ = s.logSecurity(ctx, &user.ID, input.IPAddress, entity.LoginFailed, map[string]any{"email": email})
		return nil, ErrInvalidCredentials
	}
	if user.AuthProvider == entity.ProviderLocal && !user.EmailVerified {
		return nil, ErrEmailNotVerified
	}

	result, err := s.openSession(user)
	if err != nil {
		return nil, err
	}
	_ = s.logSecurity(ctx, &user.ID, input.IPAddress, entity.LoginSuccess, nil)
	return result, nil
}

// LoginGoogle exchanges the authorization code, fetches the profile and
// upserts the account keyed by email. Google logins skip the OTP step.
func (s *AuthService) LoginGoogle(ctx context.Context, code string, ipAddress *string) (*SessionResult, error) {
	if s.google == nil {
		return nil, ErrInvalidInput
	}
	profile, err := s.google.FetchProfile(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("google login: %w", err)
	}

	email := utils.NormalizeEmail(profile.Email)
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		user = &entity.User{
			Name:           profile.Name,
			Email:          email,
			AuthProvider:   entity.ProviderGoogle,
			EmailVerified:  true,
			AvatarGradient: rand.Intn(5),
		}
		if profile.ID != "" {
			user.GoogleID = &profile.ID
		}
		if profile.Picture != "" {
			user.ProfilePic = &profile.Picture
		}
		if err := s.users.Create(ctx, user); err != nil {
			return nil, err
		}
	} else {
		if user.GoogleID == nil && profile.ID != "" {
			user.GoogleID = &profile.ID
		}
		if user.ProfilePic == nil && profile.Picture != "" {
			user.ProfilePic = &profile.Picture
		}
		user.EmailVerified = true
		if err := s.users.Update(ctx, user); err != nil {
			return nil, err
		}
	}

	result, err := s.openSession(user)
	if err != nil {
		return nil, err
	}
	_ = s.logSecurity(ctx, &user.ID, ipAddress, entity.GoogleLogin, nil)
	return result, nil
}

// ForgotPassword silently succeeds for unknown emails so the endpoint cannot
// be used to enumerate accounts.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, utils.NormalizeEmail(email))
	if err != nil {
		return err
	}
	if user == nil {
		return nil
	}
	return s.issueOTP(ctx, user, true)
}

func (s *AuthService) VerifyResetOTP(ctx context.Context, email string, code string) (*ResetTokenResult, error) {
	user, err := s.users.FindByEmail(ctx, utils.NormalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCode
	}

	next, outcome := user.OTP.Verify(code, s.now())
	switch outcome {
	case entity.OTPOutcomeLocked:
		user.OTP = next
		if err := s.users.Update(ctx, user); err != nil {
			return nil, err
		}
		return nil, ErrRateLimited
	case entity.OTPOutcomeMismatch:
		user.OTP = next
		if err := s.users.Update(ctx, user); err != nil {
			return nil, err
		}
		return nil, ErrInvalidCode
	case entity.OTPOutcomeExpired:
		return nil, ErrCodeExpired
	}

	user.OTP = next
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	token, ttl, err := s.resetTokens.IssueResetToken(user.ID)
	if err != nil {
		return nil, err
	}
	return &ResetTokenResult{ResetToken: token, ExpiresIn: int64(ttl.Seconds())}, nil
}

// ResetPassword overwrites the credential and forces the account back to the
// local provider, so a formerly Google-only account gains a password.
func (s *AuthService) ResetPassword(ctx context.Context, resetToken string, newPassword string) error {
	userID, err := s.resetTokens.ParseResetToken(resetToken)
	if err != nil {
		return ErrInvalidToken
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	if violations := validatePassword(newPassword); len(violations) > 0 {
		return &ValidationError{Violations: violations}
	}

	hash, err := s.passwordHash.Hash(newPassword)
	if err != nil {
		return err
	}
	user.PasswordHash = &hash
	user.AuthProvider = entity.ProviderLocal
	user.OTP = entity.OTPState{}
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}
	_ = s.logSecurity(ctx, &user.ID, nil, entity.PasswordReset, nil)
	return nil
}

func (s *AuthService) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	return s.users.FindByID(ctx, userID)
}

func (s *AuthService) GoogleAuthURL(state string) string {
	if s.google == nil {
		return ""
	}
	return s.google.AuthCodeURL(state)
}

func (s *AuthService) openSession(user *entity.User) (*SessionResult, error) {
	token, ttl, err := s.sessionTokens.IssueSessionToken(user.ID)
	if err != nil {
		return nil, err
	}
	return &SessionResult{User: user, Token: token, ExpiresIn: int64(ttl.Seconds())}, nil
}

func (s *AuthService) logSecurity(
	ctx context.Context,
	userID *uuid.UUID,
	ipAddress *string,
	action entity.SecurityAction,
	metadata map[string]any,
) error {
	if s.securityLogs == nil {
		return nil
	}
	var payload datatypes.JSON
	if metadata != nil {
		bytes, err := json.Marshal(metadata)
		if err != nil {
			return err
		}
		payload = datatypes.JSON(bytes)
	}

	log := &entity.SecurityLog{
		UserID:    userID,
		IPAddress: ipAddress,
		Action:    action,
		Metadata:  payload,
	}
	return s.securityLogs.Log(ctx, log)
}

func (s *AuthService) now() time.Time {
	if s.clock == nil {
		return time.Now()
	}
	return s.clock.Now()
}
