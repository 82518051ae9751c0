package service_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"booktrack/internal/entity"
	"booktrack/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserRepo struct {
	mutex sync.Mutex
	users map[uuid.UUID]entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]entity.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *entity.User) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return errors.New("duplicate key value violates unique constraint")
		}
	}
	r.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	copied := user
	return &copied, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			copied := user
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *entity.User) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.users[user.ID] = *user
	return nil
}

type sentEmail struct {
	To   string
	Name string
	Code string
}

type fakeEmailSender struct {
	Verifications []sentEmail
	Resets        []sentEmail
	Err           error
}

func (s *fakeEmailSender) SendVerificationCode(_ context.Context, email, name, code string) error {
	if s.Err != nil {
		return s.Err
	}
	s.Verifications = append(s.Verifications, sentEmail{To: email, Name: name, Code: code})
	return nil
}

func (s *fakeEmailSender) SendPasswordResetCode(_ context.Context, email, name, code string) error {
	if s.Err != nil {
		return s.Err
	}
	s.Resets = append(s.Resets, sentEmail{To: email, Name: name, Code: code})
	return nil
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

type fakeTokenIssuer struct {
	issued int
}

func (i *fakeTokenIssuer) IssueSessionToken(userID uuid.UUID) (string, time.Duration, error) {
	i.issued++
	return fmt.Sprintf("session-%s-%d", userID, i.issued), time.Hour, nil
}

type fakeGoogle struct {
	profile *service.GoogleProfile
	err     error
}

func (g *fakeGoogle) AuthCodeURL(state string) string {
	return "https://accounts.google.com/o/oauth2/auth?state=" + state
}

func (g *fakeGoogle) FetchProfile(context.Context, string) (*service.GoogleProfile, error) {
	return g.profile, g.err
}

type authFixture struct {
	Service *service.AuthService
	Users   *fakeUserRepo
	Emails  *fakeEmailSender
	Clock   *fakeClock
	Tokens  *fakeTokenIssuer
	Google  *fakeGoogle
}

func newAuthFixture(t *testing.T, config service.AuthConfig) *authFixture {
	t.Helper()
	fixture := &authFixture{
		Users:  newFakeUserRepo(),
		Emails: &fakeEmailSender{},
		Clock:  &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)},
		Tokens: &fakeTokenIssuer{},
		Google: &fakeGoogle{},
	}
	fixture.Service = service.NewAuthService(
		fixture.Users,
		nil,
		fixture.Emails,
		plainHasher{},
		fixture.Tokens,
		service.ResetTokenIssuerJWT{Secret: []byte("test-secret"), TTL: 10 * time.Minute},
		fixture.Google,
		fixture.Clock,
		config,
	)
	return fixture
}

// plainHasher keeps the tests fast; the production wiring uses bcrypt.
type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}

func (plainHasher) Verify(hash string, password string) bool {
	return hash == "hashed:"+password
}

func register(t *testing.T, fixture *authFixture) *service.RegisterResult {
	t.Helper()
	result, err := fixture.Service.Register(context.Background(), service.RegisterInput{
		Name:     "Ann",
		Email:    "ann@example.com",
		Password: "Passw0rd!",
	})
	require.NoError(t, err)
	return result
}

func lastCode(t *testing.T, emails []sentEmail) string {
	t.Helper()
	require.NotEmpty(t, emails)
	return emails[len(emails)-1].Code
}

func TestRegisterCreatesUnverifiedUserAndSendsOneEmail(t *testing.T) {
	fixture := newAuthFixture(t, service.AuthConfig{})

	result := register(t, fixture)

	assert.Equal(t, "ann@example.com", result.Email)
	require.Len(t, fixture.Emails.Verifications, 1, "exactly one OTP email per registration")
	assert.Equal(t, "ann@example.com", fixture.Emails.Verifications[0].To)
	assert.Len(t, fixture.Emails.Verifications[0].Code, 6)

	user, err := fixture.Users.FindByID(context.Background(), result.UserID)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.False(t, user.EmailVerified)
	assert.Equal(t, entity.ProviderLocal, user.AuthProvider)
	require.NotNil(t, user.PasswordHash)
	assert.NotEqual(t, "Passw0rd!", *user.PasswordHash)
	assert.Equal(t, entity.OTPPhasePending, user.OTP.Phase(fixture.Clock.Now()))
	assert.Equal(t, 0, fixture.Tokens.issued, "no session token before verification")
}

func TestRegisterCollectsAllViolations(t *testing.T) {
	fixture := newAuthFixture(t, service.AuthConfig{})

	_, err := fixture.Service.Register(context.Background(), service.RegisterInput{
		Name:     "A1",
		Email:    "not-an-email",
		Password: "short",
	})

	var validation *service.ValidationError
	require.ErrorAs(t, err, &validation)
	assert.GreaterOrEqual(t, len(validation.Violations), 4, "every violated rule is reported: %v", validation.Violations)
	assert.Contains(t, validation.Violations, "name must not contain digits")
	assert.Contains(t, validation.Violations, "email must be a valid email address")
}

func TestRegisterDuplicateEmail(t *testing.T) {
	fixture := newAuthFixture(t, service.AuthConfig{})
	register(t, fixture)

	_, err := fixture.Service.Register(context.Background(), service.RegisterInput{
		Name:     "Ann Again",
		Email:    "ANN@example.com",
		Password: "Passw0rd!",
	})

	assert.ErrorIs(t, err, service.ErrDuplicateEmail)
	assert.Len(t, fixture.Emails.Verifications, 1)
}

func TestRegisterDomainAllowlist(t *testing.T) {
	fixture := newAuthFixture(t, service.AuthConfig{AllowedEmailDomains: []string{"example.com"}})

	_, err := fixture.Service.Register(context.Background(), service.RegisterInput{
		Name:     "Bob",
		Email:    "bob@elsewhere.org",
		Password: "Passw0rd!",
	})

	var validation *service.ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Contains(t, validation.Violations, "email domain is not allowed")

	register(t, fixture)
}

func TestVerifyOTPLockoutScenario(t *testing.T) {
	fixture := newAuthFixture(t, service.AuthConfig{})
	result := register(t, fixture)
	ctx := context.Background()
	code := lastCode(t, fixture.Emails.Verifications)

	for attempt := 1; attempt <= 4; attempt++ {
		_, err := fixture.Service.VerifyOTP(ctx, result.UserID, "000000")
		assert.ErrorIs(t, err, service.ErrInvalidCode, "attempt %d", attempt)
	}

	_, err := fixture.Service.VerifyOTP(ctx, result.UserID, "000000")
	assert.ErrorIs(t, err, service.ErrRateLimited, "fifth wrong code locks the account")

	// the correct code is rejected while locked, and no attempt is counted
	_, err = fixture.Service.VerifyOTP(ctx, result.UserID, code)
	assert.ErrorIs(t, err, service.ErrRateLimited)

	user, err := fixture.Users.FindByID(ctx, result.UserID)
	require.NoError(t, err)
	assert.Equal(t, entity.OTPMaxAttempts, user.OTP.Attempts)
	assert.False(t, user.EmailVerified)
}

func TestVerifyOTPSuccess(t *testing.T) {
	fixture := newAuthFixture(t, service.AuthConfig{})
	result := register(t, fixture)
	ctx := context.Background()
	code := lastCode(t, fixture.Emails.Verifications)

	session, err := fixture.Service.VerifyOTP(ctx, result.UserID, code)
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)
	assert.True(t, session.User.EmailVerified)

	user, err := fixture.Users.FindByID(ctx, result.UserID)
	require.NoError(t, err)
	assert.True(t, user.EmailVerified)
	assert.Equal(t, entity.OTPPhaseNotStarted, user.OTP.Phase(fixture.Clock.Now()))
	assert.Equal(t, 0, user.OTP.Attempts)
}

func TestVerifyOTPExpired(t *testing.T) {
	fixture := newAuthFixture(t, service.AuthConfig{})
	result := register(t, fixture)
	ctx := context.Background()
	code := lastCode(t, fixture.Emails.Verifications)

	fixture.Clock.Advance(entity.OTPCodeTTL + time.Second)

	_, err := fixture.Service.VerifyOTP(ctx, result.UserID, code)
	assert.ErrorIs(t, err, service.ErrCodeExpired)

	user, err := fixture.Users.FindByID(ctx, result.UserID)
	require.NoError(t, err)
	assert.Equal(t, 0, user.OTP.Attempts, "expiry does not count an attempt")
}

func TestResendOTPClearsLockMidLockout(t *testing.T) {
	fixture := newAuthFixture(t, service.AuthConfig{})
	result := register(t, fixture)
	ctx := context.Background()

	for attempt := 0; attempt < 5; attempt++ {
		_, _ = fixture.Service.VerifyOTP(ctx, result.UserID, "000000")
	}
	user, err := fixture.Users.FindByID(ctx, result.UserID)
	require.NoError(t, err)
	require.Equal(t, entity.OTPPhaseLocked, user.OTP.Phase(fixture.Clock.Now()))

	// resend bypasses the lock entirely
	require.NoError(t, fixture.Service.ResendOTP(ctx, result.UserID))

	user, err = fixture.Users.FindByID(ctx, result.UserID)
	require.NoError(t, err)
	assert.Equal(t, 0, user.OTP.Attempts)
	assert.Equal(t, entity.OTPPhasePending, user.OTP.Phase(fixture.Clock.Now()))
	require.Len(t, fixture.Emails.Verifications, 2)

	session, err := fixture.Service.VerifyOTP(ctx, result.UserID, lastCode(t, fixture.Emails.Verifications))
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)
}

func verifiedUser(t *testing.T, fixture *authFixture) *service.RegisterResult {
	t.Helper()
	result := register(t, fixture)
	code := lastCode(t, fixture.Emails.Verifications)
	_, err := fixture.Service.VerifyOTP(context.Background(), result.UserID, code)
	require.NoError(t, err)
	return result
}

func TestLoginSuccess(t *testing.T) {
	fixture := newAuthFixture(t, service.AuthConfig{})
	verifiedUser(t, fixture)

	session, err := fixture.Service.Login(context.Background(), service.LoginInput{
		Email:    "ann@example.com",
		Password: "Passw0rd!",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)
	assert.Equal(t, "ann@example.com", session.User.Email)
}

func TestLoginWrongPassword(t *testing.T) {
	fixture := newAuthFixture(t, service.AuthConfig{})
	verifiedUser(t, fixture)

	_, err := fixture.Service.Login(context.Background(), service.LoginInput{
		Email:    "ann@example.com",
		Password: "WrongPass1!",
	})

	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestLoginUnknownUser(t *testing.T) {
	fixture := newAuthFixture(t, service.AuthConfig{})

	_, err := fixture.Service.Login(context.Background(), service.LoginInput{
		Email:    "nobody@example.com",
		Password: "Passw0rd!",
	})

	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestLoginUnverifiedLocalUser(t *testing.T) {
	fixture := newAuthFixture(t, service.AuthConfig{})
	register(t, fixture)

	_, err := fixture.Service.Login(context.Background(), service.LoginInput{
		Email:    "ann@example.com",
		Password: "Passw0rd!",
	})

	assert.ErrorIs(t, err, service.ErrEmailNotVerified)
}

func TestLoginGoogleOnlyAccountRejectsAnyPassword(t *testing.T) {
	fixture := newAuthFixture(t, service.AuthConfig{})
	fixture.Google.profile = &service.GoogleProfile{
		ID:    "google-123",
		Email: "carol@example.com",
		Name:  "Carol",
	}
	_, err := fixture.Service.LoginGoogle(context.Background(), "auth-code", nil)
	require.NoError(t, err)

	for _, password := range []string{"", "Passw0rd!", "anything"} {
		_, err := fixture.Service.Login(context.Background(), service.LoginInput{
			Email:    "carol@example.com",
			Password: password,
		})
		assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	}
}

func TestLoginGoogleCreatesVerifiedUser(t *testing.T) {
	fixture := newAuthFixture(t, service.AuthConfig{})
	fixture.Google.profile = &service.GoogleProfile{
		ID:      "google-123",
		Email:   "Carol@Example.com",
		Name:    "Carol",
		Picture: "https://example.com/carol.png",
	}

	session, err := fixture.Service.LoginGoogle(context.Background(), "auth-code", nil)
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)

	user, err := fixture.Users.FindByEmail(context.Background(), "carol@example.com")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, entity.ProviderGoogle, user.AuthProvider)
	assert.True(t, user.EmailVerified)
	assert.Nil(t, user.PasswordHash)
	require.NotNil(t, user.GoogleID)
	assert.Equal(t, "google-123", *user.GoogleID)

	// the second login reuses the account instead of creating another
	_, err = fixture.Service.LoginGoogle(context.Background(), "auth-code", nil)
	require.NoError(t, err)
	assert.Len(t, fixture.Users.users, 1)
}

func TestLoginGoogleLinksExistingLocalAccount(t *testing.T) {
	fixture := newAuthFixture(t, service.AuthConfig{})
	result := verifiedUser(t, fixture)
	fixture.Google.profile = &service.GoogleProfile{
		ID:    "google-ann",
		Email: "ann@example.com",
		Name:  "Ann",
	}

	_, err := fixture.Service.LoginGoogle(context.Background(), "auth-code", nil)
	require.NoError(t, err)

	user, err := fixture.Users.FindByID(context.Background(), result.UserID)
	require.NoError(t, err)
	require.NotNil(t, user.GoogleID)
	assert.Equal(t, "google-ann", *user.GoogleID)
	assert.NotNil(t, user.PasswordHash, "linking keeps the local credential")
}

func TestLoginGoogleUpstreamFailure(t *testing.T) {
	fixture := newAuthFixture(t, service.AuthConfig{})
	fixture.Google.err = errors.New("exchange failed")

	_, err := fixture.Service.LoginGoogle(context.Background(), "bad-code", nil)
	assert.Error(t, err)
}

func TestForgotPasswordUnknownEmailIsSilent(t *testing.T) {
	fixture := newAuthFixture(t, service.AuthConfig{})

	err := fixture.Service.ForgotPassword(context.Background(), "nobody@example.com")

	assert.NoError(t, err)
	assert.Empty(t, fixture.Emails.Resets)
}

func TestPasswordResetFlow(t *testing.T) {
	fixture := newAuthFixture(t, service.AuthConfig{})
	result := verifiedUser(t, fixture)
	ctx := context.Background()

	require.NoError(t, fixture.Service.ForgotPassword(ctx, "ann@example.com"))
	require.Len(t, fixture.Emails.Resets, 1)
	code := lastCode(t, fixture.Emails.Resets)

	_, err := fixture.Service.VerifyResetOTP(ctx, "ann@example.com", "000000")
	assert.ErrorIs(t, err, service.ErrInvalidCode)

	reset, err := fixture.Service.VerifyResetOTP(ctx, "ann@example.com", code)
	require.NoError(t, err)
	require.NotEmpty(t, reset.ResetToken)

	err = fixture.Service.ResetPassword(ctx, reset.ResetToken, "weak")
	var validation *service.ValidationError
	assert.ErrorAs(t, err, &validation)

	require.NoError(t, fixture.Service.ResetPassword(ctx, reset.ResetToken, "NewPassw0rd!"))

	_, err = fixture.Service.Login(ctx, service.LoginInput{Email: "ann@example.com", Password: "Passw0rd!"})
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)

	session, err := fixture.Service.Login(ctx, service.LoginInput{Email: "ann@example.com", Password: "NewPassw0rd!"})
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)

	user, err := fixture.Users.FindByID(ctx, result.UserID)
	require.NoError(t, err)
	assert.Equal(t, entity.ProviderLocal, user.AuthProvider)
}

func TestResetPasswordInvalidToken(t *testing.T) {
	fixture := newAuthFixture(t, service.AuthConfig{})

	err := fixture.Service.ResetPassword(context.Background(), "garbage", "NewPassw0rd!")
	assert.ErrorIs(t, err, service.ErrInvalidToken)
}

func TestResetFlowLockout(t *testing.T) {
	fixture := newAuthFixture(t, service.AuthConfig{})
	verifiedUser(t, fixture)
	ctx := context.Background()

	require.NoError(t, fixture.Service.ForgotPassword(ctx, "ann@example.com"))
	code := lastCode(t, fixture.Emails.Resets)

	for attempt := 0; attempt < 5; attempt++ {
		_, _ = fixture.Service.VerifyResetOTP(ctx, "ann@example.com", "000000")
	}

	_, err := fixture.Service.VerifyResetOTP(ctx, "ann@example.com", code)
	assert.ErrorIs(t, err, service.ErrRateLimited)
}
