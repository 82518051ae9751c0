package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type AuthConfig struct {
	SessionTokenTTL     time.Duration
	ResetTokenTTL       time.Duration
	AllowedEmailDomains []string
}

type EmailSender interface {
	SendVerificationCode(ctx context.Context, email string, name string, code string) error
	SendPasswordResetCode(ctx context.Context, email string, name string, code string) error
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash string, password string) bool
}

type SessionTokenIssuer interface {
	IssueSessionToken(userID uuid.UUID) (string, time.Duration, error)
}

// ResetTokenIssuer bridges the reset-OTP check and the final password
// overwrite with a short-lived purpose-tagged token.
type ResetTokenIssuer interface {
	IssueResetToken(userID uuid.UUID) (string, time.Duration, error)
	ParseResetToken(token string) (uuid.UUID, error)
}

type GoogleProfile struct {
	ID      string
	Email   string
	Name    string
	Picture string
}

type GoogleProvider interface {
	AuthCodeURL(state string) string
	FetchProfile(ctx context.Context, code string) (*GoogleProfile, error)
}

type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time {
	return time.Now()
}

type BcryptPasswordHasher struct {
	Cost int
}

func (h BcryptPasswordHasher) Hash(password string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func (h BcryptPasswordHasher) Verify(hash string, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
