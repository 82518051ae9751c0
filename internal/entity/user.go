package entity

import (
	"time"

	"github.com/google/uuid"
)

type AuthProvider string

const (
	ProviderLocal  AuthProvider = "local"
	ProviderGoogle AuthProvider = "google"
	ProviderGitHub AuthProvider = "github"
	ProviderApple  AuthProvider = "apple"
)

type User struct {
	ID    uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name  string    `gorm:"type:varchar(60);not null"`
	Email string    `gorm:"type:varchar(255);uniqueIndex;not null"`

	// PasswordHash is nil for OAuth-only accounts.
	PasswordHash *string      `gorm:"type:text"`
	AuthProvider AuthProvider `gorm:"type:varchar(16);default:'local';not null"`

	GoogleID       *string `gorm:"type:varchar(255)"`
	ProfilePic     *string `gorm:"type:text"`
	AvatarGradient int     `gorm:"default:0;not null"`

	EmailVerified bool     `gorm:"default:false;not null"`
	OTP           OTPState `gorm:"embedded;embeddedPrefix:otp_"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
