package service

import (
	"booktrack/internal/entity"

	"github.com/google/uuid"
)

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

type RegisterResult struct {
	UserID uuid.UUID
	Email  string
}

type LoginInput struct {
	Email     string
	Password  string
	IPAddress *string
}

type SessionResult struct {
	User      *entity.User
	Token     string
	ExpiresIn int64
}

type ResetTokenResult struct {
	ResetToken string
	ExpiresIn  int64
}
