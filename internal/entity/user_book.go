package entity

import (
	"time"

	"github.com/google/uuid"
)

type ReadingStatus string

const (
	StatusWishlist ReadingStatus = "wishlist"
	StatusReading  ReadingStatus = "reading"
	StatusFinished ReadingStatus = "finished"
)

func (s ReadingStatus) Valid() bool {
	switch s {
	case StatusWishlist, StatusReading, StatusFinished:
		return true
	}
	return false
}

// UserBook links a user to a catalog book. The composite unique index keeps
// at most one entry per (user, book) pair.
type UserBook struct {
	ID     uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_book"`
	User   User      `gorm:"constraint:OnDelete:CASCADE"`
	BookID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_book"`
	Book   Book      `gorm:"constraint:OnDelete:CASCADE"`

	Status   ReadingStatus `gorm:"type:varchar(16);default:'wishlist';not null"`
	Progress int           `gorm:"default:0;not null"`
	Rating   *int
	Notes    string `gorm:"type:varchar(500)"`

	StartedAt  *time.Time
	FinishedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}
