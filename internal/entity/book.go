package entity

import (
	"time"

	"github.com/google/uuid"
)

type Book struct {
	ID     uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Title  string    `gorm:"type:varchar(255);not null"`
	Author string    `gorm:"type:varchar(255);not null"`

	Genre       string `gorm:"type:varchar(100)"`
	Description string `gorm:"type:varchar(500)"`

	Pages         *int
	PublishedYear *int
	CoverImage    *string `gorm:"type:text"`

	CreatedByID uuid.UUID `gorm:"type:uuid;not null;index"`
	CreatedBy   User      `gorm:"foreignKey:CreatedByID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
