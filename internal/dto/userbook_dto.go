package dto

import (
	"time"

	"booktrack/internal/entity"

	"github.com/google/uuid"
)

type UserBookRequest struct {
	BookID   string `json:"bookId" validate:"required,uuid"`
	Status   string `json:"status"`
	Progress *int   `json:"progress"`
	Rating   *int   `json:"rating"`
	Notes    string `json:"notes"`
}

type UserBookUpdateRequest struct {
	Status     *string    `json:"status"`
	Progress   *int       `json:"progress"`
	Rating     *int       `json:"rating"`
	Notes      *string    `json:"notes"`
	StartedAt  *time.Time `json:"startedAt"`
	FinishedAt *time.Time `json:"finishedAt"`
}

type UserBookResponse struct {
	ID         string        `json:"id"`
	BookID     string        `json:"bookId"`
	Book       *BookResponse `json:"book,omitempty"`
	Status     string        `json:"status"`
	Progress   int           `json:"progress"`
	Rating     *int          `json:"rating,omitempty"`
	Notes      string        `json:"notes,omitempty"`
	StartedAt  *time.Time    `json:"startedAt,omitempty"`
	FinishedAt *time.Time    `json:"finishedAt,omitempty"`
	CreatedAt  time.Time     `json:"createdAt"`
	UpdatedAt  time.Time     `json:"updatedAt"`
}

func UserBookResponseFromEntity(entry *entity.UserBook) UserBookResponse {
	response := UserBookResponse{
		ID:         entry.ID.String(),
		BookID:     entry.BookID.String(),
		Status:     string(entry.Status),
		Progress:   entry.Progress,
		Rating:     entry.Rating,
		Notes:      entry.Notes,
		StartedAt:  entry.StartedAt,
		FinishedAt: entry.FinishedAt,
		CreatedAt:  entry.CreatedAt,
		UpdatedAt:  entry.UpdatedAt,
	}
	if entry.Book.ID != uuid.Nil {
		book := BookResponseFromEntity(&entry.Book)
		response.Book = &book
	}
	return response
}

func UserBookResponsesFromEntities(entries []entity.UserBook) []UserBookResponse {
	responses := make([]UserBookResponse, 0, len(entries))
	for i := range entries {
		responses = append(responses, UserBookResponseFromEntity(&entries[i]))
	}
	return responses
}
