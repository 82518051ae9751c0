package dto

import (
	"time"

	"booktrack/internal/entity"
)

type BookRequest struct {
	Title         string  `json:"title" validate:"required"`
	Author        string  `json:"author" validate:"required"`
	Genre         string  `json:"genre"`
	Description   string  `json:"description"`
	Pages         *int    `json:"pages"`
	PublishedYear *int    `json:"publishedYear"`
	CoverImage    *string `json:"coverImage"`
}

type BookUpdateRequest struct {
	Title         *string `json:"title"`
	Author        *string `json:"author"`
	Genre         *string `json:"genre"`
	Description   *string `json:"description"`
	Pages         *int    `json:"pages"`
	PublishedYear *int    `json:"publishedYear"`
	CoverImage    *string `json:"coverImage"`
}

type BookResponse struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	Genre         string    `json:"genre,omitempty"`
	Description   string    `json:"description,omitempty"`
	Pages         *int      `json:"pages,omitempty"`
	PublishedYear *int      `json:"publishedYear,omitempty"`
	CoverImage    *string   `json:"coverImage,omitempty"`
	CreatedBy     string    `json:"createdBy"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type MyBooksResponse struct {
	Count int            `json:"count"`
	Books []BookResponse `json:"books"`
}

func BookResponseFromEntity(book *entity.Book) BookResponse {
	return BookResponse{
		ID:            book.ID.String(),
		Title:         book.Title,
		Author:        book.Author,
		Genre:         book.Genre,
		Description:   book.Description,
		Pages:         book.Pages,
		PublishedYear: book.PublishedYear,
		CoverImage:    book.CoverImage,
		CreatedBy:     book.CreatedByID.String(),
		CreatedAt:     book.CreatedAt,
		UpdatedAt:     book.UpdatedAt,
	}
}

func BookResponsesFromEntities(books []entity.Book) []BookResponse {
	responses := make([]BookResponse, 0, len(books))
	for i := range books {
		responses = append(responses, BookResponseFromEntity(&books[i]))
	}
	return responses
}
