package service

import (
	"context"
	"strings"

	"booktrack/internal/entity"
	"booktrack/internal/repository"

	"github.com/google/uuid"
)

type BookService struct {
	books repository.BookRepository
}

func NewBookService(books repository.BookRepository) *BookService {
	return &BookService{books: books}
}

type BookInput struct {
	Title         string
	Author        string
	Genre         string
	Description   string
	Pages         *int
	PublishedYear *int
	CoverImage    *string
}

type BookUpdateInput struct {
	Title         *string
	Author        *string
	Genre         *string
	Description   *string
	Pages         *int
	PublishedYear *int
	CoverImage    *string
}

func validateBookFields(title, author, description string) []string {
	var violations []string
	if len(strings.TrimSpace(title)) < 2 {
		violations = append(violations, "title must be at least 2 characters")
	}
	if len(strings.TrimSpace(author)) < 2 {
		violations = append(violations, "author must be at least 2 characters")
	}
	if len(description) > 500 {
		violations = append(violations, "description must be at most 500 characters")
	}
	return violations
}

func (s *BookService) Create(ctx context.Context, userID uuid.UUID, input BookInput) (*entity.Book, error) {
	if violations := validateBookFields(input.Title, input.Author, input.Description); len(violations) > 0 {
		return nil, &ValidationError{Violations: violations}
	}

	book := &entity.Book{
		Title:         strings.TrimSpace(input.Title),
		Author:        strings.TrimSpace(input.Author),
		Genre:         strings.TrimSpace(input.Genre),
		Description:   strings.TrimSpace(input.Description),
		Pages:         input.Pages,
		PublishedYear: input.PublishedYear,
		CoverImage:    input.CoverImage,
		CreatedByID:   userID,
	}
	if err := s.books.Create(ctx, book); err != nil {
		return nil, err
	}
	return book, nil
}

func (s *BookService) List(ctx context.Context) ([]entity.Book, error) {
	return s.books.List(ctx)
}

func (s *BookService) ListMine(ctx context.Context, userID uuid.UUID) ([]entity.Book, error) {
	return s.books.ListByCreator(ctx, userID)
}

func (s *BookService) Get(ctx context.Context, id uuid.UUID) (*entity.Book, error) {
	book, err := s.books.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, ErrNotFound
	}
	return book, nil
}

func (s *BookService) Update(ctx context.Context, userID, id uuid.UUID, input BookUpdateInput) (*entity.Book, error) {
	book, err := s.books.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, ErrNotFound
	}
	if book.CreatedByID != userID {
		return nil, ErrForbidden
	}

	if input.Title != nil {
		book.Title = strings.TrimSpace(*input.Title)
	}
	if input.Author != nil {
		book.Author = strings.TrimSpace(*input.Author)
	}
	if input.Genre != nil {
		book.Genre = strings.TrimSpace(*input.Genre)
	}
	if input.Description != nil {
		book.Description = strings.TrimSpace(*input.Description)
	}
	if input.Pages != nil {
		book.Pages = input.Pages
	}
	if input.PublishedYear != nil {
		book.PublishedYear = input.PublishedYear
	}
	if input.CoverImage != nil {
		book.CoverImage = input.CoverImage
	}

	if violations := validateBookFields(book.Title, book.Author, book.Description); len(violations) > 0 {
		return nil, &ValidationError{Violations: violations}
	}

	if err := s.books.Update(ctx, book); err != nil {
		return nil, err
	}
	return book, nil
}

func (s *BookService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	book, err := s.books.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if book == nil {
		return ErrNotFound
	}
	if book.CreatedByID != userID {
		return ErrForbidden
	}
	return s.books.Delete(ctx, id)
}
