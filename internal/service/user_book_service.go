package service

import (
	"context"
	"time"

	"booktrack/internal/entity"
	"booktrack/internal/repository"

	"github.com/google/uuid"
)

type UserBookService struct {
	entries repository.UserBookRepository
	books   repository.BookRepository
}

func NewUserBookService(entries repository.UserBookRepository, books repository.BookRepository) *UserBookService {
	return &UserBookService{entries: entries, books: books}
}

type UserBookInput struct {
	BookID   uuid.UUID
	Status   entity.ReadingStatus
	Progress *int
	Rating   *int
	Notes    string
}

type UserBookUpdateInput struct {
	Status     *entity.ReadingStatus
	Progress   *int
	Rating     *int
	Notes      *string
	StartedAt  *time.Time
	FinishedAt *time.Time
}

// ReadingSummary is computed in one pass over the caller's entries.
type ReadingSummary struct {
	Wishlist      int        `json:"wishlist"`
	Reading       int        `json:"reading"`
	Finished      int        `json:"finished"`
	AvgRating     *float64   `json:"avgRating"`
	TotalProgress int        `json:"totalProgress"`
	LastUpdated   *time.Time `json:"lastUpdated"`
}

func validateEntryFields(status entity.ReadingStatus, progress *int, rating *int, notes string) []string {
	var violations []string
	if status != "" && !status.Valid() {
		violations = append(violations, "status must be one of wishlist, reading, finished")
	}
	if progress != nil && (*progress < 0 || *progress > 100) {
		violations = append(violations, "progress must be between 0 and 100")
	}
	if rating != nil && (*rating < 1 || *rating > 5) {
		violations = append(violations, "rating must be between 1 and 5")
	}
	if len(notes) > 500 {
		violations = append(violations, "notes must be at most 500 characters")
	}
	return violations
}

func (s *UserBookService) Add(ctx context.Context, userID uuid.UUID, input UserBookInput) (*entity.UserBook, error) {
	if violations := validateEntryFields(input.Status, input.Progress, input.Rating, input.Notes); len(violations) > 0 {
		return nil, &ValidationError{Violations: violations}
	}

	book, err := s.books.FindByID(ctx, input.BookID)
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, ErrNotFound
	}

	existing, err := s.entries.FindByUserAndBook(ctx, userID, input.BookID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrAlreadyInList
	}

	entry := &entity.UserBook{
		UserID: userID,
		BookID: input.BookID,
		Status: entity.StatusWishlist,
		Notes:  input.Notes,
	}
	if input.Status != "" {
		entry.Status = input.Status
	}
	if input.Progress != nil {
		entry.Progress = *input.Progress
	}
	entry.Rating = input.Rating

	if err := s.entries.Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *UserBookService) List(ctx context.Context, userID uuid.UUID) ([]entity.UserBook, error) {
	return s.entries.ListByUser(ctx, userID)
}

func (s *UserBookService) Get(ctx context.Context, userID, id uuid.UUID) (*entity.UserBook, error) {
	entry, err := s.entries.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, ErrNotFound
	}
	if entry.UserID != userID {
		return nil, ErrForbidden
	}
	return entry, nil
}

func (s *UserBookService) Summary(ctx context.Context, userID uuid.UUID) (*ReadingSummary, error) {
	entries, err := s.entries.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	summary := &ReadingSummary{}
	ratingSum, ratingCount := 0, 0
	for i := range entries {
		entry := &entries[i]
		switch entry.Status {
		case entity.StatusWishlist:
			summary.Wishlist++
		case entity.StatusReading:
			summary.Reading++
		case entity.StatusFinished:
			summary.Finished++
		}
		summary.TotalProgress += entry.Progress
		if entry.Rating != nil {
			ratingSum += *entry.Rating
			ratingCount++
		}
		if summary.LastUpdated == nil || entry.UpdatedAt.After(*summary.LastUpdated) {
			updated := entry.UpdatedAt
			summary.LastUpdated = &updated
		}
	}
	if ratingCount > 0 {
		avg := float64(ratingSum) / float64(ratingCount)
		summary.AvgRating = &avg
	}
	return summary, nil
}

func (s *UserBookService) Update(ctx context.Context, userID, id uuid.UUID, input UserBookUpdateInput) (*entity.UserBook, error) {
	entry, err := s.entries.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, ErrNotFound
	}
	if entry.UserID != userID {
		return nil, ErrForbidden
	}

	if input.Status != nil {
		entry.Status = *input.Status
	}
	if input.Progress != nil {
		entry.Progress = *input.Progress
	}
	if input.Rating != nil {
		entry.Rating = input.Rating
	}
	if input.Notes != nil {
		entry.Notes = *input.Notes
	}
	if input.StartedAt != nil {
		entry.StartedAt = input.StartedAt
	}
	if input.FinishedAt != nil {
		entry.FinishedAt = input.FinishedAt
	}

	if violations := validateEntryFields(entry.Status, &entry.Progress, entry.Rating, entry.Notes); len(violations) > 0 {
		return nil, &ValidationError{Violations: violations}
	}

	if err := s.entries.Update(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *UserBookService) Remove(ctx context.Context, userID, id uuid.UUID) error {
	entry, err := s.entries.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if entry == nil {
		return ErrNotFound
	}
	if entry.UserID != userID {
		return ErrForbidden
	}
	return s.entries.Delete(ctx, id)
}
