package repository

import (
	"context"
	"errors"

	"booktrack/internal/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserBookRepository interface {
	Create(ctx context.Context, entry *entity.UserBook) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.UserBook, error)
	FindByUserAndBook(ctx context.Context, userID, bookID uuid.UUID) (*entity.UserBook, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]entity.UserBook, error)
	Update(ctx context.Context, entry *entity.UserBook) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type userBookRepository struct {
	db *gorm.DB
}

func NewUserBookRepository(db *gorm.DB) UserBookRepository {
	return &userBookRepository{db: db}
}

func (r *userBookRepository) Create(ctx context.Context, entry *entity.UserBook) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *userBookRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.UserBook, error) {
	var entry entity.UserBook
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&entry).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &entry, err
}

func (r *userBookRepository) FindByUserAndBook(ctx context.Context, userID, bookID uuid.UUID) (*entity.UserBook, error) {
	var entry entity.UserBook
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND book_id = ?", userID, bookID).
		First(&entry).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &entry, err
}

func (r *userBookRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]entity.UserBook, error) {
	var entries []entity.UserBook
	err := r.db.WithContext(ctx).
		Preload("Book").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&entries).Error
	return entries, err
}

func (r *userBookRepository) Update(ctx context.Context, entry *entity.UserBook) error {
	return r.db.WithContext(ctx).Save(entry).Error
}

func (r *userBookRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&entity.UserBook{}).Error
}
