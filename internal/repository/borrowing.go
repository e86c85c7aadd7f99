package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/kanenguyen264-cyber/do-an/internal/models"
)

type BorrowingFilter struct {
	UserID uint
	BookID uint
	Status models.BorrowingStatus
	Page   int
	Limit  int
}

type borrowingRepository struct {
	database *gorm.DB
}

func (b *borrowingRepository) GetByID(ctx context.Context, id uint) (models.Borrowing, error) {
	var borrowing models.Borrowing
	err := b.database.WithContext(ctx).
		Preload("Book").Preload("User").
		First(&borrowing, id).Error
	return borrowing, translate(err)
}

// GetForUpdate reloads a borrowing inside the caller's transaction with a
// row lock, so concurrent state transitions on the same borrowing serialize.
func (b *borrowingRepository) GetForUpdate(tx *gorm.DB, id uint) (models.Borrowing, error) {
	var borrowing models.Borrowing
	err := lockForUpdate(tx).First(&borrowing, id).Error
	return borrowing, translate(err)
}

func (b *borrowingRepository) List(ctx context.Context, f BorrowingFilter) ([]models.Borrowing, int64, error) {
	q := b.database.WithContext(ctx).Model(&models.Borrowing{})
	if f.UserID != 0 {
		q = q.Where("user_id = ?", f.UserID)
	}
	if f.BookID != 0 {
		q = q.Where("book_id = ?", f.BookID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var borrowings []models.Borrowing
	err := paginate(q, f.Page, f.Limit).
		Preload("Book").Preload("User").
		Order("created_at desc").Find(&borrowings).Error
	return borrowings, total, err
}

func (b *borrowingRepository) Create(ctx context.Context, borrowing *models.Borrowing) error {
	return b.database.WithContext(ctx).Create(borrowing).Error
}

func (b *borrowingRepository) Save(tx *gorm.DB, borrowing *models.Borrowing) error {
	return tx.Save(borrowing).Error
}

// CountActive counts the borrowings holding or about to hold a copy for the
// user, i.e. the ones that consume the borrow limit.
func (b *borrowingRepository) CountActive(ctx context.Context, userID uint) (int64, error) {
	var total int64
	err := b.database.WithContext(ctx).Model(&models.Borrowing{}).
		Where("user_id = ? AND status IN ?", userID, models.ActiveBorrowingStatuses).
		Count(&total).Error
	return total, err
}

func (b *borrowingRepository) FindActiveByUserAndBook(ctx context.Context, userID, bookID uint) (*models.Borrowing, error) {
	var borrowing models.Borrowing
	err := b.database.WithContext(ctx).
		Where("user_id = ? AND book_id = ? AND status IN ?", userID, bookID, models.ActiveBorrowingStatuses).
		First(&borrowing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &borrowing, nil
}

func (b *borrowingRepository) ListDueBefore(ctx context.Context, now time.Time) ([]models.Borrowing, error) {
	var borrowings []models.Borrowing
	err := b.database.WithContext(ctx).
		Preload("Book").
		Where("status = ? AND due_date < ?", models.BorrowingBorrowed, now).
		Find(&borrowings).Error
	return borrowings, err
}

func (b *borrowingRepository) CountAll(ctx context.Context) (int64, error) {
	var total int64
	err := b.database.WithContext(ctx).Model(&models.Borrowing{}).Count(&total).Error
	return total, err
}

func (b *borrowingRepository) CountByStatuses(ctx context.Context, statuses []models.BorrowingStatus) (int64, error) {
	var total int64
	err := b.database.WithContext(ctx).Model(&models.Borrowing{}).
		Where("status IN ?", statuses).Count(&total).Error
	return total, err
}

type BorrowingRepository interface {
	GetByID(ctx context.Context, id uint) (models.Borrowing, error)
	GetForUpdate(tx *gorm.DB, id uint) (models.Borrowing, error)
	List(ctx context.Context, f BorrowingFilter) ([]models.Borrowing, int64, error)
	Create(ctx context.Context, borrowing *models.Borrowing) error
	Save(tx *gorm.DB, borrowing *models.Borrowing) error
	CountActive(ctx context.Context, userID uint) (int64, error)
	FindActiveByUserAndBook(ctx context.Context, userID, bookID uint) (*models.Borrowing, error)
	ListDueBefore(ctx context.Context, now time.Time) ([]models.Borrowing, error)
	CountAll(ctx context.Context) (int64, error)
	CountByStatuses(ctx context.Context, statuses []models.BorrowingStatus) (int64, error)
}

func NewBorrowingRepo(db *gorm.DB) BorrowingRepository {
	return &borrowingRepository{database: db}
}
