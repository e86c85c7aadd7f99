package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/kanenguyen264-cyber/do-an/internal/domain"
	"github.com/kanenguyen264-cyber/do-an/internal/models"
)

type BookFilter struct {
	Title      string
	CategoryID uint
	Status     models.BookStatus
	Page       int
	Limit      int
}

type bookRepository struct {
	database *gorm.DB
}

func (b *bookRepository) GetByID(ctx context.Context, id uint) (models.Book, error) {
	var book models.Book
	err := b.database.WithContext(ctx).
		Preload("Category").Preload("Publisher").Preload("Authors").
		First(&book, id).Error
	return book, translate(err)
}

func (b *bookRepository) List(ctx context.Context, f BookFilter) ([]models.Book, int64, error) {
	q := b.database.WithContext(ctx).Model(&models.Book{})
	if f.Title != "" {
		q = q.Where("title LIKE ?", "%"+f.Title+"%")
	}
	if f.CategoryID != 0 {
		q = q.Where("category_id = ?", f.CategoryID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var books []models.Book
	err := paginate(q, f.Page, f.Limit).
		Preload("Category").Preload("Publisher").Preload("Authors").
		Order("id desc").Find(&books).Error
	return books, total, err
}

func (b *bookRepository) Create(ctx context.Context, book *models.Book) error {
	return b.database.WithContext(ctx).Create(book).Error
}

func (b *bookRepository) Update(ctx context.Context, book *models.Book) error {
	return b.database.WithContext(ctx).Save(book).Error
}

func (b *bookRepository) Delete(ctx context.Context, id uint) error {
	return b.database.WithContext(ctx).Delete(&models.Book{}, id).Error
}

func (b *bookRepository) CountAll(ctx context.Context) (int64, error) {
	var total int64
	err := b.database.WithContext(ctx).Model(&models.Book{}).Count(&total).Error
	return total, err
}

func (b *bookRepository) ListPopular(ctx context.Context, limit int) ([]models.Book, error) {
	if limit < 1 || limit > 100 {
		limit = 10
	}
	var books []models.Book
	err := b.database.WithContext(ctx).
		Preload("Category").Preload("Authors").
		Order("borrow_count desc").Limit(limit).Find(&books).Error
	return books, err
}

// AdjustAvailableCopies moves the availability counter by delta inside the
// caller's transaction. The row is locked for the duration so two approvals
// of the last copy cannot both succeed. A decrement below zero is rejected;
// an increment is capped at totalCopies. The derived book status follows the
// counter unless the book is flagged MAINTENANCE or LOST.
func (b *bookRepository) AdjustAvailableCopies(tx *gorm.DB, bookID uint, delta int) error {
	var book models.Book
	if err := lockForUpdate(tx).First(&book, bookID).Error; err != nil {
		return translate(err)
	}
	next := book.AvailableCopies + delta
	if next < 0 {
		return fmt.Errorf("book %d: %w", bookID, domain.ErrBookUnavailable)
	}
	if next > book.TotalCopies {
		next = book.TotalCopies
	}
	book.AvailableCopies = next
	if book.Status != models.BookMaintenance && book.Status != models.BookLost {
		if next > 0 {
			book.Status = models.BookAvailable
		} else {
			book.Status = models.BookBorrowed
		}
	}
	return tx.Save(&book).Error
}

func (b *bookRepository) IncrementBorrowCount(tx *gorm.DB, bookID uint) error {
	return tx.Model(&models.Book{}).Where("id = ?", bookID).
		UpdateColumn("borrow_count", gorm.Expr("borrow_count + 1")).Error
}

type BookRepository interface {
	GetByID(ctx context.Context, id uint) (models.Book, error)
	List(ctx context.Context, f BookFilter) ([]models.Book, int64, error)
	Create(ctx context.Context, book *models.Book) error
	Update(ctx context.Context, book *models.Book) error
	Delete(ctx context.Context, id uint) error
	CountAll(ctx context.Context) (int64, error)
	ListPopular(ctx context.Context, limit int) ([]models.Book, error)
	AdjustAvailableCopies(tx *gorm.DB, bookID uint, delta int) error
	IncrementBorrowCount(tx *gorm.DB, bookID uint) error
}

func NewBookRepo(db *gorm.DB) BookRepository {
	return &bookRepository{database: db}
}
