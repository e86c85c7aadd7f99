package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/kanenguyen264-cyber/do-an/internal/models"
)

type FineFilter struct {
	UserID uint
	Status models.FineStatus
	Page   int
	Limit  int
}

type fineRepository struct {
	database *gorm.DB
}

func (f *fineRepository) GetByID(ctx context.Context, id uint) (models.Fine, error) {
	var fine models.Fine
	err := f.database.WithContext(ctx).
		Preload("Borrowing").Preload("Borrowing.Book").
		First(&fine, id).Error
	return fine, translate(err)
}

func (f *fineRepository) List(ctx context.Context, filter FineFilter) ([]models.Fine, int64, error) {
	q := f.database.WithContext(ctx).Model(&models.Fine{})
	if filter.UserID != 0 {
		q = q.Where("user_id = ?", filter.UserID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var fines []models.Fine
	err := paginate(q, filter.Page, filter.Limit).
		Preload("Borrowing").Preload("Borrowing.Book").
		Order("created_at desc").Find(&fines).Error
	return fines, total, err
}

func (f *fineRepository) Create(tx *gorm.DB, fine *models.Fine) error {
	return tx.Create(fine).Error
}

func (f *fineRepository) Save(ctx context.Context, fine *models.Fine) error {
	return f.database.WithContext(ctx).Save(fine).Error
}

// HasActiveForBorrowing reports whether a non-waived fine already exists for
// the borrowing. Checked before fine creation so overdue sweeps stay
// idempotent.
func (f *fineRepository) HasActiveForBorrowing(tx *gorm.DB, borrowingID uint) (bool, error) {
	var total int64
	err := tx.Model(&models.Fine{}).
		Where("borrowing_id = ? AND status IN ?", borrowingID, []models.FineStatus{models.FinePending, models.FinePaid}).
		Count(&total).Error
	return total > 0, err
}

func (f *fineRepository) UnpaidTotal(ctx context.Context, userID uint) (int64, error) {
	var total int64
	err := f.database.WithContext(ctx).Model(&models.Fine{}).
		Where("user_id = ? AND status = ?", userID, models.FinePending).
		Select("COALESCE(SUM(amount), 0)").Scan(&total).Error
	return total, err
}

type FineRepository interface {
	GetByID(ctx context.Context, id uint) (models.Fine, error)
	List(ctx context.Context, filter FineFilter) ([]models.Fine, int64, error)
	Create(tx *gorm.DB, fine *models.Fine) error
	Save(ctx context.Context, fine *models.Fine) error
	HasActiveForBorrowing(tx *gorm.DB, borrowingID uint) (bool, error)
	UnpaidTotal(ctx context.Context, userID uint) (int64, error)
}

func NewFineRepo(db *gorm.DB) FineRepository {
	return &fineRepository{database: db}
}
