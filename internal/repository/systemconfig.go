package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/kanenguyen264-cyber/do-an/internal/models"
)

type systemConfigRepository struct {
	database *gorm.DB
}

// Get returns the single policy row, creating it with model defaults when
// the table is empty.
func (s *systemConfigRepository) Get(ctx context.Context) (models.SystemConfig, error) {
	var cfg models.SystemConfig
	err := s.database.WithContext(ctx).First(&cfg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		cfg = models.SystemConfig{
			MaxBooksPerUser:   5,
			DefaultBorrowDays: 14,
			MaxRenewalCount:   1,
			LateFeePerDay:     5000,
			ReservationDays:   7,
		}
		err = s.database.WithContext(ctx).Create(&cfg).Error
	}
	return cfg, err
}

func (s *systemConfigRepository) Update(ctx context.Context, cfg *models.SystemConfig) error {
	return s.database.WithContext(ctx).Save(cfg).Error
}

type SystemConfigRepository interface {
	Get(ctx context.Context) (models.SystemConfig, error)
	Update(ctx context.Context, cfg *models.SystemConfig) error
}

func NewSystemConfigRepo(db *gorm.DB) SystemConfigRepository {
	return &systemConfigRepository{database: db}
}
