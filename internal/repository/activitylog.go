package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/kanenguyen264-cyber/do-an/internal/models"
)

type activityLogRepository struct {
	database *gorm.DB
}

func (a *activityLogRepository) Append(ctx context.Context, entry *models.ActivityLog) error {
	return a.database.WithContext(ctx).Create(entry).Error
}

func (a *activityLogRepository) List(ctx context.Context, page, limit int) ([]models.ActivityLog, int64, error) {
	q := a.database.WithContext(ctx).Model(&models.ActivityLog{})
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var entries []models.ActivityLog
	err := paginate(q, page, limit).Order("created_at desc").Find(&entries).Error
	return entries, total, err
}

type ActivityLogRepository interface {
	Append(ctx context.Context, entry *models.ActivityLog) error
	List(ctx context.Context, page, limit int) ([]models.ActivityLog, int64, error)
}

func NewActivityLogRepo(db *gorm.DB) ActivityLogRepository {
	return &activityLogRepository{database: db}
}
