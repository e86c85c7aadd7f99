package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/kanenguyen264-cyber/do-an/internal/models"
)

type notificationRepository struct {
	database *gorm.DB
}

func (n *notificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	return n.database.WithContext(ctx).Create(notification).Error
}

func (n *notificationRepository) List(ctx context.Context, userID uint, unreadOnly bool) ([]models.Notification, error) {
	q := n.database.WithContext(ctx).Where("user_id = ?", userID)
	if unreadOnly {
		q = q.Where("is_read = ?", false)
	}
	var notifications []models.Notification
	err := q.Order("created_at desc").Find(&notifications).Error
	return notifications, err
}

func (n *notificationRepository) GetByID(ctx context.Context, id uint) (models.Notification, error) {
	var notification models.Notification
	err := n.database.WithContext(ctx).First(&notification, id).Error
	return notification, translate(err)
}

func (n *notificationRepository) MarkRead(ctx context.Context, id uint, readAt time.Time) error {
	return n.database.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ? AND is_read = ?", id, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": readAt}).Error
}

func (n *notificationRepository) MarkAllRead(ctx context.Context, userID uint, readAt time.Time) error {
	return n.database.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": readAt}).Error
}

func (n *notificationRepository) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	var total int64
	err := n.database.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&total).Error
	return total, err
}

type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	List(ctx context.Context, userID uint, unreadOnly bool) ([]models.Notification, error)
	GetByID(ctx context.Context, id uint) (models.Notification, error)
	MarkRead(ctx context.Context, id uint, readAt time.Time) error
	MarkAllRead(ctx context.Context, userID uint, readAt time.Time) error
	UnreadCount(ctx context.Context, userID uint) (int64, error)
}

func NewNotificationRepo(db *gorm.DB) NotificationRepository {
	return &notificationRepository{database: db}
}
