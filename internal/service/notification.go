package service

import (
	"context"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"github.com/kanenguyen264-cyber/do-an/internal/log"
	"github.com/kanenguyen264-cyber/do-an/internal/models"
	"github.com/kanenguyen264-cyber/do-an/internal/repository"
)

// NotificationChannel is the redis pub/sub channel downstream consumers
// (mailer, websocket gateway) subscribe to.
const NotificationChannel = "library:notifications"

type NotificationEvent struct {
	ID      string                  `json:"id"`
	UserID  uint                    `json:"user_id"`
	Type    models.NotificationType `json:"type"`
	Title   string                  `json:"title"`
	Message string                  `json:"message"`
}

func (e NotificationEvent) MarshalBinary() ([]byte, error) {
	return sonic.Marshal(e)
}

type NotificationService struct {
	notifications repository.NotificationRepository
	redisCli      *redis.Client
}

func NewNotificationService(notifications repository.NotificationRepository, redisCli *redis.Client) *NotificationService {
	return &NotificationService{
		notifications: notifications,
		redisCli:      redisCli,
	}
}

// Emit records a user-facing message and publishes it on the side channel.
// Fire-and-forget: failures are logged and never propagated, so a lost
// notification cannot roll back the business transaction that produced it.
func (n *NotificationService) Emit(ctx context.Context, userID uint, notifType models.NotificationType, title, message string) {
	logger := log.GetLogger(ctx)
	notification := &models.Notification{
		UserID:  userID,
		Type:    notifType,
		Title:   title,
		Message: message,
	}
	if err := n.notifications.Create(ctx, notification); err != nil {
		logger.WithError(err).Errorf("failed to store notification for user %d", userID)
		return
	}
	if n.redisCli == nil {
		return
	}
	event := NotificationEvent{
		ID:      uuid.New().String(),
		UserID:  userID,
		Type:    notifType,
		Title:   title,
		Message: message,
	}
	if err := n.redisCli.Publish(ctx, NotificationChannel, event).Err(); err != nil {
		logger.WithError(err).Errorf("error publishing notification event to %s channel", NotificationChannel)
	}
}

func (n *NotificationService) List(ctx context.Context, userID uint, unreadOnly bool) ([]models.Notification, error) {
	return n.notifications.List(ctx, userID, unreadOnly)
}

func (n *NotificationService) MarkRead(ctx context.Context, id uint) (models.Notification, error) {
	if _, err := n.notifications.GetByID(ctx, id); err != nil {
		return models.Notification{}, err
	}
	if err := n.notifications.MarkRead(ctx, id, time.Now()); err != nil {
		return models.Notification{}, err
	}
	return n.notifications.GetByID(ctx, id)
}

func (n *NotificationService) MarkAllRead(ctx context.Context, userID uint) error {
	return n.notifications.MarkAllRead(ctx, userID, time.Now())
}

func (n *NotificationService) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	return n.notifications.UnreadCount(ctx, userID)
}
