package repository

import (
	"context"
	"time"

	"sabitax/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NotificationRepository defines the interface for data access of Notification entities
type NotificationRepository interface {
	Create(ctx context.Context, notification *model.Notification) error
	ListByUser(ctx context.Context, userID uuid.UUID, unreadOnly bool, page, limit int) ([]model.Notification, int64, error)
	CountUnread(ctx context.Context, userID uuid.UUID) (int64, error)
	MarkRead(ctx context.Context, id, userID uuid.UUID, readAt time.Time) (int64, error)
	MarkAllRead(ctx context.Context, userID uuid.UUID, readAt time.Time) (int64, error)
}

type notificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository returns a new instance of NotificationRepository
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, notification *model.Notification) error {
	return GetDB(ctx, r.db).Create(notification).Error
}

func (r *notificationRepository) ListByUser(ctx context.Context, userID uuid.UUID, unreadOnly bool, page, limit int) ([]model.Notification, int64, error) {
	query := GetDB(ctx, r.db).Model(&model.Notification{}).Where("user_id = ?", userID)
	if unreadOnly {
		query = query.Where("is_read = false")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var notifications []model.Notification
	offset := (page - 1) * limit
	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&notifications).Error; err != nil {
		return nil, 0, err
	}

	return notifications, total, nil
}

func (r *notificationRepository) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&model.Notification{}).
		Where("user_id = ? AND is_read = false", userID).Count(&count).Error
	return count, err
}

func (r *notificationRepository) MarkRead(ctx context.Context, id, userID uuid.UUID, readAt time.Time) (int64, error) {
	result := GetDB(ctx, r.db).Model(&model.Notification{}).
		Where("id = ? AND user_id = ? AND is_read = false", id, userID).
		Updates(map[string]interface{}{"is_read": true, "read_at": readAt})
	return result.RowsAffected, result.Error
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, userID uuid.UUID, readAt time.Time) (int64, error) {
	result := GetDB(ctx, r.db).Model(&model.Notification{}).
		Where("user_id = ? AND is_read = false", userID).
		Updates(map[string]interface{}{"is_read": true, "read_at": readAt})
	return result.RowsAffected, result.Error
}
