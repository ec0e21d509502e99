package repository

import (
	"context"

	"campusvoice.com/backend/internal/model"
	"gorm.io/gorm"
)

type NotificationRepository interface {
	Create(ctx context.Context, notification *model.Notification) error
	FindByRecipient(ctx context.Context, kind string, recipientID uint, limit, offset int) ([]*model.Notification, error)
	MarkAsRead(ctx context.Context, id uint) error
	MarkAllAsRead(ctx context.Context, kind string, recipientID uint) error
	CountUnread(ctx context.Context, kind string, recipientID uint) (int64, error)
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, notification *model.Notification) error {
	return r.db.WithContext(ctx).Create(notification).Error
}

func (r *notificationRepository) FindByRecipient(ctx context.Context, kind string, recipientID uint, limit, offset int) ([]*model.Notification, error) {
	var notifications []*model.Notification
	err := r.db.WithContext(ctx).
		Where("recipient_kind = ? AND recipient_id = ?", kind, recipientID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&notifications).Error
	return notifications, err
}

func (r *notificationRepository) MarkAsRead(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).
		Model(&model.Notification{}).
		Where("id = ?", id).
		Update("is_read", true).Error
}

func (r *notificationRepository) MarkAllAsRead(ctx context.Context, kind string, recipientID uint) error {
	return r.db.WithContext(ctx).
		Model(&model.Notification{}).
		Where("recipient_kind = ? AND recipient_id = ? AND is_read = ?", kind, recipientID, false).
		Update("is_read", true).Error
}

func (r *notificationRepository) CountUnread(ctx context.Context, kind string, recipientID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Notification{}).
		Where("recipient_kind = ? AND recipient_id = ? AND is_read = ?", kind, recipientID, false).
		Count(&count).Error
	return count, err
}
