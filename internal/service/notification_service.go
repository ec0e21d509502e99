package service

import (
	"context"
	"encoding/json"
	"fmt"

	"campusvoice.com/backend/internal/model"
	"campusvoice.com/backend/internal/repository"
	"github.com/redis/go-redis/v9"
)

type NotificationService interface {
	Notify(ctx context.Context, kind string, recipientID uint, complaintID *string, subject, message string) error
	GetNotifications(ctx context.Context, kind string, recipientID uint, limit, offset int) ([]*model.Notification, error)
	MarkAsRead(ctx context.Context, id uint) error
	MarkAllAsRead(ctx context.Context, kind string, recipientID uint) error
	UnreadCount(ctx context.Context, kind string, recipientID uint) (int64, error)
}

type notificationService struct {
	repo        repository.NotificationRepository
	redisClient *redis.Client
}

func NewNotificationService(repo repository.NotificationRepository, redisClient *redis.Client) NotificationService {
	return &notificationService{
		repo:        repo,
		redisClient: redisClient,
	}
}

// NotificationChannel is the redis pub/sub channel a recipient's live feed
// subscribes to.
func NotificationChannel(kind string, recipientID uint) string {
	return fmt.Sprintf("user_notifications:%s:%d", kind, recipientID)
}

func (s *notificationService) Notify(ctx context.Context, kind string, recipientID uint, complaintID *string, subject, message string) error {
	notification := &model.Notification{
		RecipientKind: kind,
		RecipientID:   recipientID,
		ComplaintID:   complaintID,
		Subject:       subject,
		Message:       message,
	}

	// 1. Save to DB
	if err := s.repo.Create(ctx, notification); err != nil {
		return err
	}

	// 2. Publish to Redis if Redis is available
	if s.redisClient != nil {
		payload, err := json.Marshal(notification)
		if err == nil {
			s.redisClient.Publish(ctx, NotificationChannel(kind, recipientID), payload)
		}
	}

	return nil
}

func (s *notificationService) GetNotifications(ctx context.Context, kind string, recipientID uint, limit, offset int) ([]*model.Notification, error) {
	return s.repo.FindByRecipient(ctx, kind, recipientID, limit, offset)
}

func (s *notificationService) MarkAsRead(ctx context.Context, id uint) error {
	return s.repo.MarkAsRead(ctx, id)
}

func (s *notificationService) MarkAllAsRead(ctx context.Context, kind string, recipientID uint) error {
	return s.repo.MarkAllAsRead(ctx, kind, recipientID)
}

func (s *notificationService) UnreadCount(ctx context.Context, kind string, recipientID uint) (int64, error) {
	return s.repo.CountUnread(ctx, kind, recipientID)
}
