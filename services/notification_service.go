package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/umsams/umsams-api/model"
	"gorm.io/gorm"
)

// ErrNotificationNotFound is returned when a notification lookup misses
var ErrNotificationNotFound = errors.New("notification not found")

// NotificationService handles user notifications
type NotificationService struct {
	db *gorm.DB
}

// NewNotificationService creates a new notification service
func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{db: db}
}

// CreateNotification creates a new notification for a user
func (s *NotificationService) CreateNotification(ctx context.Context, userID uint, message string) (*model.Notification, error) {
	notification := &model.Notification{
		UserID:  userID,
		Message: message,
	}

	if err := s.db.WithContext(ctx).Create(notification).Error; err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}
	return notification, nil
}

// ListNotificationsForUser returns a user's notifications, newest first
func (s *NotificationService) ListNotificationsForUser(ctx context.Context, userID uint) ([]model.Notification, error) {
	var notifications []model.Notification
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&notifications).Error; err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}

// ListUnreadForUser returns a user's unread notifications, newest first
func (s *NotificationService) ListUnreadForUser(ctx context.Context, userID uint) ([]model.Notification, error) {
	var notifications []model.Notification
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND is_read = ?", userID, false).
		Order("created_at DESC").
		Find(&notifications).Error; err != nil {
		return nil, fmt.Errorf("failed to list unread notifications: %w", err)
	}
	return notifications, nil
}

// MarkAsRead marks a single notification as read. The owner check keeps
// users from flipping other users' notifications.
func (s *NotificationService) MarkAsRead(ctx context.Context, notificationID, userID uint) (*model.Notification, error) {
	var notification model.Notification
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", notificationID, userID).
		First(&notification).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotificationNotFound
		}
		return nil, fmt.Errorf("failed to fetch notification: %w", err)
	}

	notification.IsRead = true
	if err := s.db.WithContext(ctx).Save(&notification).Error; err != nil {
		return nil, fmt.Errorf("failed to mark notification as read: %w", err)
	}
	return &notification, nil
}

// MarkAllAsRead marks every unread notification for a user as read
func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID uint) (int64, error) {
	result := s.db.WithContext(ctx).
		Model(&model.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to mark notifications as read: %w", result.Error)
	}
	return result.RowsAffected, nil
}
