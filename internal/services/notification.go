package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/sbilibin2017/gw-savings-circle/internal/logger"
	"github.com/sbilibin2017/gw-savings-circle/internal/models"
)

// Notification inbox paging limits
const (
	DefaultNotificationsPerPage = 20
	MaxNotificationsPerPage     = 100
)

// NotificationPage is one page of a user's inbox.
type NotificationPage struct {
	Items   []models.Notification `json:"items"`
	Total   int                   `json:"total"`
	Page    int                   `json:"page"`
	PerPage int                   `json:"per_page"`
}

// NotificationService reads and updates in-app notifications.
type NotificationService struct {
	store NotificationStore
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(store NotificationStore) *NotificationService {
	return &NotificationService{store: store}
}

// List returns a page of the user's notifications, newest first.
func (s *NotificationService) List(ctx context.Context, userID uuid.UUID, page, perPage int, unreadOnly bool) (*NotificationPage, error) {
	if page < 1 {
		page = 1
	}
	if perPage <= 0 {
		perPage = DefaultNotificationsPerPage
	}
	if perPage > MaxNotificationsPerPage {
		perPage = MaxNotificationsPerPage
	}

	items, total, err := s.store.ListByUser(ctx, userID, perPage, (page-1)*perPage, unreadOnly)
	if err != nil {
		logger.Log.Errorw("failed to list notifications", "userID", userID, "error", err)
		return nil, err
	}
	return &NotificationPage{Items: items, Total: total, Page: page, PerPage: perPage}, nil
}

// MarkRead marks one of the user's notifications as read.
func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	n, err := s.store.GetByID(ctx, notificationID)
	if err != nil {
		logger.Log.Errorw("failed to get notification", "notificationID", notificationID, "error", err)
		return err
	}
	if n == nil {
		return ErrNotificationNotFound
	}
	if n.UserID != userID {
		return ErrNotRecipient
	}
	if n.IsRead {
		return nil
	}
	if err := s.store.MarkRead(ctx, notificationID); err != nil {
		logger.Log.Errorw("failed to mark notification read", "notificationID", notificationID, "error", err)
		return err
	}
	return nil
}
