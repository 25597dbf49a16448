package usecase

import (
	"context"
	"fmt"

	"github.com/vasapolrittideah/stories-api/internal/model"
	"github.com/vasapolrittideah/stories-api/internal/repository"
)

// NotificationUsecase reads and acknowledges the caller's notifications.
type NotificationUsecase interface {
	ListNotifications(ctx context.Context, actor Actor) ([]*model.Notification, error)
	MarkAllAsRead(ctx context.Context, actor Actor) (int64, error)
}

type notificationUsecase struct {
	notificationRepo repository.NotificationRepository
}

func NewNotificationUsecase(notificationRepo repository.NotificationRepository) NotificationUsecase {
	return &notificationUsecase{notificationRepo: notificationRepo}
}

func (u *notificationUsecase) ListNotifications(ctx context.Context, actor Actor) ([]*model.Notification, error) {
	notifications, err := u.notificationRepo.ListNotifications(ctx, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}

func (u *notificationUsecase) MarkAllAsRead(ctx context.Context, actor Actor) (int64, error) {
	n, err := u.notificationRepo.MarkAllAsRead(ctx, actor.UserID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications as read: %w", err)
	}
	return n, nil
}
