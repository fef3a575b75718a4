package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"driveshare-backend/internal/domain"
	"driveshare-backend/internal/logger"
	"driveshare-backend/internal/repository"
)

// NotificationCenter is both the read API for a user's notification feed and
// the fan-out sink the booking services write into. One transition produces
// one in-app notification per recipient plus a best-effort push.
type NotificationCenter struct {
	noteRepo repository.NotificationRepository
	userRepo repository.UserRepository
	push     RealtimePublisher
	log      *slog.Logger
}

func NewNotificationCenter(
	noteRepo repository.NotificationRepository,
	userRepo repository.UserRepository,
	push RealtimePublisher,
) *NotificationCenter {
	return &NotificationCenter{
		noteRepo: noteRepo,
		userRepo: userRepo,
		push:     push,
		log:      logger.WithService("notification-center"),
	}
}

// Notify persists the notification and pushes it to the user's device. It
// never returns an error: delivery problems are logged and the caller's
// transition stands.
func (c *NotificationCenter) Notify(ctx context.Context, userID int32, kind domain.EventKind, message string, payload map[string]string) {
	note := &domain.Notification{
		UserID:    userID,
		Kind:      kind,
		Message:   message,
		Payload:   payload,
		CreatedAt: time.Now().UTC(),
	}
	if err := c.noteRepo.Create(ctx, note); err != nil {
		c.log.Error("failed to persist notification", "user_id", userID, "kind", kind, "error", err)
		return
	}

	user, err := c.userRepo.GetByID(ctx, userID)
	if err != nil {
		c.log.Warn("failed to load user for push delivery", "user_id", userID, "error", err)
		return
	}
	if err := c.push.Publish(ctx, user.DeviceToken, string(kind), message, payload); err != nil {
		c.log.Warn("failed to push notification", "user_id", userID, "kind", kind, "error", err)
	}
}

func (c *NotificationCenter) GetNotifications(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Notification, int32, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize
	return c.noteRepo.List(ctx, userID, pageSize, offset)
}

func (c *NotificationCenter) MarkAsRead(ctx context.Context, userID, notificationID int32) error {
	err := c.noteRepo.MarkAsRead(ctx, notificationID, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
