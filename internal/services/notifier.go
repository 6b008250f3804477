package services

import (
	"context"
	"strconv"

	"github.com/shutterfolk/backend/internal/models"
	"github.com/shutterfolk/backend/internal/repositories"
)

// NotificationWriter persists in-app notification records. In-app writes are
// never gated by email preferences.
type NotificationWriter struct {
	repo repositories.NotificationRepository
	push *PushService
}

// NewNotificationWriter creates a new NotificationWriter. push may be nil.
func NewNotificationWriter(repo repositories.NotificationRepository, push *PushService) *NotificationWriter {
	return &NotificationWriter{repo: repo, push: push}
}

// Write persists one notification row and nudges the recipient's device.
// The push nudge is best-effort; a write error is returned to the caller,
// who logs it and carries on.
func (w *NotificationWriter) Write(ctx context.Context, notification *models.Notification) error {
	if err := w.repo.CreateNotification(ctx, notification); err != nil {
		return err
	}

	w.push.SendToUser(ctx, notification.RecipientID, notification.Message, notification.Title, map[string]string{
		"notification_id": strconv.FormatUint(uint64(notification.ID), 10),
		"type":            notification.Type,
		"entity_type":     notification.EntityType,
		"entity_id":       notification.EntityID,
	})
	return nil
}
