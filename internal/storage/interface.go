package storage

import (
	"context"
	"errors"

	"github.com/Sujal861/Omi-Mentor/internal"
)

var ErrNotFound = errors.New("storage: not found")

// KeyValueStore is durable string storage addressed by fixed key names.
// Get reports a missing key with ok=false and a nil error.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

type NotificationRepository interface {
	SaveNotification(ctx context.Context, n *internal.Notification) error
	ListNotifications(ctx context.Context, userID string) ([]internal.Notification, error)
	MarkNotificationRead(ctx context.Context, userID, id string) error
	MarkAllNotificationsRead(ctx context.Context, userID string) error
}
