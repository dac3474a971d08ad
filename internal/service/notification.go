package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/Sujal861/Omi-Mentor/internal"
	"github.com/Sujal861/Omi-Mentor/internal/storage"
)

var validate = validator.New()

type NotificationRequest struct {
	Title   string                    `json:"title" validate:"required,max=120"`
	Message string                    `json:"message" validate:"required,max=2000"`
	Type    internal.NotificationType `json:"type" validate:"required,oneof=reminder alert update achievement"`
}

type NotificationFeed struct {
	Items  []internal.Notification `json:"items"`
	Unread int                     `json:"unread"`
}

func ValidateNotificationRequest(body *NotificationRequest) error {
	return validate.Struct(body)
}

func CreateNotification(ctx context.Context, repo storage.NotificationRepository, userID string, body *NotificationRequest) (*internal.Notification, error) {
	n := &internal.Notification{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     body.Title,
		Message:   body.Message,
		Type:      body.Type,
		CreatedAt: time.Now().UTC(),
	}
	if err := repo.SaveNotification(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

// ListNotifications returns the feed newest first with its unread count.
func ListNotifications(ctx context.Context, repo storage.NotificationRepository, userID string) (NotificationFeed, error) {
	items, err := repo.ListNotifications(ctx, userID)
	if err != nil {
		return NotificationFeed{}, err
	}
	return NotificationFeed{Items: items, Unread: CountUnread(items)}, nil
}

func CountUnread(items []internal.Notification) int {
	n := 0
	for _, it := range items {
		if !it.Read {
			n++
		}
	}
	return n
}
