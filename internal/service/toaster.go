package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/Sujal861/Omi-Mentor/internal"
	"github.com/Sujal861/Omi-Mentor/internal/storage"
)

// FeedToaster records toasts in the owner's notification feed. Errors become
// alerts; success and info become updates.
type FeedToaster struct {
	repo   storage.NotificationRepository
	userID string
	logger internal.Logger
	now    func() time.Time
}

func NewFeedToaster(repo storage.NotificationRepository, userID string, logger internal.Logger) *FeedToaster {
	return &FeedToaster{repo: repo, userID: userID, logger: logger, now: time.Now}
}

func (t *FeedToaster) Success(title, description string) {
	t.logger.Infof("toast: %s %s", title, description)
	t.record(internal.NotificationUpdate, title, description)
}

func (t *FeedToaster) Info(title, description string) {
	t.logger.Infof("toast: %s %s", title, description)
	t.record(internal.NotificationUpdate, title, description)
}

func (t *FeedToaster) Error(title, description string) {
	t.logger.Warnf("toast: %s %s", title, description)
	t.record(internal.NotificationAlert, title, description)
}

func (t *FeedToaster) record(typ internal.NotificationType, title, description string) {
	msg := description
	if msg == "" {
		msg = title
	}
	n := &internal.Notification{
		ID:        uuid.NewString(),
		UserID:    t.userID,
		Title:     title,
		Message:   msg,
		Type:      typ,
		CreatedAt: t.now().UTC(),
	}
	// Toasts fire from code paths without a request context.
	if err := t.repo.SaveNotification(context.Background(), n); err != nil {
		t.logger.Errorf("toast: failed to record notification: %v", err)
	}
}

var _ internal.Toaster = (*FeedToaster)(nil)
