package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/Sujal861/Omi-Mentor/internal/service"
	"github.com/Sujal861/Omi-Mentor/internal/storage"
)

func GetNotifications(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		feed, err := service.ListNotifications(c.Request.Context(), app.NotificationRepo(), user.ID)
		if err != nil {
			HandleError(c, app.Logger(), err, http.StatusInternalServerError, "Failed to fetch notifications")
			return
		}
		HandleSuccess(c, app.Logger(), feed.Items, map[string]any{"unread": feed.Unread})
	}
}

func PostNotification(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)

		var body service.NotificationRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			HandleError(c, app.Logger(), err, http.StatusBadRequest, "Invalid JSON")
			return
		}
		if err := service.ValidateNotificationRequest(&body); err != nil {
			HandleError(c, app.Logger(), err, http.StatusBadRequest, "Validation failed")
			return
		}

		n, err := service.CreateNotification(c.Request.Context(), app.NotificationRepo(), user.ID, &body)
		if err != nil {
			HandleError(c, app.Logger(), err, http.StatusInternalServerError, "Failed to save notification")
			return
		}
		HandleSuccess(c, app.Logger(), n, nil)
	}
}

func PostNotificationRead(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		id := c.Param("id")
		err := app.NotificationRepo().MarkNotificationRead(c.Request.Context(), user.ID, id)
		if errors.Is(err, storage.ErrNotFound) {
			HandleError(c, app.Logger(), err, http.StatusNotFound, "Notification not found")
			return
		}
		if err != nil {
			HandleError(c, app.Logger(), err, http.StatusInternalServerError, "Failed to update notification")
			return
		}
		HandleSuccess(c, app.Logger(), gin.H{"id": id, "read": true}, nil)
	}
}

func PostNotificationsReadAll(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if err := app.NotificationRepo().MarkAllNotificationsRead(c.Request.Context(), user.ID); err != nil {
			HandleError(c, app.Logger(), err, http.StatusInternalServerError, "Failed to update notifications")
			return
		}
		HandleSuccess(c, app.Logger(), nil, map[string]any{"unread": 0})
	}
}
