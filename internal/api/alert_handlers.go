package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/Sujal861/Omi-Mentor/internal/service"
)

func PostAlert(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)

		var req service.AlertRequest
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			HandleError(c, app.Logger(), err, http.StatusBadRequest, "Invalid JSON")
			return
		}
		if err := service.ValidateAlertRequest(&req); err != nil {
			HandleError(c, app.Logger(), err, http.StatusBadRequest, "Validation failed")
			return
		}

		res, err := service.SendAlert(c.Request.Context(), app.Dispatcher(), user, &req, app.Snapshots().Current())
		if errors.Is(err, service.ErrNothingToSend) {
			HandleError(c, app.Logger(), err, http.StatusUnprocessableEntity, "Nothing to send")
			return
		}
		if err != nil {
			HandleError(c, app.Logger(), err, http.StatusInternalServerError, "Failed to send alert")
			return
		}
		HandleSuccess(c, app.Logger(), res, nil)
	}
}
