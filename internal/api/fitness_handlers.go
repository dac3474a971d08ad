package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/Sujal861/Omi-Mentor/internal/fitness"
	"github.com/Sujal861/Omi-Mentor/internal/health"
)

func GetFitness(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		snap := app.Snapshots().Current()
		if snap == nil {
			HandleError(c, app.Logger(), errors.New("no snapshot yet"), http.StatusNotFound, "No fitness data")
			return
		}
		HandleSuccess(c, app.Logger(), snap, nil)
	}
}

func PostFitnessRefresh(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		snap, err := app.Snapshots().Manual(c.Request.Context())
		switch {
		case errors.Is(err, fitness.ErrNotConnected):
			HandleError(c, app.Logger(), err, http.StatusConflict, "Not connected to Google Fit")
			return
		case errors.Is(err, fitness.ErrReauthRequired):
			HandleError(c, app.Logger(), err, http.StatusConflict, "Google Fit authorization expired, reconnect required")
			return
		case errors.Is(err, fitness.ErrNetwork):
			HandleError(c, app.Logger(), err, http.StatusBadGateway, "Could not reach Google Fit")
			return
		case err != nil:
			HandleError(c, app.Logger(), err, http.StatusInternalServerError, "Could not update fitness data")
			return
		}
		HandleSuccess(c, app.Logger(), snap, nil)
	}
}

func GetAssessment(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		snap := app.Snapshots().Current()
		meta := map[string]any{"has_snapshot": snap != nil}
		if snap != nil {
			meta["last_updated"] = snap.LastUpdated
		}
		HandleSuccess(c, app.Logger(), health.Evaluate(snap), meta)
	}
}
