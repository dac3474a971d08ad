package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter wires every route. authMW guards /oauth/connect and the /api group.
// The callback stays public; the connector checks its state parameter.
func NewRouter(app App, authMW gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestIDMiddleware(), AccessLogMiddleware(app.Logger()))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/oauth/connect", authMW, GetConnect(app))
	r.GET("/oauth/callback", GetCallback(app))

	g := r.Group("/api", authMW)
	g.GET("/googlefit/status", GetGoogleFitStatus(app))
	g.POST("/googlefit/disconnect", PostDisconnect(app))
	g.GET("/fitness", GetFitness(app))
	g.POST("/fitness/refresh", PostFitnessRefresh(app))
	g.GET("/health/assessment", GetAssessment(app))
	g.POST("/health/alerts", PostAlert(app))
	g.GET("/notifications", GetNotifications(app))
	g.POST("/notifications", PostNotification(app))
	g.POST("/notifications/read-all", PostNotificationsReadAll(app))
	g.POST("/notifications/:id/read", PostNotificationRead(app))

	return r
}
