package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/Sujal861/Omi-Mentor/internal"
	"github.com/Sujal861/Omi-Mentor/internal/api"
	"github.com/Sujal861/Omi-Mentor/internal/auth"
	"github.com/Sujal861/Omi-Mentor/internal/config"
	"github.com/Sujal861/Omi-Mentor/internal/core"
)

func main() {
	cfg := config.Load()

	logger, err := internal.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	app, err := core.New(cfg, logger)
	if err != nil {
		logger.Fatalf("failed to init core: %v", err)
	}

	router := api.NewRouter(app, auth.AuthMiddleware(auth.NewProvider(cfg, logger.Named("auth")), cfg))
	server := &http.Server{
		Addr:              cfg.HTTPAddress,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.StartBackground(); err != nil {
		logger.Fatalf("failed to schedule refresh: %v", err)
	}

	go func() {
		logger.Infof("Server running on %s", cfg.HTTPAddress)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Infof("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("http shutdown: %v", err)
	}
	if err := app.Close(shutdownCtx); err != nil {
		logger.Errorf("close: %v", err)
	}
}
