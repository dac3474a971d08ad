package storage

import (
	"fmt"
	"io"

	"github.com/redis/go-redis/v9"
	"github.com/Sujal861/Omi-Mentor/internal"
	"github.com/Sujal861/Omi-Mentor/internal/config"
)

// Backend is what every storage implementation provides.
type Backend interface {
	KeyValueStore
	NotificationRepository
	io.Closer
}

func NewFileRepositories(tokensFile, notificationsFile string, logger internal.Logger) (Backend, error) {
	storage, err := NewFileStorage(tokensFile, notificationsFile, logger)
	if err != nil {
		return nil, err
	}
	return storage, nil
}

func NewPostgresRepositories(dsn string, logger internal.Logger) (Backend, error) {
	storage, err := NewPostgresStorage(dsn, logger)
	if err != nil {
		return nil, err
	}
	return storage, nil
}

// NewRepositories opens the backend selected by STORAGE_BACKEND.
func NewRepositories(cfg *config.Config, logger internal.Logger) (Backend, error) {
	var (
		b   Backend
		err error
	)
	switch cfg.DBType {
	case "file":
		b, err = NewFileRepositories(cfg.FileTokens, cfg.FileNotifications, logger)
	case "sqlite":
		b, err = NewSQLiteStorage(cfg.SQLitePath, logger)
	case "redis":
		b, err = NewRedisStorage(&redis.Options{
			Addr:     cfg.RedisAddr,
			Username: cfg.RedisUser,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}, logger)
	case "postgres":
		b, err = NewPostgresRepositories(cfg.DBDSN, logger)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.DBType)
	}
	if err != nil {
		return nil, err
	}
	logger.Infof("storage backend: %s", cfg.DBType)
	return b, nil
}
