package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"
	"github.com/Sujal861/Omi-Mentor/internal"
)

const (
	redisKVPrefix           = "omi:kv:"
	redisNotificationPrefix = "omi:notifications:"
)

type RedisStorage struct {
	client *redis.Client
	logger internal.Logger
}

func NewRedisStorage(opts *redis.Options, logger internal.Logger) (*RedisStorage, error) {
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		rdb.Close()
		logger.Errorf("failed to connect to redis at %s: %v", opts.Addr, err)
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return &RedisStorage{client: rdb, logger: logger}, nil
}

func (r *RedisStorage) Close() error {
	return r.client.Close()
}

// --- KeyValueStore ---
func (r *RedisStorage) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := r.client.Get(ctx, redisKVPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		r.logger.Errorf("failed to read key %s: %v", key, err)
		return "", false, err
	}
	return v, true, nil
}

func (r *RedisStorage) Set(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, redisKVPrefix+key, value, 0).Err(); err != nil {
		r.logger.Errorf("failed to write key %s: %v", key, err)
		return err
	}
	return nil
}

func (r *RedisStorage) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, redisKVPrefix+key).Err(); err != nil {
		r.logger.Errorf("failed to delete key %s: %v", key, err)
		return err
	}
	return nil
}

// --- NotificationRepository ---
// Each user's feed is a hash of notification id -> JSON document.
func (r *RedisStorage) SaveNotification(ctx context.Context, n *internal.Notification) error {
	data, err := json.Marshal(n)
	if err != nil {
		return err
	}
	if err := r.client.HSet(ctx, redisNotificationPrefix+n.UserID, n.ID, data).Err(); err != nil {
		r.logger.Errorf("failed to save notification: %v", err)
		return err
	}
	return nil
}

func (r *RedisStorage) ListNotifications(ctx context.Context, userID string) ([]internal.Notification, error) {
	raw, err := r.client.HGetAll(ctx, redisNotificationPrefix+userID).Result()
	if err != nil {
		r.logger.Errorf("failed to list notifications: %v", err)
		return nil, err
	}
	list := make([]internal.Notification, 0, len(raw))
	for id, doc := range raw {
		var n internal.Notification
		if err := json.Unmarshal([]byte(doc), &n); err != nil {
			r.logger.Warnf("skipping corrupt notification %s: %v", id, err)
			continue
		}
		list = append(list, n)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list, nil
}

func (r *RedisStorage) MarkNotificationRead(ctx context.Context, userID, id string) error {
	key := redisNotificationPrefix + userID
	doc, err := r.client.HGet(ctx, key, id).Result()
	if errors.Is(err, redis.Nil) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	var n internal.Notification
	if err := json.Unmarshal([]byte(doc), &n); err != nil {
		return err
	}
	if n.Read {
		return nil
	}
	n.Read = true
	return r.SaveNotification(ctx, &n)
}

func (r *RedisStorage) MarkAllNotificationsRead(ctx context.Context, userID string) error {
	list, err := r.ListNotifications(ctx, userID)
	if err != nil {
		return err
	}
	pipe := r.client.Pipeline()
	for i := range list {
		if list[i].Read {
			continue
		}
		list[i].Read = true
		data, err := json.Marshal(&list[i])
		if err != nil {
			return err
		}
		pipe.HSet(ctx, redisNotificationPrefix+userID, list[i].ID, data)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		r.logger.Errorf("failed to mark notifications read: %v", err)
		return err
	}
	return nil
}

// --- Compile-time assertions ---
var _ KeyValueStore = (*RedisStorage)(nil)
var _ NotificationRepository = (*RedisStorage)(nil)
