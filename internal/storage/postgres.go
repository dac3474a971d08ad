package storage

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/Sujal861/Omi-Mentor/internal"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS kv_store (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS notifications (
	id         TEXT PRIMARY KEY,
	user_id    TEXT NOT NULL,
	title      TEXT NOT NULL,
	message    TEXT NOT NULL,
	read       BOOLEAN NOT NULL DEFAULT FALSE,
	type       TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS notifications_user_created_idx ON notifications (user_id, created_at DESC);
`

type PostgresStorage struct {
	pool   *pgxpool.Pool
	logger internal.Logger
}

func NewPostgresStorage(dsn string, logger internal.Logger) (*PostgresStorage, error) {
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		logger.Errorf("failed to connect to postgres: %v", err)
		return nil, err
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		logger.Errorf("failed to apply postgres schema: %v", err)
		pool.Close()
		return nil, err
	}
	return &PostgresStorage{pool: pool, logger: logger}, nil
}

func (p *PostgresStorage) Close() error {
	p.pool.Close()
	return nil
}

// --- KeyValueStore ---
func (p *PostgresStorage) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := p.pool.QueryRow(ctx, `SELECT value FROM kv_store WHERE key = $1`, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		p.logger.Errorf("failed to read key %s: %v", key, err)
		return "", false, err
	}
	return value, true, nil
}

func (p *PostgresStorage) Set(ctx context.Context, key, value string) error {
	_, err := p.pool.Exec(ctx, `INSERT INTO kv_store (key, value) VALUES ($1, $2) ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`, key, value)
	if err != nil {
		p.logger.Errorf("failed to write key %s: %v", key, err)
		return err
	}
	return nil
}

func (p *PostgresStorage) Delete(ctx context.Context, key string) error {
	_, err := p.pool.Exec(ctx, `DELETE FROM kv_store WHERE key = $1`, key)
	if err != nil {
		p.logger.Errorf("failed to delete key %s: %v", key, err)
		return err
	}
	return nil
}

// --- NotificationRepository ---
func (p *PostgresStorage) SaveNotification(ctx context.Context, n *internal.Notification) error {
	_, err := p.pool.Exec(ctx, `INSERT INTO notifications (id, user_id, title, message, read, type, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		n.ID, n.UserID, n.Title, n.Message, n.Read, string(n.Type), n.CreatedAt)
	if err != nil {
		p.logger.Errorf("failed to insert notification: %v", err)
		return err
	}
	return nil
}

func (p *PostgresStorage) ListNotifications(ctx context.Context, userID string) ([]internal.Notification, error) {
	rows, err := p.pool.Query(ctx, `SELECT id, user_id, title, message, read, type, created_at FROM notifications WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		p.logger.Errorf("failed to query notifications: %v", err)
		return nil, err
	}
	defer rows.Close()

	list := []internal.Notification{}
	for rows.Next() {
		var n internal.Notification
		var typ string
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.Read, &typ, &n.CreatedAt); err != nil {
			p.logger.Errorf("failed to scan notification: %v", err)
			return nil, err
		}
		n.Type = internal.NotificationType(typ)
		list = append(list, n)
	}
	return list, rows.Err()
}

func (p *PostgresStorage) MarkNotificationRead(ctx context.Context, userID, id string) error {
	tag, err := p.pool.Exec(ctx, `UPDATE notifications SET read = TRUE WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		p.logger.Errorf("failed to mark notification read: %v", err)
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *PostgresStorage) MarkAllNotificationsRead(ctx context.Context, userID string) error {
	_, err := p.pool.Exec(ctx, `UPDATE notifications SET read = TRUE WHERE user_id = $1 AND read = FALSE`, userID)
	if err != nil {
		p.logger.Errorf("failed to mark notifications read: %v", err)
		return err
	}
	return nil
}

// --- Compile-time assertions ---
var _ KeyValueStore = (*PostgresStorage)(nil)
var _ NotificationRepository = (*PostgresStorage)(nil)
