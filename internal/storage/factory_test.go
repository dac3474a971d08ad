package storage

import (
	"net"
	"path/filepath"
	"testing"

	"github.com/Sujal861/Omi-Mentor/internal"
	"github.com/Sujal861/Omi-Mentor/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRepositories(t *testing.T) {
	dir := t.TempDir()
	logger := internal.NewNopLogger()

	t.Run("file", func(t *testing.T) {
		b, err := NewRepositories(&config.Config{
			DBType:            "file",
			FileTokens:        filepath.Join(dir, "tokens.json"),
			FileNotifications: filepath.Join(dir, "notifications.json"),
		}, logger)
		require.NoError(t, err)
		assert.IsType(t, &FileStorage{}, b)
		assert.NoError(t, b.Close())
	})

	t.Run("sqlite", func(t *testing.T) {
		b, err := NewRepositories(&config.Config{DBType: "sqlite", SQLitePath: filepath.Join(dir, "omi.db")}, logger)
		require.NoError(t, err)
		assert.IsType(t, &SQLiteStorage{}, b)
		assert.NoError(t, b.Close())
	})

	t.Run("redis unreachable", func(t *testing.T) {
		ln, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)
		addr := ln.Addr().String()
		require.NoError(t, ln.Close())

		b, err := NewRepositories(&config.Config{DBType: "redis", RedisAddr: addr}, logger)
		assert.Error(t, err)
		assert.Nil(t, b)
	})

	t.Run("unknown", func(t *testing.T) {
		b, err := NewRepositories(&config.Config{DBType: "etcd"}, logger)
		assert.ErrorContains(t, err, `unknown storage backend "etcd"`)
		assert.Nil(t, b)
	})
}
