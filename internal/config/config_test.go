package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Env:               "development",
		OwnerID:           "u1",
		DBType:            "file",
		FileTokens:        "data/googlefit.json",
		FileNotifications: "data/notifications.json",
		Refresh:           RefreshConfig{Interval: 5 * time.Minute, MaxAttempts: 3, RetryDelay: 2 * time.Second},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(c *Config) {}},
		{name: "postgres without dsn", mutate: func(c *Config) { c.DBType = "postgres" }, wantErr: "POSTGRES_DSN"},
		{name: "postgres with dsn", mutate: func(c *Config) { c.DBType = "postgres"; c.DBDSN = "postgres://x" }},
		{name: "sqlite without path", mutate: func(c *Config) { c.DBType = "sqlite"; c.SQLitePath = "" }, wantErr: "SQLITE_PATH"},
		{name: "unknown backend", mutate: func(c *Config) { c.DBType = "etcd" }, wantErr: "STORAGE_BACKEND"},
		{name: "bad env", mutate: func(c *Config) { c.Env = "qa" }, wantErr: "APP_ENV"},
		{name: "production needs auth service", mutate: func(c *Config) { c.Env = "production" }, wantErr: "AUTH_SERVICE_URL"},
		{name: "missing owner", mutate: func(c *Config) { c.OwnerID = "" }, wantErr: "OWNER_ID"},
		{name: "zero attempts", mutate: func(c *Config) { c.Refresh.MaxAttempts = 0 }, wantErr: "RETRY_MAX_ATTEMPTS"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParseFromEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("STORAGE_BACKEND", "sqlite")
	t.Setenv("SQLITE_PATH", "omi.db")
	t.Setenv("REFRESH_INTERVAL", "1m")
	t.Setenv("GOOGLE_CLIENT_ID", "client-123")

	c, err := Parse()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", c.DBType)
	assert.Equal(t, time.Minute, c.Refresh.Interval)
	assert.Equal(t, 3, c.Refresh.MaxAttempts)
	assert.Equal(t, 2*time.Second, c.Refresh.RetryDelay)
	assert.Equal(t, "client-123", c.GoogleFit.ClientID)
	assert.Equal(t, "http://localhost:8088/oauth/callback", c.GoogleFit.RedirectURL)
}
