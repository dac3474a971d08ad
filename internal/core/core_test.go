package core

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/Sujal861/Omi-Mentor/internal"
	"github.com/Sujal861/Omi-Mentor/internal/config"
	"github.com/Sujal861/Omi-Mentor/internal/connector"
	"github.com/Sujal861/Omi-Mentor/internal/fitness"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	dir := t.TempDir()
	return &config.Config{
		Env:               "development",
		OwnerID:           "u1",
		DBType:            "file",
		FileTokens:        filepath.Join(dir, "googlefit.json"),
		FileNotifications: filepath.Join(dir, "notifications.json"),
		GoogleFit:         config.GoogleFitConfig{ClientID: "client", RedirectURL: "http://localhost:8088/oauth/callback"},
		Refresh:           config.RefreshConfig{Interval: time.Hour, MaxAttempts: 3, RetryDelay: time.Millisecond},
		Email:             config.EmailConfig{AlertsPerHour: 4, AlertBurst: 1, AlertWindow: time.Hour},
	}
}

func TestCore_ManualRefreshWhileDisconnected(t *testing.T) {
	ctx := context.Background()
	c, err := New(testConfig(t), internal.NewNopLogger())
	require.NoError(t, err)
	defer c.Close(ctx)

	assert.Equal(t, connector.Disconnected, c.Connection().State())

	_, err = c.Snapshots().Manual(ctx)
	assert.ErrorIs(t, err, fitness.ErrNotConnected)

	items, err := c.NotificationRepo().ListNotifications(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Not connected to Google Fit", items[0].Title)
	assert.Equal(t, internal.NotificationAlert, items[0].Type)
}

func TestCore_DispatcherIsRateLimited(t *testing.T) {
	ctx := context.Background()
	c, err := New(testConfig(t), internal.NewNopLogger())
	require.NoError(t, err)
	defer c.Close(ctx)

	assert.True(t, c.Dispatcher().Send(ctx, "me@example.com", "Your heart rate is high"))
	assert.False(t, c.Dispatcher().Send(ctx, "me@example.com", "Your heart rate is high"))
}

func TestCore_StartBackground(t *testing.T) {
	ctx := context.Background()
	c, err := New(testConfig(t), internal.NewNopLogger())
	require.NoError(t, err)

	require.NoError(t, c.StartBackground())
	require.Len(t, c.Scheduler.Tasks(), 1)
	assert.NoError(t, c.Close(ctx))
}

func TestCore_ConnectedStateSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)

	c, err := New(cfg, internal.NewNopLogger())
	require.NoError(t, err)
	require.NoError(t, c.Tokens.SetConnected(ctx, "A", "R"))
	require.NoError(t, c.Close(ctx))

	c, err = New(cfg, internal.NewNopLogger())
	require.NoError(t, err)
	defer c.Close(ctx)
	assert.Equal(t, connector.Connected, c.Conn.State())
	assert.True(t, c.Connection().IsConnected(ctx))
}

func TestCore_Owner(t *testing.T) {
	cfg := testConfig(t)
	cfg.OwnerName = "Demo User"
	cfg.OwnerEmail = "demo@example.com"
	c, err := New(cfg, internal.NewNopLogger())
	require.NoError(t, err)
	defer c.Close(context.Background())

	owner := c.Owner()
	assert.Equal(t, "u1", owner.ID)
	assert.Equal(t, "demo@example.com", owner.Email)
}

func TestCore_FetchReportsOfflineWhenProviderUnreachable(t *testing.T) {
	ctx := context.Background()
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	cfg := testConfig(t)
	cfg.GoogleFit.FitnessURL = base
	cfg.Refresh.ReachabilityTimeout = time.Second
	c, err := New(cfg, internal.NewNopLogger())
	require.NoError(t, err)
	defer c.Close(ctx)
	require.NoError(t, c.Tokens.SetConnected(ctx, "A", "R"))

	_, err = c.Fetcher.FetchSnapshot(ctx)
	assert.ErrorIs(t, err, fitness.ErrOffline)
}
