package api

import (
	"context"
	"net/url"

	"github.com/Sujal861/Omi-Mentor/internal"
	"github.com/Sujal861/Omi-Mentor/internal/connector"
	"github.com/Sujal861/Omi-Mentor/internal/health"
	"github.com/Sujal861/Omi-Mentor/internal/storage"
)

// Connection is the OAuth connector as seen by the handlers.
type Connection interface {
	InitiateConnect(ctx context.Context) (connector.ConnectResult, error)
	HandleRedirect(ctx context.Context, u *url.URL) (bool, *url.URL, error)
	Verify(ctx context.Context) bool
	Disconnect(ctx context.Context) error
	State() connector.State
	IsConnected(ctx context.Context) bool
}

// Snapshots is the refresher as seen by the handlers.
type Snapshots interface {
	Current() *internal.FitnessSnapshot
	Manual(ctx context.Context) (*internal.FitnessSnapshot, error)
}

type App interface {
	Logger() internal.Logger
	Connection() Connection
	Snapshots() Snapshots
	Dispatcher() health.Dispatcher
	NotificationRepo() storage.NotificationRepository
}
