package core

import (
	"context"

	"github.com/Sujal861/Omi-Mentor/internal"
	"github.com/Sujal861/Omi-Mentor/internal/api"
	"github.com/Sujal861/Omi-Mentor/internal/config"
	"github.com/Sujal861/Omi-Mentor/internal/connector"
	"github.com/Sujal861/Omi-Mentor/internal/fitness"
	"github.com/Sujal861/Omi-Mentor/internal/health"
	"github.com/Sujal861/Omi-Mentor/internal/scheduler"
	"github.com/Sujal861/Omi-Mentor/internal/service"
	"github.com/Sujal861/Omi-Mentor/internal/storage"
	"github.com/Sujal861/Omi-Mentor/internal/tokenstore"
)

const refreshTask = "fitness-refresh"

// Core owns the process-wide components: one token store, one connector and
// one refresher per deployment.
type Core struct {
	cfg        *config.Config
	logger     *internal.ZapLogger
	backend    storage.Backend
	toaster    internal.Toaster
	dispatcher health.Dispatcher

	Tokens    *tokenstore.Store
	Conn      *connector.Connector
	Fetcher   *fitness.Fetcher
	Refresher *fitness.Refresher
	Scheduler *scheduler.Scheduler
}

func New(cfg *config.Config, logger *internal.ZapLogger) (*Core, error) {
	backend, err := storage.NewRepositories(cfg, logger.Named("storage"))
	if err != nil {
		return nil, err
	}

	toaster := service.NewFeedToaster(backend, cfg.OwnerID, logger.Named("toast"))
	tokens := tokenstore.New(backend, logger.Named("tokens"))

	conn := connector.New(connector.Options{
		ClientID:     cfg.GoogleFit.ClientID,
		ClientSecret: cfg.GoogleFit.ClientSecret,
		RedirectURL:  cfg.GoogleFit.RedirectURL,
		AuthURL:      cfg.GoogleFit.AuthURL,
		TokenURL:     cfg.GoogleFit.TokenURL,
		TokenInfoURL: cfg.GoogleFit.TokenInfoURL,
	}, tokens, toaster, logger.Named("connector"))

	fetchOpts := fitness.FetcherOptions{BaseURL: cfg.GoogleFit.FitnessURL}
	if cfg.Refresh.ReachabilityTimeout > 0 {
		check, err := fitness.NewDialCheck(cfg.GoogleFit.FitnessURL, cfg.Refresh.ReachabilityTimeout)
		if err != nil {
			backend.Close()
			return nil, err
		}
		fetchOpts.Probe = check
	}
	fetcher := fitness.NewFetcher(fetchOpts, tokens, conn, logger.Named("fitness"))
	refresher := fitness.NewRefresher(fetcher, fitness.RetryPolicy{
		MaxAttempts: cfg.Refresh.MaxAttempts,
		Delay:       cfg.Refresh.RetryDelay,
	}, toaster, logger.Named("refresher"))

	dispatcher := newDispatcher(cfg, toaster, logger.Named("alerts"))
	if cfg.Email.AlertEmail != "" {
		refresher.OnSnapshot(service.AutoAlertHook(dispatcher, cfg.Email.AlertEmail, logger.Named("alerts")))
	}

	return &Core{
		cfg:        cfg,
		logger:     logger,
		backend:    backend,
		toaster:    toaster,
		dispatcher: dispatcher,
		Tokens:     tokens,
		Conn:       conn,
		Fetcher:    fetcher,
		Refresher:  refresher,
		Scheduler:  scheduler.New(logger.Named("scheduler")),
	}, nil
}

func newDispatcher(cfg *config.Config, toaster internal.Toaster, logger *internal.ZapLogger) health.Dispatcher {
	var d health.Dispatcher
	if cfg.Email.MailgunConfigured() {
		d = health.NewMailgunDispatcher(health.MailgunOptions{
			Domain:    cfg.Email.MailgunDomain,
			APIKey:    cfg.Email.MailgunAPIKey,
			FromEmail: cfg.Email.FromEmail,
			FromName:  cfg.Email.FromName,
		}, toaster, logger)
		logger.Infof("health alerts delivered through Mailgun (%s)", cfg.Email.MailgunDomain)
	} else {
		d = health.NewStubDispatcher(toaster, logger)
		logger.Infof("Mailgun not configured, health alerts are logged only")
	}
	return health.NewRateLimitedDispatcher(d, cfg.Email.AlertsPerHour, cfg.Email.AlertWindow, cfg.Email.AlertBurst, logger)
}

// StartBackground schedules the periodic refresh and runs it once immediately.
func (c *Core) StartBackground() error {
	err := c.Scheduler.AddIntervalTask(refreshTask, c.cfg.Refresh.Interval, func(ctx context.Context) error {
		c.Refresher.Background(ctx)
		return nil
	})
	if err != nil {
		return err
	}
	c.Scheduler.Start()
	c.Scheduler.RunNow(refreshTask)
	return nil
}

func (c *Core) Close(ctx context.Context) error {
	c.Refresher.Stop()
	c.Scheduler.Stop(ctx)
	err := c.backend.Close()
	_ = c.logger.Sync()
	return err
}

// Owner is the single user this deployment serves.
func (c *Core) Owner() *internal.User {
	return &internal.User{ID: c.cfg.OwnerID, Name: c.cfg.OwnerName, Email: c.cfg.OwnerEmail}
}

// --- api.App ---
func (c *Core) Logger() internal.Logger                          { return c.logger }
func (c *Core) Connection() api.Connection                       { return c.Conn }
func (c *Core) Snapshots() api.Snapshots                         { return c.Refresher }
func (c *Core) Dispatcher() health.Dispatcher                    { return c.dispatcher }
func (c *Core) NotificationRepo() storage.NotificationRepository { return c.backend }

var _ api.App = (*Core)(nil)
