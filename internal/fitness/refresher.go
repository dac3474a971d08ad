package fitness

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Sujal861/Omi-Mentor/internal"
	"github.com/Sujal861/Omi-Mentor/internal/observability"
)

type SnapshotFetcher interface {
	FetchSnapshot(ctx context.Context) (*internal.FitnessSnapshot, error)
}

// SnapshotHook runs after every accepted snapshot.
type SnapshotHook func(ctx context.Context, snap *internal.FitnessSnapshot)

// Refresher owns the current snapshot and the retry bookkeeping for
// background and user-initiated refreshes.
type Refresher struct {
	fetcher SnapshotFetcher
	policy  RetryPolicy
	toaster internal.Toaster
	logger  internal.Logger
	hooks   []SnapshotHook

	mu      sync.RWMutex
	current *internal.FitnessSnapshot

	stopCh   chan struct{}
	stopOnce sync.Once
}

func NewRefresher(fetcher SnapshotFetcher, policy RetryPolicy, toaster internal.Toaster, logger internal.Logger) *Refresher {
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 1
	}
	if toaster == nil {
		toaster = internal.NopToaster{}
	}
	return &Refresher{
		fetcher: fetcher,
		policy:  policy,
		toaster: toaster,
		logger:  logger,
		stopCh:  make(chan struct{}),
	}
}

// OnSnapshot registers a hook. Call before the first refresh.
func (r *Refresher) OnSnapshot(h SnapshotHook) {
	r.hooks = append(r.hooks, h)
}

func (r *Refresher) Current() *internal.FitnessSnapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

// Background is the periodic refresh. Network failures are retried after
// policy.Delay up to policy.MaxAttempts in total; every failure is silent.
func (r *Refresher) Background(ctx context.Context) {
	for attempt := 1; ; attempt++ {
		if r.stopped() {
			return
		}
		snap, err := r.fetcher.FetchSnapshot(ctx)
		observability.RecordFetch("background", err)
		if err == nil {
			r.accept(ctx, snap)
			return
		}
		if errors.Is(err, ErrNotConnected) {
			r.logger.Debugf("fitness: background refresh skipped, not connected")
			return
		}
		if !r.policy.ShouldRetry(attempt, err) {
			r.logger.Warnf("fitness: background refresh gave up after %d attempt(s): %v", attempt, err)
			return
		}
		r.logger.Infof("fitness: background refresh attempt %d failed, retrying in %s: %v", attempt, r.policy.Delay, err)
		if !r.wait(ctx, r.policy.Delay) {
			return
		}
	}
}

// Manual is a user-initiated refresh. It raises exactly one toast.
func (r *Refresher) Manual(ctx context.Context) (*internal.FitnessSnapshot, error) {
	snap, err := r.fetcher.FetchSnapshot(ctx)
	observability.RecordFetch("manual", err)
	switch {
	case errors.Is(err, ErrNotConnected):
		r.toaster.Error("Not connected to Google Fit", "Connect Google Fit to refresh your fitness data")
		return nil, err
	case err != nil:
		r.logger.Errorf("fitness: manual refresh failed: %v", err)
		r.toaster.Error("Could not update fitness data", "Please try again in a moment")
		return nil, err
	}
	r.accept(ctx, snap)
	r.toaster.Success("Fitness data updated", "")
	return snap, nil
}

// Stop ends background retries. Snapshots that arrive afterwards are dropped.
func (r *Refresher) Stop() {
	r.stopOnce.Do(func() { close(r.stopCh) })
}

func (r *Refresher) stopped() bool {
	select {
	case <-r.stopCh:
		return true
	default:
		return false
	}
}

func (r *Refresher) wait(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	case <-r.stopCh:
		return false
	}
}

func (r *Refresher) accept(ctx context.Context, snap *internal.FitnessSnapshot) {
	if r.stopped() {
		r.logger.Debugf("fitness: dropping snapshot after stop")
		return
	}
	r.mu.Lock()
	r.current = snap
	r.mu.Unlock()
	observability.RecordSnapshot(snap.LastUpdated)
	for _, h := range r.hooks {
		h(ctx, snap)
	}
}
