package fitness

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/Sujal861/Omi-Mentor/internal"
	"github.com/Sujal861/Omi-Mentor/internal/observability"
)

const DefaultBaseURL = "https://www.googleapis.com/fitness/v1"

var (
	ErrNotConnected   = errors.New("fitness: not connected to provider")
	ErrNetwork        = errors.New("fitness: network error")
	ErrOffline        = errors.New("fitness: offline")
	ErrReauthRequired = errors.New("fitness: provider authorization expired")

	errUnauthorized = errors.New("fitness: provider returned 401")
)

// TokenReader is the read side of the token store.
type TokenReader interface {
	Get(ctx context.Context) internal.TokenRecord
	IsConnected(ctx context.Context) bool
}

type TokenRefresher interface {
	Refresh(ctx context.Context) error
}

// ConnectivityProbe reports whether the host currently has network access.
type ConnectivityProbe interface {
	Online(ctx context.Context) bool
}

type FetcherOptions struct {
	BaseURL    string
	HTTPClient *http.Client
	Generator  *Generator
	Probe      ConnectivityProbe
	Now        func() time.Time
}

type Fetcher struct {
	rest      *resty.Client
	baseURL   string
	tokens    TokenReader
	refresher TokenRefresher
	gen       *Generator
	probe     ConnectivityProbe
	now       func() time.Time
	logger    internal.Logger
}

func NewFetcher(opts FetcherOptions, tokens TokenReader, refresher TokenRefresher, logger internal.Logger) *Fetcher {
	f := &Fetcher{
		rest:      resty.New(),
		baseURL:   strings.TrimRight(opts.BaseURL, "/"),
		tokens:    tokens,
		refresher: refresher,
		gen:       opts.Generator,
		probe:     opts.Probe,
		now:       opts.Now,
		logger:    logger,
	}
	if opts.HTTPClient != nil {
		f.rest = resty.NewWithClient(opts.HTTPClient)
	}
	if f.baseURL == "" {
		f.baseURL = DefaultBaseURL
	}
	if f.gen == nil {
		f.gen = NewGenerator(nil)
	}
	if f.now == nil {
		f.now = time.Now
	}
	return f
}

// FetchSnapshot builds a snapshot for the 24 hours ending now. Steps and
// calories come from the provider when it has data; everything else is
// generated. A 401 triggers one token refresh and a full retry.
func (f *Fetcher) FetchSnapshot(ctx context.Context) (*internal.FitnessSnapshot, error) {
	if !f.tokens.IsConnected(ctx) {
		return nil, ErrNotConnected
	}
	if f.probe != nil && !f.probe.Online(ctx) {
		return nil, fmt.Errorf("%w: %w", ErrNetwork, ErrOffline)
	}

	snap, err := f.fetch(ctx, false)
	if !errors.Is(err, errUnauthorized) {
		return snap, err
	}

	f.logger.Infof("fitness: provider rejected access token, refreshing")
	if err := f.refresher.Refresh(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReauthRequired, err)
	}
	return f.fetch(ctx, true)
}

func (f *Fetcher) fetch(ctx context.Context, retried bool) (*internal.FitnessSnapshot, error) {
	end := f.now()
	start := end.Add(-24 * time.Hour)
	token := f.tokens.Get(ctx).AccessToken

	snap := f.gen.Snapshot(end)

	steps, ok, err := f.aggregate(ctx, token, StepsDataType, start, end, retried)
	if err != nil {
		return nil, err
	}
	if ok {
		snap.Steps = int(math.Round(steps))
		snap.Provenance.Steps = internal.SourceProvider
	} else {
		observability.RecordFallback("steps")
	}

	calories, ok, err := f.aggregate(ctx, token, CaloriesDataType, start, end, retried)
	if err != nil {
		return nil, err
	}
	if ok {
		snap.CaloriesBurned = math.Round(calories)
		snap.Provenance.Calories = internal.SourceProvider
	} else {
		observability.RecordFallback("calories")
	}
	return snap, nil
}

// aggregate returns the summed value for one data type. ok=false means the
// caller should use its fallback. Only network failures and a first 401 are
// returned as errors.
func (f *Fetcher) aggregate(ctx context.Context, token, dataType string, start, end time.Time, retried bool) (float64, bool, error) {
	resp, err := f.rest.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetBody(newAggregateRequest(dataType, start.UnixMilli(), end.UnixMilli())).
		Post(f.baseURL + "/users/me/dataset:aggregate")
	if err != nil {
		return 0, false, fmt.Errorf("%w: %v", ErrNetwork, err)
	}

	switch {
	case resp.StatusCode() == http.StatusUnauthorized && !retried:
		return 0, false, errUnauthorized
	case resp.IsError():
		f.logger.Warnf("fitness: aggregate %s returned %d, using fallback", dataType, resp.StatusCode())
		return 0, false, nil
	}

	var body aggregateResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		f.logger.Warnf("fitness: aggregate %s unreadable, using fallback: %v", dataType, err)
		return 0, false, nil
	}
	total, points := body.sum()
	if points == 0 {
		f.logger.Debugf("fitness: aggregate %s has no points, using fallback", dataType)
		return 0, false, nil
	}
	return total, true, nil
}
