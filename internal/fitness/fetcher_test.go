package fitness

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Sujal861/Omi-Mentor/internal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTokens struct {
	mu        sync.Mutex
	connected bool
	access    string
}

func (s *stubTokens) Get(context.Context) internal.TokenRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return internal.TokenRecord{AccessToken: s.access, RefreshToken: "R", Connected: s.connected}
}

func (s *stubTokens) IsConnected(context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connected
}

type stubRefresher struct {
	tokens *stubTokens
	next   string
	err    error
	calls  atomic.Int32
}

func (r *stubRefresher) Refresh(context.Context) error {
	r.calls.Add(1)
	if r.err != nil {
		return r.err
	}
	r.tokens.mu.Lock()
	r.tokens.access = r.next
	r.tokens.mu.Unlock()
	return nil
}

type offlineProbe struct{}

func (offlineProbe) Online(context.Context) bool { return false }

// fakeFit serves the aggregate endpoint. handler decides the response per
// request given the bearer token and data type.
type fakeFit struct {
	server   *httptest.Server
	calls    atomic.Int32
	mu       sync.Mutex
	requests []aggregateRequest
}

func newFakeFit(t *testing.T, handler func(w http.ResponseWriter, token, dataType string)) *fakeFit {
	f := &fakeFit{}
	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.calls.Add(1)
		if r.Method != http.MethodPost || r.URL.Path != "/users/me/dataset:aggregate" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		body, _ := io.ReadAll(r.Body)
		var req aggregateRequest
		_ = json.Unmarshal(body, &req)
		f.mu.Lock()
		f.requests = append(f.requests, req)
		f.mu.Unlock()
		dataType := ""
		if len(req.AggregateBy) > 0 {
			dataType = req.AggregateBy[0].DataTypeName
		}
		token := r.Header.Get("Authorization")
		handler(w, token, dataType)
	}))
	t.Cleanup(f.server.Close)
	return f
}

var fixedNow = time.Date(2025, 6, 2, 7, 30, 0, 0, time.UTC)

func newTestFetcher(baseURL string, tokens *stubTokens, refresher TokenRefresher) *Fetcher {
	return NewFetcher(FetcherOptions{
		BaseURL:   baseURL,
		Generator: NewGenerator(rand.NewPCG(3, 4)),
		Now:       func() time.Time { return fixedNow },
	}, tokens, refresher, internal.NewNopLogger())
}

func writeValues(w http.ResponseWriter, dataType string) {
	w.Header().Set("Content-Type", "application/json")
	switch dataType {
	case StepsDataType:
		w.Write([]byte(`{"bucket":[{"dataset":[{"point":[{"value":[{"intVal":4000}]},{"value":[{"intVal":321}]}]}]}]}`))
	case CaloriesDataType:
		w.Write([]byte(`{"bucket":[{"dataset":[{"point":[{"value":[{"fpVal":250.4}]},{"value":[{"fpVal":100.2}]}]}]}]}`))
	}
}

func TestFetchSnapshot_ProviderValues(t *testing.T) {
	fit := newFakeFit(t, func(w http.ResponseWriter, token, dataType string) {
		if token != "Bearer tok" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		writeValues(w, dataType)
	})
	tokens := &stubTokens{connected: true, access: "tok"}
	f := newTestFetcher(fit.server.URL, tokens, &stubRefresher{tokens: tokens})

	snap, err := f.FetchSnapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4321, snap.Steps)
	assert.Equal(t, 351.0, snap.CaloriesBurned)
	assert.Equal(t, internal.Provenance{Steps: internal.SourceProvider, Calories: internal.SourceProvider}, snap.Provenance)
	assert.Equal(t, fixedNow, snap.LastUpdated)

	require.Len(t, fit.requests, 2)
	assert.Equal(t, StepsDataType, fit.requests[0].AggregateBy[0].DataTypeName)
	assert.Equal(t, CaloriesDataType, fit.requests[1].AggregateBy[0].DataTypeName)
	for _, req := range fit.requests {
		assert.Equal(t, int64(dayMillis), req.BucketByTime.DurationMillis)
		assert.Equal(t, fixedNow.UnixMilli(), req.EndTimeMillis)
		assert.Equal(t, int64(dayMillis), req.EndTimeMillis-req.StartTimeMillis)
	}
}

func TestFetchSnapshot_EmptyBucketsFallBack(t *testing.T) {
	fit := newFakeFit(t, func(w http.ResponseWriter, _, _ string) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"bucket":[]}`))
	})
	tokens := &stubTokens{connected: true, access: "tok"}
	f := newTestFetcher(fit.server.URL, tokens, &stubRefresher{tokens: tokens})

	snap, err := f.FetchSnapshot(context.Background())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, snap.Steps, 2000)
	assert.Less(t, snap.Steps, 7000)
	assert.GreaterOrEqual(t, snap.CaloriesBurned, 100.0)
	assert.Less(t, snap.CaloriesBurned, 400.0)
	assert.Equal(t, internal.Provenance{Steps: internal.SourceFallback, Calories: internal.SourceFallback}, snap.Provenance)
}

func TestFetchSnapshot_MalformedAndServerErrorsFallBack(t *testing.T) {
	fit := newFakeFit(t, func(w http.ResponseWriter, _, dataType string) {
		if dataType == StepsDataType {
			w.Write([]byte(`not json`))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	})
	tokens := &stubTokens{connected: true, access: "tok"}
	f := newTestFetcher(fit.server.URL, tokens, &stubRefresher{tokens: tokens})

	snap, err := f.FetchSnapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, internal.SourceFallback, snap.Provenance.Steps)
	assert.Equal(t, internal.SourceFallback, snap.Provenance.Calories)
}

func TestFetchSnapshot_RefreshesOnceOn401(t *testing.T) {
	fit := newFakeFit(t, func(w http.ResponseWriter, token, dataType string) {
		if token != "Bearer fresh" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		writeValues(w, dataType)
	})
	tokens := &stubTokens{connected: true, access: "stale"}
	refresher := &stubRefresher{tokens: tokens, next: "fresh"}
	f := newTestFetcher(fit.server.URL, tokens, refresher)

	snap, err := f.FetchSnapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), refresher.calls.Load())
	assert.Equal(t, 4321, snap.Steps)
	assert.Equal(t, internal.SourceProvider, snap.Provenance.Calories)
	// one rejected steps call, then the full retry
	assert.Equal(t, int32(3), fit.calls.Load())
}

func TestFetchSnapshot_Second401FallsBack(t *testing.T) {
	fit := newFakeFit(t, func(w http.ResponseWriter, _, _ string) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	tokens := &stubTokens{connected: true, access: "stale"}
	refresher := &stubRefresher{tokens: tokens, next: "still-bad"}
	f := newTestFetcher(fit.server.URL, tokens, refresher)

	snap, err := f.FetchSnapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), refresher.calls.Load())
	assert.Equal(t, internal.SourceFallback, snap.Provenance.Steps)
	assert.Equal(t, internal.SourceFallback, snap.Provenance.Calories)
}

func TestFetchSnapshot_RefreshFailureNeedsReauth(t *testing.T) {
	fit := newFakeFit(t, func(w http.ResponseWriter, _, _ string) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	tokens := &stubTokens{connected: true, access: "stale"}
	refresher := &stubRefresher{tokens: tokens, err: errors.New("invalid_grant")}
	f := newTestFetcher(fit.server.URL, tokens, refresher)

	snap, err := f.FetchSnapshot(context.Background())
	assert.Nil(t, snap)
	assert.ErrorIs(t, err, ErrReauthRequired)
	assert.Equal(t, int32(1), fit.calls.Load())
}

func TestFetchSnapshot_NetworkError(t *testing.T) {
	fit := newFakeFit(t, func(w http.ResponseWriter, _, dataType string) { writeValues(w, dataType) })
	url := fit.server.URL
	fit.server.Close()

	tokens := &stubTokens{connected: true, access: "tok"}
	f := newTestFetcher(url, tokens, &stubRefresher{tokens: tokens})

	_, err := f.FetchSnapshot(context.Background())
	assert.ErrorIs(t, err, ErrNetwork)
	assert.True(t, DefaultRetryPolicy.Retryable(err))
}

func TestFetchSnapshot_Offline(t *testing.T) {
	tokens := &stubTokens{connected: true, access: "tok"}
	f := NewFetcher(FetcherOptions{BaseURL: "http://127.0.0.1:0", Probe: offlineProbe{}}, tokens, &stubRefresher{tokens: tokens}, internal.NewNopLogger())

	_, err := f.FetchSnapshot(context.Background())
	assert.ErrorIs(t, err, ErrNetwork)
	assert.ErrorIs(t, err, ErrOffline)
}

func TestFetchSnapshot_NotConnected(t *testing.T) {
	fit := newFakeFit(t, func(w http.ResponseWriter, _, dataType string) { writeValues(w, dataType) })
	tokens := &stubTokens{}
	f := newTestFetcher(fit.server.URL, tokens, &stubRefresher{tokens: tokens})

	_, err := f.FetchSnapshot(context.Background())
	assert.ErrorIs(t, err, ErrNotConnected)
	assert.Zero(t, fit.calls.Load())
}
