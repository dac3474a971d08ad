package tokenstore

import (
	"context"
	"sync"

	"github.com/Sujal861/Omi-Mentor/internal"
	"github.com/Sujal861/Omi-Mentor/internal/storage"
)

const (
	KeyConnected    = "googlefit_connected"
	KeyAccessToken  = "googlefit_access_token"
	KeyRefreshToken = "googlefit_refresh_token"
	// KeyPendingState holds the OAuth state of a consent flow not yet completed.
	KeyPendingState = "googlefit_oauth_state"
)

// Store persists the fitness-provider TokenRecord under three fixed keys.
// Writes go straight through to the backend one key at a time.
type Store struct {
	mu     sync.RWMutex
	kv     storage.KeyValueStore
	logger internal.Logger
}

func New(kv storage.KeyValueStore, logger internal.Logger) *Store {
	return &Store{kv: kv, logger: logger}
}

// Get never fails. Missing keys and backend errors read as empty.
func (s *Store) Get(ctx context.Context) internal.TokenRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return internal.TokenRecord{
		AccessToken:  s.read(ctx, KeyAccessToken),
		RefreshToken: s.read(ctx, KeyRefreshToken),
		Connected:    s.read(ctx, KeyConnected) == "true",
	}
}

func (s *Store) IsConnected(ctx context.Context) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read(ctx, KeyConnected) == "true"
}

// SetConnected records a successful exchange. An empty refresh token removes
// any refresh token kept from an earlier grant.
func (s *Store) SetConnected(ctx context.Context, accessToken, refreshToken string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.kv.Set(ctx, KeyAccessToken, accessToken); err != nil {
		return err
	}
	if refreshToken != "" {
		if err := s.kv.Set(ctx, KeyRefreshToken, refreshToken); err != nil {
			return err
		}
	} else if err := s.kv.Delete(ctx, KeyRefreshToken); err != nil {
		return err
	}
	return s.kv.Set(ctx, KeyConnected, "true")
}

func (s *Store) SetAccessToken(ctx context.Context, accessToken string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.kv.Set(ctx, KeyAccessToken, accessToken)
}

// Clear removes all three keys. Every delete is attempted; the first error is returned.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var first error
	for _, k := range []string{KeyConnected, KeyAccessToken, KeyRefreshToken} {
		if err := s.kv.Delete(ctx, k); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// SetPendingState remembers the state value sent with a consent request.
func (s *Store) SetPendingState(ctx context.Context, state string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.kv.Set(ctx, KeyPendingState, state)
}

func (s *Store) PendingState(ctx context.Context) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read(ctx, KeyPendingState)
}

func (s *Store) ClearPendingState(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.kv.Delete(ctx, KeyPendingState)
}

func (s *Store) read(ctx context.Context, key string) string {
	v, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		s.logger.Warnf("tokenstore: read %s failed: %v", key, err)
		return ""
	}
	if !ok {
		return ""
	}
	return v
}
