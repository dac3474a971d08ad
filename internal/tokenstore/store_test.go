package tokenstore

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/Sujal861/Omi-Mentor/internal"
	"github.com/Sujal861/Omi-Mentor/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memKV struct {
	values map[string]string
	getErr error
}

func newMemKV() *memKV { return &memKV{values: map[string]string{}} }

func (m *memKV) Get(_ context.Context, key string) (string, bool, error) {
	if m.getErr != nil {
		return "", false, m.getErr
	}
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *memKV) Set(_ context.Context, key, value string) error {
	m.values[key] = value
	return nil
}

func (m *memKV) Delete(_ context.Context, key string) error {
	delete(m.values, key)
	return nil
}

func TestStore_EmptyRecord(t *testing.T) {
	s := New(newMemKV(), internal.NewNopLogger())
	rec := s.Get(context.Background())
	assert.Equal(t, internal.TokenRecord{}, rec)
	assert.False(t, s.IsConnected(context.Background()))
}

func TestStore_ReadErrorsAreEmpty(t *testing.T) {
	kv := newMemKV()
	kv.values[KeyConnected] = "true"
	kv.getErr = errors.New("disk gone")
	s := New(kv, internal.NewNopLogger())
	assert.Equal(t, internal.TokenRecord{}, s.Get(context.Background()))
}

func TestStore_SetConnectedAndClear(t *testing.T) {
	ctx := context.Background()
	kv := newMemKV()
	s := New(kv, internal.NewNopLogger())

	require.NoError(t, s.SetConnected(ctx, "A", "R"))
	assert.Equal(t, internal.TokenRecord{AccessToken: "A", RefreshToken: "R", Connected: true}, s.Get(ctx))

	require.NoError(t, s.SetAccessToken(ctx, "A2"))
	assert.Equal(t, "A2", s.Get(ctx).AccessToken)
	assert.Equal(t, "R", s.Get(ctx).RefreshToken)

	// A grant without a refresh token drops the old one.
	require.NoError(t, s.SetConnected(ctx, "B", ""))
	rec := s.Get(ctx)
	assert.Equal(t, "B", rec.AccessToken)
	assert.Empty(t, rec.RefreshToken)
	assert.True(t, rec.Connected)

	require.NoError(t, s.Clear(ctx))
	assert.Empty(t, kv.values)
	assert.False(t, s.IsConnected(ctx))
}

func TestStore_SurvivesRestart(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	tokens := filepath.Join(dir, "googlefit.json")
	notifications := filepath.Join(dir, "notifications.json")

	fs, err := storage.NewFileStorage(tokens, notifications, internal.NewNopLogger())
	require.NoError(t, err)
	require.NoError(t, New(fs, internal.NewNopLogger()).SetConnected(ctx, "A", "R"))
	require.NoError(t, fs.Close())

	fs, err = storage.NewFileStorage(tokens, notifications, internal.NewNopLogger())
	require.NoError(t, err)
	defer fs.Close()

	rec := New(fs, internal.NewNopLogger()).Get(ctx)
	assert.Equal(t, internal.TokenRecord{AccessToken: "A", RefreshToken: "R", Connected: true}, rec)
}

func TestStore_PendingState(t *testing.T) {
	ctx := context.Background()
	kv := newMemKV()
	s := New(kv, internal.NewNopLogger())

	assert.Empty(t, s.PendingState(ctx))
	require.NoError(t, s.SetPendingState(ctx, "st-1"))
	assert.Equal(t, "st-1", s.PendingState(ctx))

	require.NoError(t, s.SetConnected(ctx, "A", "R"))
	require.NoError(t, s.ClearPendingState(ctx))
	assert.Empty(t, s.PendingState(ctx))
	assert.Equal(t, internal.TokenRecord{AccessToken: "A", RefreshToken: "R", Connected: true}, s.Get(ctx))
}
