package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scicalc/internal/engine"
)

func TestMemoryStore_ExpiresIdleSessions(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	store := NewMemoryStore(time.Minute)
	store.now = func() time.Time { return now }

	ctx := context.Background()

	id, err := store.Create(ctx, engine.New().Snapshot())
	require.NoError(t, err)

	now = now.Add(30 * time.Second)
	_, err = store.Update(ctx, id, func(e *engine.Engine) error { return e.Press("4") })
	require.NoError(t, err)

	now = now.Add(45 * time.Second)
	state, err := store.Get(ctx, id)
	require.NoError(t, err, "update should have refreshed the idle timer")
	assert.Equal(t, "4", state.Current)

	now = now.Add(time.Minute)
	_, err = store.Get(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 0, store.Len())
}

func TestMemoryStore_Sweep(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	store := NewMemoryStore(time.Minute)
	store.now = func() time.Time { return now }

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := store.Create(ctx, engine.New().Snapshot())
		require.NoError(t, err)
	}

	assert.Equal(t, 0, store.Sweep())
	assert.Equal(t, 3, store.Len())

	now = now.Add(2 * time.Minute)
	assert.Equal(t, 3, store.Sweep())
	assert.Equal(t, 0, store.Len())
}

func TestMemoryStore_ZeroTTLNeverExpires(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	store := NewMemoryStore(0)
	store.now = func() time.Time { return now }

	id, err := store.Create(context.Background(), engine.New().Snapshot())
	require.NoError(t, err)

	now = now.Add(24 * 365 * time.Hour)
	_, err = store.Get(context.Background(), id)
	assert.NoError(t, err)
}

func TestMemoryStore_CountSkipsExpiredBeforeSweep(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	store := NewMemoryStore(time.Minute)
	store.now = func() time.Time { return now }

	ctx := context.Background()
	_, err := store.Create(ctx, engine.New().Snapshot())
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Equal(t, 1, store.Len(), "count must not sweep")
}
