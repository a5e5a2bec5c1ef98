package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scicalc/internal/engine"
)

func TestRedisStore_StoresJSONWithTTL(t *testing.T) {
	store, mr := newTestRedisStore(t, 10*time.Minute)
	ctx := context.Background()

	id, err := store.Create(ctx, engine.New().Snapshot())
	require.NoError(t, err)

	key := keyPrefix + id
	require.True(t, mr.Exists(key))
	assert.Equal(t, 10*time.Minute, mr.TTL(key))

	raw, err := mr.Get(key)
	require.NoError(t, err)
	assert.JSONEq(t, `{"current":"0","angle_mode":"deg"}`, raw)
}

func TestRedisStore_SessionExpires(t *testing.T) {
	store, mr := newTestRedisStore(t, time.Minute)
	ctx := context.Background()

	id, err := store.Create(ctx, engine.New().Snapshot())
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)

	_, err = store.Get(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStore_CorruptDocument(t *testing.T) {
	store, mr := newTestRedisStore(t, time.Minute)

	require.NoError(t, mr.Set(keyPrefix+"broken", "{not json"))

	_, err := store.Get(context.Background(), "broken")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestRedisStore_Ping(t *testing.T) {
	store, mr := newTestRedisStore(t, time.Minute)

	require.NoError(t, store.Ping(context.Background()))

	mr.Close()
	assert.Error(t, store.Ping(context.Background()))
}

func TestRedisStore_CountDropsExpiredSessions(t *testing.T) {
	store, mr := newTestRedisStore(t, time.Minute)
	ctx := context.Background()

	_, err := store.Create(ctx, engine.New().Snapshot())
	require.NoError(t, err)
	require.NoError(t, mr.Set("unrelated", "x"))

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	mr.FastForward(2 * time.Minute)

	n, err = store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}
