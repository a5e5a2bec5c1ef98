package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"scicalc/internal/engine"
)

const (
	keyPrefix    = "calc:session:"
	maxTxRetries = 5
	scanBatch    = 100
)

// RedisStore shares sessions between service instances. Each session is a
// JSON document under calc:session:<id> with the idle TTL as key expiry.
// Updates run in WATCH/MULTI transactions.
type RedisStore struct {
	client redis.UniversalClient
	ttl    time.Duration
}

var _ Store = (*RedisStore)(nil)

// getter is satisfied by both the client and a WATCH transaction.
type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func NewRedisStore(client redis.UniversalClient, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

// Ping checks the Redis connection.
func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

func (s *RedisStore) Create(ctx context.Context, state engine.State) (string, error) {
	if err := state.Validate(); err != nil {
		return "", err
	}

	data, err := json.Marshal(state)
	if err != nil {
		return "", fmt.Errorf("encode session: %w", err)
	}

	id := NewID()
	if err := s.client.Set(ctx, keyPrefix+id, data, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("redis set: %w", err)
	}

	return id, nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (engine.State, error) {
	return s.load(ctx, s.client, id)
}

func (s *RedisStore) Update(ctx context.Context, id string, fn func(*engine.Engine) error) (engine.State, error) {
	key := keyPrefix + id

	var next engine.State

	txf := func(tx *redis.Tx) error {
		current, err := s.load(ctx, tx, id)
		if err != nil {
			return err
		}

		next, err = apply(current, fn)
		if err != nil {
			return err
		}

		data, err := json.Marshal(next)
		if err != nil {
			return fmt.Errorf("encode session: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, s.ttl)
			return nil
		})
		return err
	}

	for attempt := 0; attempt < maxTxRetries; attempt++ {
		err := s.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return engine.State{}, err
		}
		return next, nil
	}

	return engine.State{}, fmt.Errorf("%w: %s", ErrConflict, id)
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, keyPrefix+id).Err(); err != nil {
		return fmt.Errorf("redis delete: %w", err)
	}
	return nil
}

// Count scans the session keyspace. Expired keys are already gone.
func (s *RedisStore) Count(ctx context.Context) (int, error) {
	n := 0
	iter := s.client.Scan(ctx, 0, keyPrefix+"*", scanBatch).Iterator()
	for iter.Next(ctx) {
		n++
	}
	if err := iter.Err(); err != nil {
		return 0, fmt.Errorf("redis scan: %w", err)
	}
	return n, nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) load(ctx context.Context, c getter, id string) (engine.State, error) {
	data, err := c.Get(ctx, keyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return engine.State{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return engine.State{}, fmt.Errorf("redis get: %w", err)
	}

	var state engine.State
	if err := json.Unmarshal(data, &state); err != nil {
		return engine.State{}, fmt.Errorf("decode session: %w", err)
	}

	return state, nil
}
