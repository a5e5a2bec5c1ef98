package main

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"scicalc/internal/calculator"
	"scicalc/internal/config"
	"scicalc/internal/observability"
	"scicalc/internal/session"
)

// initMetrics initialises all metric providers and application-specific
// metric instruments. Add new domain InitMetrics calls here as the project grows.
func initMetrics(ctx context.Context) (func(context.Context) error, error) {
	shutdown, err := observability.InitMetrics(ctx)
	if err != nil {
		return nil, err
	}

	if err := calculator.InitMetrics(); err != nil {
		return nil, err
	}

	return shutdown, nil
}

// newSessionStore builds the configured session backend. The memory store
// gets a janitor goroutine bound to ctx; the Redis store is pinged once.
func newSessionStore(ctx context.Context, cfg config.Config) (session.Store, error) {
	switch cfg.SessionBackend {
	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})

		store := session.NewRedisStore(client, cfg.SessionTTL)
		if err := store.Ping(ctx); err != nil {
			_ = store.Close()
			return nil, err
		}
		return store, nil

	case config.BackendMemory:
		store := session.NewMemoryStore(cfg.SessionTTL)
		go store.RunJanitor(ctx, cfg.SweepInterval, observability.Logger)
		return store, nil

	default:
		return nil, fmt.Errorf("unknown session backend %q", cfg.SessionBackend)
	}
}
