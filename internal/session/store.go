// Package session keeps one calculator engine per UI session.
package session

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"scicalc/internal/engine"
)

var (
	// ErrNotFound is returned for unknown or expired session ids.
	ErrNotFound = errors.New("session not found")
	// ErrConflict is returned when concurrent updates keep colliding.
	ErrConflict = errors.New("session update conflict")
)

// Store holds engine state by session id. Update is atomic per session: fn
// sees the latest state and its changes are saved only when it succeeds.
type Store interface {
	Create(ctx context.Context, state engine.State) (string, error)
	Get(ctx context.Context, id string) (engine.State, error)
	Update(ctx context.Context, id string, fn func(*engine.Engine) error) (engine.State, error)
	Delete(ctx context.Context, id string) error
	// Count reports the sessions that have not expired or been deleted.
	Count(ctx context.Context) (int, error)
	Close() error
}

// NewID returns a fresh session id.
func NewID() string {
	return uuid.NewString()
}

// apply restores state, runs fn and snapshots the result.
func apply(state engine.State, fn func(*engine.Engine) error) (engine.State, error) {
	e, err := engine.Restore(state)
	if err != nil {
		return engine.State{}, err
	}

	if err := fn(e); err != nil {
		return engine.State{}, err
	}

	return e.Snapshot(), nil
}
