package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"scicalc/internal/engine"
)

type memoryEntry struct {
	state     engine.State
	expiresAt time.Time
}

// MemoryStore keeps sessions in process. Sessions idle longer than the TTL
// are dropped; a zero TTL keeps them until deleted.
type MemoryStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	now      func() time.Time
	sessions map[string]memoryEntry
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]memoryEntry),
	}
}

func (s *MemoryStore) Create(_ context.Context, state engine.State) (string, error) {
	if err := state.Validate(); err != nil {
		return "", err
	}

	id := NewID()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[id] = memoryEntry{state: state, expiresAt: s.expiry()}
	return id, nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (engine.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, err := s.lookup(id)
	if err != nil {
		return engine.State{}, err
	}
	return entry.state, nil
}

func (s *MemoryStore) Update(_ context.Context, id string, fn func(*engine.Engine) error) (engine.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, err := s.lookup(id)
	if err != nil {
		return engine.State{}, err
	}

	next, err := apply(entry.state, fn)
	if err != nil {
		return engine.State{}, err
	}

	s.sessions[id] = memoryEntry{state: next, expiresAt: s.expiry()}
	return next, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, id)
	return nil
}

func (s *MemoryStore) Count(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, entry := range s.sessions {
		if !s.expired(entry) {
			n++
		}
	}
	return n, nil
}

func (s *MemoryStore) Close() error { return nil }

// Len reports the number of live sessions.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.sessions)
}

// Sweep drops expired sessions and returns how many were removed.
func (s *MemoryStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, entry := range s.sessions {
		if s.expired(entry) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// RunJanitor sweeps expired sessions every interval until ctx is done.
func (s *MemoryStore) RunJanitor(ctx context.Context, interval time.Duration, logger *zap.Logger) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				logger.Debug("expired sessions swept", zap.Int("removed", n))
			}
		}
	}
}

func (s *MemoryStore) lookup(id string) (memoryEntry, error) {
	entry, ok := s.sessions[id]
	if !ok {
		return memoryEntry{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if s.expired(entry) {
		delete(s.sessions, id)
		return memoryEntry{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return entry, nil
}

func (s *MemoryStore) expiry() time.Time {
	if s.ttl <= 0 {
		return time.Time{}
	}
	return s.now().Add(s.ttl)
}

func (s *MemoryStore) expired(entry memoryEntry) bool {
	return !entry.expiresAt.IsZero() && !s.now().Before(entry.expiresAt)
}
