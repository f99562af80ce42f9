package memory

import (
	"context"
	"sync"

	"pubquiz-service/internal/domain"
)

// SnapshotStore is an in-memory implementation of app.SnapshotStore. It only keeps
// the last mirrored state; the server leaves mirroring off unless Redis is configured.
type SnapshotStore struct {
	mu     sync.RWMutex
	latest domain.GameState
	saved  bool
}

func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{}
}

func (s *SnapshotStore) Save(_ context.Context, state domain.GameState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest = state
	s.saved = true
	return nil
}

// Latest returns the last saved state, if any.
func (s *SnapshotStore) Latest() (domain.GameState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest, s.saved
}
