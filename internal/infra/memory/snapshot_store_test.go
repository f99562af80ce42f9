package memory

import (
	"context"
	"testing"

	"pubquiz-service/internal/domain"
)

func TestSnapshotStoreKeepsLatest(t *testing.T) {
	store := NewSnapshotStore()
	if _, ok := store.Latest(); ok {
		t.Fatalf("expected no snapshot before first save")
	}

	_ = store.Save(context.Background(), domain.GameState{Phase: domain.PhaseLobby})
	_ = store.Save(context.Background(), domain.GameState{Phase: domain.PhasePlaying, PlayerCount: 4})

	state, ok := store.Latest()
	if !ok {
		t.Fatalf("expected snapshot present")
	}
	if state.Phase != domain.PhasePlaying || state.PlayerCount != 4 {
		t.Fatalf("expected latest snapshot, got %+v", state)
	}
}
