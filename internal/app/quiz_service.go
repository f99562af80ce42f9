package app

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"

	"pubquiz-service/internal/domain"
)

// SnapshotStore mirrors the public game state outside the process (memory, Redis).
type SnapshotStore interface {
	Save(ctx context.Context, state domain.GameState) error
}

type handlerFunc func(ctx context.Context, clientID string, payload json.RawMessage) (Outcome, error)

// QuizService owns the quiz session and applies client actions to it one at a time.
type QuizService struct {
	mu        sync.Mutex
	session   *Session
	bank      QuestionBank
	snapshots SnapshotStore
	hub       *hub
	handlers  map[string]handlerFunc
}

// NewQuizService builds a service around a fresh session. snapshots may be nil.
func NewQuizService(bank QuestionBank, snapshots SnapshotStore) *QuizService {
	s := &QuizService{
		session:   NewSession(),
		bank:      bank,
		snapshots: snapshots,
		hub:       newHub(),
	}
	s.handlers = s.routes()
	return s
}

// Dispatch applies one inbound action from clientID and publishes what it produced.
// Only unknown actions return an error; failed preconditions are silent no-ops.
func (s *QuizService) Dispatch(ctx context.Context, clientID string, in domain.Inbound) error {
	handler, ok := s.handlers[in.Type]
	if !ok {
		return domain.ErrUnknownAction
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	out, err := handler(ctx, clientID, in.Payload)
	switch {
	case errors.Is(err, domain.ErrInvalidPayload):
		log.Printf("ignoring %s from %s: %v", in.Type, clientID, err)
		return nil
	case errors.Is(err, domain.ErrNoApprovedCategories), errors.Is(err, domain.ErrNoCategoryQuestions):
		s.hub.publish([]domain.Message{
			domain.Unicast(clientID, domain.EventError, domain.ErrorPayload{Message: err.Error()}),
		})
		return nil
	case err != nil:
		return err
	}
	s.applyLocked(ctx, out)
	return nil
}

// Subscribe registers clientID for broadcasts. The channel first receives a full
// snapshot. The caller must invoke the returned cancel function to avoid leaks.
func (s *QuizService) Subscribe(clientID string) (<-chan domain.Message, func()) {
	s.mu.Lock()
	ch := s.hub.add(clientID, s.session.Snapshot())
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		s.hub.remove(clientID, ch)
		s.mu.Unlock()
	}
	return ch, cancel
}

// Disconnect unbinds clientID from its player.
func (s *QuizService) Disconnect(ctx context.Context, clientID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.applyLocked(ctx, s.session.Disconnect(clientID))
}

// State returns the current public game state.
func (s *QuizService) State() domain.GameState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.State()
}

// Players returns the current leaderboard.
func (s *QuizService) Players() []domain.PlayerView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.Players()
}

func (s *QuizService) applyLocked(ctx context.Context, out Outcome) {
	msgs := out.Events
	if out.Changed {
		msgs = append(msgs, s.session.Snapshot()...)
	}
	s.hub.publish(msgs)

	if !out.Changed || s.snapshots == nil {
		return
	}
	if err := s.snapshots.Save(ctx, s.session.State()); err != nil {
		log.Printf("snapshot save failed: %v", err)
	}
}
