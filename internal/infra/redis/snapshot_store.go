package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"pubquiz-service/internal/domain"
)

const (
	// StateKey holds the latest public game state.
	StateKey = "pubquiz:state"

	// DefaultChannel carries every game state change for external displays.
	DefaultChannel = "pubquiz:events"
)

// SnapshotStore mirrors the public game state into Redis: the latest value under
// StateKey and every change published on the channel.
type SnapshotStore struct {
	client  *redis.Client
	ttl     time.Duration
	channel string
}

func NewSnapshotStore(client *redis.Client, ttl time.Duration, channel string) *SnapshotStore {
	if channel == "" {
		channel = DefaultChannel
	}
	return &SnapshotStore{client: client, ttl: ttl, channel: channel}
}

func (s *SnapshotStore) Save(ctx context.Context, state domain.GameState) error {
	raw, err := json.Marshal(domain.Broadcast(domain.EventGameState, state))
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, StateKey, raw, s.ttl)
	pipe.Publish(ctx, s.channel, raw)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// Latest reads the mirrored state back, e.g. for a freshly started display.
func (s *SnapshotStore) Latest(ctx context.Context) (domain.GameState, bool, error) {
	raw, err := s.client.Get(ctx, StateKey).Bytes()
	if err == redis.Nil {
		return domain.GameState{}, false, nil
	}
	if err != nil {
		return domain.GameState{}, false, fmt.Errorf("read snapshot: %w", err)
	}
	var msg struct {
		Payload domain.GameState `json:"payload"`
	}
	if err := json.Unmarshal(raw, &msg); err != nil {
		return domain.GameState{}, false, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return msg.Payload, true, nil
}
