package redis

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
	"pubquiz-service/internal/domain"
	"pubquiz-service/internal/infra/memory"
)

// BankKey holds the JSON-encoded question bank.
const BankKey = "pubquiz:bank"

// BankRepository caches the question bank in Redis and falls back to a loader on cache miss.
// The whole bank is stored as one JSON value so every instance sees the same snapshot.
type BankRepository struct {
	client *redis.Client
	loader memory.BankLoader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewBankRepository(client *redis.Client, loader memory.BankLoader, ttl time.Duration) *BankRepository {
	return &BankRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *BankRepository) Categories(ctx context.Context) ([]domain.BankCategory, error) {
	if cats, ok := r.cached(ctx); ok {
		return cats, nil
	}

	result, err, _ := r.sf.Do(BankKey, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if cats, ok := r.cached(ctx); ok {
			return cats, nil
		}

		cats, err := r.loader.LoadCategories(ctx)
		if err != nil {
			return nil, err
		}

		raw, err := json.Marshal(cats)
		if err != nil {
			return nil, err
		}
		if err := r.client.Set(ctx, BankKey, raw, r.ttlWithJitter()).Err(); err != nil {
			// the loaded bank is still usable without the cache
			log.Printf("cache question bank: %v", err)
		}
		return cats, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.BankCategory), nil
}

// Invalidate removes the cached bank for every instance.
func (r *BankRepository) Invalidate(ctx context.Context) {
	if err := r.client.Del(ctx, BankKey).Err(); err != nil {
		log.Printf("invalidate question bank: %v", err)
	}
}

func (r *BankRepository) cached(ctx context.Context) ([]domain.BankCategory, bool) {
	raw, err := r.client.Get(ctx, BankKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("read cached question bank: %v", err)
		}
		return nil, false
	}
	var cats []domain.BankCategory
	if err := json.Unmarshal(raw, &cats); err != nil {
		return nil, false
	}
	return cats, true
}

func (r *BankRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
