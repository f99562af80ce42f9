package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"pubquiz-service/internal/domain"
	"pubquiz-service/internal/infra/memory"
)

func TestBankRepositoryCachesInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	loader := &countingLoader{BankLoader: memory.NewStaticBankLoader(sampleBank())}
	repo := NewBankRepository(newClient(mr), loader, time.Minute)

	cats, err := repo.Categories(context.Background())
	if err != nil {
		t.Fatalf("categories: %v", err)
	}
	if len(cats) != 1 || cats[0].Questions[0].Answer != "4" {
		t.Fatalf("unexpected bank %+v", cats)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader called once, got %d", loader.calls)
	}
	if !mr.Exists(BankKey) {
		t.Fatalf("expected bank cached under %s", BankKey)
	}
	if ttl := mr.TTL(BankKey); ttl < time.Minute || ttl > time.Minute+6*time.Second {
		t.Fatalf("expected ttl with jitter, got %v", ttl)
	}

	// Second call should hit cache, loader not incremented.
	cats, _ = repo.Categories(context.Background())
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls=%d", loader.calls)
	}
	if cats[0].Questions[0].ID != "q1" {
		t.Fatalf("expected cached questions to round-trip, got %+v", cats[0].Questions[0])
	}

	repo.Invalidate(context.Background())
	if mr.Exists(BankKey) {
		t.Fatalf("expected cache key removed")
	}
	_, _ = repo.Categories(context.Background())
	if loader.calls != 2 {
		t.Fatalf("expected reload after invalidate, loader calls=%d", loader.calls)
	}
}

func TestBankRepositoryPropagatesLoaderError(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	boom := errors.New("database down")
	repo := NewBankRepository(newClient(mr), failingLoader{err: boom}, time.Minute)
	if _, err := repo.Categories(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected loader error, got %v", err)
	}
	if mr.Exists(BankKey) {
		t.Fatalf("expected nothing cached on failure")
	}
}

type countingLoader struct {
	memory.BankLoader
	calls int
}

func (l *countingLoader) LoadCategories(ctx context.Context) ([]domain.BankCategory, error) {
	l.calls++
	return l.BankLoader.LoadCategories(ctx)
}

type failingLoader struct {
	err error
}

func (l failingLoader) LoadCategories(context.Context) ([]domain.BankCategory, error) {
	return nil, l.err
}

func sampleBank() []domain.BankCategory {
	return []domain.BankCategory{
		{
			Name: "Maths",
			Questions: []domain.Question{
				{ID: "q1", Type: domain.QuestionNumber, Question: "What is 2 + 2?", Answer: "4"},
			},
		},
	}
}

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}
