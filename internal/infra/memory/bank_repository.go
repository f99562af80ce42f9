package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
	"pubquiz-service/internal/domain"
)

// BankLoader fetches the question bank from a backing store (file, Postgres).
type BankLoader interface {
	LoadCategories(ctx context.Context) ([]domain.BankCategory, error)
}

const bankKey = "bank"

// BankRepository caches the question bank in process with a TTL so that repeated
// startQuiz calls do not hit the backing store.
type BankRepository struct {
	loader BankLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu        sync.RWMutex
	cached    []domain.BankCategory
	expiresAt time.Time
	loaded    bool
}

func NewBankRepository(loader BankLoader, ttl time.Duration) *BankRepository {
	return &BankRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *BankRepository) Categories(ctx context.Context) ([]domain.BankCategory, error) {
	if cats, ok := r.fresh(r.clock()); ok {
		return cats, nil
	}

	result, err, _ := r.sf.Do(bankKey, func() (interface{}, error) {
		now := r.clock()
		if cats, ok := r.fresh(now); ok {
			return cats, nil
		}

		cats, err := r.loader.LoadCategories(ctx)
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		r.cached = cats
		r.loaded = true
		r.expiresAt = now.Add(r.ttlWithJitter())
		r.mu.Unlock()
		return cats, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.BankCategory), nil
}

// Invalidate drops the cached bank; the next read goes to the loader.
func (r *BankRepository) Invalidate(context.Context) {
	r.mu.Lock()
	r.cached = nil
	r.loaded = false
	r.mu.Unlock()
}

// fresh reports the cached bank if it has not expired. A zero TTL never expires.
func (r *BankRepository) fresh(now time.Time) ([]domain.BankCategory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if !r.loaded {
		return nil, false
	}
	if r.ttl > 0 && !r.expiresAt.After(now) {
		return nil, false
	}
	return r.cached, true
}

func (r *BankRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// up to 10% jitter
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}

// StaticBankLoader serves a fixed bank (useful for tests/demos).
type StaticBankLoader struct {
	categories []domain.BankCategory
}

func NewStaticBankLoader(categories []domain.BankCategory) *StaticBankLoader {
	return &StaticBankLoader{categories: categories}
}

func (l *StaticBankLoader) LoadCategories(context.Context) ([]domain.BankCategory, error) {
	return l.categories, nil
}

// SampleCategories is a small built-in bank used when no other source is configured.
func SampleCategories() []domain.BankCategory {
	return []domain.BankCategory{
		{
			Name: "Movies",
			Questions: []domain.Question{
				{Type: domain.QuestionText, Question: "Which 1942 film features the line \"Here's looking at you, kid\"?", Answer: "Casablanca"},
				{Type: domain.QuestionMultipleChoice, Question: "Who directed Jaws?", Answer: "Steven Spielberg", Options: []string{"George Lucas", "Steven Spielberg", "Ridley Scott"}},
				{Type: domain.QuestionNumber, Question: "In which year was Titanic released?", Answer: "1997", Tolerance: 1},
			},
		},
		{
			Name: "Geography",
			Questions: []domain.Question{
				{Type: domain.QuestionText, Question: "What is the capital of the Netherlands?", Answer: "Amsterdam"},
				{Type: domain.QuestionText, Question: "Which river flows through Cairo?", Answer: "Nile", AcceptedAnswers: []string{"The Nile", "River Nile"}},
				{Type: domain.QuestionNumber, Question: "How many continents are there?", Answer: "7"},
			},
		},
		{
			Name: "Music",
			Questions: []domain.Question{
				{Type: domain.QuestionText, Question: "Which band released Abbey Road?", Answer: "The Beatles", AcceptedAnswers: []string{"Beatles"}},
				{Type: domain.QuestionMultipleChoice, Question: "How many strings does a standard guitar have?", Answer: "6", Options: []string{"4", "6", "12"}},
			},
		},
	}
}
