package app

import (
	"context"
	"log"

	"pubquiz-service/internal/domain"
)

// QuestionBank provides the external category/question records (file, Postgres, cache).
type QuestionBank interface {
	Categories(ctx context.Context) ([]domain.BankCategory, error)
	Invalidate(ctx context.Context)
}

// FindQuestionsForCategory returns the defaulted questions of the category whose name
// matches case-insensitively, or an empty list.
func FindQuestionsForCategory(name string, categories []domain.BankCategory) []domain.Question {
	for _, c := range categories {
		if !domain.SameName(c.Name, name) {
			continue
		}
		questions := make([]domain.Question, 0, len(c.Questions))
		for _, q := range c.Questions {
			questions = append(questions, q.WithDefaults())
		}
		return questions
	}
	return []domain.Question{}
}

// loadBank reads the question bank, degrading to no categories on failure.
func loadBank(ctx context.Context, bank QuestionBank) []domain.BankCategory {
	if bank == nil {
		return nil
	}
	categories, err := bank.Categories(ctx)
	if err != nil {
		log.Printf("question bank unavailable: %v", err)
		return nil
	}
	return categories
}

// bankLookup loads the bank at most once per call site and resolves names against it.
func bankLookup(ctx context.Context, bank QuestionBank) func(string) []domain.Question {
	var (
		categories []domain.BankCategory
		loaded     bool
	)
	return func(name string) []domain.Question {
		if !loaded {
			categories = loadBank(ctx, bank)
			loaded = true
		}
		return FindQuestionsForCategory(name, categories)
	}
}
