package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"
	"pubquiz-service/internal/domain"
)

// BankLoader loads question categories from the question_categories table, one
// JSONB array of questions per category.
type BankLoader struct {
	pool *pgxpool.Pool
}

func NewBankLoader(pool *pgxpool.Pool) *BankLoader {
	return &BankLoader{pool: pool}
}

func (l *BankLoader) LoadCategories(ctx context.Context) ([]domain.BankCategory, error) {
	rows, err := l.pool.Query(ctx, `SELECT name, data FROM question_categories ORDER BY position, name`)
	if err != nil {
		return nil, fmt.Errorf("load question bank: %w", err)
	}
	defer rows.Close()

	var categories []domain.BankCategory
	for rows.Next() {
		var (
			name string
			raw  []byte
		)
		if err := rows.Scan(&name, &raw); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		var questions []domain.Question
		if err := json.Unmarshal(raw, &questions); err != nil {
			return nil, fmt.Errorf("unmarshal category %s: %w", name, err)
		}
		categories = append(categories, domain.BankCategory{Name: name, Questions: questions})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load question bank: %w", err)
	}
	return categories, nil
}

// SaveCategories upserts categories in one transaction, keeping their order as position.
// Questions without an id get one so they stay stable across loads.
func (l *BankLoader) SaveCategories(ctx context.Context, categories []domain.BankCategory) error {
	tx, err := l.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin import: %w", err)
	}
	defer tx.Rollback(ctx)

	for i, c := range categories {
		questions := make([]domain.Question, 0, len(c.Questions))
		for _, q := range c.Questions {
			questions = append(questions, q.WithDefaults())
		}
		raw, err := json.Marshal(questions)
		if err != nil {
			return fmt.Errorf("marshal category %s: %w", c.Name, err)
		}
		_, err = tx.Exec(ctx, `
INSERT INTO question_categories (name, position, data, updated_at)
VALUES ($1, $2, $3::jsonb, now())
ON CONFLICT (name) DO UPDATE SET position = EXCLUDED.position, data = EXCLUDED.data, updated_at = now()`,
			c.Name, i, string(raw))
		if err != nil {
			return fmt.Errorf("save category %s: %w", c.Name, err)
		}
	}
	return tx.Commit(ctx)
}
