// Package file loads a question bank from a JSON or YAML file on disk.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
	"pubquiz-service/internal/domain"
)

// Bank is the on-disk document: {categories: [{name, questions: [...]}]}.
type Bank struct {
	Categories []domain.BankCategory `json:"categories" yaml:"categories"`
}

// BankLoader reads the bank file on every load; caching is left to the repository in front of it.
type BankLoader struct {
	path string
}

func NewBankLoader(path string) *BankLoader {
	return &BankLoader{path: path}
}

func (l *BankLoader) LoadCategories(_ context.Context) ([]domain.BankCategory, error) {
	bank, err := ReadBank(l.path)
	if err != nil {
		return nil, err
	}
	return bank.Categories, nil
}

// ReadBank decodes a bank file. Files ending in .yaml or .yml are YAML, anything else JSON.
func ReadBank(path string) (Bank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Bank{}, fmt.Errorf("read question bank: %w", err)
	}

	var bank Bank
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &bank)
	default:
		err = json.Unmarshal(data, &bank)
	}
	if err != nil {
		return Bank{}, fmt.Errorf("parse question bank %s: %w", path, err)
	}

	kept := bank.Categories[:0]
	for _, c := range bank.Categories {
		c.Name = strings.TrimSpace(c.Name)
		if c.Name == "" {
			continue
		}
		kept = append(kept, c)
	}
	bank.Categories = kept
	return bank, nil
}
