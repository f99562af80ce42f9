package cli

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/spf13/cobra"
	"pubquiz-service/internal/config"
	"pubquiz-service/internal/infra/file"
	"pubquiz-service/internal/infra/postgres"
)

// NewImportCmd loads a JSON or YAML question bank file into Postgres.
func NewImportCmd(configPath *string) *cobra.Command {
	var bankFile string
	cmd := &cobra.Command{
		Use:   "import-questions",
		Short: "Import a question bank file into Postgres",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if bankFile == "" {
				bankFile = cfg.Questions.File
			}
			return importQuestions(cmd.Context(), cfg, bankFile)
		},
	}
	cmd.Flags().StringVar(&bankFile, "file", "", "question bank file (.json, .yaml); defaults to questions.file from the config")
	return cmd
}

func importQuestions(ctx context.Context, cfg config.Config, bankFile string) error {
	if bankFile == "" {
		return fmt.Errorf("no question bank file given")
	}
	if err := runMigrationsWithConfig(ctx, cfg); err != nil {
		return err
	}

	bank, err := file.ReadBank(bankFile)
	if err != nil {
		return err
	}

	pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := postgres.NewBankLoader(pool).SaveCategories(ctx, bank.Categories); err != nil {
		return err
	}
	log.Printf("imported %d categories from %s", len(bank.Categories), bankFile)
	return nil
}
