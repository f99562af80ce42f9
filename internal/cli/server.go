package cli

import (
	"context"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"pubquiz-service/internal/app"
	"pubquiz-service/internal/config"
	"pubquiz-service/internal/infra/file"
	"pubquiz-service/internal/infra/memory"
	pgloader "pubquiz-service/internal/infra/postgres"
	redisinfra "pubquiz-service/internal/infra/redis"
	transport "pubquiz-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
	}

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
	}

	bank := newQuestionBank(cfg, pool, redisClient)

	var snapshots app.SnapshotStore
	if redisClient != nil {
		store := redisinfra.NewSnapshotStore(redisClient, config.TTLDuration(cfg.Redis.TTL, 12*time.Hour), cfg.Redis.Channel)
		logPreviousSnapshot(ctx, store)
		snapshots = store
	}

	service := app.NewQuizService(bank, snapshots)

	server := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Bind, finalPort),
		Handler:      transport.NewRouter(service, cfg.Server.PublicURL),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting pub quiz on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// logPreviousSnapshot reports a game state left in Redis by an earlier run. The new
// session starts in the lobby and overwrites it with its first change.
func logPreviousSnapshot(ctx context.Context, store *redisinfra.SnapshotStore) {
	state, ok, err := store.Latest(ctx)
	switch {
	case err != nil:
		log.Printf("read previous snapshot: %v", err)
	case ok:
		log.Printf("replacing mirrored state from a previous run (phase %s, %d players)", state.Phase, state.PlayerCount)
	}
}

// newQuestionBank picks the bank source (Postgres, file, built-in sample) and puts a
// Redis or in-process cache in front of it.
func newQuestionBank(cfg config.Config, pool *pgxpool.Pool, redisClient *redis.Client) app.QuestionBank {
	var loader memory.BankLoader
	switch {
	case pool != nil:
		loader = pgloader.NewBankLoader(pool)
		log.Printf("question bank: postgres")
	case cfg.Questions.File != "":
		loader = file.NewBankLoader(cfg.Questions.File)
		log.Printf("question bank: %s", cfg.Questions.File)
	default:
		loader = memory.NewStaticBankLoader(memory.SampleCategories())
		log.Printf("question bank: built-in sample")
	}

	ttl := config.TTLDuration(cfg.Questions.TTL, 10*time.Minute)
	if redisClient != nil {
		return redisinfra.NewBankRepository(redisClient, loader, ttl)
	}
	return memory.NewBankRepository(loader, ttl)
}
