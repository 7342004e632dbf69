// Command musica-seed loads the demo users and songs into the database.
// It is safe to run repeatedly: records that already exist are skipped.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aescanero/musica/internal/application/seed"
	"github.com/aescanero/musica/internal/config"
	"github.com/aescanero/musica/pkg/adapters/storage/sqlite"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	store, err := sqlite.New(cfg.DatabasePath(), logger)
	if err != nil {
		logger.Fatal("failed to open database", zap.Error(err))
	}
	defer store.Close()

	seeder := seed.NewSeeder(store, logger)
	if err := seeder.Run(context.Background()); err != nil {
		logger.Fatal("seeding failed", zap.Error(err))
	}

	logger.Info("seed data loaded", zap.String("database", cfg.DatabasePath()))
}
