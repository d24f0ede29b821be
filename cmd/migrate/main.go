package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rentfolio/backend/internal/infrastructure/config"
	"github.com/rentfolio/backend/internal/infrastructure/logger"
	"github.com/rentfolio/backend/internal/infrastructure/persistence"
)

// Applies the schema and bootstraps the Main and Gateway house accounts.
// Run before first server start or after pulling schema changes.
func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "migrate failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	mainAccountID, err := uuid.Parse(cfg.Finance.MainAccountID)
	if err != nil {
		return fmt.Errorf("finance.main_account_id: %w", err)
	}
	gatewayAccountID, err := uuid.Parse(cfg.Finance.GatewayAccountID)
	if err != nil {
		return fmt.Errorf("finance.gateway_account_id: %w", err)
	}

	database, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer func() { _ = database.Close() }()

	log.Info("Running schema migration",
		zap.String("driver", cfg.Database.Driver),
		zap.String("database", cfg.Database.DBName),
	)
	if err := database.Migrate(); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}

	if err := database.EnsureHouseAccounts(context.Background(), mainAccountID, gatewayAccountID); err != nil {
		return fmt.Errorf("bootstrap house accounts: %w", err)
	}

	log.Info("Migration complete")
	return nil
}
