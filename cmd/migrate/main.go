package main

// Manage the database schema:
//   go run ./cmd/migrate [up|down|status]

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"cvbot-backend/internal/shared/config"
	"cvbot-backend/internal/shared/storage/db"
	"cvbot-backend/internal/shared/telemetry"
)

func main() {
	cfg := config.Load()
	telemetry.Configure(cfg.Env)
	defer telemetry.Sync()

	command := "up"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}
	if err := run(context.Background(), cfg.DatabaseURL, command); err != nil {
		telemetry.Error("migrate.failed", map[string]any{"command": command, "error": err})
		os.Exit(1)
	}
}

func run(ctx context.Context, databaseURL, command string) error {
	var apply func(context.Context, *sql.DB) error
	switch command {
	case "up":
		apply = db.RunMigrations
	case "down":
		apply = db.RollbackMigration
	case "status":
		apply = db.MigrationStatus
	default:
		return fmt.Errorf("unknown command %q (want up, down or status)", command)
	}

	sqlDB, err := db.Connect(ctx, databaseURL, db.OptionsFromEnv(db.DefaultMigrateOptions()))
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer sqlDB.Close()

	return apply(ctx, sqlDB)
}
