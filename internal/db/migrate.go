package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"

	"irs-responder/internal/logger"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Migrate applies every pending migration.
func Migrate(ctx context.Context, db *sql.DB) error {
	fsys, err := fs.Sub(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("db: migrations fs: %w", err)
	}

	provider, err := goose.NewProvider(goose.DialectPostgres, db, fsys,
		goose.WithVerbose(false),
	)
	if err != nil {
		return fmt.Errorf("db: migration provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("db: migrate up: %w", err)
	}

	for _, r := range results {
		logger.Info("migration applied", map[string]any{
			"version":     r.Source.Version,
			"duration_ms": r.Duration.Milliseconds(),
		})
	}
	return nil
}
