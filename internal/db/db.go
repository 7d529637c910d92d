package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/sethvargo/go-retry"

	"irs-responder/internal/logger"
)

// DB wraps the shared Postgres pool.
type DB struct {
	*sql.DB
}

type Options struct {
	DSN     string
	Retries int
	Backoff time.Duration
}

// Open opens a Postgres pool and waits for it to answer a ping.
func Open(ctx context.Context, opts Options) (*DB, error) {
	sqlDB, err := sql.Open("postgres", opts.DSN)
	if err != nil {
		return nil, fmt.Errorf("db: open: %w", err)
	}

	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	backoff := retry.WithMaxRetries(uint64(max(opts.Retries, 0)), retry.NewExponential(max(opts.Backoff, 10*time.Millisecond)))

	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := sqlDB.PingContext(ctx); err != nil {
			logger.Warn("database ping failed", map[string]any{
				"error": err.Error(),
			})
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("db: ping: %w", err)
	}

	return &DB{DB: sqlDB}, nil
}

// Healthcheck pings the database once.
func (d *DB) Healthcheck(ctx context.Context) error {
	return d.PingContext(ctx)
}
