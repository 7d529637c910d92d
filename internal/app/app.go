package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"irs-responder/internal/config"
	"irs-responder/internal/db"
)

type App struct {
	httpServer *http.Server
	cleanup    func() error
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	router, cleanup, err := setupHTTP(ctx, cfg)
	if err != nil {
		return nil, err
	}

	server := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &App{
		httpServer: server,
		cleanup:    cleanup,
	}, nil
}

func (a *App) Run() error {
	if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (a *App) Shutdown(ctx context.Context) error {
	if err := a.httpServer.Shutdown(ctx); err != nil {
		return err
	}
	if a.cleanup != nil {
		return a.cleanup()
	}
	return nil
}

// Migrate applies database migrations and exits without serving.
func Migrate(ctx context.Context, cfg config.Config) error {
	database, err := db.Open(ctx, db.Options{
		DSN:     cfg.DatabaseDSN,
		Retries: cfg.ConnectRetries,
		Backoff: cfg.ConnectBackoff,
	})
	if err != nil {
		return err
	}
	defer database.Close()

	return db.Migrate(ctx, database.DB)
}
