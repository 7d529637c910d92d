package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"irs-responder/internal/app"
	"irs-responder/internal/config"
	"irs-responder/internal/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "irs-responder",
		Short:         "Draft responses to IRS notices",
		SilenceUsage: true,
	}
	root.AddCommand(newServeCmd(), newMigrateCmd())
	return root
}

// setup loads config and initializes the global logger.
func setup() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	if err := logger.Init(cfg.LogLevel); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := setup()
			if err != nil {
				return err
			}
			defer logger.Sync()

			ctx, stop := signal.NotifyContext(
				cmd.Context(),
				os.Interrupt,
				syscall.SIGTERM,
			)
			defer stop()

			application, err := app.New(ctx, cfg)
			if err != nil {
				logger.Error("failed to initialize app", map[string]any{
					"error": err.Error(),
				})
				return err
			}

			go func() {
				if err := application.Run(); err != nil {
					logger.Fatal("http server failed", map[string]any{
						"error": err.Error(),
					})
				}
			}()

			logger.Info("irs-responder started", map[string]any{
				"port": cfg.AppPort,
			})

			<-ctx.Done()

			logger.Info("shutdown signal received", nil)

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			if err := application.Shutdown(shutdownCtx); err != nil {
				logger.Error("graceful shutdown failed", map[string]any{
					"error": err.Error(),
				})
				return err
			}

			logger.Info("irs-responder stopped cleanly", nil)
			return nil
		},
	}
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := setup()
			if err != nil {
				return err
			}
			defer logger.Sync()

			if err := app.Migrate(cmd.Context(), cfg); err != nil {
				logger.Error("migration failed", map[string]any{
					"error": err.Error(),
				})
				return err
			}

			logger.Info("migrations applied", nil)
			return nil
		},
	}
}
