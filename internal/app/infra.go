package app

import (
	"context"
	"errors"

	"irs-responder/internal/config"
	"irs-responder/internal/db"
	"irs-responder/internal/logger"
	"irs-responder/internal/redis"
)

type Infra struct {
	DB    *db.DB
	Redis *redis.Client
}

func setupInfra(ctx context.Context, cfg config.Config) (*Infra, error) {
	database, err := db.Open(ctx, db.Options{
		DSN:     cfg.DatabaseDSN,
		Retries: cfg.ConnectRetries,
		Backoff: cfg.ConnectBackoff,
	})
	if err != nil {
		return nil, err
	}

	if err := db.Migrate(ctx, database.DB); err != nil {
		_ = database.Close()
		return nil, err
	}

	logger.Info("database ready", nil)

	redisClient, err := redis.New(ctx, redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
		Retries:  cfg.ConnectRetries,
		Backoff:  cfg.ConnectBackoff,
	})
	if err != nil {
		_ = database.Close()
		return nil, err
	}

	logger.Info("redis ready", map[string]any{
		"addr": cfg.RedisAddr,
	})

	return &Infra{
		DB:    database,
		Redis: redisClient,
	}, nil
}

func (i *Infra) Close() error {
	return errors.Join(i.Redis.Close(), i.DB.Close())
}
