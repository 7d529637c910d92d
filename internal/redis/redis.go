package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/sethvargo/go-retry"

	"irs-responder/internal/logger"
)

type Client struct {
	*goredis.Client
}

type Options struct {
	Addr     string
	Password string
	DB       int

	Retries int
	Backoff time.Duration
}

// New connects to Redis and retries the initial ping with exponential backoff.
func New(ctx context.Context, opts Options) (*Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	backoff := retry.WithMaxRetries(uint64(max(opts.Retries, 0)), retry.NewExponential(max(opts.Backoff, 10*time.Millisecond)))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()

		if err := client.Ping(pingCtx).Err(); err != nil {
			logger.Warn("redis ping failed", map[string]any{
				"addr":  opts.Addr,
				"error": err.Error(),
			})
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis: connect %s: %w", opts.Addr, err)
	}

	return &Client{Client: client}, nil
}

// Healthcheck pings Redis once.
func (c *Client) Healthcheck(ctx context.Context) error {
	return c.Ping(ctx).Err()
}
