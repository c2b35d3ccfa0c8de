// Package redis connects the service to Redis, which holds idempotency
// keys, the exchange rate cache and the optional event stream.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config tunes the connection. Zero values keep the go-redis defaults, and
// pool or timeout parameters in URL take precedence over the fields.
type Config struct {
	URL          string
	ClientName   string
	PoolSize     int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// NewClient creates a Redis client and checks that the server answers.
func NewClient(ctx context.Context, cfg Config) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	if cfg.ClientName != "" && opts.ClientName == "" {
		opts.ClientName = cfg.ClientName
	}
	if cfg.PoolSize > 0 && opts.PoolSize == 0 {
		opts.PoolSize = cfg.PoolSize
	}
	if cfg.DialTimeout > 0 && opts.DialTimeout == 0 {
		opts.DialTimeout = cfg.DialTimeout
	}
	if cfg.ReadTimeout > 0 && opts.ReadTimeout == 0 {
		opts.ReadTimeout = cfg.ReadTimeout
	}
	if cfg.WriteTimeout > 0 && opts.WriteTimeout == 0 {
		opts.WriteTimeout = cfg.WriteTimeout
	}

	client := redis.NewClient(opts)

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return client, nil
}
