// Package redis backs the author profile cache.
package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const pingTimeout = 5 * time.Second

// Config describes the cache server. Addr is either host:port or a
// redis:// / rediss:// URL; a URL's own password and db win over the fields.
type Config struct {
	Addr     string
	Password string
	DB       int
}

func (c Config) options() (*redis.Options, error) {
	if strings.Contains(c.Addr, "://") {
		opts, err := redis.ParseURL(c.Addr)
		if err != nil {
			return nil, fmt.Errorf("redis: parse url: %w", err)
		}
		if opts.Password == "" {
			opts.Password = c.Password
		}
		return opts, nil
	}
	return &redis.Options{
		Addr:     c.Addr,
		Password: c.Password,
		DB:       c.DB,
	}, nil
}

// Connect opens a client and pings it; a cache that cannot be reached at
// startup is a configuration error, not something to degrade around.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	opts, err := cfg.options()
	if err != nil {
		return nil, err
	}
	opts.DialTimeout = pingTimeout

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", opts.Addr, err)
	}

	return client, nil
}
