package redis

import (
	"context"
	"fmt"

	"github.com/eaglebank/ledger-service/internal/config"
	"github.com/redis/go-redis/v9"
)

type Client struct {
	*redis.Client
}

// NewClient connects with the pool settings from cfg and pings before
// returning. The ping is bounded by the dial timeout when one is set.
func NewClient(ctx context.Context, cfg *config.Config) (*Client, error) {
	rdb := redis.NewClient(clientOptions(cfg))

	pingCtx, cancel := ctx, context.CancelFunc(func() {})
	if cfg.RedisDialTimeout > 0 {
		pingCtx, cancel = context.WithTimeout(ctx, cfg.RedisDialTimeout)
	}
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.RedisAddr, err)
	}
	return &Client{Client: rdb}, nil
}

func clientOptions(cfg *config.Config) *redis.Options {
	return &redis.Options{
		Addr:         cfg.RedisAddr,
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		PoolSize:     cfg.RedisPoolSize,
		DialTimeout:  cfg.RedisDialTimeout,
		ReadTimeout:  cfg.RedisReadTimeout,
		WriteTimeout: cfg.RedisWriteTimeout,
	}
}
