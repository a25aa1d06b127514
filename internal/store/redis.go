package store

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/capture-moments/backend/internal/config"
	"github.com/capture-moments/backend/internal/models"
)

// NewRedisClient opens the session store client and requires a PONG within
// the connect timeout. Startup treats a silent Redis like a missing one.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(redisOptions(cfg))

	ctx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w: %v", cfg.Addr, models.ErrBackendUnavailable, err)
	}
	return rdb, nil
}

func redisOptions(cfg config.RedisConfig) *redis.Options {
	return &redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		DialTimeout:  cfg.ConnectTimeout,
		ReadTimeout:  cfg.OpTimeout,
		WriteTimeout: cfg.OpTimeout,
	}
}
