package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"medguide/config"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// ErrNotConfigured is returned when REDIS_HOST is empty; callers fall back to process memory.
var ErrNotConfigured = errors.New("redis is not configured")

func NewRedisClient(cfg config.RedisConfig) (*redis.Client, error) {
	if cfg.Host == "" {
		return nil, ErrNotConfigured
	}

	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logrus.Info("Successfully connected to Redis")

	return client, nil
}
