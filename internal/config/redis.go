package config

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// ConnectRedis opens the optional redis cache client. Returns nil when no
// address is configured; callers treat a nil client as "cache disabled".
func ConnectRedis(cfg *Config) *redis.Client {
	if cfg.Redis.Addr == "" {
		logrus.Info("Redis not configured, read-side caching disabled")
		return nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		logrus.WithError(err).Warn("Redis unreachable, read-side caching disabled")
		return nil
	}

	logrus.WithField("addr", cfg.Redis.Addr).Info("✅ Redis connected")
	return rdb
}
