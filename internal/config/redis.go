package config

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisConfig struct {
	Host         string
	Port         string
	Password     string
	DB           int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	EventChannel string
}

func DefaultRedisConfig() *RedisConfig {
	return &RedisConfig{
		Host:         getEnvWithDefault("REDIS_HOST", "localhost"),
		Port:         getEnvWithDefault("REDIS_PORT", "6379"),
		Password:     getEnvWithDefault("REDIS_PASSWORD", ""),
		DB:           getEnvIntWithDefault("REDIS_DB", 0),
		DialTimeout:  getEnvDurationWithDefault("REDIS_DIAL_TIMEOUT", 5*time.Second),
		ReadTimeout:  getEnvDurationWithDefault("REDIS_READ_TIMEOUT", 3*time.Second),
		EventChannel: getEnvWithDefault("REDIS_GUARD_EVENT_CHANNEL", "tenant_guard_events"),
	}
}

func (c *RedisConfig) GetClient() (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:        fmt.Sprintf("%s:%s", c.Host, c.Port),
		Password:    c.Password,
		DB:          c.DB,
		DialTimeout: c.DialTimeout,
		ReadTimeout: c.ReadTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), c.DialTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return client, nil
}
