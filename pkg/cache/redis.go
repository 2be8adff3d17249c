// Package cache remembers which payment processor events were fully processed,
// so redeliveries can be acknowledged without touching the database.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golocal-spaces/pkg/utils"

	"github.com/redis/go-redis/v9"
)

const eventKeyPrefix = "webhook:event:"

// EventCache is a fast path only. Correctness never depends on it: a miss falls
// through to the idempotent database transition.
type EventCache interface {
	Seen(ctx context.Context, eventID string) (bool, error)
	Remember(ctx context.Context, eventID string) error
	Close() error
}

type redisEventCache struct {
	client *redis.Client
	ttl    time.Duration
}

// InitRedis connects and pings. An empty address returns a no-op cache.
func InitRedis(ctx context.Context, config utils.RedisConfig) (EventCache, error) {
	if config.Addr == "" {
		return NopEventCache{}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", config.Addr, err)
	}

	return NewRedisEventCache(client, config.EventTTL), nil
}

func NewRedisEventCache(client *redis.Client, ttl time.Duration) EventCache {
	return &redisEventCache{client: client, ttl: ttl}
}

func (c *redisEventCache) Seen(ctx context.Context, eventID string) (bool, error) {
	err := c.client.Get(ctx, eventKeyPrefix+eventID).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get event %s: %w", eventID, err)
	}
	return true, nil
}

func (c *redisEventCache) Remember(ctx context.Context, eventID string) error {
	if err := c.client.Set(ctx, eventKeyPrefix+eventID, "1", c.ttl).Err(); err != nil {
		return fmt.Errorf("set event %s: %w", eventID, err)
	}
	return nil
}

func (c *redisEventCache) Close() error {
	return c.client.Close()
}

// NopEventCache never reports an event as seen.
type NopEventCache struct{}

func (NopEventCache) Seen(context.Context, string) (bool, error) { return false, nil }
func (NopEventCache) Remember(context.Context, string) error     { return nil }
func (NopEventCache) Close() error                               { return nil }
