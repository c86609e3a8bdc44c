package pricing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Simplici0/fabrica/internal/catalog"
)

const DefaultRedisKey = "fabrica:pricing-factor:active"

// RedisCache shares the active pricing factor between server instances, so an
// activation on one instance is seen by all of them after Invalidate.
type RedisCache struct {
	client redis.Cmdable
	key    string
}

func NewRedisCache(client redis.Cmdable, key string) *RedisCache {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisCache{client: client, key: key}
}

// ConnectRedis opens a client and checks the connection.
func ConnectRedis(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

func (c *RedisCache) Get(ctx context.Context) (catalog.PricingFactor, bool, error) {
	raw, err := c.client.Get(ctx, c.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return catalog.PricingFactor{}, false, nil
	}
	if err != nil {
		return catalog.PricingFactor{}, false, fmt.Errorf("redis get %s: %w", c.key, err)
	}

	var p catalog.PricingFactor
	if err := json.Unmarshal(raw, &p); err != nil {
		return catalog.PricingFactor{}, false, fmt.Errorf("decode cached pricing factor: %w", err)
	}
	return p, true, nil
}

func (c *RedisCache) Set(ctx context.Context, p catalog.PricingFactor, ttl time.Duration) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode pricing factor: %w", err)
	}
	if err := c.client.Set(ctx, c.key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", c.key, err)
	}
	return nil
}

func (c *RedisCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, c.key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", c.key, err)
	}
	return nil
}
