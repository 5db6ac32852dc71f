// Package cache wraps Redis with JSON get/set helpers. A nil *Cache is a
// valid no-op so callers never branch on whether caching is configured.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// ErrMiss is returned when the key is absent.
var ErrMiss = errors.New("cache miss")

type Cache struct {
	client *redis.Client
}

// New connects to Redis. An empty address returns a nil cache, which
// disables caching entirely.
func New(addr string) *Cache {
	if addr == "" {
		log.Warn().Msg("redis disabled, caching off")
		return nil
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Warn().Err(err).Msg("redis unreachable, caching off")
		return nil
	}
	log.Info().Str("addr", addr).Msg("redis connected")
	return &Cache{client: client}
}

// GetJSON unmarshals the cached value into dest. Returns ErrMiss when the
// key is absent or the cache is disabled.
func (c *Cache) GetJSON(ctx context.Context, key string, dest any) error {
	if c == nil {
		return ErrMiss
	}
	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrMiss
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}

// SetJSON stores a value with a TTL. Failures are logged, not returned;
// the cache is an optimization, never a source of truth.
func (c *Cache) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) {
	if c == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("cache marshal failed")
		return
	}
	if err := c.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		log.Error().Err(err).Str("key", key).Msg("cache set failed")
	}
}

// Delete drops a key, used to invalidate after writes.
func (c *Cache) Delete(ctx context.Context, key string) {
	if c == nil {
		return
	}
	if err := c.client.Del(ctx, key).Err(); err != nil {
		log.Error().Err(err).Str("key", key).Msg("cache delete failed")
	}
}

// Close releases the underlying client.
func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}
