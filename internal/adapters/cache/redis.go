package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	domainauth "github.com/sajilocms/sajilocms-go/internal/domain/auth"
	"github.com/sajilocms/sajilocms-go/internal/ports"
)

// RedisCache is a Redis-backed credential cache for shared-terminal
// deployments (reception desks, pharmacy kiosks) where several client
// processes on one station must observe the same session snapshot.
type RedisCache struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// DefaultRedisTTL bounds how long a stale snapshot can outlive the session
// that produced it. The snapshot is advisory, never authoritative.
const DefaultRedisTTL = 24 * time.Hour

// NewRedisCache creates a Redis-backed cache with the default prefix and TTL.
func NewRedisCache(client redis.UniversalClient) *RedisCache {
	return NewRedisCacheWithPrefix(client, "sajilocms:cache:")
}

// NewRedisCacheWithPrefix creates a Redis cache with a custom key prefix.
func NewRedisCacheWithPrefix(client redis.UniversalClient, prefix string) *RedisCache {
	return &RedisCache{
		client: client,
		prefix: prefix,
		ttl:    DefaultRedisTTL,
	}
}

func (c *RedisCache) SaveIdentity(ctx context.Context, id domainauth.Identity) error {
	data, err := json.Marshal(id)
	if err != nil {
		return fmt.Errorf("marshal identity: %w", err)
	}
	return c.client.Set(ctx, c.prefix+identityKey, data, c.ttl).Err()
}

func (c *RedisCache) LoadIdentity(ctx context.Context) (domainauth.Identity, error) {
	data, err := c.client.Get(ctx, c.prefix+identityKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domainauth.Identity{}, ports.ErrNotFound
		}
		return domainauth.Identity{}, fmt.Errorf("redis get: %w", err)
	}

	var id domainauth.Identity
	if unmarshalErr := json.Unmarshal([]byte(data), &id); unmarshalErr != nil {
		if deleteErr := c.ClearIdentity(ctx); deleteErr != nil {
			return domainauth.Identity{}, fmt.Errorf("cleanup malformed snapshot: %w", deleteErr)
		}
		return domainauth.Identity{}, ports.ErrNotFound
	}
	return id, nil
}

func (c *RedisCache) ClearIdentity(ctx context.Context) error {
	return c.client.Del(ctx, c.prefix+identityKey).Err()
}

func (c *RedisCache) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return errors.New("cache key cannot be empty")
	}
	return c.client.Set(ctx, c.prefix+key, value, c.ttl).Err()
}

func (c *RedisCache) Get(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", ports.ErrNotFound
	}
	val, err := c.client.Get(ctx, c.prefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ports.ErrNotFound
		}
		return "", fmt.Errorf("redis get: %w", err)
	}
	return val, nil
}

func (c *RedisCache) Delete(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	return c.client.Del(ctx, c.prefix+key).Err()
}
