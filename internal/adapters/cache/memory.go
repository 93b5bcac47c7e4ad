package cache

import (
	"context"
	"encoding/json"
	"sync"

	domainauth "github.com/sajilocms/sajilocms-go/internal/domain/auth"
	"github.com/sajilocms/sajilocms-go/internal/ports"
)

// MemoryCache is an in-memory credential cache for tests and ephemeral runs
// where nothing should survive the process.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]string
}

// NewMemoryCache creates an empty in-memory cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]string)}
}

func (c *MemoryCache) SaveIdentity(ctx context.Context, id domainauth.Identity) error {
	data, err := json.Marshal(id)
	if err != nil {
		return err
	}
	return c.Set(ctx, identityKey, string(data))
}

func (c *MemoryCache) LoadIdentity(ctx context.Context) (domainauth.Identity, error) {
	raw, err := c.Get(ctx, identityKey)
	if err != nil {
		return domainauth.Identity{}, err
	}
	var id domainauth.Identity
	if unmarshalErr := json.Unmarshal([]byte(raw), &id); unmarshalErr != nil {
		_ = c.Delete(ctx, identityKey)
		return domainauth.Identity{}, ports.ErrNotFound
	}
	return id, nil
}

func (c *MemoryCache) ClearIdentity(ctx context.Context) error {
	return c.Delete(ctx, identityKey)
}

func (c *MemoryCache) Set(_ context.Context, key, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
	return nil
}

func (c *MemoryCache) Get(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	val, ok := c.entries[key]
	if !ok {
		return "", ports.ErrNotFound
	}
	return val, nil
}

func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}

// SeedIdentityJSON stores a raw identity snapshot, valid or not. Tests use it
// to simulate corrupted durable-cache entries.
func (c *MemoryCache) SeedIdentityJSON(raw string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[identityKey] = raw
}
