package config

import (
	"fmt"
	"strings"
)

// CacheBackend selects where the durable credential snapshot lives.
type CacheBackend string

const (
	// CacheBackendFile stores the snapshot in a directory on disk. The
	// default for single-user installs.
	CacheBackendFile CacheBackend = "file"
	// CacheBackendRedis stores the snapshot in Redis, for kiosk and
	// shared-terminal deployments where sessions roam between machines.
	CacheBackendRedis CacheBackend = "redis"
	// CacheBackendMemory keeps the snapshot in process memory only.
	CacheBackendMemory CacheBackend = "memory"
)

// UnmarshalText implements encoding.TextUnmarshaler for CacheBackend.
func (b *CacheBackend) UnmarshalText(text []byte) error {
	v := strings.ToLower(string(text))
	switch v {
	case "file", "redis", "memory":
		*b = CacheBackend(v)
		return nil
	default:
		return fmt.Errorf("invalid CacheBackend: %q (valid options: file, redis, memory)", v)
	}
}

// RedisCacheConfig contains the Redis connection for the redis cache backend.
type RedisCacheConfig struct {
	Addr     string `env:"ADDR"     envDefault:"localhost:6379"`
	Password string `env:"PASSWORD" envDefault:""`
	DB       int    `env:"DB"       envDefault:"0"`
	Prefix   string `env:"PREFIX"   envDefault:"sajilocms:cache:"`
}

// CacheConfig contains the durable credential cache configuration.
type CacheConfig struct {
	Backend CacheBackend `env:"BACKEND" envDefault:"file"`

	// Dir is the on-disk location for the file backend. Empty means a
	// "sajilocms" directory under the user config dir.
	Dir string `env:"DIR"`

	Redis RedisCacheConfig `envPrefix:"REDIS_"`
}

// Sanitize normalises the cache configuration.
func (c *CacheConfig) Sanitize() {
	if c.Backend == "" {
		c.Backend = CacheBackendFile
	}
	c.Dir = strings.TrimSpace(c.Dir)
	if strings.TrimSpace(c.Redis.Prefix) == "" {
		c.Redis.Prefix = "sajilocms:cache:"
	}
}
