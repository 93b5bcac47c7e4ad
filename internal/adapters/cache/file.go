package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	domainauth "github.com/sajilocms/sajilocms-go/internal/domain/auth"
	"github.com/sajilocms/sajilocms-go/internal/ports"
)

// FileCache is a file-backed credential cache: one file per entry under a
// directory, JSON for the identity snapshot and raw text for auxiliary keys.
// It is the default durable cache for single-user installs.
type FileCache struct {
	dir string
}

// NewFileCache creates a file cache rooted at dir, creating it if needed.
func NewFileCache(dir string) (*FileCache, error) {
	if dir == "" {
		return nil, errors.New("cache directory cannot be empty")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}
	return &FileCache{dir: dir}, nil
}

func (c *FileCache) SaveIdentity(_ context.Context, id domainauth.Identity) error {
	data, err := json.Marshal(id)
	if err != nil {
		return fmt.Errorf("marshal identity: %w", err)
	}
	return c.write(identityKey, data)
}

func (c *FileCache) LoadIdentity(ctx context.Context) (domainauth.Identity, error) {
	data, err := c.read(identityKey)
	if err != nil {
		return domainauth.Identity{}, err
	}

	var id domainauth.Identity
	if unmarshalErr := json.Unmarshal(data, &id); unmarshalErr != nil {
		// Malformed snapshot: delete it and report absence.
		_ = c.ClearIdentity(ctx)
		return domainauth.Identity{}, ports.ErrNotFound
	}
	return id, nil
}

func (c *FileCache) ClearIdentity(_ context.Context) error {
	return c.remove(identityKey)
}

func (c *FileCache) Set(_ context.Context, key, value string) error {
	if err := validKey(key); err != nil {
		return err
	}
	return c.write(key, []byte(value))
}

func (c *FileCache) Get(_ context.Context, key string) (string, error) {
	if err := validKey(key); err != nil {
		return "", err
	}
	data, err := c.read(key)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (c *FileCache) Delete(_ context.Context, key string) error {
	if err := validKey(key); err != nil {
		return err
	}
	return c.remove(key)
}

func (c *FileCache) path(key string) string {
	return filepath.Join(c.dir, key+".json")
}

func (c *FileCache) write(key string, data []byte) error {
	tmp := c.path(key) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write cache entry: %w", err)
	}
	if err := os.Rename(tmp, c.path(key)); err != nil {
		return fmt.Errorf("commit cache entry: %w", err)
	}
	return nil
}

func (c *FileCache) read(key string) ([]byte, error) {
	data, err := os.ReadFile(c.path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ports.ErrNotFound
		}
		return nil, fmt.Errorf("read cache entry: %w", err)
	}
	return data, nil
}

func (c *FileCache) remove(key string) error {
	err := os.Remove(c.path(key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove cache entry: %w", err)
	}
	return nil
}

// validKey rejects keys that would escape the cache directory.
func validKey(key string) error {
	if key == "" {
		return errors.New("cache key cannot be empty")
	}
	if strings.ContainsAny(key, "/\\") || strings.Contains(key, "..") {
		return fmt.Errorf("invalid cache key %q", key)
	}
	return nil
}
