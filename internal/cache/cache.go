package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ppiankov/credible/internal/model"
)

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key generates a namespaced cache key from an arbitrary identifier (usually a URL)
func Key(namespace, id string) string {
	hash := sha256.Sum256([]byte(id))
	return "credible:v1:" + namespace + ":" + hex.EncodeToString(hash[:])
}

// New builds the cache selected by cfg. Returns nil when caching is disabled.
func New(cfg model.CacheConfig) (Cache, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}

	switch strings.ToLower(cfg.Backend) {
	case "", "memory":
		return NewMemoryCache(ttl, 10*time.Minute), nil

	case "layered", "disk":
		dir := cfg.Dir
		if dir == "" {
			dir = defaultDir()
		}
		return NewLayeredCache(
			NewMemoryCache(ttl, 10*time.Minute),
			NewDiskCache(dir, ttl),
		), nil

	case "redis":
		if cfg.RedisURL == "" {
			return nil, fmt.Errorf("redis cache requires a URL (REDIS_URL)")
		}
		remote, err := NewRedisCache(cfg.RedisURL, ttl)
		if err != nil {
			return nil, err
		}
		return NewLayeredCache(NewMemoryCache(ttl, 10*time.Minute), remote), nil

	default:
		return nil, fmt.Errorf("unknown cache backend: %s (supported: memory, layered, redis)", cfg.Backend)
	}
}

func defaultDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "credible")
	}
	return filepath.Join(os.TempDir(), "credible-cache")
}
