package httputil

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"
)

// ErrExpired is returned by [Cache.Get] when an entry exists but is older
// than the TTL. The stale entry stays on disk until it is overwritten.
var ErrExpired = errors.New("cache entry expired")

// Cache stores JSON values as files named by the SHA-256 of their key.
//
// A Cache is not safe for concurrent use, but several instances may share
// a directory. A TTL of 0 disables expiry.
type Cache struct {
	dir    string
	ttl    time.Duration
	prefix string
}

// NewCache opens (creating if needed) a cache in dir. An empty dir selects
// ~/.cache/pinboard/http.
func NewCache(dir string, ttl time.Duration) (*Cache, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(home, ".cache", "pinboard", "http")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{dir: dir, ttl: ttl}, nil
}

// Dir returns the cache directory.
func (c *Cache) Dir() string { return c.dir }

// TTL returns the entry lifetime; 0 means entries never expire.
func (c *Cache) TTL() time.Duration { return c.ttl }

// Get decodes the entry for key into v.
//
// It returns (true, nil) on a hit, (false, nil) on a miss and
// (false, ErrExpired) for a stale entry. Any other error comes from the
// filesystem or from decoding.
func (c *Cache) Get(key string, v any) (bool, error) {
	path := c.keyPath(key)
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if c.ttl > 0 && time.Since(info.ModTime()) > c.ttl {
		return false, ErrExpired
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, err
	}
	return true, nil
}

// Set stores v under key, replacing any previous entry and resetting its
// age.
func (c *Cache) Set(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return os.WriteFile(c.keyPath(key), data, 0o644)
}

// Namespace returns a view of the cache whose keys are prefixed. Views
// share the directory and TTL, and prefixes accumulate when chained.
func (c *Cache) Namespace(prefix string) *Cache {
	return &Cache{dir: c.dir, ttl: c.ttl, prefix: c.prefix + prefix}
}

func (c *Cache) keyPath(key string) string {
	h := sha256.Sum256([]byte(c.prefix + key))
	return filepath.Join(c.dir, hex.EncodeToString(h[:]))
}
