// Copyright (c) 2025 SceneForge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"
)

// DefaultTTL is how long cached generations stay valid.
const DefaultTTL = 24 * time.Hour

// DefaultMaxSize bounds the number of in-memory entries.
const DefaultMaxSize = 512

// Store is the lookup surface used by the generation path.
type Store interface {
	// Get returns the cached code for a prompt, or ok=false on a miss.
	Get(prompt string) (code string, ok bool)

	// Put stores generated code for a prompt.
	Put(prompt string, code string) error

	// Close releases any resources held by the store.
	Close() error
}

// Key returns the cache key for a prompt: a SHA-256 hex digest, so prompts
// of any length map to fixed-size keys and raw prompt text never appears in
// storage.
func Key(prompt string) string {
	h := sha256.Sum256([]byte(prompt))
	return hex.EncodeToString(h[:])
}

// entry is a single cached generation.
type entry struct {
	code      string
	expiresAt time.Time
}

// MemoryCache is a bounded, TTL-expiring, mutex-guarded cache.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]entry
	order   []string // insertion order, oldest first
	ttl     time.Duration
	maxSize int

	// now is swappable for tests.
	now func() time.Time
}

// NewMemoryCache creates a cache with the given TTL and size bound.
// Non-positive values fall back to the defaults.
func NewMemoryCache(ttl time.Duration, maxSize int) *MemoryCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	return &MemoryCache{
		entries: make(map[string]entry),
		ttl:     ttl,
		maxSize: maxSize,
		now:     time.Now,
	}
}

// Get returns the cached code for a prompt, or ok=false on a miss or an
// expired entry. Expired entries are removed on access.
func (c *MemoryCache) Get(prompt string) (string, bool) {
	key := Key(prompt)

	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return "", false
	}
	if c.now().After(e.expiresAt) {
		delete(c.entries, key)
		return "", false
	}
	return e.code, true
}

// Put stores generated code for a prompt, evicting the oldest entry when the
// cache is full.
func (c *MemoryCache) Put(prompt string, code string) error {
	key := Key(prompt)

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists {
		for len(c.entries) >= c.maxSize && len(c.order) > 0 {
			oldest := c.order[0]
			c.order = c.order[1:]
			delete(c.entries, oldest)
		}
		c.order = append(c.order, key)
	}

	c.entries[key] = entry{
		code:      code,
		expiresAt: c.now().Add(c.ttl),
	}
	return nil
}

// Len returns the number of entries, including any not yet expired-on-access.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Close implements Store. It is a no-op for the in-memory cache.
func (c *MemoryCache) Close() error {
	return nil
}

// Disabled is a Store that never hits and discards writes. Used when caching
// is turned off in the configuration.
type Disabled struct{}

// Get always misses.
func (Disabled) Get(string) (string, bool) { return "", false }

// Put discards the value.
func (Disabled) Put(string, string) error { return nil }

// Close is a no-op.
func (Disabled) Close() error { return nil }
