package dynamic

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
)

// ProgramCache stores compiled programs keyed by source fingerprint.
type ProgramCache interface {
	Get(key string) (any, bool)
	Set(key string, value any)
}

// MemoryCache is a bounded ProgramCache. When full it is cleared before the
// next insert, which keeps memory flat without tracking recency.
type MemoryCache struct {
	mu      sync.RWMutex
	max     int
	entries map[string]any
}

// NewMemoryCache returns a cache holding at most max programs. A max of zero
// or less means unbounded.
func NewMemoryCache(max int) *MemoryCache {
	return &MemoryCache{
		max:     max,
		entries: map[string]any{},
	}
}

// Get implements ProgramCache.
func (c *MemoryCache) Get(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	value, ok := c.entries[key]
	return value, ok
}

// Set implements ProgramCache.
func (c *MemoryCache) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.entries[key]; !exists && c.max > 0 && len(c.entries) >= c.max {
		clear(c.entries)
	}
	c.entries[key] = value
}

// Len returns the number of cached programs.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Fingerprint identifies component source by its SHA-256 digest.
func Fingerprint(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}

// ShortFingerprint trims a fingerprint for logs.
func ShortFingerprint(fingerprint string) string {
	if len(fingerprint) > 12 {
		return fingerprint[:12]
	}
	if fingerprint == "" {
		return "<none>"
	}
	return fingerprint
}
