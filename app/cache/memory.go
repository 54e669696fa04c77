package cache

import (
	"context"
	"strings"
	"sync"
	"time"
)

var _ Cache = (*MemoryCache)(nil)

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryCache is a process-local cache used when no redis address is configured
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false, nil
	}

	if c.now().After(entry.expiresAt) {
		c.mu.Lock()
		// the entry may have been replaced since the read lock was released
		if current, ok := c.entries[key]; ok && !c.now().Before(current.expiresAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return nil, false, nil
	}

	return entry.value, true, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	stored := make([]byte, len(value))
	copy(stored, value)

	c.mu.Lock()
	c.entries[key] = memoryEntry{value: stored, expiresAt: c.now().Add(ttl)}
	c.mu.Unlock()
	return nil
}

func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
	return nil
}

// Flush removes every snapshot entry
func (c *MemoryCache) Flush(_ context.Context) error {
	c.mu.Lock()
	for key := range c.entries {
		if strings.HasPrefix(key, keyPrefix) {
			delete(c.entries, key)
		}
	}
	c.mu.Unlock()
	return nil
}

func (c *MemoryCache) Health(_ context.Context) map[string]any {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return map[string]any{
		"status":    "healthy",
		"type":      "memory",
		"key_count": len(c.entries),
	}
}

func (c *MemoryCache) Close() error {
	return nil
}
