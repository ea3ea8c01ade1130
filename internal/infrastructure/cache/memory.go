package cache

import (
	"context"
	"sync"
	"time"

	"github.com/nutriscope/backend/internal/domain"
)

// cacheItem represents a single parsed table in the cache with expiration
type cacheItem struct {
	Table      *domain.DatasetTable
	Expiration time.Time
}

// MemoryCache is a thread-safe in-memory cache of parsed dataset tables with
// TTL support. Stored tables are shared between concurrent snapshots and
// must be treated as immutable by every reader.
type MemoryCache struct {
	data  map[string]cacheItem
	mutex sync.RWMutex
}

// NewMemoryCache creates a new in-memory table cache
func NewMemoryCache() *MemoryCache {
	cache := &MemoryCache{
		data: make(map[string]cacheItem),
	}

	// Start cleanup goroutine to remove expired entries every 10 minutes
	go cache.cleanupExpired()

	return cache
}

// Get retrieves a parsed table from the cache
func (c *MemoryCache) Get(ctx context.Context, key string) (*domain.DatasetTable, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	item, exists := c.data[key]
	if !exists {
		return nil, domain.ErrCacheMiss
	}

	// Check if expired
	if time.Now().After(item.Expiration) {
		return nil, domain.ErrCacheMiss
	}

	return item.Table, nil
}

// Set stores a parsed table in the cache with TTL
func (c *MemoryCache) Set(ctx context.Context, key string, table *domain.DatasetTable, ttl time.Duration) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.data[key] = cacheItem{
		Table:      table,
		Expiration: time.Now().Add(ttl),
	}

	return nil
}

// Delete removes a table from the cache
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	delete(c.data, key)
	return nil
}

// cleanupExpired removes expired entries from the cache periodically
func (c *MemoryCache) cleanupExpired() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		c.mutex.Lock()
		now := time.Now()
		for key, item := range c.data {
			if now.After(item.Expiration) {
				delete(c.data, key)
			}
		}
		c.mutex.Unlock()
	}
}

// Size returns the current number of items in the cache (for debugging/monitoring)
func (c *MemoryCache) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.data)
}

// Clear removes all items from the cache
func (c *MemoryCache) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.data = make(map[string]cacheItem)
}
