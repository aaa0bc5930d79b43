package cache

import (
	"log/slog"
	"sync"
	"time"
)

// Entry is a cached value with its expiry
type Entry[V any] struct {
	Value     V
	ExpiresAt time.Time
}

// TTLCache is a thread-safe map whose entries expire after a fixed TTL.
// Expired entries are invisible to Get and are swept by a background
// goroutine until Stop is called.
type TTLCache[V any] struct {
	name          string
	items         map[string]*Entry[V]
	mutex         sync.RWMutex
	ttl           time.Duration
	cleanupTicker *time.Ticker
	stopCleanup   chan struct{}
	stopOnce      sync.Once
	onEvict       func(key string, value V)
}

// NewTTLCache creates a cache and starts its cleanup loop
func NewTTLCache[V any](name string, ttl, cleanupInterval time.Duration) *TTLCache[V] {
	if cleanupInterval <= 0 {
		cleanupInterval = time.Minute
	}
	c := &TTLCache[V]{
		name:        name,
		items:       make(map[string]*Entry[V]),
		ttl:         ttl,
		stopCleanup: make(chan struct{}),
	}

	c.cleanupTicker = time.NewTicker(cleanupInterval)
	go c.cleanupExpiredEntries()

	slog.Info("TTL cache initialized",
		"cache", name,
		"ttl", ttl.String(),
		"cleanup_interval", cleanupInterval.String())

	return c
}

// OnEvict registers a callback run for entries removed by expiry or Delete.
// It runs without the cache lock held.
func (c *TTLCache[V]) OnEvict(fn func(key string, value V)) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.onEvict = fn
}

// TTL returns the configured time to live
func (c *TTLCache[V]) TTL() time.Duration {
	return c.ttl
}

// Set stores value under key for one TTL
func (c *TTLCache[V]) Set(key string, value V) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	expiresAt := time.Now().Add(c.ttl)
	c.items[key] = &Entry[V]{
		Value:     value,
		ExpiresAt: expiresAt,
	}

	slog.Debug("Cache entry set",
		"cache", c.name,
		"key", key,
		"expires_at", expiresAt.Format(time.RFC3339))
}

// Get returns the value for key if present and not expired
func (c *TTLCache[V]) Get(key string) (V, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	var zero V
	entry, exists := c.items[key]
	if !exists {
		return zero, false
	}

	if time.Now().After(entry.ExpiresAt) {
		slog.Debug("Cache entry expired", "cache", c.name, "key", key)
		return zero, false
	}

	return entry.Value, true
}

// Touch pushes the expiry of a live entry one TTL into the future
func (c *TTLCache[V]) Touch(key string) bool {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	entry, exists := c.items[key]
	now := time.Now()
	if !exists || now.After(entry.ExpiresAt) {
		return false
	}
	entry.ExpiresAt = now.Add(c.ttl)
	return true
}

// Delete removes key and reports whether it was present
func (c *TTLCache[V]) Delete(key string) bool {
	c.mutex.Lock()
	entry, exists := c.items[key]
	delete(c.items, key)
	onEvict := c.onEvict
	c.mutex.Unlock()

	if exists {
		slog.Debug("Cache entry deleted", "cache", c.name, "key", key)
		if onEvict != nil {
			onEvict(key, entry.Value)
		}
	}
	return exists
}

// Size returns the number of stored entries, expired ones included
func (c *TTLCache[V]) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.items)
}

// ActiveSize returns the number of live entries
func (c *TTLCache[V]) ActiveSize() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	now := time.Now()
	active := 0
	for _, entry := range c.items {
		if now.Before(entry.ExpiresAt) {
			active++
		}
	}
	return active
}

// Clear drops every entry without running the eviction callback
func (c *TTLCache[V]) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	removed := len(c.items)
	c.items = make(map[string]*Entry[V])

	slog.Info("Cache cleared", "cache", c.name, "removed_items", removed)
}

// Stop ends the cleanup loop. It is safe to call more than once.
func (c *TTLCache[V]) Stop() {
	c.stopOnce.Do(func() {
		c.cleanupTicker.Stop()
		close(c.stopCleanup)
		slog.Info("TTL cache stopped", "cache", c.name)
	})
}

func (c *TTLCache[V]) cleanupExpiredEntries() {
	for {
		select {
		case <-c.cleanupTicker.C:
			c.Sweep()
		case <-c.stopCleanup:
			return
		}
	}
}

// Sweep removes expired entries now and returns how many were removed
func (c *TTLCache[V]) Sweep() int {
	c.mutex.Lock()
	now := time.Now()
	expired := make(map[string]V)
	for key, entry := range c.items {
		if now.After(entry.ExpiresAt) {
			expired[key] = entry.Value
			delete(c.items, key)
		}
	}
	remaining := len(c.items)
	onEvict := c.onEvict
	c.mutex.Unlock()

	if len(expired) > 0 {
		slog.Debug("Cache cleanup completed",
			"cache", c.name,
			"expired_entries", len(expired),
			"remaining_entries", remaining)
	}
	if onEvict != nil {
		for key, value := range expired {
			onEvict(key, value)
		}
	}
	return len(expired)
}

// GetStats returns entry counts for status endpoints
func (c *TTLCache[V]) GetStats() map[string]interface{} {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	now := time.Now()
	active, expired := 0, 0
	for _, entry := range c.items {
		if now.Before(entry.ExpiresAt) {
			active++
		} else {
			expired++
		}
	}

	return map[string]interface{}{
		"cache":           c.name,
		"total_entries":   len(c.items),
		"active_entries":  active,
		"expired_entries": expired,
		"ttl_duration":    c.ttl.String(),
	}
}
