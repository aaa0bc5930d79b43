package cache_test

import (
	"sync"
	"testing"
	"time"

	"github.com/Vigneshforcecrm/dream-lease-nextjs/internal/cache"

	"github.com/stretchr/testify/assert"
)

// TestTTLCache_BasicOperations tests set, get and overwrite
func TestTTLCache_BasicOperations(t *testing.T) {
	// Arrange
	ttlCache := cache.NewTTLCache[string]("test", time.Minute, 30*time.Second)
	defer ttlCache.Stop()

	// Act
	ttlCache.Set("token", "first")
	ttlCache.Set("token", "second")
	value, exists := ttlCache.Get("token")

	// Assert
	assert.True(t, exists, "Key should exist in cache")
	assert.Equal(t, "second", value, "Retrieved value should be the latest one set")
	assert.Equal(t, 1, ttlCache.Size())
}

// TestTTLCache_MissingKeyReturnsZeroValue tests lookups of absent keys
func TestTTLCache_MissingKeyReturnsZeroValue(t *testing.T) {
	ttlCache := cache.NewTTLCache[*int]("test", time.Minute, 30*time.Second)
	defer ttlCache.Stop()

	value, exists := ttlCache.Get("missing")

	assert.False(t, exists, "Missing key should not exist")
	assert.Nil(t, value, "Missing key should return the zero value")
}

// TestTTLCache_Expiration tests that expired entries are hidden and swept
func TestTTLCache_Expiration(t *testing.T) {
	// Arrange
	ttlCache := cache.NewTTLCache[string]("test", 20*time.Millisecond, time.Hour)
	defer ttlCache.Stop()

	var evicted []string
	var mu sync.Mutex
	ttlCache.OnEvict(func(key string, value string) {
		mu.Lock()
		defer mu.Unlock()
		evicted = append(evicted, key+"="+value)
	})

	ttlCache.Set("short", "lived")

	// Act
	time.Sleep(40 * time.Millisecond)
	_, exists := ttlCache.Get("short")

	// Assert
	assert.False(t, exists, "Expired key should not be returned")
	assert.Equal(t, 1, ttlCache.Size(), "Expired entry stays until swept")
	assert.Equal(t, 0, ttlCache.ActiveSize())

	assert.Equal(t, 1, ttlCache.Sweep())
	assert.Equal(t, 0, ttlCache.Size())
	mu.Lock()
	assert.Equal(t, []string{"short=lived"}, evicted)
	mu.Unlock()
}

// TestTTLCache_Touch tests sliding expiry
func TestTTLCache_Touch(t *testing.T) {
	ttlCache := cache.NewTTLCache[int]("test", 60*time.Millisecond, time.Hour)
	defer ttlCache.Stop()

	ttlCache.Set("session", 1)
	time.Sleep(40 * time.Millisecond)
	assert.True(t, ttlCache.Touch("session"))

	time.Sleep(40 * time.Millisecond)
	value, exists := ttlCache.Get("session")
	assert.True(t, exists, "Touched entry should outlive the original TTL")
	assert.Equal(t, 1, value)

	assert.False(t, ttlCache.Touch("missing"))
}

// TestTTLCache_Delete tests explicit removal and the eviction callback
func TestTTLCache_Delete(t *testing.T) {
	ttlCache := cache.NewTTLCache[string]("test", time.Minute, time.Minute)
	defer ttlCache.Stop()

	var evictedKey string
	ttlCache.OnEvict(func(key string, _ string) { evictedKey = key })

	ttlCache.Set("gone", "soon")

	assert.True(t, ttlCache.Delete("gone"))
	assert.False(t, ttlCache.Delete("gone"))
	assert.Equal(t, "gone", evictedKey)

	_, exists := ttlCache.Get("gone")
	assert.False(t, exists)
}

// TestTTLCache_ClearAndStats tests bulk removal and statistics
func TestTTLCache_ClearAndStats(t *testing.T) {
	ttlCache := cache.NewTTLCache[string]("sessions", time.Minute, time.Minute)
	defer ttlCache.Stop()

	ttlCache.Set("a", "1")
	ttlCache.Set("b", "2")

	stats := ttlCache.GetStats()
	assert.Equal(t, "sessions", stats["cache"])
	assert.Equal(t, 2, stats["total_entries"])
	assert.Equal(t, 2, stats["active_entries"])
	assert.Equal(t, "1m0s", stats["ttl_duration"])

	ttlCache.Clear()
	assert.Equal(t, 0, ttlCache.Size())
}

// TestTTLCache_StopIsIdempotent tests repeated Stop calls
func TestTTLCache_StopIsIdempotent(t *testing.T) {
	ttlCache := cache.NewTTLCache[string]("test", time.Minute, time.Minute)

	assert.NotPanics(t, func() {
		ttlCache.Stop()
		ttlCache.Stop()
	})
}

// TestTTLCache_ConcurrentAccess tests the cache under parallel use
func TestTTLCache_ConcurrentAccess(t *testing.T) {
	ttlCache := cache.NewTTLCache[int]("test", time.Minute, time.Minute)
	defer ttlCache.Stop()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := string(rune('a' + n))
			ttlCache.Set(key, n)
			ttlCache.Get(key)
			ttlCache.Touch(key)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 20, ttlCache.ActiveSize())
}
