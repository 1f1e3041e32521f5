//go:build !integration

package service

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTTLCache_GetSet(t *testing.T) {
	c := NewTTLCache[string](4, time.Minute)
	defer c.Stop()

	_, ok := c.Get("missing")
	assert.False(t, ok)

	c.Set("k", "v")
	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, "v", got)

	c.Set("k", "v2")
	got, ok = c.Get("k")
	require.True(t, ok)
	assert.Equal(t, "v2", got)
}

func TestTTLCache_Expiration(t *testing.T) {
	c := NewTTLCache[int](4, 20*time.Millisecond)
	defer c.Stop()

	c.Set("k", 42)
	time.Sleep(150 * time.Millisecond)

	_, ok := c.Get("k")
	assert.False(t, ok)
}

func TestTTLCache_LRUEviction(t *testing.T) {
	c := NewTTLCache[int](2, time.Minute)
	defer c.Stop()

	c.Set("a", 1)
	c.Set("b", 2)

	// Touch "a" so "b" becomes the LRU victim.
	_, ok := c.Get("a")
	require.True(t, ok)

	c.Set("c", 3)

	_, ok = c.Get("b")
	assert.False(t, ok)
	_, ok = c.Get("a")
	assert.True(t, ok)
	_, ok = c.Get("c")
	assert.True(t, ok)
}

func TestTTLCache_InvalidateAndClear(t *testing.T) {
	c := NewTTLCache[int](4, time.Minute)
	defer c.Stop()

	c.Set("a", 1)
	c.Set("b", 2)

	c.Invalidate("a")
	_, ok := c.Get("a")
	assert.False(t, ok)
	_, ok = c.Get("b")
	assert.True(t, ok)

	c.Clear()
	_, ok = c.Get("b")
	assert.False(t, ok)
	assert.Zero(t, c.Metrics().Size)
}

func TestTTLCache_Metrics(t *testing.T) {
	c := NewTTLCache[int](4, time.Minute)
	defer c.Stop()

	c.Set("a", 1)
	_, _ = c.Get("a")
	_, _ = c.Get("missing")

	m := c.Metrics()
	assert.Equal(t, int64(1), m.Hits)
	assert.Equal(t, int64(1), m.Misses)
	assert.Equal(t, 1, m.Size)
	assert.Equal(t, 4, m.Capacity)
}

func TestShardedCache_GetSet(t *testing.T) {
	c := NewShardedCache[string](64, time.Minute, 4)
	defer c.Stop()

	for i := 0; i < 32; i++ {
		c.Set(fmt.Sprintf("key-%d", i), fmt.Sprintf("value-%d", i))
	}
	for i := 0; i < 32; i++ {
		got, ok := c.Get(fmt.Sprintf("key-%d", i))
		require.True(t, ok, "key-%d", i)
		assert.Equal(t, fmt.Sprintf("value-%d", i), got)
	}

	c.Invalidate("key-0")
	_, ok := c.Get("key-0")
	assert.False(t, ok)

	c.Clear()
	_, ok = c.Get("key-1")
	assert.False(t, ok)
}

func TestShardedCache_MetricsAggregate(t *testing.T) {
	c := NewShardedCache[int](64, time.Minute, 4)
	defer c.Stop()

	c.Set("a", 1)
	_, _ = c.Get("a")
	_, _ = c.Get("missing")

	m := c.Metrics()
	assert.Equal(t, int64(1), m.Hits)
	assert.Equal(t, int64(1), m.Misses)
	assert.Equal(t, 1, m.Size)
	// Aggregated capacity is the sum over all shards.
	assert.Equal(t, 64, m.Capacity)
}

func TestShardedCache_RoundsShardsToPowerOfTwo(t *testing.T) {
	c := NewShardedCache[int](60, time.Minute, 3)
	defer c.Stop()
	assert.Equal(t, 4, c.numShards)

	d := NewShardedCache[int](64, time.Minute, 0)
	defer d.Stop()
	assert.Equal(t, 16, d.numShards)
}

func TestShardedCache_ConcurrentAccess(t *testing.T) {
	c := NewShardedCache[int](256, time.Minute, 8)
	defer c.Stop()

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				key := fmt.Sprintf("key-%d-%d", g, i)
				c.Set(key, i)
				_, _ = c.Get(key)
			}
		}(g)
	}
	wg.Wait()
}
