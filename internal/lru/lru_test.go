package lru

import (
	"fmt"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RejectsZeroCapacity(t *testing.T) {
	_, err := New[int64](0)
	require.Error(t, err)
}

func TestGetPut_Basic(t *testing.T) {
	c, err := New[int64](4)
	require.NoError(t, err)

	_, ok := c.Get("missing")
	assert.False(t, ok)

	c.Put("a", 1)
	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, int64(1), v)
}

func TestPut_OverwritesExistingKey(t *testing.T) {
	c, err := New[int64](2)
	require.NoError(t, err)

	c.Put("a", 1)
	c.Put("a", 99)

	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, int64(99), v)
	assert.Equal(t, 1, c.Len())
}

func TestPut_EvictsLeastRecentlyUsed(t *testing.T) {
	c, err := New[int64](2)
	require.NoError(t, err)

	c.Put("a", 1)
	c.Put("b", 2)
	c.Put("c", 3) // evicts "a"

	_, ok := c.Get("a")
	assert.False(t, ok)
	_, ok = c.Get("b")
	assert.True(t, ok)
	_, ok = c.Get("c")
	assert.True(t, ok)
	assert.Equal(t, 2, c.Len())
}

func TestGet_RefreshesRecency(t *testing.T) {
	c, err := New[int64](2)
	require.NoError(t, err)

	c.Put("a", 1)
	c.Put("b", 2)

	// Touch "a" so "b" becomes the eviction candidate.
	_, ok := c.Get("a")
	require.True(t, ok)

	c.Put("c", 3)

	_, ok = c.Get("a")
	assert.True(t, ok, "recently used entry must survive eviction")
	_, ok = c.Get("b")
	assert.False(t, ok, "least recently used entry must be evicted")
}

func TestContains_NoRecencyEffect(t *testing.T) {
	c, err := New[int64](2)
	require.NoError(t, err)

	c.Put("a", 1)
	c.Put("b", 2)

	// A Contains probe on "a" must NOT protect it from eviction.
	assert.True(t, c.Contains("a"))

	c.Put("c", 3)

	assert.False(t, c.Contains("a"))
	assert.True(t, c.Contains("b"))
	assert.True(t, c.Contains("c"))
}

func TestGetAll_AllPresent(t *testing.T) {
	c, err := New[int64](4)
	require.NoError(t, err)

	c.Put("a", 1)
	c.Put("b", 2)

	values, ok := c.GetAll([]string{"a", "b", "a"})
	require.True(t, ok)
	assert.Equal(t, []int64{1, 2, 1}, values)
}

func TestGetAll_AnyMissing(t *testing.T) {
	c, err := New[int64](4)
	require.NoError(t, err)

	c.Put("a", 1)

	values, ok := c.GetAll([]string{"a", "b"})
	assert.False(t, ok)
	assert.Nil(t, values)
}

func TestGetAll_RefreshesRecency(t *testing.T) {
	c, err := New[int64](2)
	require.NoError(t, err)

	c.Put("a", 1)
	c.Put("b", 2)

	_, ok := c.GetAll([]string{"a"})
	require.True(t, ok)

	c.Put("c", 3) // "b" is now least recently used

	assert.True(t, c.Contains("a"))
	assert.False(t, c.Contains("b"))
}

func TestCapacityOne(t *testing.T) {
	c, err := New[int64](1)
	require.NoError(t, err)

	c.Put("a", 1)
	c.Put("b", 2)

	assert.False(t, c.Contains("a"))
	v, ok := c.Get("b")
	require.True(t, ok)
	assert.Equal(t, int64(2), v)
}

func TestStats(t *testing.T) {
	c, err := New[int64](2)
	require.NoError(t, err)

	c.Put("a", 1)
	c.Put("b", 2)
	c.Put("c", 3) // eviction
	c.Get("b")    // hit
	c.Get("a")    // miss (evicted)

	stats := c.Stats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.Equal(t, int64(3), stats.Puts)
	assert.Equal(t, int64(1), stats.Evictions)
	assert.Equal(t, 2, stats.Len)
	assert.Equal(t, 2, stats.Capacity)
	assert.InDelta(t, 0.5, stats.HitRate(), 1e-9)
}

func TestWithMetrics_RegistersCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := New[int64](2, WithMetrics(reg, "registrar"))
	require.NoError(t, err)

	c.Put("a", 1)
	c.Get("a")
	c.Get("b")

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestWithMetrics_DuplicateRegistrationFails(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := New[int64](2, WithMetrics(reg, "registrar"))
	require.NoError(t, err)

	_, err = New[int64](2, WithMetrics(reg, "registrar"))
	require.Error(t, err)
}

func TestConcurrentAccess(t *testing.T) {
	c, err := New[int64](64)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				key := fmt.Sprintf("key-%d", i%100)
				c.Put(key, int64(i))
				c.Get(key)
				c.Contains(key)
				c.GetAll([]string{key})
			}
		}(g)
	}
	wg.Wait()

	assert.LessOrEqual(t, c.Len(), 64)
}
