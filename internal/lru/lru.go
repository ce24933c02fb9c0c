package lru

import (
	"container/list"
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// entry is the payload stored in each list element.
type entry[V any] struct {
	key   string
	value V
}

// Cache is a thread-safe fixed-capacity LRU cache keyed by string.
type Cache[V any] struct {
	mu       sync.Mutex
	capacity int
	items    map[string]*list.Element // key -> list element
	order    *list.List               // front = most recently used
	stats    *Statistics
	metrics  *cacheMetrics // nil unless metrics were requested
}

// Option configures optional cache behaviour.
type Option func(*options)

type options struct {
	registerer prometheus.Registerer
	name       string
}

// WithMetrics exposes hit/miss/put/eviction counters and a size gauge on the
// given Prometheus registerer. The name labels the metrics so multiple
// caches in one process stay distinguishable.
func WithMetrics(reg prometheus.Registerer, name string) Option {
	return func(o *options) {
		o.registerer = reg
		o.name = name
	}
}

// New creates a cache holding at most capacity entries. Capacity must be at
// least 1; callers validate that before construction, so a smaller value is
// a programming error here.
func New[V any](capacity int, opts ...Option) (*Cache[V], error) {
	if capacity < 1 {
		return nil, fmt.Errorf("lru: capacity must be at least 1, got %d", capacity)
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	var metrics *cacheMetrics
	if o.registerer != nil {
		var err error
		metrics, err = newCacheMetrics(o.registerer, o.name)
		if err != nil {
			return nil, fmt.Errorf("lru: metrics registration: %w", err)
		}
	}

	return &Cache[V]{
		capacity: capacity,
		items:    make(map[string]*list.Element, capacity),
		order:    list.New(),
		stats:    NewStatistics(),
		metrics:  metrics,
	}, nil
}

// Get returns the value for key and refreshes its recency.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	element, ok := c.items[key]
	if !ok {
		var zero V
		c.stats.Miss()
		if c.metrics != nil {
			c.metrics.recordMiss()
		}
		return zero, false
	}

	c.order.MoveToFront(element)
	c.stats.Hit()
	if c.metrics != nil {
		c.metrics.recordHit()
	}
	return element.Value.(*entry[V]).value, true
}

// GetAll returns the values for all keys, refreshing each key's recency
// once, but only if every key is present; if any key is missing it returns
// (nil, false) without touching recency at all. The whole check runs in one
// critical section, so a concurrent eviction cannot invalidate a positive
// membership check before the values are read.
func (c *Cache[V]) GetAll(keys []string) ([]V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, key := range keys {
		if _, ok := c.items[key]; !ok {
			c.stats.Miss()
			if c.metrics != nil {
				c.metrics.recordMiss()
			}
			return nil, false
		}
	}

	values := make([]V, len(keys))
	for i, key := range keys {
		element := c.items[key]
		c.order.MoveToFront(element)
		values[i] = element.Value.(*entry[V]).value
		c.stats.Hit()
		if c.metrics != nil {
			c.metrics.recordHit()
		}
	}
	return values, true
}

// Contains reports whether key is cached. It has no recency side effect, so
// membership probes do not skew eviction order.
func (c *Cache[V]) Contains(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, ok := c.items[key]
	return ok
}

// Put inserts or overwrites the value for key, making it most recently
// used. When the key is new and the cache is full, the least-recently-used
// entry is evicted first.
func (c *Cache[V]) Put(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if element, ok := c.items[key]; ok {
		element.Value.(*entry[V]).value = value
		c.order.MoveToFront(element)
		c.stats.Put()
		if c.metrics != nil {
			c.metrics.recordPut(len(c.items))
		}
		return
	}

	if len(c.items) >= c.capacity {
		c.evictOldest()
	}

	c.items[key] = c.order.PushFront(&entry[V]{key: key, value: value})
	c.stats.Put()
	if c.metrics != nil {
		c.metrics.recordPut(len(c.items))
	}
}

// evictOldest removes the back of the recency list. Caller holds the lock.
func (c *Cache[V]) evictOldest() {
	oldest := c.order.Back()
	if oldest == nil {
		return
	}
	c.order.Remove(oldest)
	delete(c.items, oldest.Value.(*entry[V]).key)
	c.stats.Eviction()
	if c.metrics != nil {
		c.metrics.recordEviction(len(c.items))
	}
}

// Len returns the current number of entries.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Capacity returns the fixed capacity the cache was constructed with.
func (c *Cache[V]) Capacity() int {
	return c.capacity
}

// Stats returns a snapshot of the cache counters.
func (c *Cache[V]) Stats() Stats {
	c.mu.Lock()
	length := len(c.items)
	c.mu.Unlock()

	snapshot := c.stats.Snapshot()
	snapshot.Len = length
	snapshot.Capacity = c.capacity
	return snapshot
}
