package lru

import "sync/atomic"

// Statistics tracks cache counters with atomic updates. It is always
// present; Prometheus metrics are layered on top only when requested.
type Statistics struct {
	hits      atomic.Int64
	misses    atomic.Int64
	puts      atomic.Int64
	evictions atomic.Int64
}

// NewStatistics creates a zeroed statistics tracker.
func NewStatistics() *Statistics {
	return &Statistics{}
}

// Hit records a cache hit.
func (s *Statistics) Hit() { s.hits.Add(1) }

// Miss records a cache miss.
func (s *Statistics) Miss() { s.misses.Add(1) }

// Put records an insert or overwrite.
func (s *Statistics) Put() { s.puts.Add(1) }

// Eviction records the removal of a least-recently-used entry.
func (s *Statistics) Eviction() { s.evictions.Add(1) }

// Stats is a point-in-time snapshot of cache counters and occupancy.
type Stats struct {
	Hits      int64
	Misses    int64
	Puts      int64
	Evictions int64
	Len       int
	Capacity  int
}

// HitRate returns hits / (hits + misses), or 0 when there were no lookups.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// Snapshot returns the current counter values. Len and Capacity are filled
// in by the cache, which owns that state.
func (s *Statistics) Snapshot() Stats {
	return Stats{
		Hits:      s.hits.Load(),
		Misses:    s.misses.Load(),
		Puts:      s.puts.Load(),
		Evictions: s.evictions.Load(),
	}
}
