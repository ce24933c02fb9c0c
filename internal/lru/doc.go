// Package lru provides the bounded, recency-ordered cache that fronts the
// registration store.
//
// The cache is a fixed-capacity map from canonical key to a value, evicting
// the least-recently-used entry when a new key would exceed capacity. It is
// a non-authoritative accelerant: the store owns the durable mapping, and a
// stale or evicted entry only costs an extra store round trip.
//
// All operations take a single mutex; the structure is small and every
// operation is O(1) amortized, so fine-grained locking buys nothing.
// Contains deliberately has no recency side effect, and GetAll performs an
// all-or-nothing batch lookup in one critical section so callers can probe
// "is the whole batch cached" without a check-then-fetch window.
package lru
