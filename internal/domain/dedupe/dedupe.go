// Package dedupe tracks recently seen alert keys so repeated identical
// alerts can be suppressed.
package dedupe

import (
	"context"
	"sync"
	"sync/atomic"
)

// Deduper records seen keys to ensure at-most-once alerting per key while
// the key stays in the cache.
type Deduper interface {
	// SeenAndRecord atomically checks if key was seen and records it if not.
	// Returns true if key was already seen, false if it was newly recorded.
	SeenAndRecord(ctx context.Context, key string) bool

	// Unrecord removes a key from the seen set, allowing it to alert again.
	// Used when a recorded alert failed to publish.
	Unrecord(ctx context.Context, key string)

	Size() int64
}

// inMemoryDeduper implements Deduper with a bounded in-memory set.
// When the set is full the oldest recorded key is evicted first.
type inMemoryDeduper struct {
	mu      sync.Mutex
	seen    map[string]struct{}
	order   []string // insertion order for FIFO eviction; may hold tombstones
	maxSize int      // 0 or negative means unbounded
	size    atomic.Int64
}

// NewInMemoryDeduper creates a new in-memory deduper with configuration options.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{
		maxSize: 10000, // default max size
		seen:    make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// SeenAndRecord atomically checks if key was seen and records it if not.
func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[key]; ok {
		return true
	}

	if d.maxSize > 0 {
		for len(d.seen) >= d.maxSize {
			d.evictOldest()
		}
		d.order = append(d.order, key)
	}
	d.seen[key] = struct{}{}
	d.size.Add(1)
	return false
}

// Unrecord removes a key from the seen set. The insertion-order entry stays
// behind as a tombstone and is skipped during eviction.
func (d *inMemoryDeduper) Unrecord(_ context.Context, key string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[key]; ok {
		delete(d.seen, key)
		d.size.Add(-1)
	}
}

// evictOldest removes the oldest live key. Must be called with d.mu held.
func (d *inMemoryDeduper) evictOldest() {
	for len(d.order) > 0 {
		oldest := d.order[0]
		d.order = d.order[1:]
		if _, ok := d.seen[oldest]; ok {
			delete(d.seen, oldest)
			d.size.Add(-1)
			return
		}
		// Tombstone from Unrecord; keep scanning.
	}
}

// Size returns the current number of live entries.
func (d *inMemoryDeduper) Size() int64 {
	return d.size.Load()
}
