// Package dedupe tracks idempotency keys for submission endpoints.
package dedupe

import (
	"context"
	"sync"
	"sync/atomic"

	"djboard/pkg/metrics"
)

// Tips and ratings must reach the aggregator at most once, and that
// guarantee sits with the caller, not the board. The tracker backs the
// Idempotency-Key header on the two submission endpoints: a client retry
// with a key already seen is rejected before anything is recorded.

const defaultCapacity = 50_000

// Tracker is a bounded set of recently seen keys. When the capacity is
// exceeded the oldest key is evicted, so a very old retry may slip past
// the guard; the bound trades that edge for a hard memory ceiling.
type Tracker struct {
	mu   sync.Mutex
	seen map[string]struct{}
	ring []string // insertion order, oldest at head
	head int
	max  int // capacity; zero or negative means unbounded
	size atomic.Int64
}

// NewTracker creates a tracker with configuration options.
func NewTracker(opts ...Option) *Tracker {
	t := &Tracker{max: defaultCapacity}
	for _, opt := range opts {
		opt(t)
	}
	t.seen = make(map[string]struct{})
	if t.max > 0 {
		t.ring = make([]string, 0, t.max)
	}
	return t
}

// SeenAndRecord atomically checks whether key was seen and records it if
// not. Returns true when the key was already seen.
func (t *Tracker) SeenAndRecord(ctx context.Context, key string) bool {
	t.mu.Lock()
	if _, ok := t.seen[key]; ok {
		t.mu.Unlock()
		metrics.RecordIdempotencyHit()
		return true
	}

	if t.max > 0 {
		if len(t.ring) < t.max {
			t.ring = append(t.ring, key)
		} else {
			// Overwrite the oldest slot. Its key may already be gone
			// via Unrecord, which delete tolerates.
			delete(t.seen, t.ring[t.head])
			t.ring[t.head] = key
			t.head = (t.head + 1) % t.max
		}
	}
	t.seen[key] = struct{}{}
	size := int64(len(t.seen))
	t.mu.Unlock()

	t.size.Store(size)
	metrics.UpdateIdempotencySize(size)
	return false
}

// Unrecord forgets a key so the submission can be retried. Used when a
// request was recorded but failed before reaching the store.
func (t *Tracker) Unrecord(ctx context.Context, key string) {
	t.mu.Lock()
	delete(t.seen, key)
	size := int64(len(t.seen))
	t.mu.Unlock()

	t.size.Store(size)
	metrics.UpdateIdempotencySize(size)
}

// Size returns the number of keys currently tracked.
func (t *Tracker) Size() int64 {
	return t.size.Load()
}
