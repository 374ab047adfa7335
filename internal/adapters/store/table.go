package store

import (
	"context"
	"hash/fnv"
	"sync"
	"time"

	"djboard/pkg/metrics"
)

// Table is an in-memory entity table keyed by string id. Point reads hit a
// hash map; List walks a treap index so iteration order is always ascending
// key order. One RWMutex guards the whole table: writers hold it for the
// full read-modify-write, so every operation is atomic and readers never
// observe a half-applied row.
type Table[T any] struct {
	name string
	mu   sync.RWMutex
	rows map[string]T
	keys *treap[string]
}

// NewTable constructs an empty table. The name labels metrics only.
func NewTable[T any](name string) *Table[T] {
	return &Table[T]{
		name: name,
		rows: make(map[string]T),
		keys: newTreap[string](func(a, b string) bool { return a < b }, keyPriority),
	}
}

// keyPriority hashes the key so the treap shape is deterministic for a given
// key set regardless of insertion order.
func keyPriority(k string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(k))
	return h.Sum64()
}

// Name returns the table name used in metrics labels.
func (t *Table[T]) Name() string {
	return t.name
}

// Put inserts or replaces the row stored under key.
func (t *Table[T]) Put(ctx context.Context, key string, v T) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreOpLatency(t.name, float64(time.Since(start).Milliseconds()))
	}()

	t.mu.Lock()
	if _, exists := t.rows[key]; !exists {
		t.keys.insert(key)
	}
	t.rows[key] = v
	size := len(t.rows)
	t.mu.Unlock()

	metrics.RecordStoreOp(t.name, "put")
	metrics.UpdateTableSize(t.name, size)
}

// Get returns the row stored under key, or ErrNotFound.
func (t *Table[T]) Get(ctx context.Context, key string) (T, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreOpLatency(t.name, float64(time.Since(start).Milliseconds()))
	}()

	t.mu.RLock()
	v, ok := t.rows[key]
	t.mu.RUnlock()

	metrics.RecordStoreOp(t.name, "get")
	if !ok {
		var zero T
		return zero, ErrNotFound
	}
	return v, nil
}

// Update applies fn to the row under key while holding the write lock, so
// check-then-mutate sequences (status transitions) have exactly one winner.
// When fn errors the row is left untouched. fn must not call back into the
// table.
func (t *Table[T]) Update(ctx context.Context, key string, fn func(T) (T, error)) (T, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreOpLatency(t.name, float64(time.Since(start).Milliseconds()))
	}()

	t.mu.Lock()
	defer t.mu.Unlock()

	metrics.RecordStoreOp(t.name, "update")
	v, ok := t.rows[key]
	if !ok {
		var zero T
		return zero, ErrNotFound
	}
	next, err := fn(v)
	if err != nil {
		var zero T
		return zero, err
	}
	t.rows[key] = next
	return next, nil
}

// Delete removes the row under key, or returns ErrNotFound.
func (t *Table[T]) Delete(ctx context.Context, key string) error {
	start := time.Now()
	defer func() {
		metrics.RecordStoreOpLatency(t.name, float64(time.Since(start).Milliseconds()))
	}()

	t.mu.Lock()
	_, ok := t.rows[key]
	if ok {
		delete(t.rows, key)
		t.keys.remove(key)
	}
	size := len(t.rows)
	t.mu.Unlock()

	metrics.RecordStoreOp(t.name, "delete")
	if !ok {
		return ErrNotFound
	}
	metrics.UpdateTableSize(t.name, size)
	return nil
}

// List returns a copy of every row in ascending key order.
func (t *Table[T]) List(ctx context.Context) []T {
	start := time.Now()
	defer func() {
		metrics.RecordStoreOpLatency(t.name, float64(time.Since(start).Milliseconds()))
	}()

	t.mu.RLock()
	out := make([]T, 0, len(t.rows))
	t.keys.ascend(func(k string) bool {
		out = append(out, t.rows[k])
		return true
	})
	t.mu.RUnlock()

	metrics.RecordStoreOp(t.name, "list")
	return out
}

// Count returns the number of rows.
func (t *Table[T]) Count(ctx context.Context) int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.rows)
}
