// Package board maintains the per-DJ leaderboard aggregates.
package board

import (
	"context"
	"hash/fnv"
	"sync"
	"time"

	"djboard/internal/adapters/store"
	"djboard/pkg/metrics"
)

// Ordering: total tips DESC, then average rating DESC, then DJ id ASC.
// The comparator makes "less" mean ranks earlier, so an in-order walk of
// the index yields the leaderboard from best to worst.

// microScale carries averages in the rank key as integer micro-units, so
// tie-breaking never depends on float comparison.
const microScale = 1_000_000

// Entry is one DJ's running totals. Counters only grow; entries are never
// removed. AvgRating always equals TotalRatingPoints / TotalRatings under
// real division unless the truncating compatibility mode is on.
type Entry struct {
	DJID              string
	DJName            string // denormalized display name
	TotalTips         uint64
	TotalRatings      uint64
	TotalRatingPoints uint64
	AvgRating         float64
	UpdatedAt         time.Time
}

// rankKey is the index key. Averages are pre-scaled to micro-units; two
// averages closer than 1e-6 collapse into the id tie-breaker.
type rankKey struct {
	tips     uint64
	avgMicro uint64
	id       string
}

func rankBefore(a, b rankKey) bool {
	if a.tips != b.tips {
		return a.tips > b.tips
	}
	if a.avgMicro != b.avgMicro {
		return a.avgMicro > b.avgMicro
	}
	return a.id < b.id
}

// rankPriority hashes the id rather than the totals: the priority must not
// change when an entry is deleted and reinserted with new totals, and the
// hash keeps the tree balanced when many entries share a tip total.
func rankPriority(k rankKey) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(k.id))
	return h.Sum64()
}

// Board is the aggregate store. One RWMutex guards the whole board: apply
// operations hold the write lock for their complete read-modify-write, and
// queries copy entries under the read lock, so callers never observe a
// half-updated entry and concurrent applies cannot lose updates.
type Board struct {
	mu       sync.RWMutex
	entries  map[string]Entry
	order    *store.Index[rankKey]
	truncate bool
	now      func() time.Time
}

// New constructs an empty board.
func New(opts ...Option) *Board {
	b := &Board{
		entries: make(map[string]Entry),
		order:   store.NewIndex(rankBefore, rankPriority),
		now:     func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Board) key(e Entry) rankKey {
	return rankKey{tips: e.TotalTips, avgMicro: b.avgMicro(e), id: e.DJID}
}

func (b *Board) avgMicro(e Entry) uint64 {
	if e.TotalRatings == 0 {
		return 0
	}
	if b.truncate {
		// The stored average is a whole number in this mode.
		return uint64(e.AvgRating) * microScale
	}
	return e.TotalRatingPoints * microScale / e.TotalRatings
}

// ApplyTip adds a settled tip amount to the DJ's totals, creating the entry
// on first contact. Inputs are validated upstream and the caller guarantees
// at-most-once application per tip, so there is no error path here.
func (b *Board) ApplyTip(ctx context.Context, djID, djName string, amount uint64) Entry {
	start := time.Now()
	defer func() {
		metrics.RecordBoardUpdateLatency(float64(time.Since(start).Milliseconds()))
	}()

	b.mu.Lock()
	e, ok := b.entries[djID]
	if ok {
		b.order.Remove(b.key(e))
	} else {
		e = Entry{DJID: djID}
	}
	e.DJName = djName
	e.TotalTips += amount
	e.UpdatedAt = b.now()
	b.entries[djID] = e
	b.order.Insert(b.key(e))
	size := len(b.entries)
	b.mu.Unlock()

	metrics.RecordTipApplied()
	metrics.UpdateBoardEntries(size)
	return e
}

// ApplyRating folds one 1..5 star rating into the DJ's totals, creating the
// entry on first contact. Same contract as ApplyTip: validated upstream,
// applied at most once, no error path.
func (b *Board) ApplyRating(ctx context.Context, djID, djName string, stars uint8) Entry {
	start := time.Now()
	defer func() {
		metrics.RecordBoardUpdateLatency(float64(time.Since(start).Milliseconds()))
	}()

	b.mu.Lock()
	e, ok := b.entries[djID]
	if ok {
		b.order.Remove(b.key(e))
	} else {
		e = Entry{DJID: djID}
	}
	e.DJName = djName

	oldCount := e.TotalRatings
	e.TotalRatings++
	e.TotalRatingPoints += uint64(stars)
	if b.truncate {
		// Historical integer formula, truncation compounding across
		// updates exactly as the old system did.
		prev := uint64(e.AvgRating)
		e.AvgRating = float64((prev*oldCount + uint64(stars)) / e.TotalRatings)
	} else {
		e.AvgRating = float64(e.TotalRatingPoints) / float64(e.TotalRatings)
	}
	e.UpdatedAt = b.now()
	b.entries[djID] = e
	b.order.Insert(b.key(e))
	size := len(b.entries)
	b.mu.Unlock()

	metrics.RecordRatingApplied()
	metrics.UpdateBoardEntries(size)
	return e
}

// RefreshName updates the denormalized display name. Returns false when the
// DJ has no entry yet. The rank key does not involve the name, so no
// reindex happens.
func (b *Board) RefreshName(ctx context.Context, djID, name string) bool {
	b.mu.Lock()
	e, ok := b.entries[djID]
	if !ok {
		b.mu.Unlock()
		return false
	}
	if e.DJName != name {
		e.DJName = name
		e.UpdatedAt = b.now()
		b.entries[djID] = e
	}
	b.mu.Unlock()

	metrics.RecordNameRefresh()
	return true
}

// All returns every entry in rank order. An empty board is an error for
// this query; callers to whom emptiness is ordinary use TopN.
func (b *Board) All(ctx context.Context) ([]Entry, error) {
	start := time.Now()
	defer func() {
		metrics.RecordBoardQueryLatency(float64(time.Since(start).Milliseconds()))
	}()
	metrics.RecordBoardQuery("leaderboard")

	b.mu.RLock()
	defer b.mu.RUnlock()

	if len(b.entries) == 0 {
		return nil, ErrNoEntries
	}
	out := make([]Entry, 0, len(b.entries))
	b.order.Ascend(func(k rankKey) bool {
		out = append(out, b.entries[k.id])
		return true
	})
	return out, nil
}

// TopN returns the first n entries in rank order. Fewer than n entries is
// not an error, and an empty board yields an empty slice.
func (b *Board) TopN(ctx context.Context, n int) ([]Entry, error) {
	start := time.Now()
	defer func() {
		metrics.RecordBoardQueryLatency(float64(time.Since(start).Milliseconds()))
	}()
	metrics.RecordBoardQuery("top_n")

	if n < 1 {
		metrics.RecordErrorByComponent("board", "invalid_limit")
		return nil, ErrInvalidLimit
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]Entry, 0, n)
	b.order.Ascend(func(k rankKey) bool {
		out = append(out, b.entries[k.id])
		return len(out) < n
	})
	return out, nil
}

// AtLeast returns entries whose average rating is at or above floor, in
// rank order. The result may be empty; whether that is an error is the
// caller's concern.
func (b *Board) AtLeast(ctx context.Context, floor float64) []Entry {
	start := time.Now()
	defer func() {
		metrics.RecordBoardQueryLatency(float64(time.Since(start).Milliseconds()))
	}()
	metrics.RecordBoardQuery("search")

	b.mu.RLock()
	defer b.mu.RUnlock()

	var out []Entry
	b.order.Ascend(func(k rankKey) bool {
		e := b.entries[k.id]
		if e.AvgRating >= floor {
			out = append(out, e)
		}
		return true
	})
	return out
}

// Standing returns the DJ's entry and 1-based rank. Entries tied on tips
// and average share a rank.
func (b *Board) Standing(ctx context.Context, djID string) (Entry, int, error) {
	start := time.Now()
	defer func() {
		metrics.RecordBoardQueryLatency(float64(time.Since(start).Milliseconds()))
	}()
	metrics.RecordBoardQuery("standing")

	b.mu.RLock()
	defer b.mu.RUnlock()

	e, ok := b.entries[djID]
	if !ok {
		metrics.RecordErrorByComponent("board", "not_found")
		return Entry{}, 0, ErrEntryNotFound
	}

	target := b.key(e)
	better := 0
	b.order.Ascend(func(k rankKey) bool {
		if k.tips == target.tips && k.avgMicro == target.avgMicro {
			return false
		}
		better++
		return true
	})
	return e, better + 1, nil
}

// Count returns the number of entries.
func (b *Board) Count(ctx context.Context) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.entries)
}

// Snapshot returns a point-in-time copy of every entry keyed by DJ id,
// for the audit job.
func (b *Board) Snapshot(ctx context.Context) map[string]Entry {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make(map[string]Entry, len(b.entries))
	for id, e := range b.entries {
		out[id] = e
	}
	return out
}
