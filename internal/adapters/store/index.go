package store

// Index is an ordered key set for callers that keep values elsewhere and
// need a custom rank order, such as the leaderboard. It shares the treap
// with Table but leaves locking to the owner: an Index is NOT safe for
// concurrent use on its own.
type Index[K any] struct {
	t *treap[K]
}

// NewIndex builds an index ordered by less. prio must be a pure function of
// the key; deriving it from a hash of a stable id keeps the tree balanced
// and its shape deterministic.
func NewIndex[K any](less func(a, b K) bool, prio func(K) uint64) *Index[K] {
	return &Index[K]{t: newTreap(less, prio)}
}

// Len returns the number of keys.
func (i *Index[K]) Len() int {
	return i.t.len()
}

// Insert adds a key.
func (i *Index[K]) Insert(k K) {
	i.t.insert(k)
}

// Remove deletes a key when present.
func (i *Index[K]) Remove(k K) {
	i.t.remove(k)
}

// Ascend walks keys in order until yield returns false.
func (i *Index[K]) Ascend(yield func(K) bool) {
	i.t.ascend(yield)
}

// First returns up to limit keys in order.
func (i *Index[K]) First(limit int) []K {
	return i.t.first(limit)
}
