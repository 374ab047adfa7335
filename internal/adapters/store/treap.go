// Package store provides the in-memory ordered tables backing all entities.
package store

// Treap-based ordered key index.
//
// The comparator defines rank order: less(a, b) means a appears before b in
// an in-order walk. Priorities come from a caller-supplied function so the
// tree shape is deterministic for a given key set, which keeps tests and
// repeated walks stable.

type tnode[K any] struct {
	key   K
	prio  uint64
	left  *tnode[K]
	right *tnode[K]
	size  int
}

func nsize[K any](n *tnode[K]) int {
	if n == nil {
		return 0
	}
	return n.size
}

func fix[K any](n *tnode[K]) {
	if n != nil {
		n.size = 1 + nsize(n.left) + nsize(n.right)
	}
}

func rotateRight[K any](y *tnode[K]) *tnode[K] {
	x := y.left
	t2 := x.right
	x.right = y
	y.left = t2
	fix(y)
	fix(x)
	return x
}

func rotateLeft[K any](x *tnode[K]) *tnode[K] {
	y := x.right
	t2 := y.left
	y.left = x
	x.right = t2
	fix(x)
	fix(y)
	return y
}

// treap is an ordered set of keys with size-augmented nodes.
// Not safe for concurrent use; callers hold their own locks.
type treap[K any] struct {
	root *tnode[K]
	less func(a, b K) bool
	prio func(K) uint64
}

func newTreap[K any](less func(a, b K) bool, prio func(K) uint64) *treap[K] {
	return &treap[K]{less: less, prio: prio}
}

func (t *treap[K]) len() int {
	return nsize(t.root)
}

// equal is derived from the comparator: neither key orders before the other.
func (t *treap[K]) equal(a, b K) bool {
	return !t.less(a, b) && !t.less(b, a)
}

func (t *treap[K]) insert(k K) {
	t.root = t.insertNode(t.root, k)
}

func (t *treap[K]) insertNode(n *tnode[K], k K) *tnode[K] {
	if n == nil {
		return &tnode[K]{key: k, prio: t.prio(k), size: 1}
	}
	if t.less(k, n.key) {
		n.left = t.insertNode(n.left, k)
		if n.left.prio > n.prio {
			n = rotateRight(n)
		}
	} else {
		n.right = t.insertNode(n.right, k)
		if n.right.prio > n.prio {
			n = rotateLeft(n)
		}
	}
	fix(n)
	return n
}

func (t *treap[K]) remove(k K) {
	t.root = t.removeNode(t.root, k)
}

func (t *treap[K]) removeNode(n *tnode[K], k K) *tnode[K] {
	if n == nil {
		return nil
	}
	if t.equal(k, n.key) {
		// Rotate the higher-priority child up until the node is a leaf.
		if n.left == nil {
			return n.right
		}
		if n.right == nil {
			return n.left
		}
		if n.left.prio > n.right.prio {
			n = rotateRight(n)
			n.right = t.removeNode(n.right, k)
		} else {
			n = rotateLeft(n)
			n.left = t.removeNode(n.left, k)
		}
	} else if t.less(k, n.key) {
		n.left = t.removeNode(n.left, k)
	} else {
		n.right = t.removeNode(n.right, k)
	}
	fix(n)
	return n
}

// ascend walks keys in comparator order until yield returns false.
func (t *treap[K]) ascend(yield func(K) bool) {
	ascendNode(t.root, yield)
}

func ascendNode[K any](n *tnode[K], yield func(K) bool) bool {
	if n == nil {
		return true
	}
	if !ascendNode(n.left, yield) {
		return false
	}
	if !yield(n.key) {
		return false
	}
	return ascendNode(n.right, yield)
}

// first returns up to limit keys in comparator order.
func (t *treap[K]) first(limit int) []K {
	if limit <= 0 {
		return nil
	}
	out := make([]K, 0, limit)
	t.ascend(func(k K) bool {
		out = append(out, k)
		return len(out) < limit
	})
	return out
}
