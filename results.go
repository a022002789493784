package findpeaks

// resultEntry is one (tree node, squared distance) match in a result set.
// Entries form a singly linked list behind a sentinel head; the referenced
// tree nodes are borrowed, never owned.
type resultEntry struct {
	node   *treeNode
	distSq float64
	next   *resultEntry
}

// Results is the set of matches produced by a KDTree query, with a forward
// cursor for consumption:
//
//	for res.Rewind(); !res.End(); res.Next() {
//		id, pos := res.Item()
//		...
//	}
//
// A Results borrows node references from the tree that produced it; it must
// not be used after that tree is mutated or cleared. Queries return the set
// already rewound to the first match.
type Results struct {
	head *resultEntry // sentinel
	iter *resultEntry
	size int
}

func newResults() *Results {
	return &Results{head: allocEntry()}
}

// insert adds a match. With ordered set, the entry is placed in ascending
// squared-distance order via a linear scan; otherwise it is prepended.
func (r *Results) insert(n *treeNode, distSq float64, ordered bool) {
	e := allocEntry()
	e.node = n
	e.distSq = distSq

	at := r.head
	if ordered {
		for at.next != nil && at.next.distSq < distSq {
			at = at.next
		}
	}
	e.next = at.next
	at.next = e
	r.size++
}

// Size returns the number of matches in the set.
func (r *Results) Size() int { return r.size }

// Rewind moves the cursor back to the first match.
func (r *Results) Rewind() { r.iter = r.head.next }

// End reports whether the cursor has moved past the last match.
func (r *Results) End() bool { return r.iter == nil }

// Next advances the cursor and reports whether a match remains.
func (r *Results) Next() bool {
	if r.iter == nil {
		return false
	}
	r.iter = r.iter.next
	return r.iter != nil
}

// Item returns the payload id and coordinates of the match under the
// cursor. The returned slice aliases the tree's own storage and must not be
// modified. If the cursor is exhausted, Item returns -1 and nil.
func (r *Results) Item() (int, []float64) {
	if r.iter == nil {
		return -1, nil
	}
	return r.iter.node.id, r.iter.node.pos
}

// ItemID returns the payload id of the match under the cursor, or -1 if the
// cursor is exhausted.
func (r *Results) ItemID() int {
	if r.iter == nil {
		return -1
	}
	return r.iter.node.id
}

// ItemDistSq returns the squared distance from the query point to the match
// under the cursor, or -1 if the cursor is exhausted.
func (r *Results) ItemDistSq() float64 {
	if r.iter == nil {
		return -1
	}
	return r.iter.distSq
}

// Release empties the set and hands its entries back to the entry pool when
// pooling is enabled. The set remains usable (as empty) afterwards.
func (r *Results) Release() {
	e := r.head.next
	for e != nil {
		next := e.next
		freeEntry(e)
		e = next
	}
	r.head.next = nil
	r.iter = nil
	r.size = 0
}
