package findpeaks

import (
	"fmt"
	"math"
)

// treeNode is one node of the k-d tree. Each node exclusively owns its
// children, its coordinate storage, and an integer payload id (the caller's
// index into an external peak table).
type treeNode struct {
	pos   []float64
	dir   int // split axis at this node
	id    int
	left  *treeNode
	right *treeNode
}

// KDTree is an unbalanced k-d tree over fixed-dimension points, built
// incrementally by insertion. It supports exact nearest-neighbor search with
// hyperrectangle branch-and-bound pruning and Euclidean radius queries.
//
// Insertion order determines the tree shape: there is no rebalancing, so
// sorted input degrades search toward linear scans. The intended call
// pattern builds a fresh tree over the current point set for each batch of
// queries and then discards it, which keeps that trade-off cheap.
//
// A KDTree is not safe for concurrent use.
type KDTree struct {
	dims int
	size int
	root *treeNode
	rect *hyperRect
}

// NewKDTree creates an empty tree over points of the given dimensionality.
func NewKDTree(dims int) (*KDTree, error) {
	if dims < 1 {
		return nil, fmt.Errorf("findpeaks: dims must be >= 1, got %d", dims)
	}
	return newTree(dims), nil
}

func newTree(dims int) *KDTree {
	return &KDTree{dims: dims}
}

// Dims returns the dimensionality fixed at construction.
func (t *KDTree) Dims() int { return t.dims }

// Len returns the number of points inserted.
func (t *KDTree) Len() int { return t.size }

// Clear removes every point. Outstanding Results referencing the tree
// become invalid.
func (t *KDTree) Clear() {
	t.root = nil
	t.rect = nil
	t.size = 0
}

// Insert adds a point with an opaque payload id. The coordinates are copied,
// so the caller may reuse pos.
func (t *KDTree) Insert(pos []float64, id int) error {
	if len(pos) != t.dims {
		return fmt.Errorf("findpeaks: point has %d dimensions, tree has %d", len(pos), t.dims)
	}
	p := make([]float64, t.dims)
	copy(p, pos)

	t.root = insertNode(t.root, p, id, 0, t.dims)
	if t.rect == nil {
		t.rect = newHyperRect(p)
	} else {
		t.rect.extend(p)
	}
	t.size++
	return nil
}

// insertNode descends comparing the point against each node's coordinate at
// that node's split axis: strictly less goes left, else right. The axis
// cycles with depth. A new leaf takes the first empty slot reached.
func insertNode(n *treeNode, pos []float64, id, dir, dims int) *treeNode {
	if n == nil {
		return &treeNode{pos: pos, dir: dir, id: id}
	}
	next := (n.dir + 1) % dims
	if pos[n.dir] < n.pos[n.dir] {
		n.left = insertNode(n.left, pos, id, next, dims)
	} else {
		n.right = insertNode(n.right, pos, id, next, dims)
	}
	return n
}

// Nearest returns a Results holding the single point closest to pos in
// Euclidean distance, or an empty Results if the tree is empty. When two
// points are exactly equidistant, the one encountered first in traversal
// order is kept (the running-best comparison is strict).
func (t *KDTree) Nearest(pos []float64) (*Results, error) {
	if len(pos) != t.dims {
		return nil, fmt.Errorf("findpeaks: query has %d dimensions, tree has %d", len(pos), t.dims)
	}
	res := newResults()
	if t.root == nil {
		res.Rewind()
		return res, nil
	}

	// Work on a copy of the bounding box; the search slices it down to
	// subtree half-spaces and restores it on unwind.
	rect := t.rect.clone()
	best := t.root
	bestDistSq := pointDistSq(t.root.pos, pos)
	nearestNode(t.root, pos, rect, &best, &bestDistSq)

	res.insert(best, bestDistSq, false)
	res.Rewind()
	return res, nil
}

func nearestNode(n *treeNode, pos []float64, rect *hyperRect, best **treeNode, bestDistSq *float64) {
	dir := n.dir

	// The sign of the offset on the split axis picks the nearer child and
	// the box edge each child's half-space replaces.
	offset := pos[dir] - n.pos[dir]
	nearer, farther := n.left, n.right
	nearerEdge, fartherEdge := rect.max, rect.min
	if offset > 0 {
		nearer, farther = n.right, n.left
		nearerEdge, fartherEdge = rect.min, rect.max
	}

	if nearer != nil {
		saved := nearerEdge[dir]
		nearerEdge[dir] = n.pos[dir]
		nearestNode(nearer, pos, rect, best, bestDistSq)
		nearerEdge[dir] = saved
	}

	if d := pointDistSq(n.pos, pos); d < *bestDistSq {
		*best = n
		*bestDistSq = d
	}

	if farther != nil {
		saved := fartherEdge[dir]
		fartherEdge[dir] = n.pos[dir]
		// Descend only if the sliced box could still hold a closer point.
		if rect.distSq(pos) < *bestDistSq {
			nearestNode(farther, pos, rect, best, bestDistSq)
		}
		fartherEdge[dir] = saved
	}
}

// Range returns every point within radius of pos (Euclidean, inclusive).
// The result order is unspecified.
func (t *KDTree) Range(pos []float64, radius float64) (*Results, error) {
	if err := t.checkQuery(pos, radius); err != nil {
		return nil, err
	}
	return t.rangeQuery(pos, radius, false), nil
}

// RangeOrdered is Range with the results in ascending distance order.
// Ordered accumulation costs a linear insertion scan per match; callers that
// only test existence or thresholds should prefer Range.
func (t *KDTree) RangeOrdered(pos []float64, radius float64) (*Results, error) {
	if err := t.checkQuery(pos, radius); err != nil {
		return nil, err
	}
	return t.rangeQuery(pos, radius, true), nil
}

func (t *KDTree) checkQuery(pos []float64, radius float64) error {
	if len(pos) != t.dims {
		return fmt.Errorf("findpeaks: query has %d dimensions, tree has %d", len(pos), t.dims)
	}
	if radius < 0 {
		return fmt.Errorf("findpeaks: radius must be >= 0, got %f", radius)
	}
	return nil
}

func (t *KDTree) rangeQuery(pos []float64, radius float64, ordered bool) *Results {
	res := newResults()
	rangeNode(t.root, pos, radius, res, ordered)
	res.Rewind()
	return res
}

// rangeNode collects nodes within radius. The near side is always searched;
// the far side only when the query sphere crosses the splitting plane.
func rangeNode(n *treeNode, pos []float64, radius float64, res *Results, ordered bool) {
	if n == nil {
		return
	}

	if d := pointDistSq(n.pos, pos); d <= radius*radius {
		res.insert(n, d, ordered)
	}

	offset := pos[n.dir] - n.pos[n.dir]
	nearer, farther := n.left, n.right
	if offset > 0 {
		nearer, farther = n.right, n.left
	}
	rangeNode(nearer, pos, radius, res, ordered)
	if math.Abs(offset) < radius {
		rangeNode(farther, pos, radius, res, ordered)
	}
}

func pointDistSq(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
