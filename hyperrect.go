package findpeaks

// hyperRect is an axis-aligned bounding box in k-dimensional space,
// tracked per tree as the extent of every inserted point. Nearest-neighbor
// search temporarily slices a working copy of it down to subtree half-spaces
// to compute branch-and-bound lower bounds.
type hyperRect struct {
	min []float64
	max []float64
}

// newHyperRect creates a degenerate box covering a single point.
func newHyperRect(pos []float64) *hyperRect {
	r := &hyperRect{
		min: make([]float64, len(pos)),
		max: make([]float64, len(pos)),
	}
	copy(r.min, pos)
	copy(r.max, pos)
	return r
}

// clone returns an independent copy. Searches mutate the copy, never the
// tree's own box.
func (r *hyperRect) clone() *hyperRect {
	c := &hyperRect{
		min: make([]float64, len(r.min)),
		max: make([]float64, len(r.max)),
	}
	copy(c.min, r.min)
	copy(c.max, r.max)
	return c
}

// extend grows the box to contain pos. The box never shrinks.
func (r *hyperRect) extend(pos []float64) {
	for i, v := range pos {
		if v < r.min[i] {
			r.min[i] = v
		}
		if v > r.max[i] {
			r.max[i] = v
		}
	}
}

// distSq returns the squared distance from pos to the closest point of the
// box, or 0 if pos is inside it.
func (r *hyperRect) distSq(pos []float64) float64 {
	var sum float64
	for i, v := range pos {
		if v < r.min[i] {
			d := r.min[i] - v
			sum += d * d
		} else if v > r.max[i] {
			d := v - r.max[i]
			sum += d * d
		}
	}
	return sum
}
