package findpeaks

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// The consolidation routines run between fitting iterations. Each builds a
// fresh 2D tree over the relevant peak coordinates, queries it per peak, and
// drops it: the peak set mutates every iteration, so rebuilding beats
// incremental maintenance. Status arrays are updated in place; because the
// Converged -> Running propagation reads statuses written earlier in the
// same pass, two routines must not run over one peak table concurrently.

// buildTree2D indexes the given coordinates with their array index as
// payload.
func buildTree2D(x, y []float64) *KDTree {
	t := newTree(2)
	pos := make([]float64, 2)
	for i := range x {
		pos[0], pos[1] = x[i], y[i]
		t.Insert(pos, i)
	}
	return t
}

// markNeighborsRunning flips Converged peaks within radius of pos back to
// Running; their local fit context changed.
func markNeighborsRunning(tree *KDTree, status []PeakStatus, pos []float64, radius float64) {
	set := tree.rangeQuery(pos, radius, false)
	for ; !set.End(); set.Next() {
		if k := set.ItemID(); status[k] == StatusConverged {
			status[k] = StatusRunning
		}
	}
	set.Release()
}

// MarkDimmerPeaks marks every peak that has a strictly brighter neighbor
// within rRemoval as a duplicate (status Error), and flips Converged peaks
// within rNeighbors of each removed peak back to Running. Peaks already in
// Error are skipped. Returns how many peaks were marked.
//
// A peak always matches itself in its own removal query, so a result count
// below 2 means no neighbor at all; the self match can never be strictly
// brighter, so it needs no special casing in the brightness scan either.
func MarkDimmerPeaks(p *PeakSet, rRemoval, rNeighbors float64) (int, error) {
	if err := p.validate(); err != nil {
		return 0, err
	}
	if rRemoval < 0 || rNeighbors < 0 {
		return 0, fmt.Errorf("findpeaks: radii must be >= 0, got removal=%f neighbors=%f", rRemoval, rNeighbors)
	}

	removed := 0
	tree := buildTree2D(p.X, p.Y)
	pos := make([]float64, 2)

	for i := 0; i < p.Len(); i++ {
		if p.Status[i] == StatusError {
			continue
		}

		pos[0], pos[1] = p.X[i], p.Y[i]
		set := tree.rangeQuery(pos, rRemoval, false)
		if set.Size() < 2 {
			set.Release()
			continue
		}

		dimmer := false
		for ; !set.End(); set.Next() {
			if p.Height[set.ItemID()] > p.Height[i] {
				dimmer = true
				break
			}
		}
		set.Release()

		if dimmer {
			removed++
			p.Status[i] = StatusError
			markNeighborsRunning(tree, p.Status, pos, rNeighbors)
		}
	}

	return removed, nil
}

// MarkLowSignificancePeaks marks every peak with significance at or below
// minSignificance as status Error and flips Converged peaks within
// rNeighbors of each removed peak back to Running. Peaks already in Error
// are skipped. Returns how many peaks were marked.
func MarkLowSignificancePeaks(p *PeakSet, minSignificance, rNeighbors float64) (int, error) {
	if err := p.validate(); err != nil {
		return 0, err
	}
	if rNeighbors < 0 {
		return 0, fmt.Errorf("findpeaks: neighbor radius must be >= 0, got %f", rNeighbors)
	}

	removed := 0
	tree := buildTree2D(p.X, p.Y)
	pos := make([]float64, 2)

	for i := 0; i < p.Len(); i++ {
		if p.Status[i] == StatusError {
			continue
		}
		if p.Significance[i] > minSignificance {
			continue
		}

		p.Status[i] = StatusError
		removed++

		pos[0], pos[1] = p.X[i], p.Y[i]
		markNeighborsRunning(tree, p.Status, pos, rNeighbors)
	}

	return removed, nil
}

// NearestMatch reports, for each query point, the distance to and index of
// the closest index point within maxRadius. Query points with no index
// point in range report -1.0 and -1. The result slices are parallel to the
// query arrays.
func NearestMatch(queryX, queryY, indexX, indexY []float64, maxRadius float64) ([]float64, []int32, error) {
	if len(queryX) != len(queryY) {
		return nil, nil, fmt.Errorf("findpeaks: query arrays disagree in length: x=%d y=%d", len(queryX), len(queryY))
	}
	if len(indexX) != len(indexY) {
		return nil, nil, fmt.Errorf("findpeaks: index arrays disagree in length: x=%d y=%d", len(indexX), len(indexY))
	}
	if maxRadius < 0 {
		return nil, nil, fmt.Errorf("findpeaks: max radius must be >= 0, got %f", maxRadius)
	}

	dist := make([]float64, len(queryX))
	index := make([]int32, len(queryX))
	tree := buildTree2D(indexX, indexY)
	pos := make([]float64, 2)

	for i := range queryX {
		pos[0], pos[1] = queryX[i], queryY[i]
		set := tree.rangeQuery(pos, maxRadius, false)

		// Results are not distance ordered; scan for the minimum.
		minIdx := -1
		minDist := maxRadius + 1.0
		for ; !set.End(); set.Next() {
			id, match := set.Item()
			if d := floats.Distance(pos, match, 2); d < minDist {
				minDist = d
				minIdx = id
			}
		}
		set.Release()

		if minIdx >= 0 {
			dist[i] = minDist
			index[i] = int32(minIdx)
		} else {
			dist[i] = -1.0
			index[i] = -1
		}
	}

	return dist, index, nil
}

// MarkRunningIfNewNeighbors flips current peaks back to Running when a new
// candidate peak lies within radius of them: the new emitter must be fit
// jointly with its neighborhood. Peaks already Running need no flip and
// Error peaks are terminal, so both are skipped. newX and newY are the
// coordinates of the freshly found candidates.
func MarkRunningIfNewNeighbors(p *PeakSet, newX, newY []float64, radius float64) error {
	if err := p.validate(); err != nil {
		return err
	}
	if len(newX) != len(newY) {
		return fmt.Errorf("findpeaks: new peak arrays disagree in length: x=%d y=%d", len(newX), len(newY))
	}
	if radius < 0 {
		return fmt.Errorf("findpeaks: radius must be >= 0, got %f", radius)
	}

	tree := buildTree2D(newX, newY)
	pos := make([]float64, 2)

	for i := 0; i < p.Len(); i++ {
		if p.Status[i] == StatusRunning || p.Status[i] == StatusError {
			continue
		}

		pos[0], pos[1] = p.X[i], p.Y[i]
		set := tree.rangeQuery(pos, radius, false)
		if set.Size() > 0 {
			p.Status[i] = StatusRunning
		}
		set.Release()
	}

	return nil
}
