package findpeaks

import "fmt"

// PeakStatus is the lifecycle state of a candidate peak in the iterative
// refinement loop. The fitter owns the Running -> Converged transition;
// the consolidation routines in this package own Converged -> Running (a
// peak's neighborhood changed) and the transitions into Error (duplicate or
// low-significance peak). Error is terminal: no routine here revisits it.
type PeakStatus int32

const (
	StatusRunning PeakStatus = iota
	StatusConverged
	StatusError
)

func (s PeakStatus) String() string {
	switch s {
	case StatusRunning:
		return "running"
	case StatusConverged:
		return "converged"
	case StatusError:
		return "error"
	default:
		return fmt.Sprintf("PeakStatus(%d)", int32(s))
	}
}

// PeakSet is the peak table shared with the fitter: parallel arrays of
// position, fitted height, significance score, and status, one entry per
// peak. The consolidation routines read every field but mutate only Status,
// in place; they never add or remove peaks.
type PeakSet struct {
	X            []float64
	Y            []float64
	Height       []float64
	Significance []float64
	Status       []PeakStatus
}

// Len returns the number of peaks in the table.
func (p *PeakSet) Len() int { return len(p.X) }

// validate checks that the parallel arrays agree in length.
func (p *PeakSet) validate() error {
	n := len(p.X)
	if len(p.Y) != n || len(p.Height) != n || len(p.Significance) != n || len(p.Status) != n {
		return fmt.Errorf("findpeaks: peak table arrays disagree in length: x=%d y=%d height=%d significance=%d status=%d",
			len(p.X), len(p.Y), len(p.Height), len(p.Significance), len(p.Status))
	}
	return nil
}
