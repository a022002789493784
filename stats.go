package findpeaks

import (
	"errors"
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Significance statistics over the live (non-Error) peaks. Drivers derive
// the cutoff they pass to MarkLowSignificancePeaks from the distribution of
// the current iteration's significance scores rather than from a fixed
// constant.

// liveSignificances returns a sorted copy of the significance values of all
// peaks not in Error.
func liveSignificances(p *PeakSet) ([]float64, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	vals := make([]float64, 0, p.Len())
	for i, s := range p.Significance {
		if p.Status[i] != StatusError {
			vals = append(vals, s)
		}
	}
	if len(vals) == 0 {
		return nil, errors.New("findpeaks: no live peaks")
	}
	sort.Float64s(vals)
	return vals, nil
}

// SignificanceQuantile returns the q-quantile (0 <= q <= 1) of the
// significance scores of the live peaks.
func SignificanceQuantile(p *PeakSet, q float64) (float64, error) {
	if q < 0 || q > 1 {
		return 0, fmt.Errorf("findpeaks: quantile must be in [0, 1], got %f", q)
	}
	vals, err := liveSignificances(p)
	if err != nil {
		return 0, err
	}
	return stat.Quantile(q, stat.Empirical, vals, nil), nil
}

// MeanSignificance returns the mean significance score of the live peaks.
func MeanSignificance(p *PeakSet) (float64, error) {
	vals, err := liveSignificances(p)
	if err != nil {
		return 0, err
	}
	return stat.Mean(vals, nil), nil
}
