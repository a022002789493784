// Package findpeaks implements the spatial core of an iterative
// multi-emitter peak localization pipeline: a k-d tree index over candidate
// peak positions, a local maxima scanner for intensity image stacks, and the
// consolidation routines that merge each iteration's new candidates into the
// existing peak set.
//
// The photometric model fit itself lives outside this package. A fitter
// supplies intensity planes and consumes status updates on its peak table;
// each refinement iteration looks like:
//
//	maxima, err := findpeaks.FindLocalMaxima(stack, cfg)
//	// append maxima to the peak table, then
//	findpeaks.MarkRunningIfNewNeighbors(peaks, newX, newY, radius)
//	// ... fitter refits all Running peaks ...
//	findpeaks.MarkDimmerPeaks(peaks, rRemoval, rNeighbors)
//	findpeaks.MarkLowSignificancePeaks(peaks, minSig, rNeighbors)
//
// Peaks move through three states: Running (being refit), Converged
// (accepted), and Error (discarded as a duplicate or low-confidence
// detection; terminal). The consolidation routines mutate only the status
// column of the peak table, in place.
//
// The KDTree is also usable on its own for exact nearest-neighbor and
// radius queries over 2D or 3D point sets (any dimensionality works). It is
// deliberately unbalanced and rebuild-per-iteration; see the type
// documentation for the trade-off.
//
// All operations are synchronous and allocate through the Go runtime;
// allocation failure surfaces as a runtime panic, not an error value. The
// only error conditions a caller is expected to handle are invalid
// arguments and the ErrMaxPeaks truncation warning from FindLocalMaxima.
package findpeaks
