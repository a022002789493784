package findpeaks

import (
	"errors"
	"fmt"
	"math"
)

// ErrMaxPeaks reports that a scan stopped early because it reached the
// configured maximum peak count. The peaks found up to that point are still
// returned; callers that can tolerate a truncated list may treat this as a
// warning.
var ErrMaxPeaks = errors.New("findpeaks: maximum peak count reached")

// ImageStack is a stack of 2D intensity planes (one per z slice) together
// with a parallel claimed-pixel mask. Planes are row-major, addressed as
// plane[y*XSize+x]. Taken marks pixels already claimed by accepted maxima
// in earlier iterations; FindLocalMaxima both reads and updates it.
// ZValues holds the z coordinate reported for maxima found in each plane.
type ImageStack struct {
	Planes  [][]float64
	Taken   [][]int32
	XSize   int
	YSize   int
	ZValues []float64
}

func (s *ImageStack) validate() error {
	if s.XSize < 1 || s.YSize < 1 {
		return fmt.Errorf("findpeaks: image size must be positive, got %dx%d", s.XSize, s.YSize)
	}
	zs := len(s.Planes)
	if zs == 0 {
		return errors.New("findpeaks: image stack has no planes")
	}
	if len(s.Taken) != zs || len(s.ZValues) != zs {
		return fmt.Errorf("findpeaks: stack shape mismatch: %d planes, %d taken masks, %d z values",
			zs, len(s.Taken), len(s.ZValues))
	}
	for i := range s.Planes {
		if len(s.Planes[i]) != s.XSize*s.YSize || len(s.Taken[i]) != s.XSize*s.YSize {
			return fmt.Errorf("findpeaks: plane %d has %d pixels and %d mask entries, want %d",
				i, len(s.Planes[i]), len(s.Taken[i]), s.XSize*s.YSize)
		}
	}
	return nil
}

// LocalMaximum is one accepted candidate peak: pixel position, the z value
// of its plane, and the pixel intensity.
type LocalMaximum struct {
	X      float64
	Y      float64
	Z      float64
	Height float64
}

// MaximaFinderConfig controls the local maxima scan.
type MaximaFinderConfig struct {
	// Margin is the border (in pixels) excluded from the scan in x and y.
	Margin int

	// Threshold is the minimum intensity for a candidate pixel.
	Threshold float64

	// Radius is the xy search radius (in pixels) of the cylindrical
	// neighborhood a maximum must dominate. Must be > 0.
	Radius float64

	// ZRange is the half-range of the neighborhood in z slices.
	ZRange int

	// MaxPeaks caps how many maxima a single scan may return. Must be >= 1.
	// Size it with CalcMaxPeaks to guarantee an uncapped scan.
	MaxPeaks int
}

func validateMaximaConfig(cfg MaximaFinderConfig) error {
	if cfg.Margin < 0 {
		return fmt.Errorf("findpeaks: Margin must be >= 0, got %d", cfg.Margin)
	}
	if cfg.Radius <= 0 {
		return fmt.Errorf("findpeaks: Radius must be > 0, got %f", cfg.Radius)
	}
	if cfg.ZRange < 0 {
		return fmt.Errorf("findpeaks: ZRange must be >= 0, got %d", cfg.ZRange)
	}
	if cfg.MaxPeaks < 1 {
		return fmt.Errorf("findpeaks: MaxPeaks must be >= 1, got %d", cfg.MaxPeaks)
	}
	return nil
}

// CalcMaxPeaks returns the number of unclaimed above-threshold pixels inside
// the scan margin, an upper bound on how many maxima FindLocalMaxima can
// find. Callers typically size MaxPeaks with it.
func CalcMaxPeaks(stack *ImageStack, cfg MaximaFinderConfig) (int, error) {
	if err := stack.validate(); err != nil {
		return 0, err
	}
	if cfg.Margin < 0 {
		return 0, fmt.Errorf("findpeaks: Margin must be >= 0, got %d", cfg.Margin)
	}
	np := 0
	for zi := range stack.Planes {
		for yi := cfg.Margin; yi < stack.YSize-cfg.Margin; yi++ {
			for xi := cfg.Margin; xi < stack.XSize-cfg.Margin; xi++ {
				if stack.Planes[zi][yi*stack.XSize+xi] > cfg.Threshold &&
					stack.Taken[zi][yi*stack.XSize+xi] < 1 {
					np++
				}
			}
		}
	}
	return np, nil
}

// FindLocalMaxima scans the stack for pixels that are strict local maxima
// within a cylindrical neighborhood: a disk of cfg.Radius in xy, extended
// cfg.ZRange slices either way in z. Pixels below threshold or already
// claimed are skipped; each accepted maximum is marked claimed in
// stack.Taken and reported with its plane's z value.
//
// The scan runs z-outer, then y, then x. Among equal-intensity pixels
// within radius of each other, only the one with the largest (y, x)
// survives: a neighbor at (ny, nx) with ny <= cy and nx <= cx disqualifies
// the candidate only when strictly brighter, any other neighbor already
// when equally bright. That asymmetry also keeps a pixel from being
// disqualified by itself.
//
// If the scan reaches cfg.MaxPeaks the partial result is returned together
// with ErrMaxPeaks.
func FindLocalMaxima(stack *ImageStack, cfg MaximaFinderConfig) ([]LocalMaximum, error) {
	if err := stack.validate(); err != nil {
		return nil, err
	}
	if err := validateMaximaConfig(cfg); err != nil {
		return nil, err
	}

	var peaks []LocalMaximum
	zsize := len(stack.Planes)
	reach := int(math.Ceil(cfg.Radius))

	for zi := 0; zi < zsize; zi++ {
		sz := zi - cfg.ZRange
		if sz < 0 {
			sz = 0
		}
		ez := zi + cfg.ZRange
		if ez >= zsize {
			ez = zsize - 1
		}

		for yi := cfg.Margin; yi < stack.YSize-cfg.Margin; yi++ {
			sy := yi - reach
			if sy < 0 {
				sy = 0
			}
			ey := yi + reach
			if ey >= stack.YSize {
				ey = stack.YSize - 1
			}

			for xi := cfg.Margin; xi < stack.XSize-cfg.Margin; xi++ {
				cur := stack.Planes[zi][yi*stack.XSize+xi]
				if cur <= cfg.Threshold || stack.Taken[zi][yi*stack.XSize+xi] >= 1 {
					continue
				}

				sx := xi - reach
				if sx < 0 {
					sx = 0
				}
				ex := xi + reach
				if ex >= stack.XSize {
					ex = stack.XSize - 1
				}

				if isLocalMaximum(stack, cfg.Radius, cur, sz, ez, sy, yi, ey, sx, xi, ex) {
					stack.Taken[zi][yi*stack.XSize+xi]++
					peaks = append(peaks, LocalMaximum{
						X:      float64(xi),
						Y:      float64(yi),
						Z:      stack.ZValues[zi],
						Height: cur,
					})
				}

				if len(peaks) >= cfg.MaxPeaks {
					return peaks, ErrMaxPeaks
				}
			}
		}
	}

	return peaks, nil
}

// isLocalMaximum checks every pixel of the cylindrical neighborhood around
// the candidate at (cy, cx). Neighbors at positions with yi <= cy and
// xi <= cx must be strictly brighter to disqualify, all others merely as
// bright; see FindLocalMaxima for why.
func isLocalMaximum(stack *ImageStack, radius, cur float64, sz, ez, sy, cy, ey, sx, cx, ex int) bool {
	rr := radius * radius

	for zi := sz; zi <= ez; zi++ {
		for yi := sy; yi <= ey; yi++ {
			dy := float64((yi - cy) * (yi - cy))
			for xi := sx; xi <= ex; xi++ {
				dx := float64((xi - cx) * (xi - cx))
				if dx+dy > rr {
					continue
				}
				if yi <= cy && xi <= cx {
					if stack.Planes[zi][yi*stack.XSize+xi] > cur {
						return false
					}
				} else if stack.Planes[zi][yi*stack.XSize+xi] >= cur {
					return false
				}
			}
		}
	}
	return true
}
