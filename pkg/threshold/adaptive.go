package threshold

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"fracnet/pkg/raster"
)

// adaptiveThreshold binarises against a per-pixel local statistic over a
// square block. A non-positive block selects the automatic size derived
// from the image dimensions. Foreground is every pixel darker than its
// local threshold.
func adaptiveThreshold(gray *mat.Dense, block int, method AdaptiveMethod) (*raster.Mask, error) {
	rows, cols := gray.Dims()
	if block <= 0 {
		block = autoBlockSize(rows, cols)
	}

	var local *mat.Dense
	switch method {
	case AdaptiveGaussian:
		local = gaussianMean(gray, block)
	case AdaptiveMean:
		local = blockMean(gray, block)
	case AdaptiveMedian:
		local = blockMedian(gray, block)
	default:
		return nil, fmt.Errorf("unknown adaptive method: %q", method)
	}

	mask := raster.NewMask(rows, cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			mask.Set(r, c, gray.At(r, c) < local.At(r, c))
		}
	}
	return mask, nil
}

// gaussianMean is a separable gaussian filter with sigma derived from
// the block size as (block-1)/6, reflect boundary handling.
func gaussianMean(gray *mat.Dense, block int) *mat.Dense {
	sigma := float64(block-1) / 6.0
	if sigma <= 0 {
		out := &mat.Dense{}
		out.CloneFrom(gray)
		return out
	}
	radius := int(4*sigma + 0.5)
	if radius < 1 {
		radius = 1
	}
	kernel := make([]float64, 2*radius+1)
	sum := 0.0
	for i := range kernel {
		d := float64(i - radius)
		kernel[i] = math.Exp(-d * d / (2 * sigma * sigma))
		sum += kernel[i]
	}
	for i := range kernel {
		kernel[i] /= sum
	}

	rows, cols := gray.Dims()
	tmp := mat.NewDense(rows, cols, nil)
	out := mat.NewDense(rows, cols, nil)

	// Horizontal pass.
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			acc := 0.0
			for i, w := range kernel {
				acc += w * gray.At(r, reflectIndex(c+i-radius, cols))
			}
			tmp.Set(r, c, acc)
		}
	}
	// Vertical pass.
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			acc := 0.0
			for i, w := range kernel {
				acc += w * tmp.At(reflectIndex(r+i-radius, rows), c)
			}
			out.Set(r, c, acc)
		}
	}
	return out
}

// blockMean is a plain mean over a block x block window, reflect
// boundary handling.
func blockMean(gray *mat.Dense, block int) *mat.Dense {
	rows, cols := gray.Dims()
	radius := block / 2
	out := mat.NewDense(rows, cols, nil)
	n := float64(block * block)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			acc := 0.0
			for dr := -radius; dr <= radius; dr++ {
				for dc := -radius; dc <= radius; dc++ {
					acc += gray.At(reflectIndex(r+dr, rows), reflectIndex(c+dc, cols))
				}
			}
			out.Set(r, c, acc/n)
		}
	}
	return out
}

// blockMedian is the local median over a block x block window, reflect
// boundary handling.
func blockMedian(gray *mat.Dense, block int) *mat.Dense {
	rows, cols := gray.Dims()
	radius := block / 2
	out := mat.NewDense(rows, cols, nil)
	window := make([]float64, 0, block*block)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			window = window[:0]
			for dr := -radius; dr <= radius; dr++ {
				for dc := -radius; dc <= radius; dc++ {
					window = append(window, gray.At(reflectIndex(r+dr, rows), reflectIndex(c+dc, cols)))
				}
			}
			sort.Float64s(window)
			mid := len(window) / 2
			if len(window)%2 == 1 {
				out.Set(r, c, window[mid])
			} else {
				out.Set(r, c, (window[mid-1]+window[mid])/2)
			}
		}
	}
	return out
}

// reflectIndex folds an out-of-range index back into [0, n) with the
// edge value duplicated: d c b a | a b c d | d c b a.
func reflectIndex(i, n int) int {
	if n == 1 {
		return 0
	}
	period := 2 * n
	i = ((i % period) + period) % period
	if i >= n {
		i = period - 1 - i
	}
	return i
}
