// Package threshold converts raster arrays into binary fracture masks.
// Three strategies are supported: a global or disk-local Otsu cutoff, a
// locally-adaptive threshold (gaussian-weighted mean, plain mean or local
// median), and a local percentile rank. An optional modal smoothing pass
// removes speckle from the raw threshold.
package threshold

import (
	"fmt"

	"fracnet/pkg/raster"
)

// Method selects the thresholding strategy.
type Method string

const (
	// MethodOtsu computes a cutoff maximising between-class variance of
	// the grayscale histogram, globally or per disk neighbourhood.
	MethodOtsu Method = "otsu"

	// MethodAdaptive thresholds each pixel against a local statistic
	// over a square block.
	MethodAdaptive Method = "adaptive"

	// MethodPercentile thresholds each pixel against the value at a
	// percentile rank within its disk neighbourhood.
	MethodPercentile Method = "percentile"
)

// AdaptiveMethod selects the local statistic for MethodAdaptive.
type AdaptiveMethod string

const (
	AdaptiveGaussian AdaptiveMethod = "gaussian"
	AdaptiveMean     AdaptiveMethod = "mean"
	AdaptiveMedian   AdaptiveMethod = "median"
)

// Options controls thresholding behaviour.
type Options struct {
	// Method is the thresholding strategy, MethodOtsu by default.
	Method Method

	// Invert flips the grayscale image (v -> 1-v) before thresholding.
	Invert bool

	// BlockSize is the neighbourhood size in pixels. Zero selects the
	// global Otsu cutoff for MethodOtsu and an automatic block size for
	// the local methods. Even values are forced odd (+1) before use.
	BlockSize float64

	// AdaptiveMethod is the local statistic for MethodAdaptive,
	// AdaptiveGaussian by default.
	AdaptiveMethod AdaptiveMethod

	// ModalBlur, when positive, applies modal smoothing over a disk of
	// that radius after thresholding.
	ModalBlur float64

	// Percentile is the rank for MethodPercentile, in [0, 1].
	Percentile float64
}

// DefaultOptions returns the options used when none are supplied.
func DefaultOptions() Options {
	return Options{
		Method:         MethodOtsu,
		AdaptiveMethod: AdaptiveGaussian,
		Percentile:     0.05,
	}
}

// Apply thresholds a rank-2 or rank-3 raster array into a binary mask of
// the same height and width. The array is first normalised to grayscale
// (multi-band inputs are reduced with the luma weights), optionally
// inverted, then binarised with the configured strategy.
func Apply(array *raster.Array, opts Options) (*raster.Mask, error) {
	gray, err := array.Grayscale()
	if err != nil {
		return nil, err
	}
	if opts.Invert {
		raster.Invert(gray)
	}

	block := int(opts.BlockSize)
	if block > 0 && block%2 == 0 {
		block++
	}

	var mask *raster.Mask
	switch opts.Method {
	case "", MethodOtsu:
		mask = otsuThreshold(gray, block)
	case MethodAdaptive:
		method := opts.AdaptiveMethod
		if method == "" {
			method = AdaptiveGaussian
		}
		mask, err = adaptiveThreshold(gray, block, method)
		if err != nil {
			return nil, err
		}
	case MethodPercentile:
		mask = percentileThreshold(gray, block, opts.Percentile)
	default:
		return nil, fmt.Errorf("unknown thresholding method: %q", opts.Method)
	}

	if opts.ModalBlur > 0 {
		radius := int(opts.ModalBlur)
		if radius%2 == 0 {
			radius++
		}
		mask = modalFilter(mask, radius)
	}
	return mask, nil
}

// autoBlockSize derives the default odd block size from the image
// dimensions: one percent of the height times one percent of the width.
func autoBlockSize(rows, cols int) int {
	block := int(float64(rows) * 0.01 * float64(cols) * 0.01)
	if block%2 == 0 {
		block++
	}
	return block
}
