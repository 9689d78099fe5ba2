// Package raster holds the in-memory raster types consumed by the
// thresholding and digitising pipeline: numeric arrays of rank 2 or 3,
// the grayscale normaliser, binary masks, and file loading helpers.
package raster

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// ErrUnsupportedShape is returned when an array's rank or band layout
// cannot be normalised to a single grayscale channel.
var ErrUnsupportedShape = errors.New("unsupported raster shape for grayscale conversion")

// Luma coefficients matching the standard RGB-to-grayscale conversion.
const (
	lumaR = 0.2125
	lumaG = 0.7154
	lumaB = 0.0721
)

// Array is a numeric raster grid of rank 2 or 3 in row-major (C) order.
// Rank-3 arrays carry an RGB or RGBA band axis either first or last,
// with band length 3 or 4.
type Array struct {
	// Shape holds the axis lengths, e.g. [rows, cols] or [rows, cols, bands].
	Shape []int

	// Data is the flattened grid, len(Data) == product(Shape).
	Data []float64
}

// New2D allocates a zeroed rank-2 array.
func New2D(rows, cols int) *Array {
	return &Array{Shape: []int{rows, cols}, Data: make([]float64, rows*cols)}
}

// New3D allocates a zeroed rank-3 array with a trailing band axis.
func New3D(rows, cols, bands int) *Array {
	return &Array{Shape: []int{rows, cols, bands}, Data: make([]float64, rows*cols*bands)}
}

// Rank returns the number of axes.
func (a *Array) Rank() int {
	return len(a.Shape)
}

// Grayscale normalises the array to a single-channel float image with
// values in [0, 1]. Rank-2 arrays are rescaled in place semantics only
// (the receiver is never mutated); rank-3 arrays are accepted when the
// band axis is first or last with length 3 or 4 and are reduced with the
// luma weights, ignoring alpha. Any other shape fails with
// ErrUnsupportedShape.
func (a *Array) Grayscale() (*mat.Dense, error) {
	switch a.Rank() {
	case 2:
		rows, cols := a.Shape[0], a.Shape[1]
		out := mat.NewDense(rows, cols, nil)
		scale := intensityScale(a.Data)
		for r := 0; r < rows; r++ {
			for c := 0; c < cols; c++ {
				out.Set(r, c, a.Data[r*cols+c]*scale)
			}
		}
		return out, nil
	case 3:
		if bands := a.Shape[0]; bands == 3 || bands == 4 {
			return a.grayscaleBandFirst()
		}
		if bands := a.Shape[2]; bands == 3 || bands == 4 {
			return a.grayscaleBandLast()
		}
		return nil, fmt.Errorf("%w: band axis must hold 3 or 4 bands, got shape %v", ErrUnsupportedShape, a.Shape)
	default:
		return nil, fmt.Errorf("%w: rank %d", ErrUnsupportedShape, a.Rank())
	}
}

func (a *Array) grayscaleBandFirst() (*mat.Dense, error) {
	rows, cols := a.Shape[1], a.Shape[2]
	plane := rows * cols
	out := mat.NewDense(rows, cols, nil)
	scale := intensityScale(a.Data)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			idx := r*cols + c
			v := lumaR*a.Data[idx] + lumaG*a.Data[plane+idx] + lumaB*a.Data[2*plane+idx]
			out.Set(r, c, v*scale)
		}
	}
	return out, nil
}

func (a *Array) grayscaleBandLast() (*mat.Dense, error) {
	rows, cols, bands := a.Shape[0], a.Shape[1], a.Shape[2]
	out := mat.NewDense(rows, cols, nil)
	scale := intensityScale(a.Data)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			idx := (r*cols + c) * bands
			v := lumaR*a.Data[idx] + lumaG*a.Data[idx+1] + lumaB*a.Data[idx+2]
			out.Set(r, c, v*scale)
		}
	}
	return out, nil
}

// intensityScale returns the factor that brings the data into [0, 1].
// Arrays whose maximum exceeds 1 are treated as 8-bit intensities.
func intensityScale(data []float64) float64 {
	if len(data) == 0 {
		return 1
	}
	if floats.Max(data) > 1 {
		return 1.0 / 255.0
	}
	return 1
}

// Invert flips a grayscale image in place: v -> 1-v.
func Invert(gray *mat.Dense) {
	rows, cols := gray.Dims()
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			gray.Set(r, c, 1-gray.At(r, c))
		}
	}
}
