package threshold

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"fracnet/pkg/raster"
)

const histogramBins = 256

// otsuThreshold binarises the grayscale image with an Otsu cutoff:
// globally when block <= 0, otherwise per disk neighbourhood of radius
// block on the 8-bit-quantised image. Foreground is every pixel darker
// than its cutoff.
func otsuThreshold(gray *mat.Dense, block int) *raster.Mask {
	if block > 0 {
		return otsuLocal(gray, block)
	}
	return otsuGlobal(gray)
}

func otsuGlobal(gray *mat.Dense) *raster.Mask {
	rows, cols := gray.Dims()
	hist := make([]float64, histogramBins)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			hist[quantize(gray.At(r, c))]++
		}
	}
	cutoff := float64(otsuLevel(hist)) / float64(histogramBins-1)

	mask := raster.NewMask(rows, cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			mask.Set(r, c, gray.At(r, c) < cutoff)
		}
	}
	return mask
}

func otsuLocal(gray *mat.Dense, radius int) *raster.Mask {
	rows, cols := gray.Dims()
	img := quantizeImage(gray)
	offsets := diskOffsets(radius)

	mask := raster.NewMask(rows, cols)
	hist := make([]float64, histogramBins)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			for i := range hist {
				hist[i] = 0
			}
			for _, d := range offsets {
				nr, nc := r+d[0], c+d[1]
				if nr < 0 || nr >= rows || nc < 0 || nc >= cols {
					continue
				}
				hist[img[nr*cols+nc]]++
			}
			mask.Set(r, c, int(img[r*cols+c]) < otsuLevel(hist))
		}
	}
	return mask
}

// otsuLevel returns the histogram level maximising the between-class
// variance. All-empty histograms yield level 0.
func otsuLevel(hist []float64) int {
	total := floats.Sum(hist)
	if total == 0 {
		return 0
	}
	sumAll := 0.0
	for i, h := range hist {
		sumAll += float64(i) * h
	}

	level := 0
	best := -1.0
	weightB := 0.0
	sumB := 0.0
	for i, h := range hist {
		weightB += h
		if weightB == 0 {
			continue
		}
		weightF := total - weightB
		if weightF == 0 {
			break
		}
		sumB += float64(i) * h
		meanB := sumB / weightB
		meanF := (sumAll - sumB) / weightF
		between := weightB * weightF * (meanB - meanF) * (meanB - meanF)
		if between > best {
			best = between
			level = i
		}
	}
	return level
}

// quantize maps a [0, 1] intensity to an 8-bit level.
func quantize(v float64) int {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return histogramBins - 1
	}
	return int(math.Round(v * float64(histogramBins-1)))
}

func quantizeImage(gray *mat.Dense) []uint8 {
	rows, cols := gray.Dims()
	out := make([]uint8, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			out[r*cols+c] = uint8(quantize(gray.At(r, c)))
		}
	}
	return out
}

// diskOffsets returns the (dr, dc) offsets of a disk-shaped structuring
// element of the given pixel radius.
func diskOffsets(radius int) [][2]int {
	offsets := make([][2]int, 0, (2*radius+1)*(2*radius+1))
	for dr := -radius; dr <= radius; dr++ {
		for dc := -radius; dc <= radius; dc++ {
			if dr*dr+dc*dc <= radius*radius {
				offsets = append(offsets, [2]int{dr, dc})
			}
		}
	}
	return offsets
}
