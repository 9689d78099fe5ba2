package threshold

import (
	"gonum.org/v1/gonum/mat"

	"fracnet/pkg/raster"
)

// percentileThreshold binarises against a local rank: a pixel is
// foreground when its 8-bit value exceeds the value at the given
// percentile rank within its disk neighbourhood. A non-positive block
// selects the automatic size.
func percentileThreshold(gray *mat.Dense, block int, percentile float64) *raster.Mask {
	rows, cols := gray.Dims()
	if block <= 0 {
		block = autoBlockSize(rows, cols)
	}
	img := quantizeImage(gray)
	offsets := diskOffsets(block)

	mask := raster.NewMask(rows, cols)
	hist := make([]int, histogramBins)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			for i := range hist {
				hist[i] = 0
			}
			count := 0
			for _, d := range offsets {
				nr, nc := r+d[0], c+d[1]
				if nr < 0 || nr >= rows || nc < 0 || nc >= cols {
					continue
				}
				hist[img[nr*cols+nc]]++
				count++
			}
			cutoff := percentileLevel(hist, count, percentile)
			mask.Set(r, c, int(img[r*cols+c]) > cutoff)
		}
	}
	return mask
}

// percentileLevel returns the smallest level whose cumulative count
// reaches the percentile rank of the window population.
func percentileLevel(hist []int, count int, percentile float64) int {
	if count == 0 {
		return 0
	}
	target := percentile * float64(count)
	cum := 0
	for level, h := range hist {
		cum += h
		if float64(cum) >= target && cum > 0 {
			return level
		}
	}
	return histogramBins - 1
}

// modalFilter replaces each pixel with the most frequent value in its
// disk neighbourhood, then re-binarises any value > 1 as foreground.
func modalFilter(mask *raster.Mask, radius int) *raster.Mask {
	offsets := diskOffsets(radius)
	out := raster.NewMask(mask.Rows, mask.Cols)
	var counts [histogramBins]int
	for r := 0; r < mask.Rows; r++ {
		for c := 0; c < mask.Cols; c++ {
			for i := range counts {
				counts[i] = 0
			}
			for _, d := range offsets {
				nr, nc := r+d[0], c+d[1]
				if nr < 0 || nr >= mask.Rows || nc < 0 || nc >= mask.Cols {
					continue
				}
				counts[mask.Pix[nr*mask.Cols+nc]]++
			}
			mode := 0
			for v, n := range counts {
				if n > counts[mode] {
					mode = v
				}
			}
			out.Set(r, c, mode > 1)
		}
	}
	return out
}
