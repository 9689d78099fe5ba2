// Package skeleton thins binary masks to 1-pixel-wide skeletons using
// the Zhang-Suen iterative thinning algorithm, preserving the mask's
// connected components and cycles.
package skeleton

import (
	"fracnet/pkg/raster"
)

// Thin returns a skeleton of the same shape as the input mask. The input
// is not modified.
func Thin(mask *raster.Mask) *raster.Mask {
	out := mask.Clone()
	deletions := make([][2]int, 0)
	for {
		changed := false
		for pass := 0; pass < 2; pass++ {
			deletions = deletions[:0]
			for r := 0; r < out.Rows; r++ {
				for c := 0; c < out.Cols; c++ {
					if out.At(r, c) && deletable(out, r, c, pass) {
						deletions = append(deletions, [2]int{r, c})
					}
				}
			}
			for _, p := range deletions {
				out.Set(p[0], p[1], false)
			}
			if len(deletions) > 0 {
				changed = true
			}
		}
		if !changed {
			return out
		}
	}
}

// deletable applies the Zhang-Suen conditions for one sub-iteration to
// the pixel at (r, c). Neighbours are numbered clockwise from north:
// p2=N, p3=NE, p4=E, p5=SE, p6=S, p7=SW, p8=W, p9=NW.
func deletable(m *raster.Mask, r, c, pass int) bool {
	p := [8]int{
		b2i(m.At(r-1, c)),   // p2
		b2i(m.At(r-1, c+1)), // p3
		b2i(m.At(r, c+1)),   // p4
		b2i(m.At(r+1, c+1)), // p5
		b2i(m.At(r+1, c)),   // p6
		b2i(m.At(r+1, c-1)), // p7
		b2i(m.At(r, c-1)),   // p8
		b2i(m.At(r-1, c-1)), // p9
	}

	neighbours := 0
	for _, v := range p {
		neighbours += v
	}
	if neighbours < 2 || neighbours > 6 {
		return false
	}

	// Transitions from 0 to 1 around the ring p2..p9,p2.
	transitions := 0
	for i := 0; i < 8; i++ {
		if p[i] == 0 && p[(i+1)%8] == 1 {
			transitions++
		}
	}
	if transitions != 1 {
		return false
	}

	if pass == 0 {
		return p[0]*p[2]*p[4] == 0 && p[2]*p[4]*p[6] == 0
	}
	return p[0]*p[2]*p[6] == 0 && p[0]*p[4]*p[6] == 0
}

func b2i(v bool) int {
	if v {
		return 1
	}
	return 0
}
