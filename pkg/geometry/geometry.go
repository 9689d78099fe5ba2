// Package geometry provides the planar primitives used by the digitising
// pipeline: points, line strings, Douglas-Peucker simplification and the
// 6-coefficient affine transform mapping raster indices to map coordinates.
package geometry

import (
	"math"
)

// Point is a position in map coordinates.
type Point struct {
	X, Y float64
}

// LineString is an ordered sequence of map-space points. A valid line
// string has at least two points.
type LineString []Point

// Length returns the total euclidean length of the line string.
func (l LineString) Length() float64 {
	total := 0.0
	for i := 1; i < len(l); i++ {
		total += math.Hypot(l[i].X-l[i-1].X, l[i].Y-l[i-1].Y)
	}
	return total
}

// IsClosed reports whether the first and last point coincide.
func (l LineString) IsClosed() bool {
	if len(l) < 2 {
		return false
	}
	return l[0] == l[len(l)-1]
}

// Clone returns an independent copy of the line string.
func (l LineString) Clone() LineString {
	out := make(LineString, len(l))
	copy(out, l)
	return out
}

// Simplify reduces the vertex count using the Douglas-Peucker algorithm.
// Vertices closer than tolerance to the chord between kept vertices are
// dropped. A tolerance <= 0 returns the line string unchanged. The first
// and last points are always kept.
func (l LineString) Simplify(tolerance float64) LineString {
	if tolerance <= 0 || len(l) < 3 {
		return l
	}
	keep := make([]bool, len(l))
	keep[0] = true
	keep[len(l)-1] = true
	simplifyRange(l, 0, len(l)-1, tolerance, keep)

	out := make(LineString, 0, len(l))
	for i, p := range l {
		if keep[i] {
			out = append(out, p)
		}
	}
	return out
}

func simplifyRange(l LineString, first, last int, tolerance float64, keep []bool) {
	if last <= first+1 {
		return
	}
	maxDist := 0.0
	maxIdx := first
	for i := first + 1; i < last; i++ {
		d := perpendicularDistance(l[i], l[first], l[last])
		if d > maxDist {
			maxDist = d
			maxIdx = i
		}
	}
	if maxDist > tolerance {
		keep[maxIdx] = true
		simplifyRange(l, first, maxIdx, tolerance, keep)
		simplifyRange(l, maxIdx, last, tolerance, keep)
	}
}

// perpendicularDistance returns the distance from p to the segment a-b.
func perpendicularDistance(p, a, b Point) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	norm := math.Hypot(dx, dy)
	if norm == 0 {
		return math.Hypot(p.X-a.X, p.Y-a.Y)
	}
	return math.Abs(dy*p.X-dx*p.Y+b.X*a.Y-b.Y*a.X) / norm
}
