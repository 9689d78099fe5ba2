package geometry

// Affine is the 6-coefficient pixel-to-map transform. A pixel at column
// c and row r maps to:
//
//	x = A*c + B*r + C
//	y = D*c + E*r + F
//
// The zero value is not useful; use Identity for unit pixel spacing with
// the origin at (0, 0). Affine values are immutable once constructed for
// a given digitising call.
type Affine struct {
	A, B, C, D, E, F float64
}

// Identity returns the unit-spacing transform with origin (0, 0).
func Identity() Affine {
	return Affine{A: 1, E: 1}
}

// NewAffine constructs a transform from its six coefficients in the
// order (a, b, c, d, e, f).
func NewAffine(a, b, c, d, e, f float64) Affine {
	return Affine{A: a, B: b, C: c, D: d, E: e, F: f}
}

// Apply maps a fractional (col, row) pixel position to map coordinates.
func (t Affine) Apply(col, row float64) (x, y float64) {
	x = t.A*col + t.B*row + t.C
	y = t.D*col + t.E*row + t.F
	return x, y
}
