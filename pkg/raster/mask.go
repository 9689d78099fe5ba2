package raster

// Mask is a 2D binary grid: 1 marks fracture signal, 0 background.
// Thresholding and skeletonization both produce masks of the same shape
// as their input.
type Mask struct {
	Rows, Cols int
	Pix        []uint8
}

// NewMask allocates an all-background mask.
func NewMask(rows, cols int) *Mask {
	return &Mask{Rows: rows, Cols: cols, Pix: make([]uint8, rows*cols)}
}

// At reports whether the pixel at (row, col) is foreground. Out-of-bounds
// positions read as background.
func (m *Mask) At(row, col int) bool {
	if row < 0 || row >= m.Rows || col < 0 || col >= m.Cols {
		return false
	}
	return m.Pix[row*m.Cols+col] != 0
}

// Set assigns the pixel at (row, col).
func (m *Mask) Set(row, col int, foreground bool) {
	if foreground {
		m.Pix[row*m.Cols+col] = 1
	} else {
		m.Pix[row*m.Cols+col] = 0
	}
}

// Sum returns the number of foreground pixels.
func (m *Mask) Sum() int {
	n := 0
	for _, v := range m.Pix {
		if v != 0 {
			n++
		}
	}
	return n
}

// Clone returns an independent copy of the mask.
func (m *Mask) Clone() *Mask {
	out := NewMask(m.Rows, m.Cols)
	copy(out.Pix, m.Pix)
	return out
}

// InvertMask flips foreground and background in place.
func (m *Mask) InvertMask() {
	for i, v := range m.Pix {
		if v != 0 {
			m.Pix[i] = 0
		} else {
			m.Pix[i] = 1
		}
	}
}
