package raster

import (
	"errors"
	"image"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestGrayscaleRank2Scaling(t *testing.T) {
	arr := New2D(2, 2)
	arr.Data = []float64{0, 85, 170, 255}

	gray, err := arr.Grayscale()
	if err != nil {
		t.Fatalf("Grayscale() failed: %v", err)
	}
	rows, cols := gray.Dims()
	if rows != 2 || cols != 2 {
		t.Fatalf("Grayscale() dims = %dx%d, want 2x2", rows, cols)
	}
	if got := gray.At(1, 1); math.Abs(got-1) > 1e-12 {
		t.Errorf("255 should scale to 1, got %v", got)
	}
	if got := gray.At(0, 1); math.Abs(got-85.0/255.0) > 1e-12 {
		t.Errorf("85 should scale to 1/3, got %v", got)
	}
}

func TestGrayscaleFloatPassthrough(t *testing.T) {
	arr := New2D(1, 3)
	arr.Data = []float64{0, 0.5, 1}

	gray, err := arr.Grayscale()
	if err != nil {
		t.Fatalf("Grayscale() failed: %v", err)
	}
	if got := gray.At(0, 1); got != 0.5 {
		t.Errorf("values already in [0,1] must pass through, got %v", got)
	}
}

func TestGrayscaleBandLast(t *testing.T) {
	// Pure red pixels: luma = 0.2125.
	arr := New3D(2, 2, 3)
	for i := 0; i < 4; i++ {
		arr.Data[i*3] = 255
	}

	gray, err := arr.Grayscale()
	if err != nil {
		t.Fatalf("Grayscale() failed: %v", err)
	}
	if got := gray.At(0, 0); math.Abs(got-0.2125) > 1e-12 {
		t.Errorf("red luma = %v, want 0.2125", got)
	}
}

func TestGrayscaleBandFirst(t *testing.T) {
	// Shape [3, 2, 2]: band axis first, all-green image.
	arr := &Array{Shape: []int{3, 2, 2}, Data: make([]float64, 12)}
	for i := 4; i < 8; i++ {
		arr.Data[i] = 255
	}

	gray, err := arr.Grayscale()
	if err != nil {
		t.Fatalf("Grayscale() failed: %v", err)
	}
	rows, cols := gray.Dims()
	if rows != 2 || cols != 2 {
		t.Fatalf("band-first dims = %dx%d, want 2x2", rows, cols)
	}
	if got := gray.At(1, 1); math.Abs(got-0.7154) > 1e-12 {
		t.Errorf("green luma = %v, want 0.7154", got)
	}
}

func TestGrayscaleUnsupportedShapes(t *testing.T) {
	cases := []*Array{
		{Shape: []int{4}, Data: make([]float64, 4)},
		{Shape: []int{2, 2, 2}, Data: make([]float64, 8)},
		{Shape: []int{2, 2, 2, 2}, Data: make([]float64, 16)},
	}
	for _, arr := range cases {
		if _, err := arr.Grayscale(); !errors.Is(err, ErrUnsupportedShape) {
			t.Errorf("shape %v: got %v, want ErrUnsupportedShape", arr.Shape, err)
		}
	}
}

func TestInvert(t *testing.T) {
	arr := New2D(1, 2)
	arr.Data = []float64{0, 1}
	gray, err := arr.Grayscale()
	if err != nil {
		t.Fatalf("Grayscale() failed: %v", err)
	}
	Invert(gray)
	if gray.At(0, 0) != 1 || gray.At(0, 1) != 0 {
		t.Errorf("Invert() = [%v %v], want [1 0]", gray.At(0, 0), gray.At(0, 1))
	}
}

func TestMaskBasics(t *testing.T) {
	mask := NewMask(3, 3)
	mask.Set(1, 1, true)
	if !mask.At(1, 1) {
		t.Error("Set pixel not readable")
	}
	if mask.At(-1, 0) || mask.At(0, 3) {
		t.Error("out-of-bounds reads must be background")
	}
	if mask.Sum() != 1 {
		t.Errorf("Sum() = %d, want 1", mask.Sum())
	}

	mask.InvertMask()
	if mask.Sum() != 8 {
		t.Errorf("inverted Sum() = %d, want 8", mask.Sum())
	}
	if mask.At(1, 1) {
		t.Error("inverted centre should be background")
	}
}

func TestFromImageGray(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 4, 3))
	img.SetGray(2, 1, color.Gray{Y: 200})

	arr := FromImage(img)
	if arr.Rank() != 2 || arr.Shape[0] != 3 || arr.Shape[1] != 4 {
		t.Fatalf("gray image shape = %v, want [3 4]", arr.Shape)
	}
	if arr.Data[1*4+2] != 200 {
		t.Errorf("pixel value = %v, want 200", arr.Data[1*4+2])
	}
}

func TestFromImageRGBA(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255})

	arr := FromImage(img)
	if arr.Rank() != 3 || arr.Shape[2] != 4 {
		t.Fatalf("colour image shape = %v, want trailing band axis of 4", arr.Shape)
	}
	if arr.Data[0] != 255 {
		t.Errorf("red channel = %v, want 255", arr.Data[0])
	}
}

func TestLoadWorldFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "raster.pgw")
	content := "2.0\n0.0\n0.0\n-2.0\n100.0\n200.0\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write world file: %v", err)
	}

	tr, err := LoadWorldFile(path)
	if err != nil {
		t.Fatalf("LoadWorldFile() failed: %v", err)
	}
	// The centre of the upper-left pixel must land on the world file's
	// translation values.
	x, y := tr.Apply(0.5, 0.5)
	if math.Abs(x-100) > 1e-9 || math.Abs(y-200) > 1e-9 {
		t.Errorf("upper-left pixel centre = (%v, %v), want (100, 200)", x, y)
	}
}

func TestLoadWorldFileErrors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "short.wld")
	if err := os.WriteFile(path, []byte("1.0\n2.0\n"), 0644); err != nil {
		t.Fatalf("failed to write world file: %v", err)
	}
	if _, err := LoadWorldFile(path); err == nil {
		t.Error("truncated world file must fail")
	}
	if _, err := LoadWorldFile(filepath.Join(dir, "missing.wld")); err == nil {
		t.Error("missing world file must fail")
	}
}
