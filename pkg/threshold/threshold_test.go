package threshold

import (
	"strings"
	"testing"

	"gonum.org/v1/gonum/mat"

	"fracnet/pkg/raster"
)

// testArray builds a rank-2 array with dark features on a light field.
func testArray(rows, cols int, dark [][2]int) *raster.Array {
	arr := raster.New2D(rows, cols)
	for i := range arr.Data {
		arr.Data[i] = 220
	}
	for _, p := range dark {
		arr.Data[p[0]*cols+p[1]] = 20
	}
	return arr
}

func TestOtsuGlobal(t *testing.T) {
	dark := [][2]int{{2, 1}, {2, 2}, {2, 3}, {1, 2}, {3, 2}}
	arr := testArray(5, 5, dark)
	// One mid-tone pixel keeps the cutoff strictly above the feature
	// intensity; the comparison against the cutoff is strict.
	arr.Data[0*5+4] = 40

	mask, err := Apply(arr, DefaultOptions())
	if err != nil {
		t.Fatalf("Apply() failed: %v", err)
	}
	if mask.Rows != 5 || mask.Cols != 5 {
		t.Fatalf("mask dims = %dx%d, want 5x5", mask.Rows, mask.Cols)
	}
	if mask.Sum() != len(dark) {
		t.Errorf("foreground count = %d, want %d", mask.Sum(), len(dark))
	}
	for _, p := range dark {
		if !mask.At(p[0], p[1]) {
			t.Errorf("dark pixel (%d, %d) not foreground", p[0], p[1])
		}
	}
}

func TestOtsuLocalMatchesDims(t *testing.T) {
	arr := testArray(8, 8, [][2]int{{3, 3}, {3, 4}, {4, 3}, {4, 4}})
	opts := DefaultOptions()
	opts.BlockSize = 3

	mask, err := Apply(arr, opts)
	if err != nil {
		t.Fatalf("Apply() failed: %v", err)
	}
	if mask.Rows != 8 || mask.Cols != 8 {
		t.Errorf("mask dims = %dx%d, want 8x8", mask.Rows, mask.Cols)
	}
}

func TestInvertFlipsForeground(t *testing.T) {
	// Light features on a dark field: without inversion they are the
	// background class, with inversion they become the extracted set.
	light := [][2]int{{2, 1}, {2, 2}, {2, 3}, {1, 2}, {3, 2}}
	arr := raster.New2D(5, 5)
	for i := range arr.Data {
		arr.Data[i] = 20
	}
	for _, p := range light {
		arr.Data[p[0]*5+p[1]] = 220
	}
	arr.Data[0*5+4] = 200

	opts := DefaultOptions()
	opts.Invert = true
	mask, err := Apply(arr, opts)
	if err != nil {
		t.Fatalf("Apply() failed: %v", err)
	}
	if mask.Sum() != len(light) {
		t.Errorf("foreground count = %d, want %d", mask.Sum(), len(light))
	}
	for _, p := range light {
		if !mask.At(p[0], p[1]) {
			t.Errorf("light pixel (%d, %d) not foreground after inversion", p[0], p[1])
		}
	}
}

func TestAdaptiveDefaultsAndShapes(t *testing.T) {
	arr := testArray(10, 12, [][2]int{{5, 5}, {5, 6}, {5, 7}})
	for _, method := range []AdaptiveMethod{AdaptiveGaussian, AdaptiveMean, AdaptiveMedian} {
		opts := DefaultOptions()
		opts.Method = MethodAdaptive
		opts.AdaptiveMethod = method
		opts.BlockSize = 5

		mask, err := Apply(arr, opts)
		if err != nil {
			t.Fatalf("Apply(%s) failed: %v", method, err)
		}
		if mask.Rows != 10 || mask.Cols != 12 {
			t.Errorf("%s: mask dims = %dx%d, want 10x12", method, mask.Rows, mask.Cols)
		}
	}
}

func TestAdaptiveAutoBlock(t *testing.T) {
	arr := testArray(6, 6, [][2]int{{2, 2}})
	opts := DefaultOptions()
	opts.Method = MethodAdaptive

	mask, err := Apply(arr, opts)
	if err != nil {
		t.Fatalf("Apply() failed: %v", err)
	}
	if mask.Rows != 6 || mask.Cols != 6 {
		t.Errorf("mask dims = %dx%d, want 6x6", mask.Rows, mask.Cols)
	}
}

func TestAdaptiveUnknownStatistic(t *testing.T) {
	arr := testArray(4, 4, nil)
	opts := DefaultOptions()
	opts.Method = MethodAdaptive
	opts.AdaptiveMethod = "mode"

	if _, err := Apply(arr, opts); err == nil {
		t.Error("unknown adaptive statistic must fail")
	}
}

func TestPercentileShape(t *testing.T) {
	arr := testArray(7, 7, [][2]int{{3, 1}, {3, 2}, {3, 3}})
	opts := DefaultOptions()
	opts.Method = MethodPercentile
	opts.BlockSize = 3
	opts.Percentile = 0.05

	mask, err := Apply(arr, opts)
	if err != nil {
		t.Fatalf("Apply() failed: %v", err)
	}
	if mask.Rows != 7 || mask.Cols != 7 {
		t.Errorf("mask dims = %dx%d, want 7x7", mask.Rows, mask.Cols)
	}
}

func TestModalBlurShape(t *testing.T) {
	arr := testArray(6, 6, [][2]int{{2, 2}, {2, 3}})
	opts := DefaultOptions()
	opts.ModalBlur = 2

	mask, err := Apply(arr, opts)
	if err != nil {
		t.Fatalf("Apply() failed: %v", err)
	}
	if mask.Rows != 6 || mask.Cols != 6 {
		t.Errorf("mask dims = %dx%d, want 6x6", mask.Rows, mask.Cols)
	}
}

func TestUnknownMethod(t *testing.T) {
	arr := testArray(3, 3, nil)
	opts := Options{Method: "watershed"}

	_, err := Apply(arr, opts)
	if err == nil {
		t.Fatal("unknown method must fail")
	}
	if !strings.Contains(err.Error(), "watershed") {
		t.Errorf("error %q should name the method", err)
	}
}

func TestUnsupportedArrayPropagates(t *testing.T) {
	arr := &raster.Array{Shape: []int{2, 2, 2}, Data: make([]float64, 8)}
	if _, err := Apply(arr, DefaultOptions()); err == nil {
		t.Error("unsupported array shape must fail")
	}
}

func TestEvenBlockForcedOdd(t *testing.T) {
	// gaussianMean with block 1 has sigma 0 and copies the input; block 2
	// is forced to 3 and must actually smooth.
	gray := mat.NewDense(5, 5, nil)
	gray.Set(2, 2, 1)

	arr := raster.New2D(5, 5)
	arr.Data[2*5+2] = 1
	opts := DefaultOptions()
	opts.Method = MethodAdaptive
	opts.BlockSize = 2

	if _, err := Apply(arr, opts); err != nil {
		t.Fatalf("Apply() failed: %v", err)
	}

	smoothed := gaussianMean(gray, 3)
	if smoothed.At(2, 2) >= 1 {
		t.Errorf("smoothed centre = %v, want < 1", smoothed.At(2, 2))
	}
	if smoothed.At(2, 1) <= 0 {
		t.Errorf("smoothed neighbour = %v, want > 0", smoothed.At(2, 1))
	}
}

func TestAutoBlockSizeIsOdd(t *testing.T) {
	cases := [][2]int{{100, 100}, {500, 400}, {10, 10}}
	for _, c := range cases {
		block := autoBlockSize(c[0], c[1])
		if block%2 == 0 {
			t.Errorf("autoBlockSize(%d, %d) = %d, want odd", c[0], c[1], block)
		}
		if block < 1 {
			t.Errorf("autoBlockSize(%d, %d) = %d, want >= 1", c[0], c[1], block)
		}
	}
}

func TestReflectIndex(t *testing.T) {
	cases := []struct{ i, n, want int }{
		{-1, 5, 0},
		{-2, 5, 1},
		{0, 5, 0},
		{4, 5, 4},
		{5, 5, 4},
		{6, 5, 3},
	}
	for _, c := range cases {
		if got := reflectIndex(c.i, c.n); got != c.want {
			t.Errorf("reflectIndex(%d, %d) = %d, want %d", c.i, c.n, got, c.want)
		}
	}
}

func TestModalFilterNeverPromotes(t *testing.T) {
	mask := raster.NewMask(4, 4)
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			mask.Set(r, c, true)
		}
	}
	out := modalFilter(mask, 1)
	if out.Rows != 4 || out.Cols != 4 {
		t.Fatalf("modal dims = %dx%d, want 4x4", out.Rows, out.Cols)
	}
}
