package raster

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"os"
	"strconv"
	"strings"

	// Registered decoders. The x/image formats extend the stdlib set the
	// same way the GUI's raster support is an optional extra: a file in a
	// format with no decoder surfaces ErrUnsupportedFormat at load time,
	// leaving the rest of the pipeline usable.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"fracnet/pkg/geometry"
)

// ErrUnsupportedFormat is returned when no decoder is available for the
// raster file being opened.
var ErrUnsupportedFormat = errors.New("unsupported raster format")

// Load reads a raster image file into an Array. Grayscale images decode
// to a rank-2 array of 8-bit intensities; everything else decodes to a
// rank-3 RGBA array with a trailing band axis.
func Load(path string) (*Array, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open raster file: %v", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
		}
		return nil, fmt.Errorf("failed to decode raster file: %v", err)
	}
	return FromImage(img), nil
}

// FromImage converts a decoded image into an Array of 8-bit intensities.
func FromImage(img image.Image) *Array {
	bounds := img.Bounds()
	rows := bounds.Dy()
	cols := bounds.Dx()

	if gray, ok := img.(*image.Gray); ok {
		arr := New2D(rows, cols)
		for r := 0; r < rows; r++ {
			for c := 0; c < cols; c++ {
				arr.Data[r*cols+c] = float64(gray.GrayAt(bounds.Min.X+c, bounds.Min.Y+r).Y)
			}
		}
		return arr
	}

	arr := New3D(rows, cols, 4)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			cr, cg, cb, ca := img.At(bounds.Min.X+c, bounds.Min.Y+r).RGBA()
			idx := (r*cols + c) * 4
			arr.Data[idx] = float64(cr >> 8)
			arr.Data[idx+1] = float64(cg >> 8)
			arr.Data[idx+2] = float64(cb >> 8)
			arr.Data[idx+3] = float64(ca >> 8)
		}
	}
	return arr
}

// LoadWorldFile reads an ESRI world file: six lines holding the pixel
// x-size, the two rotation terms, the negative pixel y-size and the map
// coordinates of the centre of the upper-left pixel. The result is the
// affine transform for pixel-corner sampling, matching the transform a
// georeferenced raster dataset would carry.
func LoadWorldFile(path string) (geometry.Affine, error) {
	file, err := os.Open(path)
	if err != nil {
		return geometry.Affine{}, fmt.Errorf("failed to open world file: %v", err)
	}
	defer file.Close()

	values := make([]float64, 0, 6)
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		v, err := strconv.ParseFloat(line, 64)
		if err != nil {
			return geometry.Affine{}, fmt.Errorf("invalid world file value %q: %v", line, err)
		}
		values = append(values, v)
	}
	if err := scanner.Err(); err != nil {
		return geometry.Affine{}, fmt.Errorf("failed to read world file: %v", err)
	}
	if len(values) != 6 {
		return geometry.Affine{}, fmt.Errorf("world file must hold 6 values, got %d", len(values))
	}

	// World file order: A, D, B, E, C', F' where (C', F') is the centre
	// of the upper-left pixel. Shift by half a pixel to get the corner
	// origin the pipeline's centre-sampling expects.
	a, d, b, e := values[0], values[1], values[2], values[3]
	cx := values[4] - a*0.5 - b*0.5
	cy := values[5] - d*0.5 - e*0.5
	return geometry.NewAffine(a, b, cx, d, e, cy), nil
}
