// Package render draws styled fracture network layers into raster
// images for export. Layers are fitted to their combined map extent with
// the y axis pointing up, stroked with per-layer colour and width, and
// optionally overlaid with a coordinate grid and a scale bar.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"os"

	"golang.org/x/image/vector"

	"fracnet/internal/models"
)

// DefaultPalette is cycled when layers are created without an explicit
// colour.
var DefaultPalette = []color.NRGBA{
	{R: 0x00, G: 0x80, B: 0x80, A: 0xff}, // dark cyan
	{R: 0x80, G: 0x00, B: 0x00, A: 0xff}, // dark red
	{R: 0x00, G: 0x80, B: 0x00, A: 0xff}, // dark green
	{R: 0x00, G: 0x00, B: 0x80, A: 0xff}, // dark blue
	{R: 0x80, G: 0x00, B: 0x80, A: 0xff}, // dark magenta
	{R: 0x80, G: 0x80, B: 0x00, A: 0xff}, // dark yellow
}

// PaletteColor returns the palette entry for the i-th layer.
func PaletteColor(i int) color.NRGBA {
	return DefaultPalette[i%len(DefaultPalette)]
}

// Options configures an export rendering.
type Options struct {
	// Width and Height are the output size in pixels.
	Width, Height int

	// Background fills the image before drawing.
	Background color.NRGBA

	// Margin is the fraction of the output kept clear around the extent.
	Margin float64

	// ShowGrid overlays coordinate grid lines at GridSpacing map units.
	ShowGrid    bool
	GridSpacing float64

	// ShowScaleBar overlays a labelled scale bar of ScaleBarLength map
	// units in the lower-left corner.
	ShowScaleBar   bool
	ScaleBarLength float64
	ScaleBarUnits  string
}

// DefaultOptions returns a 1024x768 white canvas with overlays off.
func DefaultOptions() Options {
	return Options{
		Width:          1024,
		Height:         768,
		Background:     color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
		Margin:         0.05,
		GridSpacing:    100,
		ScaleBarLength: 100,
		ScaleBarUnits:  "units",
	}
}

// Renderer draws layer stacks with a fixed set of options.
type Renderer struct {
	opts Options
}

// NewRenderer creates a renderer.
func NewRenderer(opts Options) *Renderer {
	if opts.Width <= 0 || opts.Height <= 0 {
		def := DefaultOptions()
		opts.Width, opts.Height = def.Width, def.Height
	}
	return &Renderer{opts: opts}
}

// Render draws the visible layers bottom-up into a new image. Rendering
// an empty or fully hidden stack yields the bare background.
func (r *Renderer) Render(layers []*models.Layer) (*image.RGBA, error) {
	img := image.NewRGBA(image.Rect(0, 0, r.opts.Width, r.opts.Height))
	draw.Draw(img, img.Bounds(), image.NewUniform(r.opts.Background), image.Point{}, draw.Src)

	extent, ok := layerExtent(layers)
	if !ok {
		return img, nil
	}
	proj := newProjection(extent, r.opts)

	for _, layer := range layers {
		if !layer.Visible || layer.Network == nil {
			continue
		}
		r.drawLayer(img, layer, proj)
	}
	if r.opts.ShowGrid && r.opts.GridSpacing > 0 {
		r.drawGrid(img, extent, proj)
	}
	if r.opts.ShowScaleBar && r.opts.ScaleBarLength > 0 {
		r.drawScaleBar(img, proj)
	}
	return img, nil
}

// SavePNG renders the layers and writes the result as a PNG file.
func (r *Renderer) SavePNG(layers []*models.Layer, path string) error {
	img, err := r.Render(layers)
	if err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create image file: %v", err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return fmt.Errorf("failed to encode PNG: %v", err)
	}
	return nil
}

// extent is a map-space bounding box.
type extent struct {
	minX, minY, maxX, maxY float64
}

func layerExtent(layers []*models.Layer) (extent, bool) {
	e := extent{
		minX: math.Inf(1), minY: math.Inf(1),
		maxX: math.Inf(-1), maxY: math.Inf(-1),
	}
	found := false
	for _, layer := range layers {
		if !layer.Visible || layer.Network == nil {
			continue
		}
		for _, line := range layer.Network.Lines {
			for _, p := range line.Geometry {
				e.minX = math.Min(e.minX, p.X)
				e.minY = math.Min(e.minY, p.Y)
				e.maxX = math.Max(e.maxX, p.X)
				e.maxY = math.Max(e.maxY, p.Y)
				found = true
			}
		}
	}
	return e, found
}

// projection maps map coordinates to pixel coordinates, preserving
// aspect ratio and flipping y so north points up.
type projection struct {
	scale         float64
	offsetX       float64
	offsetY       float64
	minX, minY    float64
	width, height int
}

func newProjection(e extent, opts Options) projection {
	spanX := e.maxX - e.minX
	spanY := e.maxY - e.minY
	if spanX == 0 {
		spanX = 1
	}
	if spanY == 0 {
		spanY = 1
	}
	usableW := float64(opts.Width) * (1 - 2*opts.Margin)
	usableH := float64(opts.Height) * (1 - 2*opts.Margin)
	scale := math.Min(usableW/spanX, usableH/spanY)
	return projection{
		scale:   scale,
		offsetX: (float64(opts.Width) - spanX*scale) / 2,
		offsetY: (float64(opts.Height) - spanY*scale) / 2,
		minX:    e.minX,
		minY:    e.minY,
		width:   opts.Width,
		height:  opts.Height,
	}
}

func (p projection) toPixel(x, y float64) (px, py float64) {
	px = (x-p.minX)*p.scale + p.offsetX
	py = float64(p.height) - ((y-p.minY)*p.scale + p.offsetY)
	return px, py
}

// drawLayer strokes every line of the layer with its style.
func (r *Renderer) drawLayer(img *image.RGBA, layer *models.Layer, proj projection) {
	width := layer.Style.Width
	if width <= 0 {
		width = 1
	}
	ras := vector.NewRasterizer(r.opts.Width, r.opts.Height)
	half := width / 2
	for _, line := range layer.Network.Lines {
		for i := 1; i < len(line.Geometry); i++ {
			x0, y0 := proj.toPixel(line.Geometry[i-1].X, line.Geometry[i-1].Y)
			x1, y1 := proj.toPixel(line.Geometry[i].X, line.Geometry[i].Y)
			strokeSegment(ras, x0, y0, x1, y1, half)
		}
		// Square joints close the gaps between adjacent segment quads.
		for i := 1; i < len(line.Geometry)-1; i++ {
			x, y := proj.toPixel(line.Geometry[i].X, line.Geometry[i].Y)
			fillSquare(ras, x, y, half)
		}
	}
	ras.Draw(img, img.Bounds(), image.NewUniform(layer.Style.Color), image.Point{})
}

// strokeSegment adds a filled quad covering the segment with the given
// half-width.
func strokeSegment(ras *vector.Rasterizer, x0, y0, x1, y1, half float64) {
	dx := x1 - x0
	dy := y1 - y0
	length := math.Hypot(dx, dy)
	if length == 0 {
		fillSquare(ras, x0, y0, half)
		return
	}
	nx := -dy / length * half
	ny := dx / length * half
	ras.MoveTo(float32(x0+nx), float32(y0+ny))
	ras.LineTo(float32(x1+nx), float32(y1+ny))
	ras.LineTo(float32(x1-nx), float32(y1-ny))
	ras.LineTo(float32(x0-nx), float32(y0-ny))
	ras.ClosePath()
}

func fillSquare(ras *vector.Rasterizer, x, y, half float64) {
	ras.MoveTo(float32(x-half), float32(y-half))
	ras.LineTo(float32(x+half), float32(y-half))
	ras.LineTo(float32(x+half), float32(y+half))
	ras.LineTo(float32(x-half), float32(y+half))
	ras.ClosePath()
}
