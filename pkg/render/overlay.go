package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const maxGridLines = 2000

var (
	gridColor = color.NRGBA{A: 100}
	inkColor  = color.NRGBA{A: 0xff}
)

// drawGrid overlays faint grid lines at GridSpacing map units. Extents
// that would produce an absurd number of lines are skipped entirely.
func (r *Renderer) drawGrid(img *image.RGBA, e extent, proj projection) {
	spacing := r.opts.GridSpacing
	if e.maxX-e.minX > spacing*10000 {
		return
	}

	startX := spacing * float64(int(e.minX/spacing))
	if startX > e.minX {
		startX -= spacing
	}
	for x, count := startX, 0; x <= e.maxX && count < maxGridLines; x, count = x+spacing, count+1 {
		px, _ := proj.toPixel(x, e.minY)
		drawVerticalLine(img, int(px), gridColor)
	}

	startY := spacing * float64(int(e.minY/spacing))
	if startY > e.minY {
		startY -= spacing
	}
	for y, count := startY, 0; y <= e.maxY && count < maxGridLines; y, count = y+spacing, count+1 {
		_, py := proj.toPixel(e.minX, y)
		drawHorizontalLine(img, int(py), gridColor)
	}
}

// drawScaleBar overlays a labelled bar in the lower-left corner. Bars
// longer than half the image are clipped, with the label reflecting the
// clipped length.
func (r *Renderer) drawScaleBar(img *image.RGBA, proj projection) {
	const margin = 40
	barPixels := r.opts.ScaleBarLength * proj.scale
	maxPixels := float64(r.opts.Width) * 0.5
	units := r.opts.ScaleBarLength
	if barPixels > maxPixels {
		barPixels = maxPixels
		units = barPixels / proj.scale
	}
	if barPixels < 1 {
		return
	}

	xStart := margin
	xEnd := margin + int(barPixels)
	y := r.opts.Height - margin
	for t := -1; t <= 0; t++ {
		drawSpanHorizontal(img, xStart, xEnd, y+t, inkColor)
	}
	drawSpanVertical(img, y-5, y+5, xStart, inkColor)
	drawSpanVertical(img, y-5, y+5, xEnd, inkColor)

	label := fmt.Sprintf("%.2f %s", units, r.opts.ScaleBarUnits)
	drawLabel(img, xStart, y-8, label)
}

func drawLabel(img *image.RGBA, x, y int, text string) {
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(inkColor),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

func drawVerticalLine(img *image.RGBA, x int, c color.NRGBA) {
	bounds := img.Bounds()
	if x < bounds.Min.X || x >= bounds.Max.X {
		return
	}
	line := image.Rect(x, bounds.Min.Y, x+1, bounds.Max.Y)
	draw.Draw(img, line, image.NewUniform(c), image.Point{}, draw.Over)
}

func drawHorizontalLine(img *image.RGBA, y int, c color.NRGBA) {
	bounds := img.Bounds()
	if y < bounds.Min.Y || y >= bounds.Max.Y {
		return
	}
	line := image.Rect(bounds.Min.X, y, bounds.Max.X, y+1)
	draw.Draw(img, line, image.NewUniform(c), image.Point{}, draw.Over)
}

func drawSpanHorizontal(img *image.RGBA, x0, x1, y int, c color.NRGBA) {
	draw.Draw(img, image.Rect(x0, y, x1+1, y+1), image.NewUniform(c), image.Point{}, draw.Over)
}

func drawSpanVertical(img *image.RGBA, y0, y1, x int, c color.NRGBA) {
	draw.Draw(img, image.Rect(x, y0, x+1, y1+1), image.NewUniform(c), image.Point{}, draw.Over)
}
