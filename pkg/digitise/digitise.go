// Package digitise converts binary fracture masks into vector fracture
// networks. The pipeline thins the mask to a 1-pixel skeleton, builds an
// undirected graph over the skeleton pixels, traces branches and
// residual loops into polylines, and finishes them into map-space line
// geometries.
package digitise

import (
	"fmt"

	"fracnet/pkg/fracture"
	"fracnet/pkg/geometry"
	"fracnet/pkg/raster"
	"fracnet/pkg/skeleton"
)

// Options controls inversion, simplification and clean-up. The zero
// value applies no inversion, no simplification and drops only
// zero-length lines.
type Options struct {
	// Invert flips foreground and background before skeletonization.
	Invert bool

	// SimplifyTolerance, when positive, reduces vertices with
	// Douglas-Peucker at that tolerance distance.
	SimplifyTolerance float64

	// MinBranchLength, when positive, drops lines shorter than this.
	MinBranchLength float64
}

// Digitiser runs the mask-to-network pipeline. Each call owns its mask
// and graph privately; nothing is cached across calls, and a single
// Digitiser must not be driven concurrently for the same dataset.
type Digitiser struct {
	transform geometry.Affine
	opts      Options
}

// New creates a digitiser with the given pixel-to-map transform.
func New(transform geometry.Affine, opts Options) *Digitiser {
	return &Digitiser{transform: transform, opts: opts}
}

// Digitise converts a binary mask into a fracture network. A mask whose
// skeleton has no 2-pixel-adjacent foreground yields an explicitly empty
// network, not an error. CRS and source are left unset; callers may
// assign a CRS afterwards.
func (d *Digitiser) Digitise(mask *raster.Mask) (*fracture.Network, error) {
	if mask == nil {
		return nil, fmt.Errorf("digitise: mask must not be nil")
	}

	work := mask
	if d.opts.Invert {
		work = mask.Clone()
		work.InvertMask()
	}

	sk := skeleton.Thin(work)
	graph := buildGraph(sk)
	if graph.edgeCount() == 0 {
		return fracture.NewNetwork(), nil
	}

	paths := traceLines(graph)

	network := fracture.NewNetwork()
	for _, path := range paths {
		line := d.finishPath(path)
		if line == nil {
			continue
		}
		network.Lines = append(network.Lines, fracture.NewLine(line))
	}
	return network, nil
}

// finishPath converts a pixel path into a map-space line string,
// sampling each pixel at its centre, then applies the optional
// simplification and length filters. It returns nil for paths that
// degenerate at any stage.
func (d *Digitiser) finishPath(path []pixel) geometry.LineString {
	if len(path) < 2 {
		return nil
	}
	line := make(geometry.LineString, 0, len(path))
	for _, p := range path {
		x, y := d.transform.Apply(float64(p.Col)+0.5, float64(p.Row)+0.5)
		line = append(line, geometry.Point{X: x, Y: y})
	}

	if d.opts.SimplifyTolerance > 0 {
		line = line.Simplify(d.opts.SimplifyTolerance)
	}
	if len(line) < 2 {
		return nil
	}

	length := line.Length()
	if d.opts.MinBranchLength > 0 {
		if length < d.opts.MinBranchLength {
			return nil
		}
	} else if length == 0 {
		return nil
	}
	return line
}
