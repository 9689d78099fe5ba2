// Package fracture defines the domain model shared by the digitising
// pipeline, the file adapters and the renderer: a fracture line with
// provenance attributes, and the network that owns an ordered set of them.
package fracture

import (
	"fracnet/pkg/geometry"
)

// Line is a single fracture segment: one vector line geometry plus an
// attribute mapping carrying provenance from file attributes.
type Line struct {
	// Geometry is the ordered sequence of map-space coordinates.
	Geometry geometry.LineString

	// Properties holds attribute values keyed by name. Lines produced
	// by the raster pipeline start with an empty map.
	Properties map[string]interface{}
}

// NewLine wraps a geometry with an empty attribute map.
func NewLine(geom geometry.LineString) Line {
	return Line{Geometry: geom, Properties: map[string]interface{}{}}
}

// Network is an ordered collection of fracture lines with optional
// dataset-level metadata. A network with zero lines is valid and has
// zero total length. Networks are constructed by the digitising pipeline
// or a file reader, mutated only by reassigning Lines or CRS, and read
// by rendering and export.
type Network struct {
	// Lines is the ordered sequence of fractures.
	Lines []Line

	// CRS is an opaque coordinate-reference-system label, empty when
	// unknown (the raster pipeline never assigns one).
	CRS string

	// Source is the path of the file the network was read from, empty
	// for digitised networks.
	Source string
}

// NewNetwork returns an empty network.
func NewNetwork() *Network {
	return &Network{Lines: []Line{}}
}

// Len returns the number of fracture lines in the network.
func (n *Network) Len() int {
	return len(n.Lines)
}

// TotalLength returns the cumulative geometric length of all fractures.
// It is always >= 0 and exactly 0 for an empty network.
func (n *Network) TotalLength() float64 {
	total := 0.0
	for _, line := range n.Lines {
		total += line.Geometry.Length()
	}
	return total
}
