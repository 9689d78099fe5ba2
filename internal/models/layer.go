package models

import (
	"image/color"

	"fracnet/pkg/fracture"
)

// Style describes how a layer's fractures are drawn
type Style struct {
	// Color is the stroke colour
	Color color.NRGBA

	// Width is the stroke width in output pixels
	Width float64
}

// Layer represents one fracture network in a viewing or export session
type Layer struct {
	// Network is the fracture data the layer displays
	Network *fracture.Network

	// Label is the user-facing layer name, usually the source file stem
	Label string

	// Source is the path the network was loaded from, empty for
	// digitised layers that were never saved
	Source string

	// Format identifies the source adapter ("txt" or "geojson")
	Format string

	// Visible controls whether the layer is drawn
	Visible bool

	// Style is the layer's stroke styling
	Style Style
}

// NewLayer creates a visible layer with the given label and style
func NewLayer(network *fracture.Network, label string, style Style) *Layer {
	return &Layer{
		Network: network,
		Label:   label,
		Visible: true,
		Style:   style,
	}
}
