// Package project persists viewing sessions: which network files are
// loaded, their per-layer styling and visibility, and the overlay view
// options. Projects reference their source files rather than embedding
// geometry; loading re-reads every network through the format adapters.
package project

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"fracnet/internal/models"
	"fracnet/pkg/fracture"
	"fracnet/pkg/geojson"
	"fracnet/pkg/txt"
)

// FormatVersion is written into every project file.
const FormatVersion = 1

// View holds the overlay options saved with a project.
type View struct {
	ShowGrid       bool    `yaml:"showGrid"`
	ShowScaleBar   bool    `yaml:"showScaleBar"`
	GridSpacing    float64 `yaml:"gridSpacing"`
	ScaleBarLength float64 `yaml:"scaleBarLength"`
}

// LayerRef is one serialised layer entry.
type LayerRef struct {
	// Path is the network source file.
	Path string `yaml:"path"`

	// Format selects the adapter: "txt" or "geojson". Empty means
	// detect from the file extension.
	Format string `yaml:"format,omitempty"`

	Label   string  `yaml:"label"`
	Visible bool    `yaml:"visible"`
	Color   string  `yaml:"color"`
	Width   float64 `yaml:"width"`
}

// File is the on-disk project structure.
type File struct {
	Version int        `yaml:"version"`
	Layers  []LayerRef `yaml:"layers"`
	View    View       `yaml:"view"`
}

// Save writes a project file describing the given layers. Layers without
// a source path are skipped: digitised networks must be exported to a
// network file before they can be referenced.
func Save(path string, layers []*models.Layer, view View) error {
	file := File{Version: FormatVersion, View: view}
	for _, layer := range layers {
		if layer.Source == "" {
			continue
		}
		file.Layers = append(file.Layers, LayerRef{
			Path:    layer.Source,
			Format:  layer.Format,
			Label:   layer.Label,
			Visible: layer.Visible,
			Color:   FormatColor(layer.Style.Color),
			Width:   layer.Style.Width,
		})
	}

	data, err := yaml.Marshal(&file)
	if err != nil {
		return fmt.Errorf("error marshaling project: %v", err)
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("error creating project directory: %v", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("error writing project file: %v", err)
	}
	return nil
}

// Load reads a project file and its referenced networks.
func Load(path string) ([]*models.Layer, View, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, View{}, fmt.Errorf("error reading project file: %v", err)
	}
	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, View{}, fmt.Errorf("error parsing project file: %v", err)
	}
	if file.Version > FormatVersion {
		return nil, View{}, fmt.Errorf("project version %d is newer than supported version %d", file.Version, FormatVersion)
	}

	layers := make([]*models.Layer, 0, len(file.Layers))
	for _, ref := range file.Layers {
		layer, err := loadLayer(ref)
		if err != nil {
			return nil, View{}, err
		}
		layers = append(layers, layer)
	}
	return layers, file.View, nil
}

func loadLayer(ref LayerRef) (*models.Layer, error) {
	format := ref.Format
	if format == "" {
		format = DetectFormat(ref.Path)
	}

	var network *fracture.Network
	var err error
	switch format {
	case "txt":
		network, err = txt.Read(ref.Path, nil)
	case "geojson":
		network, err = geojson.Read(ref.Path, nil)
	default:
		return nil, fmt.Errorf("layer %q has unknown format %q", ref.Path, format)
	}
	if err != nil {
		return nil, fmt.Errorf("error loading layer %q: %v", ref.Path, err)
	}

	c, err := ParseColor(ref.Color)
	if err != nil {
		return nil, fmt.Errorf("layer %q: %v", ref.Path, err)
	}
	label := ref.Label
	if label == "" {
		label = strings.TrimSuffix(filepath.Base(ref.Path), filepath.Ext(ref.Path))
	}
	width := ref.Width
	if width <= 0 {
		width = 1
	}

	layer := models.NewLayer(network, label, models.Style{Color: c, Width: width})
	layer.Source = ref.Path
	layer.Format = format
	layer.Visible = ref.Visible
	return layer, nil
}

// DetectFormat maps a file extension to an adapter name.
func DetectFormat(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt":
		return "txt"
	case ".geojson", ".json":
		return "geojson"
	default:
		return ""
	}
}

// FormatColor renders a colour as #rrggbb.
func FormatColor(c color.NRGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// ParseColor reads a #rrggbb colour. Empty strings parse as black.
func ParseColor(s string) (color.NRGBA, error) {
	if s == "" {
		return color.NRGBA{A: 0xff}, nil
	}
	if !strings.HasPrefix(s, "#") || len(s) != 7 {
		return color.NRGBA{}, fmt.Errorf("invalid colour %q, expected #rrggbb", s)
	}
	var r, g, b uint8
	if _, err := fmt.Sscanf(s[1:], "%02x%02x%02x", &r, &g, &b); err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid colour %q: %v", s, err)
	}
	return color.NRGBA{R: r, G: g, B: b, A: 0xff}, nil
}
