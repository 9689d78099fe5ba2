// Package geojson reads and writes fracture networks as GeoJSON
// feature collections. Every feature must carry a LineString or
// MultiLineString geometry; anything else is a hard read error. Feature
// attributes pass through to fracture line properties and the CRS is
// carried as a dataset-level member.
package geojson

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	gj "github.com/paulmach/go.geojson"

	"fracnet/pkg/fracture"
	"fracnet/pkg/geometry"
)

// FormatError describes a failure to read or write a GeoJSON fracture
// layer. Reads abort on the first error; no partial network is returned.
type FormatError struct {
	Path string
	Msg  string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Msg)
}

// ReadOptions controls reading.
type ReadOptions struct {
	// IncludeAttributes stores feature attributes in line properties.
	IncludeAttributes bool

	// ExplodeMultiLines splits MultiLineString geometries into one
	// fracture line per part. Otherwise the parts are concatenated into
	// a single record per feature.
	ExplodeMultiLines bool
}

// DefaultReadOptions keeps attributes and explodes multilines.
func DefaultReadOptions() ReadOptions {
	return ReadOptions{IncludeAttributes: true, ExplodeMultiLines: true}
}

// Read parses a GeoJSON file into a fracture network. A nil opts uses
// DefaultReadOptions.
func Read(path string, opts *ReadOptions) (*fracture.Network, error) {
	options := DefaultReadOptions()
	if opts != nil {
		options = *opts
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &FormatError{Path: path, Msg: "GeoJSON file not found"}
		}
		return nil, fmt.Errorf("failed to read GeoJSON file: %v", err)
	}

	collection, err := gj.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, &FormatError{Path: path, Msg: fmt.Sprintf("failed to parse GeoJSON: %v", err)}
	}
	if len(collection.Features) == 0 {
		return nil, &FormatError{Path: path, Msg: "layer contains no features"}
	}

	network := fracture.NewNetwork()
	network.Source = path
	network.CRS = readCRS(data)

	for _, feature := range collection.Features {
		geom := feature.Geometry
		if geom == nil {
			continue
		}
		switch geom.Type {
		case gj.GeometryLineString:
			line, ok := toLineString(geom.LineString)
			if !ok {
				continue
			}
			network.Lines = append(network.Lines, newLine(line, feature, options))
		case gj.GeometryMultiLineString:
			if options.ExplodeMultiLines {
				for _, part := range geom.MultiLineString {
					line, ok := toLineString(part)
					if !ok {
						continue
					}
					network.Lines = append(network.Lines, newLine(line, feature, options))
				}
			} else {
				var merged geometry.LineString
				for _, part := range geom.MultiLineString {
					line, ok := toLineString(part)
					if !ok {
						continue
					}
					merged = append(merged, line...)
				}
				if len(merged) >= 2 {
					network.Lines = append(network.Lines, newLine(merged, feature, options))
				}
			}
		default:
			return nil, &FormatError{
				Path: path,
				Msg:  fmt.Sprintf("unsupported geometry type %q, only lines are allowed", geom.Type),
			}
		}
	}

	if len(network.Lines) == 0 {
		return nil, &FormatError{Path: path, Msg: "no valid line geometries were found in the layer"}
	}
	return network, nil
}

func newLine(geom geometry.LineString, feature *gj.Feature, options ReadOptions) fracture.Line {
	line := fracture.NewLine(geom)
	if options.IncludeAttributes {
		for key, value := range feature.Properties {
			line.Properties[key] = value
		}
	}
	return line
}

func toLineString(coords [][]float64) (geometry.LineString, bool) {
	line := make(geometry.LineString, 0, len(coords))
	for _, c := range coords {
		if len(c) < 2 {
			continue
		}
		line = append(line, geometry.Point{X: c[0], Y: c[1]})
	}
	if len(line) < 2 {
		return nil, false
	}
	return line, true
}

// Write serialises a fracture network as a GeoJSON feature collection,
// creating parent directories as needed.
func Write(network *fracture.Network, path string) error {
	collection := gj.NewFeatureCollection()
	for _, line := range network.Lines {
		coords := make([][]float64, 0, len(line.Geometry))
		for _, p := range line.Geometry {
			coords = append(coords, []float64{p.X, p.Y})
		}
		feature := gj.NewFeature(gj.NewLineStringGeometry(coords))
		for key, value := range line.Properties {
			feature.SetProperty(key, value)
		}
		collection.AddFeature(feature)
	}

	data, err := json.Marshal(collection)
	if err != nil {
		return fmt.Errorf("failed to marshal GeoJSON: %v", err)
	}
	if network.CRS != "" {
		data, err = injectCRS(data, network.CRS)
		if err != nil {
			return fmt.Errorf("failed to attach CRS: %v", err)
		}
	}

	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %v", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write GeoJSON file: %v", err)
	}
	return nil
}

// crsDocument is the legacy named-CRS member carried at the collection
// level. go.geojson has no CRS field, so it is spliced in and out of the
// raw document.
type crsDocument struct {
	CRS struct {
		Properties struct {
			Name string `json:"name"`
		} `json:"properties"`
	} `json:"crs"`
}

func readCRS(data []byte) string {
	var doc crsDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return ""
	}
	return doc.CRS.Properties.Name
}

func injectCRS(data []byte, crs string) ([]byte, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	member, err := json.Marshal(map[string]interface{}{
		"type": "name",
		"properties": map[string]interface{}{
			"name": crs,
		},
	})
	if err != nil {
		return nil, err
	}
	doc["crs"] = member
	return json.Marshal(doc)
}
