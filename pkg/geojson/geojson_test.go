package geojson

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fracnet/pkg/fracture"
	"fracnet/pkg/geometry"
)

func writeFixture(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "layer.geojson")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	return path
}

const lineFixture = `{
  "type": "FeatureCollection",
  "crs": {"type": "name", "properties": {"name": "EPSG:32633"}},
  "features": [
    {
      "type": "Feature",
      "properties": {"set": "NE", "aperture": 0.4},
      "geometry": {"type": "LineString", "coordinates": [[0, 0], [3, 4]]}
    },
    {
      "type": "Feature",
      "properties": {},
      "geometry": {
        "type": "MultiLineString",
        "coordinates": [[[10, 10], [11, 10]], [[20, 20], [20, 22]]]
      }
    }
  ]
}`

func TestReadLineAndMultiLine(t *testing.T) {
	path := writeFixture(t, lineFixture)

	net, err := Read(path, nil)
	if err != nil {
		t.Fatalf("Read() failed: %v", err)
	}
	// Default options explode the multiline into two records.
	if net.Len() != 3 {
		t.Fatalf("read %d lines, want 3", net.Len())
	}
	if net.CRS != "EPSG:32633" {
		t.Errorf("CRS = %q, want EPSG:32633", net.CRS)
	}
	if got := net.Lines[0].Geometry.Length(); got != 5 {
		t.Errorf("first line length = %v, want 5", got)
	}
	if got := net.Lines[0].Properties["set"]; got != "NE" {
		t.Errorf(`properties["set"] = %v, want "NE"`, got)
	}
	if got := net.Lines[2].Geometry.Length(); got != 2 {
		t.Errorf("second multiline part length = %v, want 2", got)
	}
}

func TestReadMergedMultiLine(t *testing.T) {
	path := writeFixture(t, lineFixture)
	opts := DefaultReadOptions()
	opts.ExplodeMultiLines = false

	net, err := Read(path, &opts)
	if err != nil {
		t.Fatalf("Read() failed: %v", err)
	}
	if net.Len() != 2 {
		t.Fatalf("read %d lines, want 2", net.Len())
	}
	if got := len(net.Lines[1].Geometry); got != 4 {
		t.Errorf("merged multiline has %d points, want 4", got)
	}
}

func TestReadWithoutAttributes(t *testing.T) {
	path := writeFixture(t, lineFixture)
	opts := DefaultReadOptions()
	opts.IncludeAttributes = false

	net, err := Read(path, &opts)
	if err != nil {
		t.Fatalf("Read() failed: %v", err)
	}
	if len(net.Lines[0].Properties) != 0 {
		t.Errorf("properties should be empty, got %v", net.Lines[0].Properties)
	}
}

func TestReadRejectsNonLineGeometry(t *testing.T) {
	path := writeFixture(t, `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "properties": {},
      "geometry": {"type": "Point", "coordinates": [1, 2]}
    }
  ]
}`)

	_, err := Read(path, nil)
	var ferr *FormatError
	if !errors.As(err, &ferr) {
		t.Fatalf("got %v, want *FormatError", err)
	}
	if !strings.Contains(ferr.Msg, "Point") {
		t.Errorf("error message %q should name the geometry type", ferr.Msg)
	}
}

func TestReadEmptyCollection(t *testing.T) {
	path := writeFixture(t, `{"type": "FeatureCollection", "features": []}`)
	if _, err := Read(path, nil); err == nil {
		t.Error("empty collection must fail")
	}
}

func TestReadMissingFile(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "absent.geojson"), nil)
	var ferr *FormatError
	if !errors.As(err, &ferr) {
		t.Fatalf("got %v, want *FormatError", err)
	}
}

func TestReadMalformedDocument(t *testing.T) {
	path := writeFixture(t, `{"type": "FeatureCollection", "features": [`)
	var ferr *FormatError
	if _, err := Read(path, nil); !errors.As(err, &ferr) {
		t.Fatalf("got %v, want *FormatError", err)
	}
}

func TestWriteReadRoundtrip(t *testing.T) {
	net := fracture.NewNetwork()
	net.CRS = "EPSG:4326"
	first := fracture.NewLine(geometry.LineString{{X: 0.5, Y: 1.5}, {X: 2.5, Y: 1.5}})
	first.Properties["label"] = "main"
	net.Lines = append(net.Lines, first,
		fracture.NewLine(geometry.LineString{{X: -1, Y: -1}, {X: 0, Y: 0}, {X: 1, Y: -1}}))

	path := filepath.Join(t.TempDir(), "nested", "out.geojson")
	if err := Write(net, path); err != nil {
		t.Fatalf("Write() failed: %v", err)
	}

	back, err := Read(path, nil)
	if err != nil {
		t.Fatalf("Read() after Write() failed: %v", err)
	}
	if back.Len() != net.Len() {
		t.Fatalf("roundtrip %d lines, want %d", back.Len(), net.Len())
	}
	if back.CRS != "EPSG:4326" {
		t.Errorf("roundtrip CRS = %q, want EPSG:4326", back.CRS)
	}
	if got := back.Lines[0].Properties["label"]; got != "main" {
		t.Errorf(`roundtrip properties["label"] = %v, want "main"`, got)
	}
	for i := range net.Lines {
		want := net.Lines[i].Geometry
		got := back.Lines[i].Geometry
		if len(got) != len(want) {
			t.Fatalf("line %d has %d points, want %d", i, len(got), len(want))
		}
		for j := range want {
			if math.Abs(got[j].X-want[j].X) > 1e-9 || math.Abs(got[j].Y-want[j].Y) > 1e-9 {
				t.Errorf("line %d point %d = %v, want %v", i, j, got[j], want[j])
			}
		}
	}
}

func TestWriteOmitsCRSWhenUnset(t *testing.T) {
	net := fracture.NewNetwork()
	net.Lines = append(net.Lines,
		fracture.NewLine(geometry.LineString{{X: 0, Y: 0}, {X: 1, Y: 1}}))

	path := filepath.Join(t.TempDir(), "out.geojson")
	if err := Write(net, path); err != nil {
		t.Fatalf("Write() failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	if strings.Contains(string(data), `"crs"`) {
		t.Error("output should not carry a crs member")
	}
}
