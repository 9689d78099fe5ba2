// Package txt reads and writes fracture networks in the line-delimited
// text format: one fracture per non-empty, non-comment line, an even
// count of whitespace- or delimiter-separated coordinate values, at
// least two point pairs per line.
package txt

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"fracnet/pkg/fracture"
	"fracnet/pkg/geometry"
)

// ParseError describes a failure to read a fracture text file. Reads
// abort on the first error; no partial network is returned.
type ParseError struct {
	Path string
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s: line %d: %s", e.Path, e.Line, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Msg)
}

// ReadOptions controls parsing. The zero value is not useful; start from
// DefaultReadOptions.
type ReadOptions struct {
	// Delimiter separates coordinate values. Empty means any run of
	// whitespace.
	Delimiter string

	// SkipEmpty ignores blank lines instead of failing on them.
	SkipEmpty bool

	// CommentPrefix marks lines to ignore.
	CommentPrefix string
}

// DefaultReadOptions returns whitespace splitting, blank lines skipped,
// and '#' comments.
func DefaultReadOptions() ReadOptions {
	return ReadOptions{SkipEmpty: true, CommentPrefix: "#"}
}

// Read parses a fracture text file with the given options. A nil opts
// uses DefaultReadOptions.
func Read(path string, opts *ReadOptions) (*fracture.Network, error) {
	options := DefaultReadOptions()
	if opts != nil {
		options = *opts
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &ParseError{Path: path, Msg: "fracture file not found"}
		}
		return nil, fmt.Errorf("failed to read fracture file: %v", err)
	}

	network := fracture.NewNetwork()
	network.Source = path
	entries := strings.Split(string(data), "\n")
	for index, raw := range entries {
		entry := strings.TrimSpace(raw)
		if entry == "" {
			// The final newline yields one trailing empty entry; only
			// interior blanks are subject to the SkipEmpty policy.
			if options.SkipEmpty || index == len(entries)-1 {
				continue
			}
			return nil, &ParseError{Path: path, Line: index + 1, Msg: "blank line"}
		}
		if options.CommentPrefix != "" && strings.HasPrefix(entry, options.CommentPrefix) {
			continue
		}

		coords, msg := parseCoordinates(entry, options.Delimiter)
		if msg != "" {
			return nil, &ParseError{Path: path, Line: index + 1, Msg: msg}
		}
		network.Lines = append(network.Lines, fracture.NewLine(coords))
	}

	if len(network.Lines) == 0 {
		return nil, &ParseError{Path: path, Msg: "no fracture geometries found"}
	}
	return network, nil
}

// parseCoordinates converts one text entry into a line string. It
// returns a non-empty message on failure.
func parseCoordinates(entry, delimiter string) (geometry.LineString, string) {
	var fields []string
	if delimiter != "" {
		fields = strings.Split(entry, delimiter)
	} else {
		fields = strings.Fields(entry)
	}
	if len(fields)%2 != 0 {
		return nil, "coordinate list must contain an even number of values"
	}

	values := make([]float64, len(fields))
	for i, field := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return nil, fmt.Sprintf("invalid numeric value %q", field)
		}
		values[i] = v
	}

	coords := make(geometry.LineString, 0, len(values)/2)
	for i := 0; i < len(values); i += 2 {
		coords = append(coords, geometry.Point{X: values[i], Y: values[i+1]})
	}
	if len(coords) < 2 {
		return nil, "each fracture line must contain at least two points"
	}
	return coords, ""
}

// WriteOptions controls serialisation.
type WriteOptions struct {
	// Delimiter separates coordinate values, tab by default.
	Delimiter string

	// IncludeComments adds a header comment with CRS/source metadata.
	IncludeComments bool
}

// DefaultWriteOptions returns tab delimiting with header comments.
func DefaultWriteOptions() WriteOptions {
	return WriteOptions{Delimiter: "\t", IncludeComments: true}
}

// Write serialises a fracture network to the text format, creating
// parent directories as needed. A nil opts uses DefaultWriteOptions.
func Write(network *fracture.Network, path string, opts *WriteOptions) error {
	options := DefaultWriteOptions()
	if opts != nil {
		options = *opts
	}
	if options.Delimiter == "" {
		options.Delimiter = "\t"
	}

	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %v", err)
		}
	}

	var sb strings.Builder
	if options.IncludeComments {
		if network.CRS != "" {
			fmt.Fprintf(&sb, "# CRS: %s\n", network.CRS)
		}
		if network.Source != "" {
			fmt.Fprintf(&sb, "# Source: %s\n", network.Source)
		}
	}
	for _, line := range network.Lines {
		for i, point := range line.Geometry {
			if i > 0 {
				sb.WriteString(options.Delimiter)
			}
			sb.WriteString(strconv.FormatFloat(point.X, 'g', 12, 64))
			sb.WriteString(options.Delimiter)
			sb.WriteString(strconv.FormatFloat(point.Y, 'g', 12, 64))
		}
		sb.WriteString("\n")
	}

	if err := os.WriteFile(path, []byte(sb.String()), 0644); err != nil {
		return fmt.Errorf("failed to write fracture file: %v", err)
	}
	return nil
}
