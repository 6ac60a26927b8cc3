// Package metadata decodes the measurement report description handed to the
// writer and exposes it as a generic tree of nodes.
package metadata

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Format is the encoding of a metadata document.
type Format int

const (
	// FormatJSON is the default encoding.
	FormatJSON Format = iota
	// FormatYAML is selected for .yaml and .yml files.
	FormatYAML
)

// String returns the string representation of a Format.
func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	default:
		return "unknown"
	}
}

// FormatFromPath picks the format from the file extension. Anything that is
// not YAML is read as JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// MalformedInputError is returned when a metadata document cannot be decoded.
type MalformedInputError struct {
	Source string
	Err    error
}

func (e *MalformedInputError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("malformed input: %v", e.Err)
	}
	return fmt.Sprintf("malformed input %s: %v", e.Source, e.Err)
}

func (e *MalformedInputError) Unwrap() error {
	return e.Err
}

// DecodeFile reads and decodes the metadata document at path.
func DecodeFile(path string) (Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Node{}, fmt.Errorf("read metadata file: %w", err)
	}
	n, err := Decode(data, FormatFromPath(path))
	if err != nil {
		var mErr *MalformedInputError
		if errors.As(err, &mErr) {
			mErr.Source = path
		}
		return Node{}, err
	}
	return n, nil
}

// Decode decodes data into a node tree. The top level must be an object.
func Decode(data []byte, format Format) (Node, error) {
	var v any
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&v); err != nil {
			return Node{}, &MalformedInputError{Err: err}
		}
		// Trailing garbage after the document is an error too.
		var extra any
		if err := dec.Decode(&extra); err != io.EOF {
			return Node{}, &MalformedInputError{Err: errors.New("unexpected data after top-level object")}
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &v); err != nil {
			return Node{}, &MalformedInputError{Err: err}
		}
		v = normalizeYAML(v)
	default:
		return Node{}, fmt.Errorf("unsupported metadata format %v", format)
	}

	if _, ok := v.(map[string]any); !ok {
		return Node{}, &MalformedInputError{Err: fmt.Errorf("top-level value must be an object, got %s", kindOf(v))}
	}
	return Root(v), nil
}

// normalizeYAML turns map[any]any produced for non-string keys into
// map[string]any so that both formats share one tree shape.
func normalizeYAML(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, child := range t {
			t[k] = normalizeYAML(child)
		}
		return t
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, child := range t {
			out[fmt.Sprint(k)] = normalizeYAML(child)
		}
		return out
	case []any:
		for i, child := range t {
			t[i] = normalizeYAML(child)
		}
		return t
	default:
		return v
	}
}
