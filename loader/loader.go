// Package loader reads component schemas, encoding descriptors and value trees from
// files. The file extension selects the syntax: .yaml and .yml are YAML, .jsonc is
// JSON with comments and trailing commas, anything else is JSON.
package loader

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/arloliu/swecodec/component"
	"github.com/arloliu/swecodec/encoding"
	"github.com/arloliu/swecodec/errs"
)

// Syntax is the document syntax of a loaded file.
type Syntax uint8

const (
	SyntaxJSON Syntax = iota
	SyntaxJSONC
	SyntaxYAML
)

// SyntaxOf returns the syntax implied by the extension of path.
func SyntaxOf(path string) Syntax {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return SyntaxYAML
	case ".jsonc":
		return SyntaxJSONC
	default:
		return SyntaxJSON
	}
}

// ToJSON converts a document of the given syntax to plain JSON.
func ToJSON(data []byte, syntax Syntax) ([]byte, error) {
	switch syntax {
	case SyntaxJSONC:
		return jsonc.ToJSON(data), nil
	case SyntaxYAML:
		var node any
		if err := yaml.Unmarshal(data, &node); err != nil {
			return nil, fmt.Errorf("parsing yaml: %w", err)
		}

		return json.Marshal(normalize(node))
	default:
		return data, nil
	}
}

// normalize converts YAML mappings with non-string keys into map[string]any so the
// tree can be rendered as JSON.
func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[k] = normalize(vv)
		}

		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[fmt.Sprint(k)] = normalize(vv)
		}

		return out
	case []any:
		out := make([]any, len(t))
		for i, vv := range t {
			out[i] = normalize(vv)
		}

		return out
	default:
		return v
	}
}

func readJSON(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	out, err := ToJSON(data, SyntaxOf(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return out, nil
}

// LoadComponent reads a SWE JSON component schema.
func LoadComponent(path string) (component.Component, error) {
	data, err := readJSON(path)
	if err != nil {
		return nil, err
	}

	c, err := component.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return c, nil
}

// LoadDescriptor reads a SWE JSON TextEncoding or BinaryEncoding.
func LoadDescriptor(path string) (encoding.Descriptor, error) {
	data, err := readJSON(path)
	if err != nil {
		return nil, err
	}

	d, err := encoding.UnmarshalDescriptor(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return d, nil
}

// LoadValues reads a value tree. Numbers are kept as json.Number so integers
// larger than 2^53 keep their precision.
func LoadValues(path string) (any, error) {
	data, err := readJSON(path)
	if err != nil {
		return nil, err
	}

	return DecodeValues(data)
}

// DecodeValues parses a JSON value tree, keeping numbers as json.Number.
func DecodeValues(data []byte) (any, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrValueType, err)
	}

	return v, nil
}

// StreamSchema is a datastream schema document: the record schema of the stream and
// the encoding its observations use.
type StreamSchema struct {
	ObsFormat    string
	RecordSchema component.Component
	Encoding     encoding.Descriptor
}

// ParseStreamSchema parses a JSON document with "recordSchema" and "encoding"
// properties and an optional "obsFormat".
func ParseStreamSchema(data []byte) (*StreamSchema, error) {
	var w struct {
		ObsFormat    string          `json:"obsFormat"`
		RecordSchema json.RawMessage `json:"recordSchema"`
		Encoding     json.RawMessage `json:"encoding"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrInvalidSchema, err)
	}
	if len(w.RecordSchema) == 0 {
		return nil, fmt.Errorf("%w: recordSchema is missing", errs.ErrInvalidSchema)
	}
	if len(w.Encoding) == 0 {
		return nil, fmt.Errorf("%w: encoding is missing", errs.ErrInvalidEncoding)
	}

	schema, err := component.Unmarshal(w.RecordSchema)
	if err != nil {
		return nil, err
	}
	enc, err := encoding.UnmarshalDescriptor(w.Encoding)
	if err != nil {
		return nil, err
	}

	return &StreamSchema{ObsFormat: w.ObsFormat, RecordSchema: schema, Encoding: enc}, nil
}

// LoadStreamSchema reads a datastream schema document.
func LoadStreamSchema(path string) (*StreamSchema, error) {
	data, err := readJSON(path)
	if err != nil {
		return nil, err
	}

	s, err := ParseStreamSchema(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return s, nil
}
