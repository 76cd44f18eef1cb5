// Package render writes decoded value trees in a document format.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Format is an output document format.
type Format uint8

const (
	FormatJSON Format = iota
	FormatYAML
	FormatCBOR
)

var formatNames = map[Format]string{
	FormatJSON: "json",
	FormatYAML: "yaml",
	FormatCBOR: "cbor",
}

func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}

	return "unknown"
}

// ParseFormat parses a format name, case-insensitively.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "json", "":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "cbor":
		return FormatCBOR, nil
	default:
		return 0, fmt.Errorf("unknown output format %q", name)
	}
}

// cborMode uses core deterministic encoding so equal trees produce equal bytes.
var cborMode cbor.EncMode

func init() {
	var err error

	cborMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("render: CBOR encoder initialization failed: " + err.Error())
	}
}

// Write renders v to w. JSON and YAML output end with a newline.
func Write(w io.Writer, v any, f Format) error {
	switch f {
	case FormatJSON:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		data = append(data, '\n')
		_, err = w.Write(data)

		return err
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(Normalize(v)); err != nil {
			return err
		}

		return enc.Close()
	case FormatCBOR:
		data, err := cborMode.Marshal(Normalize(v))
		if err != nil {
			return err
		}
		_, err = w.Write(data)

		return err
	default:
		return fmt.Errorf("unknown output format %d", f)
	}
}

// Normalize returns a copy of v with json.Number leaves replaced by int64 or
// float64, so formats without a number literal type keep numeric values.
func Normalize(v any) any {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		if f, err := t.Float64(); err == nil {
			return f
		}

		return t.String()
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = Normalize(e)
		}

		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = Normalize(e)
		}

		return out
	default:
		return v
	}
}
