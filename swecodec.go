// Package swecodec encodes and decodes SWE Common data records in their text
// (delimited, CSV-like) and binary (packed) wire forms.
//
// A call takes three inputs: a value tree, a component schema describing its shape,
// and an encoding descriptor selecting the wire form. All three are read-only; each
// call allocates its own output and keeps no state, so calls are safe for concurrent
// use on disjoint inputs.
//
// # Core Features
//
//   - Text encoding with RFC 4180 quoting, custom token, block and decimal separators
//   - Binary encoding with big or little endian members, bit packing, fixed-width
//     strings and length-prefixed utf8 strings
//   - Optional Base64 serialization and zstd, s2 or lz4 payload compression
//   - Descriptor, schema and text structure validation
//
// # Basic Usage
//
// Decoding comma separated weather records:
//
//	schema := component.NewRecord("weather",
//	    component.NewQuantity("temp", "Cel"),
//	    component.NewQuantity("humidity", "%"),
//	    component.NewQuantity("pressure", "hPa"),
//	)
//	values, _ := swecodec.DecodeText("22.5,65,1013.25\n23.1,64,1012.80", encoding.CSV(), schema)
//
// Encoding the same records as big-endian floats:
//
//	enc := encoding.NewBinaryEncoding(
//	    encoding.NewMember("/temp", format.TypeFloat),
//	    encoding.NewMember("/humidity", format.TypeFloat),
//	    encoding.NewMember("/pressure", format.TypeFloat),
//	)
//	data, _ := swecodec.EncodeBinary(values, enc, schema, format.OutputRaw)
//
// # Package Structure
//
// This package provides convenient top-level wrappers around the textcodec and
// bincodec packages. For fine-grained control, use those packages directly.
package swecodec

import (
	"fmt"

	"github.com/arloliu/swecodec/bincodec"
	"github.com/arloliu/swecodec/component"
	"github.com/arloliu/swecodec/encoding"
	"github.com/arloliu/swecodec/errs"
	"github.com/arloliu/swecodec/format"
	"github.com/arloliu/swecodec/internal/hash"
	"github.com/arloliu/swecodec/textcodec"
)

// EncodeText renders values as delimited text.
//
// Parameters:
//   - values: value tree matching schema
//   - enc: text encoding descriptor
//   - schema: component describing values
//   - opts: textcodec options
//
// Returns:
//   - string: encoded text
//   - error: configuration, value type or structure error
func EncodeText(values any, enc encoding.TextEncoding, schema component.Component, opts ...textcodec.Option) (string, error) {
	return textcodec.Encode(values, enc, schema, opts...)
}

// DecodeText parses delimited text into a value tree.
//
// Parameters:
//   - text: encoded text
//   - enc: text encoding descriptor
//   - schema: component describing the values
//   - opts: textcodec options, e.g. textcodec.WithElementCount
//
// Returns:
//   - any: []any of records or elements, or a single value for scalar schemas
//   - error: configuration, token count or token parse error
func DecodeText(text string, enc encoding.TextEncoding, schema component.Component, opts ...textcodec.Option) (any, error) {
	return textcodec.Decode(text, enc, schema, opts...)
}

// EncodeBinary packs values into binary records, resolving members against schema.
// A nil schema resolves members by path only.
func EncodeBinary(values any, enc encoding.BinaryEncoding, schema component.Component, mode format.OutputMode, opts ...bincodec.Option) ([]byte, error) {
	if schema != nil {
		opts = append([]bincodec.Option{bincodec.WithSchema(schema)}, opts...)
	}

	return bincodec.Encode(values, enc, mode, opts...)
}

// DecodeBinary unpacks binary records into one value per record.
func DecodeBinary(data []byte, enc encoding.BinaryEncoding, schema component.Component, opts ...bincodec.Option) ([]any, error) {
	return bincodec.Decode(data, enc, schema, opts...)
}

// Encode dispatches on the descriptor type. Text output is returned as UTF-8 bytes.
func Encode(values any, desc encoding.Descriptor, schema component.Component) ([]byte, error) {
	switch d := desc.(type) {
	case encoding.TextEncoding:
		s, err := EncodeText(values, d, schema)
		if err != nil {
			return nil, err
		}

		return []byte(s), nil
	case *encoding.TextEncoding:
		return Encode(values, *d, schema)
	case encoding.BinaryEncoding:
		return EncodeBinary(values, d, schema, format.OutputRaw)
	case *encoding.BinaryEncoding:
		return Encode(values, *d, schema)
	default:
		return nil, fmt.Errorf("%w: descriptor %T", errs.ErrInvalidEncoding, desc)
	}
}

// Decode dispatches on the descriptor type.
func Decode(data []byte, desc encoding.Descriptor, schema component.Component) (any, error) {
	switch d := desc.(type) {
	case encoding.TextEncoding:
		return DecodeText(string(data), d, schema)
	case *encoding.TextEncoding:
		return Decode(data, *d, schema)
	case encoding.BinaryEncoding:
		return DecodeBinary(data, d, schema)
	case *encoding.BinaryEncoding:
		return Decode(data, *d, schema)
	default:
		return nil, fmt.Errorf("%w: descriptor %T", errs.ErrInvalidEncoding, desc)
	}
}

// FieldID returns the 64-bit xxHash of a field name or member path, the identifier
// used for duplicate detection.
func FieldID(name string) uint64 {
	return hash.PathID(name)
}
