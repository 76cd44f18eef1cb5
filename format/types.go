// Package format holds the enumerations shared by the encoding descriptors and codecs.
package format

import (
	"fmt"
	"strings"

	"github.com/arloliu/swecodec/errs"
)

type (
	// DataType is the primitive wire type of a binary member.
	DataType uint8
	// ByteOrder is the byte order of multi-byte binary members.
	ByteOrder uint8
	// ByteEncoding is the text-safe form of a binary payload.
	ByteEncoding uint8
	// OutputMode selects what bincodec.Encode returns.
	OutputMode uint8
	// CompressionType is the payload compression applied by a root block member.
	CompressionType uint8
)

const (
	TypeUnknown DataType = iota
	TypeBoolean          // TypeBoolean is stored as one byte, 0 or 1.
	TypeByte             // TypeByte is a signed 8-bit integer.
	TypeUByte            // TypeUByte is an unsigned 8-bit integer.
	TypeShort            // TypeShort is a signed 16-bit integer.
	TypeUShort           // TypeUShort is an unsigned 16-bit integer.
	TypeInt              // TypeInt is a signed 32-bit integer.
	TypeUInt             // TypeUInt is an unsigned 32-bit integer.
	TypeLong             // TypeLong is a signed 64-bit integer.
	TypeULong            // TypeULong is an unsigned 64-bit integer.
	TypeFloat            // TypeFloat is an IEEE-754 binary32.
	TypeDouble           // TypeDouble is an IEEE-754 binary64.
	TypeString           // TypeString is a fixed-width NUL padded byte string.
	TypeUTF8             // TypeUTF8 is a 4-byte little-endian length prefix followed by UTF-8 bytes.
)

const (
	BigEndian    ByteOrder = 0x0 // BigEndian is the default byte order.
	LittleEndian ByteOrder = 0x1
)

const (
	ByteEncodingRaw    ByteEncoding = 0x0
	ByteEncodingBase64 ByteEncoding = 0x1
)

const (
	OutputRaw    OutputMode = 0x0 // OutputRaw returns the raw buffer ("arraybuffer").
	OutputBase64 OutputMode = 0x1 // OutputBase64 returns standard Base64 text.
)

const (
	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 compression.
)

var dataTypeNames = [...]string{
	TypeUnknown: "unknown",
	TypeBoolean: "boolean",
	TypeByte:    "byte",
	TypeUByte:   "ubyte",
	TypeShort:   "short",
	TypeUShort:  "ushort",
	TypeInt:     "int",
	TypeUInt:    "uint",
	TypeLong:    "long",
	TypeULong:   "ulong",
	TypeFloat:   "float",
	TypeDouble:  "double",
	TypeString:  "string",
	TypeUTF8:    "utf8",
}

// dataTypeAliases maps the OGC data type URI suffixes onto the short names.
var dataTypeAliases = map[string]DataType{
	"bool":          TypeBoolean,
	"signedbyte":    TypeByte,
	"int8":          TypeByte,
	"unsignedbyte":  TypeUByte,
	"uint8":         TypeUByte,
	"signedshort":   TypeShort,
	"int16":         TypeShort,
	"unsignedshort": TypeUShort,
	"uint16":        TypeUShort,
	"signedint":     TypeInt,
	"int32":         TypeInt,
	"unsignedint":   TypeUInt,
	"uint32":        TypeUInt,
	"signedlong":    TypeLong,
	"int64":         TypeLong,
	"unsignedlong":  TypeULong,
	"uint64":        TypeULong,
	"float32":       TypeFloat,
	"float64":       TypeDouble,
	"string-utf-8":  TypeUTF8,
	"string-utf8":   TypeUTF8,
	"ascii-string":  TypeString,
}

// ParseDataType resolves a data type name. Both the short names (float, ushort, utf8)
// and OGC definition URIs (http://www.opengis.net/def/dataType/OGC/0/float32) are accepted.
func ParseDataType(name string) (DataType, error) {
	key := strings.ToLower(strings.TrimSpace(uriSuffix(name)))
	for i, n := range dataTypeNames {
		if i > 0 && n == key {
			return DataType(i), nil //nolint:gosec
		}
	}
	if dt, ok := dataTypeAliases[key]; ok {
		return dt, nil
	}

	return TypeUnknown, fmt.Errorf("%w: %q", errs.ErrUnsupportedDataType, name)
}

func (d DataType) String() string {
	if int(d) < len(dataTypeNames) {
		return dataTypeNames[d]
	}

	return "unknown"
}

// Valid reports whether d is one of the known data types.
func (d DataType) Valid() bool {
	return d > TypeUnknown && d <= TypeUTF8
}

// Size returns the fixed byte footprint of the type, or 0 for string and utf8
// whose size depends on the member declaration or the value.
func (d DataType) Size() int {
	switch d {
	case TypeBoolean, TypeByte, TypeUByte:
		return 1
	case TypeShort, TypeUShort:
		return 2
	case TypeInt, TypeUInt, TypeFloat:
		return 4
	case TypeLong, TypeULong, TypeDouble:
		return 8
	default:
		return 0
	}
}

// Signed reports whether d is a signed integer type.
func (d DataType) Signed() bool {
	return d == TypeByte || d == TypeShort || d == TypeInt || d == TypeLong
}

// Integer reports whether d is an integer type (boolean excluded).
func (d DataType) Integer() bool {
	return d >= TypeByte && d <= TypeULong
}

// MarshalText implements encoding.TextMarshaler.
func (d DataType) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("%w: %d", errs.ErrUnsupportedDataType, d)
	}

	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *DataType) UnmarshalText(text []byte) error {
	dt, err := ParseDataType(string(text))
	if err != nil {
		return err
	}
	*d = dt

	return nil
}

// ParseByteOrder parses "bigEndian" or "littleEndian" (case-insensitive). The empty
// string yields the default BigEndian.
func ParseByteOrder(name string) (ByteOrder, error) {
	switch strings.ToLower(name) {
	case "", "bigendian":
		return BigEndian, nil
	case "littleendian":
		return LittleEndian, nil
	default:
		return BigEndian, fmt.Errorf("%w: %q", errs.ErrInvalidByteOrder, name)
	}
}

func (b ByteOrder) String() string {
	switch b {
	case BigEndian:
		return "bigEndian"
	case LittleEndian:
		return "littleEndian"
	default:
		return "Unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (b ByteOrder) MarshalText() ([]byte, error) {
	if b != BigEndian && b != LittleEndian {
		return nil, fmt.Errorf("%w: %d", errs.ErrInvalidByteOrder, b)
	}

	return []byte(b.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (b *ByteOrder) UnmarshalText(text []byte) error {
	bo, err := ParseByteOrder(string(text))
	if err != nil {
		return err
	}
	*b = bo

	return nil
}

// ParseByteEncoding parses "base64" or "raw". The empty string yields ByteEncodingRaw.
func ParseByteEncoding(name string) (ByteEncoding, error) {
	switch strings.ToLower(uriSuffix(name)) {
	case "", "raw":
		return ByteEncodingRaw, nil
	case "base64":
		return ByteEncodingBase64, nil
	default:
		return ByteEncodingRaw, fmt.Errorf("%w: %q (only base64 is supported)", errs.ErrInvalidByteEncoding, name)
	}
}

func (e ByteEncoding) String() string {
	switch e {
	case ByteEncodingRaw:
		return "raw"
	case ByteEncodingBase64:
		return "base64"
	default:
		return "Unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (e ByteEncoding) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (e *ByteEncoding) UnmarshalText(text []byte) error {
	be, err := ParseByteEncoding(string(text))
	if err != nil {
		return err
	}
	*e = be

	return nil
}

func (m OutputMode) String() string {
	switch m {
	case OutputRaw:
		return "arraybuffer"
	case OutputBase64:
		return "base64"
	default:
		return "Unknown"
	}
}

// ParseCompression parses a compression name or URI (none, zstd, s2, lz4).
// The empty string yields CompressionNone.
func ParseCompression(name string) (CompressionType, error) {
	switch strings.ToLower(uriSuffix(name)) {
	case "", "none":
		return CompressionNone, nil
	case "zstd":
		return CompressionZstd, nil
	case "s2":
		return CompressionS2, nil
	case "lz4":
		return CompressionLZ4, nil
	default:
		return CompressionNone, fmt.Errorf("%w: compression %q", errs.ErrUnsupported, name)
	}
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}

// uriSuffix returns the part of a definition URI after the last '/' or '#'.
func uriSuffix(s string) string {
	if i := strings.LastIndexAny(s, "/#"); i >= 0 {
		return s[i+1:]
	}

	return s
}
