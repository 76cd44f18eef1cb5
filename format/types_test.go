package format

import (
	"testing"

	"github.com/arloliu/swecodec/errs"
	"github.com/stretchr/testify/require"
)

func TestParseDataType(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected DataType
	}{
		{"short name", "float", TypeFloat},
		{"case insensitive", "UShort", TypeUShort},
		{"utf8", "utf8", TypeUTF8},
		{"ogc uri float32", "http://www.opengis.net/def/dataType/OGC/0/float32", TypeFloat},
		{"ogc uri double", "http://www.opengis.net/def/dataType/OGC/0/double", TypeDouble},
		{"ogc signedInt", "http://www.opengis.net/def/dataType/OGC/0/signedInt", TypeInt},
		{"ogc unsignedByte", "http://www.opengis.net/def/dataType/OGC/0/unsignedByte", TypeUByte},
		{"ogc utf8 string", "http://www.opengis.net/def/dataType/OGC/0/string-utf-8", TypeUTF8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dt, err := ParseDataType(tt.input)
			require.NoError(t, err)
			require.Equal(t, tt.expected, dt)
		})
	}

	_, err := ParseDataType("complex128")
	require.ErrorIs(t, err, errs.ErrUnsupportedDataType)

	_, err = ParseDataType("unknown")
	require.ErrorIs(t, err, errs.ErrUnsupportedDataType)
}

func TestDataType_Size(t *testing.T) {
	require.Equal(t, 1, TypeBoolean.Size())
	require.Equal(t, 1, TypeByte.Size())
	require.Equal(t, 1, TypeUByte.Size())
	require.Equal(t, 2, TypeShort.Size())
	require.Equal(t, 2, TypeUShort.Size())
	require.Equal(t, 4, TypeInt.Size())
	require.Equal(t, 4, TypeUInt.Size())
	require.Equal(t, 4, TypeFloat.Size())
	require.Equal(t, 8, TypeLong.Size())
	require.Equal(t, 8, TypeULong.Size())
	require.Equal(t, 8, TypeDouble.Size())
	require.Equal(t, 0, TypeString.Size())
	require.Equal(t, 0, TypeUTF8.Size())
}

func TestDataType_TextRoundTrip(t *testing.T) {
	for dt := TypeBoolean; dt <= TypeUTF8; dt++ {
		text, err := dt.MarshalText()
		require.NoError(t, err)

		var back DataType
		require.NoError(t, back.UnmarshalText(text))
		require.Equal(t, dt, back)
	}

	_, err := TypeUnknown.MarshalText()
	require.ErrorIs(t, err, errs.ErrUnsupportedDataType)
}

func TestParseByteOrder(t *testing.T) {
	bo, err := ParseByteOrder("")
	require.NoError(t, err)
	require.Equal(t, BigEndian, bo)

	bo, err = ParseByteOrder("littleEndian")
	require.NoError(t, err)
	require.Equal(t, LittleEndian, bo)

	_, err = ParseByteOrder("middleEndian")
	require.ErrorIs(t, err, errs.ErrInvalidByteOrder)
}

func TestParseByteEncoding(t *testing.T) {
	be, err := ParseByteEncoding("base64")
	require.NoError(t, err)
	require.Equal(t, ByteEncodingBase64, be)

	be, err = ParseByteEncoding("http://www.opengis.net/def/encoding/OGC/0/base64")
	require.NoError(t, err)
	require.Equal(t, ByteEncodingBase64, be)

	_, err = ParseByteEncoding("hex")
	require.ErrorIs(t, err, errs.ErrInvalidByteEncoding)
}

func TestParseCompression(t *testing.T) {
	for name, expected := range map[string]CompressionType{
		"":     CompressionNone,
		"zstd": CompressionZstd,
		"S2":   CompressionS2,
		"lz4":  CompressionLZ4,
	} {
		ct, err := ParseCompression(name)
		require.NoError(t, err)
		require.Equal(t, expected, ct)
	}

	_, err := ParseCompression("gzip")
	require.ErrorIs(t, err, errs.ErrUnsupported)
}
