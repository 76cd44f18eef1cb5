package render

import (
	"bytes"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	for name, want := range map[string]Format{"json": FormatJSON, "": FormatJSON, "YAML": FormatYAML, "yml": FormatYAML, "cbor": FormatCBOR} {
		got, err := ParseFormat(name)
		require.NoError(t, err)
		require.Equal(t, want, got, name)
	}

	_, err := ParseFormat("xml")
	require.Error(t, err)
	require.Equal(t, "cbor", FormatCBOR.String())
	require.Equal(t, "unknown", Format(9).String())
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, []any{map[string]any{"temp": 22.5, "ok": true}}, FormatJSON))
	require.Equal(t, "[\n  {\n    \"ok\": true,\n    \"temp\": 22.5\n  }\n]\n", buf.String())
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, map[string]any{"n": json.Number("7"), "name": "a"}, FormatYAML))
	require.Equal(t, "n: 7\nname: a\n", buf.String())
}

func TestWriteCBOR(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, []any{json.Number("1"), "a"}, FormatCBOR))
	require.Equal(t, []byte{0x82, 0x01, 0x61, 'a'}, buf.Bytes())

	var back []any
	require.NoError(t, cbor.Unmarshal(buf.Bytes(), &back))
	require.Equal(t, []any{uint64(1), "a"}, back)
}

func TestWriteUnknownFormat(t *testing.T) {
	require.Error(t, Write(&bytes.Buffer{}, nil, Format(9)))
}

func TestNormalize(t *testing.T) {
	in := map[string]any{
		"i": json.Number("3"),
		"f": json.Number("2.5"),
		"l": []any{json.Number("-1"), nil},
	}
	require.Equal(t, map[string]any{
		"i": int64(3),
		"f": 2.5,
		"l": []any{int64(-1), nil},
	}, Normalize(in))
}
