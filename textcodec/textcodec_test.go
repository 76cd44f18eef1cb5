package textcodec

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/arloliu/swecodec/component"
	"github.com/arloliu/swecodec/encoding"
	"github.com/arloliu/swecodec/errs"
)

func weatherSchema() *component.DataRecord {
	return component.NewRecord("weather",
		component.NewQuantity("temp", "Cel"),
		component.NewQuantity("humidity", "%"),
		component.NewQuantity("pressure", "hPa"),
	)
}

func TestDecodeEndToEnd(t *testing.T) {
	got, err := Decode("22.5,65,1013.25\n23.1,64,1012.80", encoding.CSV(), weatherSchema())
	require.NoError(t, err)
	require.Equal(t, []any{
		map[string]any{"temp": 22.5, "humidity": 65.0, "pressure": 1013.25},
		map[string]any{"temp": 23.1, "humidity": 64.0, "pressure": 1012.8},
	}, got)
}

func TestRoundTripNumericRecords(t *testing.T) {
	schema := component.NewStream("obs", component.NewRecord("r",
		component.NewCount("seq"),
		component.NewQuantity("v", "m"),
		component.NewQuantity("tiny", "m"),
	))
	values := []any{
		map[string]any{"seq": int64(1), "v": 0.1, "tiny": 1.5e-9},
		map[string]any{"seq": int64(-42), "v": -1013.25, "tiny": 3e25},
		map[string]any{"seq": int64(0), "v": 1.0 / 3.0, "tiny": 0.0},
	}

	text, err := Encode(values, encoding.CSV(), schema)
	require.NoError(t, err)
	require.Equal(t, "1,0.1,1.5e-9\n-42,-1013.25,3e+25\n0,0.3333333333333333,0", text)

	got, err := Decode(text, encoding.CSV(), schema)
	require.NoError(t, err)
	require.Equal(t, values, got)
}

func TestEncodeRecordSchemaAcceptsSingleMapOrSlice(t *testing.T) {
	one, err := Encode(map[string]any{"temp": 22.5, "humidity": 65, "pressure": 1013.25}, encoding.CSV(), weatherSchema())
	require.NoError(t, err)
	require.Equal(t, "22.5,65,1013.25", one)

	many, err := Encode([]map[string]any{
		{"temp": 22.5, "humidity": 65, "pressure": 1013.25},
		{"temp": 23.1, "humidity": 64, "pressure": 1012.8},
	}, encoding.CSV(), weatherSchema())
	require.NoError(t, err)
	require.Equal(t, "22.5,65,1013.25\n23.1,64,1012.8", many)
}

func TestQuoting(t *testing.T) {
	schema := component.NewRecord("r", component.NewText("a"), component.NewText("b"), component.NewCount("n"))
	values := map[string]any{
		"a": "hello, world",
		"b": `say "hi"` + "\nnext line",
		"n": 3,
	}

	text, err := Encode(values, encoding.CSV(), schema)
	require.NoError(t, err)
	require.Equal(t, `"hello, world","say ""hi""`+"\n"+`next line",3`, text)

	got, err := Decode(text, encoding.CSV(), schema)
	require.NoError(t, err)
	require.Equal(t, []any{map[string]any{"a": "hello, world", "b": `say "hi"` + "\nnext line", "n": int64(3)}}, got)
}

func TestQuotedBlockSeparator(t *testing.T) {
	enc := encoding.NewTextEncoding(",", "|")
	schema := component.NewRecord("r", component.NewText("a"), component.NewCount("n"))

	text, err := Encode([]any{map[string]any{"a": "x|y", "n": 1}, map[string]any{"a": "z", "n": 2}}, enc, schema)
	require.NoError(t, err)
	require.Equal(t, `"x|y",1|z,2`, text)

	got, err := Decode(text, enc, schema)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "x|y", got.([]any)[0].(map[string]any)["a"])
}

func TestNullRoundTrip(t *testing.T) {
	schema := component.NewRecord("r",
		component.NewBoolean("b"),
		component.NewCount("c"),
		component.NewQuantity("q", "m"),
		component.NewTime("t", ""),
		component.NewCategory("cat", ""),
		component.NewText("txt"),
		component.NewQuantityRange("qr", "m"),
	)

	text, err := Encode(map[string]any{}, encoding.CSV(), schema)
	require.NoError(t, err)
	require.Equal(t, ",,,,,,", text)

	got, err := Decode(text, encoding.CSV(), schema)
	require.NoError(t, err)
	require.Equal(t, []any{map[string]any{
		"b": nil, "c": nil, "q": nil, "t": nil, "cat": nil, "txt": nil, "qr": nil,
	}}, got)

	got, err = Decode("NULL,nil,null,,Nil,null,", encoding.CSV(), schema)
	require.NoError(t, err)
	require.Equal(t, []any{map[string]any{
		"b": nil, "c": nil, "q": nil, "t": nil, "cat": nil, "txt": nil, "qr": nil,
	}}, got)
}

func TestQuotedEmptyText(t *testing.T) {
	schema := component.NewRecord("r", component.NewText("a"), component.NewQuantity("q", ""))
	got, err := Decode(`"",""`, encoding.CSV(), schema)
	require.NoError(t, err)
	require.Equal(t, []any{map[string]any{"a": "", "q": nil}}, got)
}

func TestFieldCountEnforcement(t *testing.T) {
	_, err := Decode("22.5,65\n23.1,64,1012.8", encoding.CSV(), weatherSchema())
	require.ErrorIs(t, err, errs.ErrTokenCountMismatch)
	require.ErrorContains(t, err, "block 1")
	require.ErrorContains(t, err, "expects 3 tokens, got 2")

	_, err = Decode("1,2,3,4", encoding.CSV(), weatherSchema())
	require.ErrorIs(t, err, errs.ErrTokenCountMismatch)
}

func TestDecimalSeparator(t *testing.T) {
	enc := encoding.TextEncoding{TokenSeparator: ";", BlockSeparator: "\n", DecimalSeparator: ","}
	schema := component.NewRecord("r", component.NewQuantity("temp", "Cel"))

	text, err := Encode(map[string]any{"temp": 22.5}, enc, schema)
	require.NoError(t, err)
	require.Equal(t, "22,5", text)

	got, err := Decode(text, enc, schema)
	require.NoError(t, err)
	require.Equal(t, []any{map[string]any{"temp": 22.5}}, got)
}

func TestDecimalSeparatorLeavesTextAlone(t *testing.T) {
	enc := encoding.TextEncoding{TokenSeparator: ";", BlockSeparator: "\n", DecimalSeparator: ","}
	schema := component.NewRecord("r",
		component.NewTime("time", ""),
		component.NewText("note"),
		component.NewQuantityRange("range", "m"),
	)
	values := map[string]any{
		"time":  "2024-01-02T03:04:05.250Z",
		"note":  "v1.2",
		"range": []any{0.5, 1.25},
	}

	text, err := Encode(values, enc, schema)
	require.NoError(t, err)
	require.Equal(t, "2024-01-02T03:04:05.250Z;v1.2;0,5 1,25", text)

	got, err := Decode(text, enc, schema)
	require.NoError(t, err)
	require.Equal(t, []any{values}, got)
}

func TestLegacyDecimalSubstitution(t *testing.T) {
	enc := encoding.TextEncoding{TokenSeparator: ";", BlockSeparator: "\n", DecimalSeparator: ","}
	schema := component.NewRecord("r", component.NewText("note"), component.NewQuantity("q", ""))

	text, err := Encode(map[string]any{"note": "v1.2", "q": 2.5}, enc, schema, WithLegacyDecimalSubstitution())
	require.NoError(t, err)
	require.Equal(t, "v1,2;2,5", text)

	got, err := Decode(text, enc, schema, WithLegacyDecimalSubstitution())
	require.NoError(t, err)
	require.Equal(t, []any{map[string]any{"note": "v1.2", "q": 2.5}}, got)
}

func TestTokenParsing(t *testing.T) {
	schema := component.NewRecord("r",
		component.NewBoolean("b1"),
		component.NewBoolean("b2"),
		component.NewBoolean("b3"),
		component.NewTime("iso", ""),
		component.NewTime("epoch", "s"),
		component.NewTime("label", ""),
		component.NewCountRange("cr"),
		component.NewCategory("cat", ""),
	)

	got, err := Decode(` YES , t ,nope,2024-05-01,1700000000.5,now," 3  7 ", "a,b" `, encoding.CSV(), schema)
	require.NoError(t, err)
	require.Equal(t, []any{map[string]any{
		"b1":    true,
		"b2":    true,
		"b3":    false,
		"iso":   "2024-05-01",
		"epoch": 1700000000.5,
		"label": "now",
		"cr":    []any{int64(3), int64(7)},
		"cat":   "a,b",
	}}, got)
}

func TestStrictAndLenientParsing(t *testing.T) {
	schema := component.NewRecord("r", component.NewQuantity("q", ""), component.NewCountRange("cr"))

	_, err := Decode("abc,1 2", encoding.CSV(), schema)
	require.ErrorIs(t, err, errs.ErrInvalidToken)

	_, err = Decode("1.5,1 2 3", encoding.CSV(), schema)
	require.ErrorIs(t, err, errs.ErrInvalidToken)

	got, err := Decode("abc,1 2 3", encoding.CSV(), schema, WithLenientParsing())
	require.NoError(t, err)
	rec := got.([]any)[0].(map[string]any)
	require.True(t, math.IsNaN(rec["q"].(float64)))
	require.Equal(t, "1 2 3", rec["cr"])
}

func TestCountAcceptsIntegralFloat(t *testing.T) {
	got, err := Decode("65.0", encoding.CSV(), component.NewCount("c"))
	require.NoError(t, err)
	require.Equal(t, int64(65), got)

	_, err = Decode("65.5", encoding.CSV(), component.NewCount("c"))
	require.ErrorIs(t, err, errs.ErrInvalidToken)
}

func TestScalarSchema(t *testing.T) {
	text, err := Encode(22.5, encoding.CSV(), component.NewQuantity("temp", "Cel"))
	require.NoError(t, err)
	require.Equal(t, "22.5", text)

	got, err := Decode(" 22.5 ", encoding.CSV(), component.NewQuantity("temp", "Cel"))
	require.NoError(t, err)
	require.Equal(t, 22.5, got)

	text, err = Encode("a,b", encoding.CSV(), component.NewText("t"))
	require.NoError(t, err)
	require.Equal(t, `"a,b"`, text)
}

func TestArrayOfScalars(t *testing.T) {
	schema := component.NewArray("temps", component.NewQuantity("t", "Cel"), nil)

	text, err := Encode([]float64{1.5, 2, 3.25}, encoding.CSV(), schema)
	require.NoError(t, err)
	require.Equal(t, "1.5\n2\n3.25", text)

	got, err := Decode(text+"\n\n  \n", encoding.CSV(), schema)
	require.NoError(t, err)
	require.Equal(t, []any{1.5, 2.0, 3.25}, got)
}

func TestElementCount(t *testing.T) {
	text := "1,2,3\n4,5,6\n7,8,9"

	got, err := Decode(text, encoding.CSV(), weatherSchema(), WithElementCount(2))
	require.NoError(t, err)
	require.Len(t, got, 2)

	declared := component.NewArray("a", weatherSchema(), component.FixedCount(1))
	got, err = Decode(text, encoding.CSV(), declared)
	require.NoError(t, err)
	require.Len(t, got, 1)

	got, err = Decode(text, encoding.CSV(), declared, WithElementCount(3))
	require.NoError(t, err)
	require.Len(t, got, 3)

	_, err = Decode(text, encoding.CSV(), declared, WithElementCount(-1))
	require.ErrorIs(t, err, errs.ErrOutOfRange)
}

func TestNestedAggregates(t *testing.T) {
	schema := component.NewStream("obs", component.NewRecord("r",
		component.NewTime("time", ""),
		component.NewVector("pos", "EPSG:4326",
			component.NewQuantity("lat", "deg"),
			component.NewQuantity("lon", "deg"),
		),
		component.NewArray("fixed", component.NewCount("f"), component.FixedCount(2)),
		component.NewArray("var", component.NewQuantity("v", ""), nil),
	))
	values := []any{
		map[string]any{
			"time":  "2024-01-01T00:00:00Z",
			"pos":   map[string]any{"lat": 45.5, "lon": -73.25},
			"fixed": []any{int64(1), int64(2)},
			"var":   []any{0.5, 1.5, 2.5},
		},
		map[string]any{
			"time":  "2024-01-01T00:01:00Z",
			"pos":   map[string]any{"lat": 45.0, "lon": -73.0},
			"fixed": []any{int64(3), int64(4)},
			"var":   []any{},
		},
	}

	text, err := Encode(values, encoding.CSV(), schema)
	require.NoError(t, err)
	require.Equal(t, "2024-01-01T00:00:00Z,45.5,-73.25,1,2,3,0.5,1.5,2.5\n2024-01-01T00:01:00Z,45,-73,3,4,0", text)

	got, err := Decode(text, encoding.CSV(), schema)
	require.NoError(t, err)
	require.Equal(t, values, got)

	_, err = Decode("2024-01-01T00:00:00Z,45.5,-73.25,1,2,9,0.5", encoding.CSV(), schema)
	require.ErrorIs(t, err, errs.ErrInvalidToken)

	_, err = Decode("2024-01-01T00:00:00Z,45.5,-73.25,1,2,1,0.5,7", encoding.CSV(), schema)
	require.ErrorIs(t, err, errs.ErrTokenCountMismatch)
}

func TestFixedArrayLengthEnforced(t *testing.T) {
	schema := component.NewRecord("r", component.NewArray("xs", component.NewCount("x"), component.FixedCount(2)))
	_, err := Encode(map[string]any{"xs": []int{1, 2, 3}}, encoding.CSV(), schema)
	require.ErrorIs(t, err, errs.ErrTokenCountMismatch)
}

func TestCollapseWhiteSpaces(t *testing.T) {
	enc := encoding.TextEncoding{TokenSeparator: " ", BlockSeparator: "\n", CollapseWhiteSpaces: true}
	got, err := Decode("  22.5 \t 65   1013.25 \n 23.1  64 1012.8", enc, weatherSchema())
	require.NoError(t, err)
	require.Equal(t, []any{
		map[string]any{"temp": 22.5, "humidity": 65.0, "pressure": 1013.25},
		map[string]any{"temp": 23.1, "humidity": 64.0, "pressure": 1012.8},
	}, got)

	enc = encoding.TextEncoding{TokenSeparator: ",", BlockSeparator: "\n", CollapseWhiteSpaces: true}
	schema := component.NewRecord("r", component.NewText("a"), component.NewQuantityRange("qr", ""))
	got, err = Decode("big \t  cat,1   2", enc, schema)
	require.NoError(t, err)
	require.Equal(t, []any{map[string]any{"a": "big cat", "qr": []any{1.0, 2.0}}}, got)
}

func TestWhiteSpaceKeptWithoutCollapse(t *testing.T) {
	enc := encoding.CSV()
	schema := component.NewRecord("r", component.NewText("a"), component.NewCategory("c", ""))

	got, err := Decode("big \t  cat,x  y", enc, schema)
	require.NoError(t, err)
	require.Equal(t, []any{map[string]any{"a": "big \t  cat", "c": "x  y"}}, got)

	text, err := Encode(got, enc, schema)
	require.NoError(t, err)
	require.Equal(t, "big \t  cat,x  y", text)
}

func TestMultiCharSeparators(t *testing.T) {
	enc := encoding.NewTextEncoding("::", "\r\n")
	text, err := Encode([]any{
		map[string]any{"temp": 1.5, "humidity": 2, "pressure": 3},
		map[string]any{"temp": 4, "humidity": 5, "pressure": 6},
	}, enc, weatherSchema())
	require.NoError(t, err)
	require.Equal(t, "1.5::2::3\r\n4::5::6", text)

	got, err := Decode(text+"\r\n", enc, weatherSchema())
	require.NoError(t, err)
	require.Len(t, got, 2)
}

func TestTimeValues(t *testing.T) {
	schema := component.NewRecord("r", component.NewTime("iso", ""), component.NewTime("epoch", "s"))
	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	text, err := Encode(map[string]any{"iso": ts, "epoch": 1700000000}, encoding.CSV(), schema)
	require.NoError(t, err)
	require.Equal(t, "2024-03-01T12:00:00Z,1700000000", text)
}

func TestEncodeValueTypeErrors(t *testing.T) {
	_, err := Encode(map[string]any{"temp": "warm"}, encoding.CSV(), weatherSchema())
	require.ErrorIs(t, err, errs.ErrValueType)
	require.ErrorContains(t, err, `field "temp"`)

	_, err = Encode(42, encoding.CSV(), weatherSchema())
	require.ErrorIs(t, err, errs.ErrValueType)

	_, err = Encode(map[string]any{"qr": []any{1}}, encoding.CSV(), component.NewRecord("r", component.NewQuantityRange("qr", "")))
	require.ErrorIs(t, err, errs.ErrValueType)
}

func TestInvalidConfiguration(t *testing.T) {
	_, err := Encode(nil, encoding.NewTextEncoding(",", ","), weatherSchema())
	require.ErrorIs(t, err, errs.ErrInvalidEncoding)

	_, err = Decode("", encoding.TextEncoding{}, weatherSchema())
	require.ErrorIs(t, err, errs.ErrInvalidEncoding)

	_, err = Decode("1", encoding.CSV(), nil)
	require.ErrorIs(t, err, errs.ErrInvalidSchema)
}

func TestDecodeRecord(t *testing.T) {
	rec, err := DecodeRecord("1,2,3", encoding.CSV(), weatherSchema(), WithLogger(zap.NewExample()))
	require.NoError(t, err)
	require.Equal(t, map[string]any{"temp": 1.0, "humidity": 2.0, "pressure": 3.0}, rec)

	_, err = DecodeRecord("1", encoding.CSV(), component.NewCount("c"))
	require.ErrorIs(t, err, errs.ErrInvalidSchema)
}

func TestSplitHelpers(t *testing.T) {
	enc := encoding.CSV()
	require.Equal(t, []string{"a,b", `"c` + "\n" + `d",e`}, SplitBlocks("a,b\n\n"+`"c`+"\n"+`d",e`+"\n", enc))
	require.Equal(t, 2, CountTokens(`a,"b,c"`, enc))
	require.Equal(t, 3, CountTokens(`"a ""x"" b",,c`, enc))

	spaced := encoding.TextEncoding{TokenSeparator: " ", BlockSeparator: "\n", CollapseWhiteSpaces: true}
	require.Equal(t, 3, CountTokens("  1   2\t3 ", spaced))
	spaced.CollapseWhiteSpaces = false
	require.Equal(t, 5, CountTokens("1   2 3", spaced))
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{65, "65"},
		{1012.80, "1012.8"},
		{-0.5, "-0.5"},
		{1e21, "1e+21"},
		{1.5e-7, "1.5e-7"},
		{1e-6, "0.000001"},
		{123456789012345680000, "123456789012345680000"},
		{math.NaN(), "NaN"},
		{math.Inf(-1), "-Infinity"},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, formatNumber(tt.in))
	}
}
