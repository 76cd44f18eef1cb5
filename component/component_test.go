package component

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/swecodec/errs"
)

func weatherRecord() *DataRecord {
	return NewRecord("weather",
		NewTime("time", ""),
		NewQuantity("temp", "Cel"),
		NewRecord("location",
			NewQuantity("lat", "deg"),
			NewQuantity("lon", "deg"),
		),
		NewText("station"),
	)
}

func TestKind(t *testing.T) {
	require.Equal(t, "DataRecord", KindDataRecord.String())
	require.Equal(t, "Unknown", Kind(200).String())

	k, err := ParseKind("quantityRange")
	require.NoError(t, err)
	require.Equal(t, KindQuantityRange, k)

	_, err = ParseKind("Polygon")
	require.ErrorIs(t, err, errs.ErrInvalidSchema)

	require.True(t, KindText.IsScalar())
	require.False(t, KindTimeRange.IsScalar())
	require.True(t, KindTimeRange.IsRange())
	require.True(t, KindVector.IsRecord())
	require.True(t, KindMatrix.IsArray())
	require.True(t, KindCountRange.IsNumeric())
	require.False(t, KindTime.IsNumeric())
	require.Equal(t, KindQuantity, KindQuantityRange.Bound())
	require.Equal(t, KindText, KindText.Bound())
}

func TestMetaIsShared(t *testing.T) {
	q := NewQuantity("temp", "Cel")
	q.Meta().Label = "Temperature"
	require.Equal(t, "Temperature", q.Label)
	require.Equal(t, KindQuantity, q.Kind())
}

func TestTimeUnits(t *testing.T) {
	require.True(t, NewTime("t", "").UOM.IsISO8601())
	require.False(t, NewTime("t", "s").UOM.IsISO8601())
}

func TestElementOfAndUnwrap(t *testing.T) {
	rec := weatherRecord()
	stream := NewStream("obs", rec)

	elem, count, ok := ElementOf(stream)
	require.True(t, ok)
	require.Same(t, rec, elem)
	require.Nil(t, count)

	_, _, ok = ElementOf(rec)
	require.False(t, ok)

	nested := NewArray("outer", NewArray("inner", rec, FixedCount(2)), FixedCount(3))
	require.Same(t, rec, Unwrap(nested))
	require.Same(t, rec, Unwrap(rec))
}

func TestResolve(t *testing.T) {
	root := NewStream("obs", weatherRecord())

	t.Run("top level field", func(t *testing.T) {
		c, idx, err := Resolve(root, "/temp")
		require.NoError(t, err)
		require.Equal(t, "temp", c.Meta().Name)
		require.Equal(t, []int{1}, idx)
	})

	t.Run("without leading slash", func(t *testing.T) {
		c, idx, err := Resolve(root, "station")
		require.NoError(t, err)
		require.Equal(t, KindText, c.Kind())
		require.Equal(t, []int{3}, idx)
	})

	t.Run("nested path", func(t *testing.T) {
		c, idx, err := Resolve(root, "/location/lon")
		require.NoError(t, err)
		require.Equal(t, "lon", c.Meta().Name)
		require.Equal(t, []int{2, 1}, idx)
	})

	t.Run("root", func(t *testing.T) {
		c, idx, err := Resolve(root, "/")
		require.NoError(t, err)
		require.Equal(t, KindDataRecord, c.Kind())
		require.Empty(t, idx)
	})

	t.Run("unknown field", func(t *testing.T) {
		_, _, err := Resolve(root, "/humidity")
		require.ErrorIs(t, err, errs.ErrUnknownField)
	})

	t.Run("bare scalar", func(t *testing.T) {
		c, idx, err := Resolve(NewQuantity("", "Cel"), "value")
		require.NoError(t, err)
		require.Equal(t, KindQuantity, c.Kind())
		require.Equal(t, []int{0}, idx)
	})

	t.Run("nil schema", func(t *testing.T) {
		_, _, err := Resolve(nil, "/x")
		require.True(t, errors.Is(err, errs.ErrInvalidSchema))
	})
}

func TestSplitPath(t *testing.T) {
	require.Equal(t, []string{"a", "b"}, SplitPath("//a/b/"))
	require.Empty(t, SplitPath("/"))
}

func TestTokenCount(t *testing.T) {
	n, fixed := TokenCount(weatherRecord())
	require.True(t, fixed)
	require.Equal(t, 5, n)

	n, fixed = TokenCount(NewRecord("r", NewCount("a"), NewArray("xs", NewQuantity("x", ""), FixedCount(4))))
	require.True(t, fixed)
	require.Equal(t, 5, n)

	_, fixed = TokenCount(NewRecord("r", NewCount("a"), NewArray("xs", NewQuantity("x", ""), nil)))
	require.False(t, fixed)

	n, fixed = TokenCount(NewQuantityRange("r", "m"))
	require.True(t, fixed)
	require.Equal(t, 1, n)
}
