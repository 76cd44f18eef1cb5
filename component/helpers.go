package component

import (
	"fmt"
	"strings"

	"github.com/arloliu/swecodec/errs"
)

var (
	_ Component = (*Boolean)(nil)
	_ Component = (*Count)(nil)
	_ Component = (*Quantity)(nil)
	_ Component = (*Time)(nil)
	_ Component = (*Category)(nil)
	_ Component = (*Text)(nil)
	_ Component = (*CountRange)(nil)
	_ Component = (*QuantityRange)(nil)
	_ Component = (*TimeRange)(nil)
	_ Component = (*CategoryRange)(nil)
	_ Component = (*DataRecord)(nil)
	_ Component = (*Vector)(nil)
	_ Component = (*DataArray)(nil)
	_ Component = (*DataStream)(nil)
	_ Component = (*Matrix)(nil)
)

func NewBoolean(name string) *Boolean { return &Boolean{Common: Common{Name: name}} }
func NewCount(name string) *Count     { return &Count{Common: Common{Name: name}} }
func NewText(name string) *Text       { return &Text{Common: Common{Name: name}} }

func NewQuantity(name, uomCode string) *Quantity {
	return &Quantity{Common: Common{Name: name}, UOM: UnitOfMeasure{Code: uomCode}}
}

// NewTime returns an ISO 8601 Time component when uom is empty, otherwise a
// numeric Time expressed in the given unit code (e.g. "s" for epoch seconds).
func NewTime(name, uomCode string) *Time {
	t := &Time{Common: Common{Name: name}}
	if uomCode == "" {
		t.UOM.Href = ISO8601Href
	} else {
		t.UOM.Code = uomCode
	}

	return t
}

func NewCategory(name, codeSpace string) *Category {
	return &Category{Common: Common{Name: name}, CodeSpace: codeSpace}
}

func NewCountRange(name string) *CountRange { return &CountRange{Common: Common{Name: name}} }

func NewQuantityRange(name, uomCode string) *QuantityRange {
	return &QuantityRange{Common: Common{Name: name}, UOM: UnitOfMeasure{Code: uomCode}}
}

func NewTimeRange(name string) *TimeRange {
	return &TimeRange{Common: Common{Name: name}, UOM: UnitOfMeasure{Href: ISO8601Href}}
}

func NewCategoryRange(name string) *CategoryRange {
	return &CategoryRange{Common: Common{Name: name}}
}

// NewRecord returns a DataRecord with the given fields in wire order.
func NewRecord(name string, fields ...Component) *DataRecord {
	return &DataRecord{Common: Common{Name: name}, Fields: fields}
}

// NewVector returns a Vector with the given coordinates in wire order.
func NewVector(name, referenceFrame string, coordinates ...Component) *Vector {
	return &Vector{Common: Common{Name: name}, ReferenceFrame: referenceFrame, Coordinates: coordinates}
}

// NewArray returns a DataArray of elem. A nil count makes the size implicit.
func NewArray(name string, elem Component, count *ElementCount) *DataArray {
	return &DataArray{Common: Common{Name: name}, ElementType: elem, ElementCount: count}
}

// NewStream returns an open-ended DataStream of elem.
func NewStream(name string, elem Component) *DataStream {
	return &DataStream{Common: Common{Name: name}, ElementType: elem}
}

// NewMatrix returns a Matrix of elem with the given element count.
func NewMatrix(name string, elem Component, count *ElementCount) *Matrix {
	return &Matrix{Common: Common{Name: name}, ElementType: elem, ElementCount: count}
}

// ISO8601Href is the unit reference designating calendar time.
const ISO8601Href = "http://www.opengis.net/def/uom/ISO-8601/0/Gregorian"

// Children returns the ordered fields of a DataRecord or the coordinates of a Vector,
// and nil for every other kind.
func Children(c Component) []Component {
	switch t := c.(type) {
	case *DataRecord:
		return t.Fields
	case *Vector:
		return t.Coordinates
	default:
		return nil
	}
}

// ElementOf returns the element type and declared count of an array component.
//
// Returns:
//   - Component: the element type, nil when c is not an array
//   - *ElementCount: the declared count, nil when implicit
//   - bool: true if c is a DataArray, DataStream or Matrix
func ElementOf(c Component) (Component, *ElementCount, bool) {
	switch t := c.(type) {
	case *DataArray:
		return t.ElementType, t.ElementCount, true
	case *DataStream:
		return t.ElementType, t.ElementCount, true
	case *Matrix:
		return t.ElementType, t.ElementCount, true
	default:
		return nil, nil, false
	}
}

// Unwrap descends through array components until it reaches a non-array element type.
// It returns c unchanged when c is not an array.
func Unwrap(c Component) Component {
	for {
		elem, _, ok := ElementOf(c)
		if !ok || elem == nil {
			return c
		}
		c = elem
	}
}

// FieldIndex returns the position of the named child of a record-like component.
func FieldIndex(c Component, name string) (Component, int, bool) {
	for i, child := range Children(c) {
		if child != nil && child.Meta().Name == name {
			return child, i, true
		}
	}

	return nil, -1, false
}

// SplitPath splits a SWE member reference such as "/location/lat" into its segments.
// Leading, trailing and repeated slashes are ignored.
func SplitPath(ref string) []string {
	parts := strings.Split(ref, "/")
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}

	return out
}

// Resolve finds the component addressed by ref inside root.
//
// Array components on the way are transparent: the path is resolved against their
// element type, which is how the members of a DataStream's record are addressed.
// A bare scalar root resolves any single-segment reference to itself.
//
// Parameters:
//   - root: the schema root
//   - ref: slash separated path, e.g. "/temp" or "location/lat"; "/" or "" addresses the root
//
// Returns:
//   - Component: the addressed component
//   - []int: the field index at each record level, outermost first
//   - error: errs.ErrUnknownField if a segment does not match a field
func Resolve(root Component, ref string) (Component, []int, error) {
	if root == nil {
		return nil, nil, fmt.Errorf("%w: nil schema", errs.ErrInvalidSchema)
	}

	segments := SplitPath(ref)
	cur := Unwrap(root)
	if len(segments) == 0 {
		return cur, nil, nil
	}

	if len(segments) == 1 && (cur.Kind().IsScalar() || cur.Kind().IsRange()) {
		return cur, []int{0}, nil
	}

	indices := make([]int, 0, len(segments))
	for i, seg := range segments {
		child, idx, ok := FieldIndex(cur, seg)
		if !ok {
			return nil, nil, fmt.Errorf("%w: %q in %q", errs.ErrUnknownField, seg, ref)
		}
		indices = append(indices, idx)
		cur = child
		if i < len(segments)-1 {
			cur = Unwrap(cur)
		}
	}

	return cur, indices, nil
}

// TokenCount returns the number of scalar slots a value of c occupies when flattened,
// and whether that number is fixed by the schema alone.
//
// Scalars and ranges occupy one slot. Records sum their fields. Arrays multiply a fixed
// element count by the element's slots; arrays with a variable count are not fixed.
func TokenCount(c Component) (int, bool) {
	switch t := c.(type) {
	case nil:
		return 0, false
	case *DataRecord, *Vector:
		total := 0
		for _, f := range Children(t) {
			n, fixed := TokenCount(f)
			if !fixed {
				return 0, false
			}
			total += n
		}

		return total, true
	case *DataArray, *DataStream, *Matrix:
		elem, count, _ := ElementOf(t)
		n, ok := count.Fixed()
		if !ok {
			return 0, false
		}
		per, fixed := TokenCount(elem)
		if !fixed {
			return 0, false
		}

		return n * per, true
	default:
		return 1, true
	}
}
