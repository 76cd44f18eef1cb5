package component

import (
	"fmt"
	"strings"

	"github.com/arloliu/swecodec/errs"
)

// Kind identifies a component variant.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindBoolean
	KindCount
	KindQuantity
	KindTime
	KindCategory
	KindText
	KindCountRange
	KindQuantityRange
	KindTimeRange
	KindCategoryRange
	KindDataRecord
	KindVector
	KindDataArray
	KindDataStream
	KindMatrix
)

var kindNames = [...]string{
	KindUnknown:       "Unknown",
	KindBoolean:       "Boolean",
	KindCount:         "Count",
	KindQuantity:      "Quantity",
	KindTime:          "Time",
	KindCategory:      "Category",
	KindText:          "Text",
	KindCountRange:    "CountRange",
	KindQuantityRange: "QuantityRange",
	KindTimeRange:     "TimeRange",
	KindCategoryRange: "CategoryRange",
	KindDataRecord:    "DataRecord",
	KindVector:        "Vector",
	KindDataArray:     "DataArray",
	KindDataStream:    "DataStream",
	KindMatrix:        "Matrix",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}

	return "Unknown"
}

// ParseKind resolves a SWE type name such as "Quantity" or "DataRecord".
func ParseKind(name string) (Kind, error) {
	for i, n := range kindNames {
		if i > 0 && strings.EqualFold(n, name) {
			return Kind(i), nil //nolint:gosec
		}
	}

	return KindUnknown, fmt.Errorf("%w: unknown component type %q", errs.ErrInvalidSchema, name)
}

// IsScalar reports whether k is a single-value kind.
func (k Kind) IsScalar() bool {
	return k >= KindBoolean && k <= KindText
}

// IsRange reports whether k is a pair-of-bounds kind.
func (k Kind) IsRange() bool {
	return k >= KindCountRange && k <= KindCategoryRange
}

// IsRecord reports whether k is a named-field aggregate (DataRecord or Vector).
func (k Kind) IsRecord() bool {
	return k == KindDataRecord || k == KindVector
}

// IsArray reports whether k is a repeated-element aggregate.
func (k Kind) IsArray() bool {
	return k >= KindDataArray && k <= KindMatrix
}

// IsNumeric reports whether values of k are numbers on the wire.
func (k Kind) IsNumeric() bool {
	return k == KindCount || k == KindQuantity || k == KindCountRange || k == KindQuantityRange
}

// Bound returns the scalar kind of each bound of a range kind, or k itself.
func (k Kind) Bound() Kind {
	switch k {
	case KindCountRange:
		return KindCount
	case KindQuantityRange:
		return KindQuantity
	case KindTimeRange:
		return KindTime
	case KindCategoryRange:
		return KindCategory
	default:
		return k
	}
}

// Component is the sealed sum type over all component variants.
type Component interface {
	// Kind returns the variant tag.
	Kind() Kind
	// Meta returns the properties shared by every variant.
	Meta() *Common
	sealed()
}

// Common holds the properties shared by every component.
type Common struct {
	// Name is the field name under the parent record; empty for a root component.
	Name        string
	ID          string
	Label       string
	Description string
	Definition  string
	Optional    bool
	Updatable   bool
}

// UnitOfMeasure is either a UCUM code or a unit URI.
type UnitOfMeasure struct {
	Code  string `json:"code,omitempty"`
	Href  string `json:"href,omitempty"`
	Label string `json:"label,omitempty"`
}

// IsISO8601 reports whether the unit designates ISO 8601 calendar time.
func (u UnitOfMeasure) IsISO8601() bool {
	return strings.HasSuffix(strings.ToLower(u.Href), "iso-8601")
}

// ElementCount is the declared size of an array: a fixed value, or a reference to
// the Count component carrying it. A nil *ElementCount means the size is implicit.
type ElementCount struct {
	Value *int64
	Ref   string
}

// Fixed returns the fixed element count, if declared.
func (c *ElementCount) Fixed() (int, bool) {
	if c == nil || c.Value == nil {
		return 0, false
	}

	return int(*c.Value), true
}

// FixedCount returns an ElementCount with the given fixed value.
func FixedCount(n int64) *ElementCount {
	return &ElementCount{Value: &n}
}

type (
	// Boolean is a true/false value.
	Boolean struct{ Common }

	// Count is an integer value.
	Count struct{ Common }

	// Quantity is a floating-point value with a unit of measure.
	Quantity struct {
		Common
		UOM UnitOfMeasure
	}

	// Time is an ISO 8601 instant or a numeric offset from an epoch in UOM units.
	Time struct {
		Common
		UOM            UnitOfMeasure
		ReferenceFrame string
		ReferenceTime  string
	}

	// Category is a token from a code space.
	Category struct {
		Common
		CodeSpace string
	}

	// Text is a free string.
	Text struct{ Common }

	// CountRange is an inclusive pair of Count bounds.
	CountRange struct{ Common }

	// QuantityRange is an inclusive pair of Quantity bounds.
	QuantityRange struct {
		Common
		UOM UnitOfMeasure
	}

	// TimeRange is an inclusive pair of Time bounds.
	TimeRange struct {
		Common
		UOM            UnitOfMeasure
		ReferenceFrame string
		ReferenceTime  string
	}

	// CategoryRange is an inclusive pair of Category bounds.
	CategoryRange struct {
		Common
		CodeSpace string
	}

	// DataRecord is an ordered, fixed set of named heterogeneous fields.
	// Field order defines wire position.
	DataRecord struct {
		Common
		Fields []Component
	}

	// Vector is a DataRecord of coordinates in a reference frame.
	Vector struct {
		Common
		ReferenceFrame string
		LocalFrame     string
		Coordinates    []Component
	}

	// DataArray is a homogeneous sequence of ElementType values.
	DataArray struct {
		Common
		ElementType  Component
		ElementCount *ElementCount
	}

	// DataStream is an open-ended DataArray, typically a stream of observation records.
	DataStream struct {
		Common
		ElementType  Component
		ElementCount *ElementCount
	}

	// Matrix is a DataArray interpreted by the caller as a flattened multi-dimensional array.
	Matrix struct {
		Common
		ElementType    Component
		ElementCount   *ElementCount
		ReferenceFrame string
		LocalFrame     string
	}
)

func (c *Common) Meta() *Common { return c }

func (*Boolean) Kind() Kind       { return KindBoolean }
func (*Count) Kind() Kind         { return KindCount }
func (*Quantity) Kind() Kind      { return KindQuantity }
func (*Time) Kind() Kind          { return KindTime }
func (*Category) Kind() Kind      { return KindCategory }
func (*Text) Kind() Kind          { return KindText }
func (*CountRange) Kind() Kind    { return KindCountRange }
func (*QuantityRange) Kind() Kind { return KindQuantityRange }
func (*TimeRange) Kind() Kind     { return KindTimeRange }
func (*CategoryRange) Kind() Kind { return KindCategoryRange }
func (*DataRecord) Kind() Kind    { return KindDataRecord }
func (*Vector) Kind() Kind        { return KindVector }
func (*DataArray) Kind() Kind     { return KindDataArray }
func (*DataStream) Kind() Kind    { return KindDataStream }
func (*Matrix) Kind() Kind        { return KindMatrix }

func (*Boolean) sealed()       {}
func (*Count) sealed()         {}
func (*Quantity) sealed()      {}
func (*Time) sealed()          {}
func (*Category) sealed()      {}
func (*Text) sealed()          {}
func (*CountRange) sealed()    {}
func (*QuantityRange) sealed() {}
func (*TimeRange) sealed()     {}
func (*CategoryRange) sealed() {}
func (*DataRecord) sealed()    {}
func (*Vector) sealed()        {}
func (*DataArray) sealed()     {}
func (*DataStream) sealed()    {}
func (*Matrix) sealed()        {}
