package component

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/arloliu/swecodec/errs"
)

// wireComponent is the SWE JSON shape shared by every component type.
type wireComponent struct {
	Type           string           `json:"type"`
	Name           string           `json:"name,omitempty"`
	ID             string           `json:"id,omitempty"`
	Label          string           `json:"label,omitempty"`
	Description    string           `json:"description,omitempty"`
	Definition     string           `json:"definition,omitempty"`
	Optional       bool             `json:"optional,omitempty"`
	Updatable      bool             `json:"updatable,omitempty"`
	UOM            *UnitOfMeasure   `json:"uom,omitempty"`
	CodeSpace      *codeSpace       `json:"codeSpace,omitempty"`
	ReferenceFrame string           `json:"referenceFrame,omitempty"`
	LocalFrame     string           `json:"localFrame,omitempty"`
	ReferenceTime  string           `json:"referenceTime,omitempty"`
	Fields         []*wireComponent `json:"fields,omitempty"`
	Coordinates    []*wireComponent `json:"coordinates,omitempty"`
	ElementType    *wireComponent   `json:"elementType,omitempty"`
	ElementCount   *wireCount       `json:"elementCount,omitempty"`
}

// codeSpace accepts both "codeSpace": "uri" and "codeSpace": {"href": "uri"}.
type codeSpace struct {
	Href string `json:"href"`
}

func (c *codeSpace) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &c.Href)
	}

	type plain codeSpace

	return json.Unmarshal(data, (*plain)(c))
}

// wireCount accepts a bare number, {"value": n} (a Count component) or {"href": "#id"}.
type wireCount struct {
	Type  string `json:"type,omitempty"`
	Value *int64 `json:"value,omitempty"`
	Href  string `json:"href,omitempty"`
}

func (w *wireCount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] != '{' {
		var n int64
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("%w: elementCount: %v", errs.ErrInvalidSchema, err)
		}
		w.Value = &n

		return nil
	}

	type plain wireCount

	return json.Unmarshal(data, (*plain)(w))
}

// Unmarshal parses a component from its SWE JSON representation.
//
// Parameters:
//   - data: JSON document whose root object carries a "type" such as "DataRecord"
//
// Returns:
//   - Component: the parsed schema tree
//   - error: errs.ErrInvalidSchema for malformed JSON, unknown types or missing element types
func Unmarshal(data []byte) (Component, error) {
	var w wireComponent
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrInvalidSchema, err)
	}

	return fromWire(&w)
}

// Marshal renders c as SWE JSON.
func Marshal(c Component) ([]byte, error) {
	w, err := toWire(c)
	if err != nil {
		return nil, err
	}

	return json.Marshal(w)
}

func fromWire(w *wireComponent) (Component, error) {
	if w == nil {
		return nil, fmt.Errorf("%w: null component", errs.ErrInvalidSchema)
	}

	kind, err := ParseKind(w.Type)
	if err != nil {
		return nil, err
	}

	common := Common{
		Name:        w.Name,
		ID:          w.ID,
		Label:       w.Label,
		Description: w.Description,
		Definition:  w.Definition,
		Optional:    w.Optional,
		Updatable:   w.Updatable,
	}
	var uom UnitOfMeasure
	if w.UOM != nil {
		uom = *w.UOM
	}
	var cs string
	if w.CodeSpace != nil {
		cs = w.CodeSpace.Href
	}

	switch kind {
	case KindBoolean:
		return &Boolean{Common: common}, nil
	case KindCount:
		return &Count{Common: common}, nil
	case KindQuantity:
		return &Quantity{Common: common, UOM: uom}, nil
	case KindTime:
		return &Time{Common: common, UOM: uom, ReferenceFrame: w.ReferenceFrame, ReferenceTime: w.ReferenceTime}, nil
	case KindCategory:
		return &Category{Common: common, CodeSpace: cs}, nil
	case KindText:
		return &Text{Common: common}, nil
	case KindCountRange:
		return &CountRange{Common: common}, nil
	case KindQuantityRange:
		return &QuantityRange{Common: common, UOM: uom}, nil
	case KindTimeRange:
		return &TimeRange{Common: common, UOM: uom, ReferenceFrame: w.ReferenceFrame, ReferenceTime: w.ReferenceTime}, nil
	case KindCategoryRange:
		return &CategoryRange{Common: common, CodeSpace: cs}, nil
	case KindDataRecord:
		fields, err := childrenFromWire(w.Fields)
		if err != nil {
			return nil, err
		}

		return &DataRecord{Common: common, Fields: fields}, nil
	case KindVector:
		coords, err := childrenFromWire(w.Coordinates)
		if err != nil {
			return nil, err
		}

		return &Vector{Common: common, ReferenceFrame: w.ReferenceFrame, LocalFrame: w.LocalFrame, Coordinates: coords}, nil
	case KindDataArray, KindDataStream, KindMatrix:
		if w.ElementType == nil {
			return nil, fmt.Errorf("%w: %s %q has no elementType", errs.ErrInvalidSchema, kind, w.Name)
		}
		elem, err := fromWire(w.ElementType)
		if err != nil {
			return nil, err
		}
		count := countFromWire(w.ElementCount)

		switch kind {
		case KindDataArray:
			return &DataArray{Common: common, ElementType: elem, ElementCount: count}, nil
		case KindDataStream:
			return &DataStream{Common: common, ElementType: elem, ElementCount: count}, nil
		default:
			return &Matrix{Common: common, ElementType: elem, ElementCount: count,
				ReferenceFrame: w.ReferenceFrame, LocalFrame: w.LocalFrame}, nil
		}
	default:
		return nil, fmt.Errorf("%w: unknown component type %q", errs.ErrInvalidSchema, w.Type)
	}
}

func childrenFromWire(ws []*wireComponent) ([]Component, error) {
	out := make([]Component, 0, len(ws))
	for i, w := range ws {
		c, err := fromWire(w)
		if err != nil {
			return nil, fmt.Errorf("field %d: %w", i, err)
		}
		out = append(out, c)
	}

	return out, nil
}

func countFromWire(w *wireCount) *ElementCount {
	if w == nil || (w.Value == nil && w.Href == "") {
		return nil
	}
	ec := &ElementCount{Ref: w.Href}
	if w.Value != nil {
		v := *w.Value
		ec.Value = &v
	}

	return ec
}

func toWire(c Component) (*wireComponent, error) {
	if c == nil {
		return nil, fmt.Errorf("%w: nil component", errs.ErrInvalidSchema)
	}

	m := c.Meta()
	w := &wireComponent{
		Type:        c.Kind().String(),
		Name:        m.Name,
		ID:          m.ID,
		Label:       m.Label,
		Description: m.Description,
		Definition:  m.Definition,
		Optional:    m.Optional,
		Updatable:   m.Updatable,
	}

	switch t := c.(type) {
	case *Boolean, *Count, *Text, *CountRange:
	case *Quantity:
		w.UOM = uomToWire(t.UOM)
	case *QuantityRange:
		w.UOM = uomToWire(t.UOM)
	case *Time:
		w.UOM = uomToWire(t.UOM)
		w.ReferenceFrame = t.ReferenceFrame
		w.ReferenceTime = t.ReferenceTime
	case *TimeRange:
		w.UOM = uomToWire(t.UOM)
		w.ReferenceFrame = t.ReferenceFrame
		w.ReferenceTime = t.ReferenceTime
	case *Category:
		w.CodeSpace = codeSpaceToWire(t.CodeSpace)
	case *CategoryRange:
		w.CodeSpace = codeSpaceToWire(t.CodeSpace)
	case *DataRecord:
		fields, err := childrenToWire(t.Fields)
		if err != nil {
			return nil, err
		}
		w.Fields = fields
	case *Vector:
		coords, err := childrenToWire(t.Coordinates)
		if err != nil {
			return nil, err
		}
		w.Coordinates = coords
		w.ReferenceFrame = t.ReferenceFrame
		w.LocalFrame = t.LocalFrame
	case *DataArray, *DataStream, *Matrix:
		elem, count, _ := ElementOf(t)
		ew, err := toWire(elem)
		if err != nil {
			return nil, err
		}
		w.ElementType = ew
		if count != nil {
			w.ElementCount = &wireCount{Type: "Count", Value: count.Value, Href: count.Ref}
		}
		if mx, ok := t.(*Matrix); ok {
			w.ReferenceFrame = mx.ReferenceFrame
			w.LocalFrame = mx.LocalFrame
		}
	}

	return w, nil
}

func childrenToWire(cs []Component) ([]*wireComponent, error) {
	out := make([]*wireComponent, 0, len(cs))
	for _, c := range cs {
		w, err := toWire(c)
		if err != nil {
			return nil, err
		}
		out = append(out, w)
	}

	return out, nil
}

func uomToWire(u UnitOfMeasure) *UnitOfMeasure {
	if u == (UnitOfMeasure{}) {
		return nil
	}

	return &u
}

func codeSpaceToWire(s string) *codeSpace {
	if s == "" {
		return nil
	}

	return &codeSpace{Href: s}
}
