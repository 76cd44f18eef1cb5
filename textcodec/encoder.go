package textcodec

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/arloliu/swecodec/component"
	"github.com/arloliu/swecodec/encoding"
	"github.com/arloliu/swecodec/errs"
	"github.com/arloliu/swecodec/internal/pool"
	"github.com/arloliu/swecodec/internal/textscan"
	"github.com/arloliu/swecodec/internal/value"
)

// Encode renders values as delimited text.
//
// Array schemas (DataArray, DataStream, Matrix) expect a slice and write one block
// per element. Record schemas accept a single map, written as one block, or a slice
// of maps, written as one block each. Scalar and range schemas write a single token.
//
// Parameters:
//   - values: value tree matching schema; nil fields encode as empty tokens
//   - enc: text encoding; validated before any value is processed
//   - schema: component describing values
//   - opts: WithLegacyDecimalSubstitution, WithLogger
//
// Returns:
//   - string: the encoded text, without a trailing block separator
//   - error: errs.ErrInvalidEncoding, errs.ErrInvalidSchema, errs.ErrValueType or
//     errs.ErrTokenCountMismatch; no partial output is returned
func Encode(values any, enc encoding.TextEncoding, schema component.Component, opts ...Option) (string, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return "", err
	}
	if err := enc.Validate(); err != nil {
		return "", err
	}
	if schema == nil {
		return "", fmt.Errorf("%w: nil schema", errs.ErrInvalidSchema)
	}

	buf := pool.GetBuffer()
	defer pool.PutBuffer(buf)

	e := &encoder{enc: enc, cfg: cfg, buf: buf}
	if err := e.encodeRoot(values, schema); err != nil {
		return "", err
	}

	out := string(buf.Bytes())
	if cfg.legacyDecimal && enc.HasCustomDecimal() {
		cfg.logger.Debug("legacy decimal substitution on encoded text", zap.String("decimal", enc.Decimal()))
		out = strings.ReplaceAll(out, ".", enc.Decimal())
	}

	return out, nil
}

type encoder struct {
	enc encoding.TextEncoding
	cfg *Config
	buf *pool.ByteBuffer
	// first is true until the first token of the current block is written.
	first bool
}

func (e *encoder) encodeRoot(values any, schema component.Component) error {
	switch {
	case schema.Kind().IsArray():
		elem, count, _ := component.ElementOf(schema)
		if elem == nil {
			return fmt.Errorf("%w: %s %q has no element type", errs.ErrInvalidSchema, schema.Kind(), schema.Meta().Name)
		}
		if values == nil {
			return nil
		}
		items, ok := value.AsSlice(values)
		if !ok {
			return fmt.Errorf("%w: %s %q expects a slice, got %T", errs.ErrValueType, schema.Kind(), schema.Meta().Name, values)
		}
		if n, fixed := count.Fixed(); fixed && n != len(items) {
			return fmt.Errorf("%w: %q declares %d elements, got %d", errs.ErrTokenCountMismatch, schema.Meta().Name, n, len(items))
		}

		return e.encodeBlocks(items, elem)
	case schema.Kind().IsRecord():
		if items, ok := value.AsSlice(values); ok {
			return e.encodeBlocks(items, schema)
		}

		return e.encodeBlock(values, schema, 0)
	default:
		return e.encodeBlock(values, schema, 0)
	}
}

func (e *encoder) encodeBlocks(items []any, elem component.Component) error {
	for i, item := range items {
		if i > 0 {
			_, _ = e.buf.WriteString(e.enc.BlockSeparator)
		}
		if err := e.encodeBlock(item, elem, i); err != nil {
			return err
		}
	}

	return nil
}

func (e *encoder) encodeBlock(v any, c component.Component, index int) error {
	e.first = true
	if err := e.writeValue(v, c); err != nil {
		return fmt.Errorf("block %d: %w", index+1, err)
	}

	return nil
}

// writeValue flattens v into the tokens of the current block, in schema order.
func (e *encoder) writeValue(v any, c component.Component) error {
	switch t := c.(type) {
	case *component.DataRecord, *component.Vector:
		var m map[string]any
		if v != nil {
			var ok bool
			if m, ok = value.AsMap(v); !ok {
				return fmt.Errorf("%w: %s %q expects a map, got %T", errs.ErrValueType, t.Kind(), t.Meta().Name, v)
			}
		}
		for _, field := range component.Children(t) {
			if field == nil {
				return fmt.Errorf("%w: nil field in %q", errs.ErrInvalidSchema, t.Meta().Name)
			}
			if err := e.writeValue(m[field.Meta().Name], field); err != nil {
				return fmt.Errorf("field %q: %w", field.Meta().Name, err)
			}
		}

		return nil
	case *component.DataArray, *component.DataStream, *component.Matrix:
		return e.writeArray(v, t)
	default:
		tok, err := e.formatToken(v, c)
		if err != nil {
			return err
		}
		e.writeToken(tok)

		return nil
	}
}

func (e *encoder) writeArray(v any, c component.Component) error {
	elem, count, _ := component.ElementOf(c)
	if elem == nil {
		return fmt.Errorf("%w: %s %q has no element type", errs.ErrInvalidSchema, c.Kind(), c.Meta().Name)
	}

	var items []any
	if v != nil {
		var ok bool
		if items, ok = value.AsSlice(v); !ok {
			return fmt.Errorf("%w: %s %q expects a slice, got %T", errs.ErrValueType, c.Kind(), c.Meta().Name, v)
		}
	}

	if n, fixed := count.Fixed(); fixed {
		if v != nil && n != len(items) {
			return fmt.Errorf("%w: %q declares %d elements, got %d", errs.ErrTokenCountMismatch, c.Meta().Name, n, len(items))
		}
		if v == nil {
			items = make([]any, n)
		}
	} else {
		e.writeToken(strconv.Itoa(len(items)))
	}

	for _, item := range items {
		if err := e.writeValue(item, elem); err != nil {
			return err
		}
	}

	return nil
}

func (e *encoder) writeToken(tok string) {
	if !e.first {
		_, _ = e.buf.WriteString(e.enc.TokenSeparator)
	}
	e.first = false
	_, _ = e.buf.WriteString(textscan.Quote(tok, e.enc.TokenSeparator, e.enc.BlockSeparator))
}

// formatToken renders one scalar or range value, before quoting.
func (e *encoder) formatToken(v any, c component.Component) (string, error) {
	if v == nil {
		return "", nil
	}

	kind := c.Kind()
	if kind.IsRange() {
		bounds, ok := value.AsSlice(v)
		if !ok || len(bounds) != 2 || bounds[0] == nil || bounds[1] == nil {
			return "", fmt.Errorf("%w: %s %q expects two bounds, got %v", errs.ErrValueType, kind, c.Meta().Name, v)
		}
		lo, err := e.formatScalar(bounds[0], kind.Bound())
		if err != nil {
			return "", err
		}
		hi, err := e.formatScalar(bounds[1], kind.Bound())
		if err != nil {
			return "", err
		}

		return lo + " " + hi, nil
	}

	return e.formatScalar(v, kind)
}

func (e *encoder) formatScalar(v any, kind component.Kind) (string, error) {
	switch kind { //nolint:exhaustive
	case component.KindBoolean:
		b, err := value.ToBool(v)
		if err != nil {
			return "", err
		}

		return strconv.FormatBool(b), nil
	case component.KindCount:
		n, err := value.ToInt(v)
		if err != nil {
			return "", err
		}

		return strconv.FormatInt(n, 10), nil
	case component.KindQuantity:
		f, err := value.ToFloat(v)
		if err != nil {
			return "", err
		}

		return e.localize(formatNumber(f)), nil
	case component.KindTime:
		switch v.(type) {
		case string, []byte, time.Time:
			return value.ToString(v)
		}
		f, err := value.ToFloat(v)
		if err != nil {
			return "", err
		}

		return e.localize(formatNumber(f)), nil
	case component.KindCategory, component.KindText:
		if s, err := value.ToString(v); err == nil {
			return s, nil
		}
		switch t := v.(type) {
		case bool:
			return strconv.FormatBool(t), nil
		default:
			f, err := value.ToFloat(v)
			if err != nil {
				return "", err
			}

			return formatNumber(f), nil
		}
	default:
		return "", fmt.Errorf("%w: %s is not a scalar kind", errs.ErrInvalidSchema, kind)
	}
}

// localize applies the decimal separator to a formatted number.
func (e *encoder) localize(num string) string {
	if e.cfg.legacyDecimal || !e.enc.HasCustomDecimal() {
		return num
	}

	return strings.Replace(num, ".", e.enc.Decimal(), 1)
}
