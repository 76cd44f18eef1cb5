// Package value converts the loosely typed value trees handed to the codecs
// (map[string]any records, []any sequences, JSON numbers) into concrete Go values.
package value

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"time"

	"github.com/arloliu/swecodec/errs"
)

// number is satisfied by json.Number from encoding/json and goccy/go-json.
type number interface {
	Float64() (float64, error)
	Int64() (int64, error)
	String() string
}

// AsSlice returns v as a []any when v is a slice or array. Byte slices are
// treated as scalars.
func AsSlice(v any) ([]any, bool) {
	switch s := v.(type) {
	case nil:
		return nil, false
	case []any:
		return s, true
	case []byte:
		return nil, false
	case []map[string]any:
		out := make([]any, len(s))
		for i := range s {
			out[i] = s[i]
		}

		return out, true
	case []float64:
		out := make([]any, len(s))
		for i := range s {
			out[i] = s[i]
		}

		return out, true
	case []string:
		out := make([]any, len(s))
		for i := range s {
			out[i] = s[i]
		}

		return out, true
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}

	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}

	return out, true
}

// AsMap returns v as a map[string]any when v is a map keyed by strings.
func AsMap(v any) (map[string]any, bool) {
	if m, ok := v.(map[string]any); ok {
		return m, true
	}
	if v == nil {
		return nil, false
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}

	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = iter.Value().Interface()
	}

	return out, true
}

// Lookup walks path through nested maps. A missing key or a non-map
// intermediate yields (nil, false).
func Lookup(v any, path []string) (any, bool) {
	cur := v
	for _, key := range path {
		m, ok := AsMap(cur)
		if !ok {
			return nil, false
		}
		if cur, ok = m[key]; !ok {
			return nil, false
		}
	}

	return cur, true
}

// Set stores val at path inside m, creating intermediate maps as needed.
func Set(m map[string]any, path []string, val any) {
	for _, key := range path[:len(path)-1] {
		next, ok := m[key].(map[string]any)
		if !ok {
			next = make(map[string]any)
			m[key] = next
		}
		m = next
	}
	m[path[len(path)-1]] = val
}

// ToFloat converts numeric values and time.Time (as epoch seconds) to float64.
func ToFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int8:
		return float64(n), nil
	case int16:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case uint:
		return float64(n), nil
	case uint8:
		return float64(n), nil
	case uint16:
		return float64(n), nil
	case uint32:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	case time.Time:
		return float64(n.UnixNano()) / float64(time.Second), nil
	case number:
		f, err := n.Float64()
		if err != nil {
			return 0, fmt.Errorf("%w: %q is not a number", errs.ErrValueType, n.String())
		}

		return f, nil
	default:
		return 0, fmt.Errorf("%w: %T is not a number", errs.ErrValueType, v)
	}
}

// ToInt converts integral values to int64. Floats are accepted only when they
// hold an integral value in range.
func ToInt(v any) (int64, error) {
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int8:
		return int64(n), nil
	case int16:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case int64:
		return n, nil
	case uint:
		return uintToInt(uint64(n))
	case uint8:
		return int64(n), nil
	case uint16:
		return int64(n), nil
	case uint32:
		return int64(n), nil
	case uint64:
		return uintToInt(n)
	case float32:
		return floatToInt(float64(n))
	case float64:
		return floatToInt(n)
	case time.Time:
		return n.Unix(), nil
	case number:
		if i, err := n.Int64(); err == nil {
			return i, nil
		}
		f, err := n.Float64()
		if err != nil {
			return 0, fmt.Errorf("%w: %q is not an integer", errs.ErrValueType, n.String())
		}

		return floatToInt(f)
	default:
		return 0, fmt.Errorf("%w: %T is not an integer", errs.ErrValueType, v)
	}
}

// ToUint converts non-negative integral values to uint64.
func ToUint(v any) (uint64, error) {
	switch n := v.(type) {
	case uint:
		return uint64(n), nil
	case uint8:
		return uint64(n), nil
	case uint16:
		return uint64(n), nil
	case uint32:
		return uint64(n), nil
	case uint64:
		return n, nil
	case number:
		if u, err := strconv.ParseUint(n.String(), 10, 64); err == nil {
			return u, nil
		}
	}

	i, err := ToInt(v)
	if err != nil {
		return 0, err
	}
	if i < 0 {
		return 0, fmt.Errorf("%w: %d is negative", errs.ErrValueType, i)
	}

	return uint64(i), nil
}

// ToBool converts booleans; numbers are true when non-zero.
func ToBool(v any) (bool, error) {
	if b, ok := v.(bool); ok {
		return b, nil
	}

	f, err := ToFloat(v)
	if err != nil {
		return false, fmt.Errorf("%w: %T is not a boolean", errs.ErrValueType, v)
	}

	return f != 0, nil
}

// ToString converts strings, byte slices, fmt.Stringer values and time.Time
// (RFC 3339 in UTC) to string.
func ToString(v any) (string, error) {
	switch s := v.(type) {
	case string:
		return s, nil
	case []byte:
		return string(s), nil
	case time.Time:
		return s.UTC().Format(time.RFC3339Nano), nil
	case fmt.Stringer:
		return s.String(), nil
	default:
		return "", fmt.Errorf("%w: %T is not a string", errs.ErrValueType, v)
	}
}

func uintToInt(u uint64) (int64, error) {
	if u > math.MaxInt64 {
		return 0, fmt.Errorf("%w: %d overflows int64", errs.ErrValueType, u)
	}

	return int64(u), nil
}

func floatToInt(f float64) (int64, error) {
	if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, fmt.Errorf("%w: %v is not an integer", errs.ErrValueType, f)
	}

	return int64(f), nil
}
