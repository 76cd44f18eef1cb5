package bincodec

import (
	"bytes"
	"fmt"
	"math"
	"strconv"

	"github.com/arloliu/swecodec/encoding"
	"github.com/arloliu/swecodec/endian"
	"github.com/arloliu/swecodec/errs"
	"github.com/arloliu/swecodec/format"
	"github.com/arloliu/swecodec/internal/value"
)

// utf8PrefixSize is the width of the little-endian length prefix of a utf8 member.
const utf8PrefixSize = 4

func bitMask(bits int) uint64 {
	if bits >= 64 {
		return math.MaxUint64
	}

	return 1<<uint(bits) - 1
}

// payloadBytes converts v for a string or utf8 member.
func payloadBytes(v any) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	if s, err := value.ToString(v); err == nil {
		return []byte(s), nil
	}

	switch t := v.(type) {
	case bool:
		return strconv.AppendBool(nil, t), nil
	default:
		f, err := value.ToFloat(v)
		if err != nil {
			return nil, err
		}

		return strconv.AppendFloat(nil, f, 'g', -1, 64), nil
	}
}

// varSize returns the utf8 payload bytes v needs in member m, 0 for fixed members.
func varSize(m encoding.Member, v any) (int, error) {
	if m.DataType != format.TypeUTF8 {
		return 0, nil
	}

	b, err := payloadBytes(v)
	if err != nil {
		return 0, err
	}

	return len(b), nil
}

// putPayload writes one payload of v for member m at the start of dst and returns
// the number of bytes written. dst is zeroed and at least as long as the payload.
func putPayload(dst []byte, engine endian.EndianEngine, m encoding.Member, v any) (int, error) {
	dt := m.DataType
	switch dt {
	case format.TypeString:
		b, err := payloadBytes(v)
		if err != nil {
			return 0, err
		}
		copy(dst[:m.ByteLength], b)

		return m.ByteLength, nil
	case format.TypeUTF8:
		b, err := payloadBytes(v)
		if err != nil {
			return 0, err
		}
		if uint64(len(b)) > math.MaxUint32 {
			return 0, fmt.Errorf("%w: utf8 value of %d bytes", errs.ErrOutOfRange, len(b))
		}
		endian.LengthPrefixEngine().PutUint32(dst, uint32(len(b))) //nolint:gosec
		copy(dst[utf8PrefixSize:], b)

		return utf8PrefixSize + len(b), nil
	}

	if v == nil {
		return dt.Size(), nil
	}

	switch dt { //nolint:exhaustive
	case format.TypeFloat:
		f, err := value.ToFloat(v)
		if err != nil {
			return 0, err
		}
		engine.PutUint32(dst, math.Float32bits(float32(f)))

		return 4, nil
	case format.TypeDouble:
		f, err := value.ToFloat(v)
		if err != nil {
			return 0, err
		}
		engine.PutUint64(dst, math.Float64bits(f))

		return 8, nil
	}

	bits, err := integerBits(dt, m.MaskBits(), v)
	if err != nil {
		return 0, err
	}

	switch dt.Size() {
	case 1:
		dst[0] = byte(bits)
	case 2:
		engine.PutUint16(dst, uint16(bits)) //nolint:gosec
	case 4:
		engine.PutUint32(dst, uint32(bits)) //nolint:gosec
	default:
		engine.PutUint64(dst, bits)
	}

	return dt.Size(), nil
}

// integerBits converts v to the two's complement bit pattern of dt. With a bit
// length the pattern is masked to its low-order bits; without one the value must
// fit the type.
func integerBits(dt format.DataType, bitLength int, v any) (uint64, error) {
	width := dt.Size() * 8

	if dt == format.TypeBoolean {
		b, err := value.ToBool(v)
		if err != nil {
			return 0, err
		}
		if b {
			return 1, nil
		}

		return 0, nil
	}

	var bits uint64
	if dt.Signed() {
		n, err := value.ToInt(v)
		if err != nil {
			return 0, err
		}
		if bitLength == 0 && width < 64 {
			limit := int64(1) << uint(width-1)
			if n < -limit || n >= limit {
				return 0, fmt.Errorf("%w: %d overflows %s", errs.ErrValueType, n, dt)
			}
		}
		bits = uint64(n) //nolint:gosec
	} else {
		var u uint64
		var err error
		if bitLength > 0 {
			var n int64
			if n, err = value.ToInt(v); err == nil {
				u = uint64(n) //nolint:gosec
			} else {
				u, err = value.ToUint(v)
			}
		} else {
			u, err = value.ToUint(v)
		}
		if err != nil {
			return 0, err
		}
		if bitLength == 0 && width < 64 && u >= uint64(1)<<uint(width) {
			return 0, fmt.Errorf("%w: %d overflows %s", errs.ErrValueType, u, dt)
		}
		bits = u
	}

	if bitLength > 0 {
		bits &= bitMask(bitLength)
	} else {
		bits &= bitMask(width)
	}

	return bits, nil
}

// readPayload decodes one payload of member m from the start of src and returns the
// value with the natural Go type of the data type and the number of bytes consumed.
func readPayload(src []byte, engine endian.EndianEngine, m encoding.Member) (any, int, error) {
	dt := m.DataType
	switch dt {
	case format.TypeString:
		if len(src) < m.ByteLength {
			return nil, 0, shortRead(m, m.ByteLength, len(src))
		}
		b := src[:m.ByteLength]
		if i := bytes.IndexByte(b, 0); i >= 0 {
			b = b[:i]
		}

		return string(b), m.ByteLength, nil
	case format.TypeUTF8:
		if len(src) < utf8PrefixSize {
			return nil, 0, shortRead(m, utf8PrefixSize, len(src))
		}
		n := int(endian.LengthPrefixEngine().Uint32(src))
		if n < 0 || len(src)-utf8PrefixSize < n {
			return nil, 0, shortRead(m, utf8PrefixSize+n, len(src))
		}

		return string(src[utf8PrefixSize : utf8PrefixSize+n]), utf8PrefixSize + n, nil
	}

	size := dt.Size()
	if len(src) < size {
		return nil, 0, shortRead(m, size, len(src))
	}

	var raw uint64
	switch size {
	case 1:
		raw = uint64(src[0])
	case 2:
		raw = uint64(engine.Uint16(src))
	case 4:
		raw = uint64(engine.Uint32(src))
	default:
		raw = engine.Uint64(src)
	}

	switch dt { //nolint:exhaustive
	case format.TypeBoolean:
		return raw&bitMask(maxBits(m.MaskBits(), 8)) != 0, 1, nil
	case format.TypeFloat:
		return float64(math.Float32frombits(uint32(raw))), 4, nil //nolint:gosec
	case format.TypeDouble:
		return math.Float64frombits(raw), 8, nil
	}

	bits := maxBits(m.MaskBits(), size*8)
	raw &= bitMask(bits)
	if dt.Signed() {
		if bits < 64 && raw&(1<<uint(bits-1)) != 0 {
			raw |= ^bitMask(bits)
		}

		return int64(raw), size, nil //nolint:gosec
	}
	if raw > math.MaxInt64 {
		return raw, size, nil
	}

	return int64(raw), size, nil //nolint:gosec
}

func maxBits(bitLength, width int) int {
	if bitLength > 0 && bitLength < width {
		return bitLength
	}

	return width
}

func shortRead(m encoding.Member, need, have int) error {
	return fmt.Errorf("%w: member %q needs %d bytes, %d left", errs.ErrOutOfRange, m.Ref, need, have)
}
