package bincodec

import (
	"bytes"
	"encoding/base64"
	"fmt"

	"go.uber.org/zap"

	"github.com/arloliu/swecodec/component"
	"github.com/arloliu/swecodec/encoding"
	"github.com/arloliu/swecodec/errs"
	"github.com/arloliu/swecodec/format"
	"github.com/arloliu/swecodec/internal/value"
)

// Decode unpacks binary records described by enc.
//
// Each member is read at the same offsets Encode writes it, with the descriptor byte
// order, the symmetric bit mask (sign-extended for signed types) and the utf8 length
// prefix. Values are converted to the Go type of the component each member references:
// int64 for Count, float64 for Quantity, bool for Boolean, string or float64 for Time.
//
// Records are read until the input is exhausted, or until the WithElementCount value or
// the schema's fixed element count is reached.
//
// Parameters:
//   - data: raw bytes, or Base64 text when enc declares byteEncoding base64
//   - enc: binary encoding; validated before any byte is read
//   - schema: component the members reference; nil decodes by member path with the
//     natural type of each data type
//   - opts: WithElementCount, WithBase64Input, WithLogger
//
// Returns:
//   - []any: one map[string]any per record, or one value per record for a scalar schema
//   - error: errs.ErrOutOfRange when the input ends inside a record, errs.ErrTrailingData
//     when bytes remain after a schema-declared element count
func Decode(data []byte, enc encoding.BinaryEncoding, schema component.Component, opts ...Option) ([]any, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	l, err := newLayout(enc, schema)
	if err != nil {
		return nil, err
	}
	codec, ct, err := payloadCodec(enc)
	if err != nil {
		return nil, err
	}

	if enc.ByteEncoding == format.ByteEncodingBase64 || cfg.base64Input {
		raw := make([]byte, base64.StdEncoding.DecodedLen(len(data)))
		n, err := base64.StdEncoding.Decode(raw, bytes.TrimSpace(data))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", errs.ErrInvalidByteEncoding, err)
		}
		data = raw[:n]
	}

	if ct != format.CompressionNone {
		compressed := len(data)
		if data, err = codec.Decompress(data); err != nil {
			return nil, fmt.Errorf("decompress %s payload: %w", ct, err)
		}
		cfg.logger.Debug("decompressed binary payload",
			zap.Stringer("compression", ct),
			zap.Int("compressed", compressed),
			zap.Int("raw", len(data)))
	}

	limit := cfg.elementCount
	declared := false
	if limit < 0 && schema != nil {
		if _, count, ok := component.ElementOf(schema); ok {
			if n, fixed := count.Fixed(); fixed {
				limit, declared = n, true
			}
		}
	}

	out := make([]any, 0, estimateRecords(len(data), l.fixed, limit))
	off := 0
	for limit < 0 || len(out) < limit {
		if limit < 0 && off >= len(data) {
			break
		}
		rec, n, err := l.readRecord(data[off:])
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", len(out), err)
		}
		out = append(out, rec)
		off += n
	}

	if declared && off < len(data) {
		return nil, fmt.Errorf("%w: %d bytes after %d records", errs.ErrTrailingData, len(data)-off, limit)
	}

	return out, nil
}

func estimateRecords(size, fixed, limit int) int {
	if limit >= 0 {
		return limit
	}
	if fixed <= 0 {
		return 0
	}

	return size / fixed
}

func (l *layout) readRecord(src []byte) (any, int, error) {
	var rec map[string]any
	if l.record {
		rec = make(map[string]any, len(l.slots))
	}

	var single any
	off := 0
	for _, s := range l.slots {
		if off+s.member.PaddingBefore > len(src) {
			return nil, 0, shortRead(s.member, s.member.PaddingBefore, len(src)-off)
		}
		off += s.member.PaddingBefore

		bounds := make([]any, s.payloads())
		for i := range bounds {
			v, n, err := readPayload(src[off:], l.engine, s.member)
			if err != nil {
				return nil, 0, err
			}
			if v, err = convert(v, s.kind.Bound()); err != nil {
				return nil, 0, fmt.Errorf("member %q: %w", s.member.Ref, err)
			}
			bounds[i] = v
			off += n
		}

		if off+s.member.PaddingAfter > len(src) {
			return nil, 0, shortRead(s.member, s.member.PaddingAfter, len(src)-off)
		}
		off += s.member.PaddingAfter

		var v any = bounds[0]
		if s.pair {
			v = bounds
		}
		if !l.record {
			single = v

			continue
		}
		value.Set(rec, s.path, v)
	}

	if !l.record {
		return single, off, nil
	}

	return rec, off, nil
}

// convert maps the natural value of a data type onto the Go type of kind.
func convert(v any, kind component.Kind) (any, error) {
	switch kind { //nolint:exhaustive
	case component.KindBoolean:
		return value.ToBool(v)
	case component.KindCount:
		return value.ToInt(v)
	case component.KindQuantity:
		return value.ToFloat(v)
	case component.KindTime:
		if s, ok := v.(string); ok {
			return s, nil
		}

		return value.ToFloat(v)
	default:
		return v, nil
	}
}
