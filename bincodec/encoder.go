package bincodec

import (
	"encoding/base64"
	"fmt"

	"go.uber.org/zap"

	"github.com/arloliu/swecodec/compress"
	"github.com/arloliu/swecodec/encoding"
	"github.com/arloliu/swecodec/errs"
	"github.com/arloliu/swecodec/format"
	"github.com/arloliu/swecodec/internal/pool"
	"github.com/arloliu/swecodec/internal/value"
)

// Encode packs values into binary records described by enc.
//
// A slice of values encodes one record per element, concatenated; any other value
// encodes a single record. Record values are maps addressed by member references;
// a descriptor with a single member also accepts bare scalar elements, so []any{22.5}
// with one float member yields a 4-byte buffer. Nil values are written as zero bytes.
//
// Parameters:
//   - values: a record, a scalar, or a slice of either
//   - enc: binary encoding; validated before any value is processed
//   - mode: format.OutputRaw for raw bytes or format.OutputBase64 for standard Base64
//     text (also used when enc declares byteEncoding base64)
//   - opts: WithSchema, WithLogger
//
// Returns:
//   - []byte: the encoded payload, owned by the caller
//   - error: errs.ErrEmptyMembers, errs.ErrUnsupportedDataType, errs.ErrValueType,
//     errs.ErrMemberOrder or a compression failure
func Encode(values any, enc encoding.BinaryEncoding, mode format.OutputMode, opts ...Option) ([]byte, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}
	if mode != format.OutputRaw && mode != format.OutputBase64 {
		return nil, fmt.Errorf("%w: output mode %d", errs.ErrUnsupported, mode)
	}

	l, err := newLayout(enc, cfg.schema)
	if err != nil {
		return nil, err
	}
	codec, ct, err := payloadCodec(enc)
	if err != nil {
		return nil, err
	}

	records := l.records(values)

	total := len(records) * l.fixed
	for i, rec := range records {
		n, err := l.varSize(rec)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		total += n
	}

	buf := pool.GetBuffer()
	defer pool.PutBuffer(buf)

	dst := buf.Slot(total)
	off := 0
	for i, rec := range records {
		n, err := l.writeRecord(dst[off:], rec)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		off += n
	}

	var payload []byte
	if ct != format.CompressionNone {
		payload, err = codec.Compress(buf.Bytes())
		if err != nil {
			return nil, fmt.Errorf("compress %s payload: %w", ct, err)
		}
		cfg.logger.Debug("compressed binary payload",
			zap.Stringer("compression", ct),
			zap.Int("raw", total),
			zap.Int("compressed", len(payload)))
	} else {
		payload = buf.Clone()
	}

	if mode == format.OutputBase64 || enc.ByteEncoding == format.ByteEncodingBase64 {
		out := make([]byte, base64.StdEncoding.EncodedLen(len(payload)))
		base64.StdEncoding.Encode(out, payload)

		return out, nil
	}

	return payload, nil
}

func payloadCodec(enc encoding.BinaryEncoding) (compress.Codec, format.CompressionType, error) {
	ct, err := enc.Compression()
	if err != nil {
		return nil, ct, err
	}
	codec, err := compress.GetCodec(ct)
	if err != nil {
		return nil, ct, fmt.Errorf("%w: %w", errs.ErrUnsupported, err)
	}

	return codec, ct, nil
}

// records splits the input into per-record values.
func (l *layout) records(values any) []any {
	items, ok := value.AsSlice(values)
	if !ok {
		return []any{values}
	}
	if l.record {
		return items
	}

	// A range value is itself a slice; it is a list of records only when its
	// elements are slices too.
	if l.slots[0].pair && len(items) > 0 {
		if _, nested := value.AsSlice(items[0]); !nested {
			return []any{values}
		}
	}

	return items
}

func (l *layout) varSize(rec any) (int, error) {
	total := 0
	for _, s := range l.slots {
		if s.member.DataType != format.TypeUTF8 {
			continue
		}
		v, err := l.lookup(rec, s)
		if err != nil {
			return 0, err
		}
		bounds, err := s.bounds(v)
		if err != nil {
			return 0, err
		}
		for _, b := range bounds {
			n, err := varSize(s.member, b)
			if err != nil {
				return 0, fmt.Errorf("member %q: %w", s.member.Ref, err)
			}
			total += n
		}
	}

	return total, nil
}

func (l *layout) writeRecord(dst []byte, rec any) (int, error) {
	off := 0
	for _, s := range l.slots {
		v, err := l.lookup(rec, s)
		if err != nil {
			return 0, err
		}
		bounds, err := s.bounds(v)
		if err != nil {
			return 0, err
		}

		off += s.member.PaddingBefore
		for _, b := range bounds {
			n, err := putPayload(dst[off:], l.engine, s.member, b)
			if err != nil {
				return 0, fmt.Errorf("member %q: %w", s.member.Ref, err)
			}
			off += n
		}
		off += s.member.PaddingAfter
	}

	return off, nil
}

// bounds returns the payload values of v: one for scalars, two for ranges.
func (s slot) bounds(v any) ([]any, error) {
	if !s.pair {
		return []any{v}, nil
	}
	if v == nil {
		return []any{nil, nil}, nil
	}

	b, ok := value.AsSlice(v)
	if !ok || len(b) != 2 {
		return nil, fmt.Errorf("%w: member %q expects two range bounds, got %v", errs.ErrValueType, s.member.Ref, v)
	}

	return b, nil
}
