package bincodec

import (
	"fmt"
	"slices"

	"github.com/arloliu/swecodec/component"
	"github.com/arloliu/swecodec/encoding"
	"github.com/arloliu/swecodec/endian"
	"github.com/arloliu/swecodec/errs"
	"github.com/arloliu/swecodec/format"
	"github.com/arloliu/swecodec/internal/hash"
	"github.com/arloliu/swecodec/internal/value"
)

// slot is one component member resolved for reading and writing.
type slot struct {
	member encoding.Member
	// path locates the value inside a record; empty when the schema root is a scalar.
	path []string
	// kind is KindUnknown when no schema is available.
	kind component.Kind
	// pair is true for range components, which take two payloads.
	pair bool
}

type layout struct {
	engine endian.EndianEngine
	slots  []slot
	// fixed is the byte size of a record excluding utf8 payload bytes.
	fixed int
	// record is true when values are maps keyed by field name.
	record bool
}

// newLayout validates enc and resolves its component members against schema.
// A nil schema resolves members by path only.
func newLayout(enc encoding.BinaryEncoding, schema component.Component) (*layout, error) {
	if err := enc.Validate(); err != nil {
		return nil, err
	}

	members := enc.Components()
	l := &layout{
		engine: endian.ForByteOrder(enc.ByteOrder),
		slots:  make([]slot, 0, len(members)),
		record: true,
	}

	var root component.Component
	if schema != nil {
		root = component.Unwrap(schema)
		l.record = !root.Kind().IsScalar() && !root.Kind().IsRange()
		if !l.record && len(members) != 1 {
			return nil, fmt.Errorf("%w: scalar schema needs exactly one member, got %d", errs.ErrInvalidMember, len(members))
		}
	}

	seen := make(map[uint64]string, len(members))
	var prev []int
	for i, m := range members {
		id := hash.PathID(m.Ref)
		if other, dup := seen[id]; dup {
			return nil, fmt.Errorf("%w: member %d ref %q duplicates %q", errs.ErrInvalidMember, i, m.Ref, other)
		}
		seen[id] = m.Ref

		s := slot{member: m, path: component.SplitPath(m.Ref)}
		if root != nil {
			c, idx, err := component.Resolve(root, m.Ref)
			if err != nil {
				return nil, fmt.Errorf("member %d: %w", i, err)
			}
			if !c.Kind().IsScalar() && !c.Kind().IsRange() {
				return nil, fmt.Errorf("%w: member %d ref %q is a %s, not a scalar", errs.ErrInvalidMember, i, m.Ref, c.Kind())
			}
			if prev != nil && slices.Compare(idx, prev) <= 0 {
				return nil, fmt.Errorf("%w: member %d ref %q", errs.ErrMemberOrder, i, m.Ref)
			}
			prev = idx
			s.kind = c.Kind()
			s.pair = c.Kind().IsRange()
			if !l.record {
				s.path = nil
			}
		}

		l.fixed += s.fixedSize()
		l.slots = append(l.slots, s)
	}

	if root == nil && len(l.slots) == 1 && len(l.slots[0].path) == 0 {
		l.record = false
	}
	if l.record {
		for i, s := range l.slots {
			if len(s.path) == 0 {
				return nil, fmt.Errorf("%w: member %d of a record needs a field reference", errs.ErrInvalidMember, i)
			}
		}
	}

	return l, nil
}

// lookup returns the value of s inside one element of the input.
func (l *layout) lookup(elem any, s slot) (any, error) {
	if !l.record || elem == nil {
		return elem, nil
	}

	m, ok := value.AsMap(elem)
	if !ok {
		if len(l.slots) == 1 {
			return elem, nil
		}

		return nil, fmt.Errorf("%w: record expects a map, got %T", errs.ErrValueType, elem)
	}

	v, _ := value.Lookup(m, s.path)

	return v, nil
}

// payloadSize is the fixed width of one payload; for utf8 only the length prefix.
func (s slot) payloadSize() int {
	switch s.member.DataType {
	case format.TypeUTF8:
		return utf8PrefixSize
	case format.TypeString:
		return s.member.ByteLength
	default:
		return s.member.DataType.Size()
	}
}

func (s slot) payloads() int {
	if s.pair {
		return 2
	}

	return 1
}

// fixedSize is the width of the slot including padding, excluding utf8 bytes.
func (s slot) fixedSize() int {
	return s.member.PaddingBefore + s.payloads()*s.payloadSize() + s.member.PaddingAfter
}
