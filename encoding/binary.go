package encoding

import (
	"fmt"
	"strings"

	"github.com/arloliu/swecodec/errs"
	"github.com/arloliu/swecodec/format"
)

// MemberType distinguishes scalar members from block members.
type MemberType uint8

const (
	// MemberComponent encodes one scalar (or range) component.
	MemberComponent MemberType = iota
	// MemberBlock declares compression or encryption over a whole aggregate.
	MemberBlock
)

func (t MemberType) String() string {
	if t == MemberBlock {
		return "Block"
	}

	return "Component"
}

// Member is one entry of a BinaryEncoding.
type Member struct {
	Type MemberType
	// Ref addresses the encoded component, e.g. "/temp" or "/location/lat".
	// A Block member referencing the root uses "/".
	Ref      string
	DataType format.DataType
	// ByteLength is the fixed width of a string member. For other types it may
	// restate the type footprint and must then match it.
	ByteLength int
	// BitLength, when set, keeps only that many low-order bits of an integer value.
	BitLength int
	// SignificantBits masks integer values like BitLength when BitLength is unset.
	// On float types it is descriptive only.
	SignificantBits int
	PaddingBefore   int
	PaddingAfter    int
	// Compression and Encryption apply to Block members only.
	Compression string
	Encryption  string
}

// NewMember returns a Component member for ref with the given data type.
func NewMember(ref string, dataType format.DataType) Member {
	return Member{Type: MemberComponent, Ref: ref, DataType: dataType}
}

// NewStringMember returns a fixed-width string member of byteLength bytes.
func NewStringMember(ref string, byteLength int) Member {
	return Member{Type: MemberComponent, Ref: ref, DataType: format.TypeString, ByteLength: byteLength}
}

// IsRootBlock reports whether m is a Block member covering the whole record stream.
func (m Member) IsRootBlock() bool {
	return m.Type == MemberBlock && strings.Trim(m.Ref, "/") == ""
}

// MaskBits returns the number of low-order bits kept for an integer or boolean
// value: BitLength, else SignificantBits on integer types, else 0 for the full width.
func (m Member) MaskBits() int {
	if m.BitLength > 0 {
		return m.BitLength
	}
	if m.SignificantBits > 0 && m.DataType.Integer() {
		return m.SignificantBits
	}

	return 0
}

// PayloadSize returns the payload width of the member in bytes, excluding padding.
// The second result is false for utf8 members, whose width depends on the value.
func (m Member) PayloadSize() (int, bool) {
	switch m.DataType {
	case format.TypeUTF8:
		return 0, false
	case format.TypeString:
		return m.ByteLength, true
	default:
		return m.DataType.Size(), true
	}
}

// Footprint returns the fixed bytes a member occupies including padding, and whether
// the footprint is fully known from the descriptor.
func (m Member) Footprint() (int, bool) {
	n, fixed := m.PayloadSize()

	return m.PaddingBefore + n + m.PaddingAfter, fixed
}

// BinaryEncoding describes packed binary records.
type BinaryEncoding struct {
	ByteOrder    format.ByteOrder
	ByteEncoding format.ByteEncoding
	// ByteLength optionally declares the total byte length of one record.
	ByteLength int
	Members    []Member
}

// NewBinaryEncoding returns a big-endian, raw BinaryEncoding with the given members.
func NewBinaryEncoding(members ...Member) BinaryEncoding {
	return BinaryEncoding{ByteOrder: format.BigEndian, ByteEncoding: format.ByteEncodingRaw, Members: members}
}

func (BinaryEncoding) descriptor() {}

// Components returns the Component members in wire order.
func (e BinaryEncoding) Components() []Member {
	out := make([]Member, 0, len(e.Members))
	for _, m := range e.Members {
		if m.Type == MemberComponent {
			out = append(out, m)
		}
	}

	return out
}

// RootBlock returns the Block member covering the root, if declared.
func (e BinaryEncoding) RootBlock() (Member, bool) {
	for _, m := range e.Members {
		if m.IsRootBlock() {
			return m, true
		}
	}

	return Member{}, false
}

// Compression returns the payload compression declared by the root block member.
func (e BinaryEncoding) Compression() (format.CompressionType, error) {
	block, ok := e.RootBlock()
	if !ok {
		return format.CompressionNone, nil
	}

	return format.ParseCompression(block.Compression)
}

// RecordSize returns the byte length of one record, and false when a utf8 member
// makes it value dependent.
func (e BinaryEncoding) RecordSize() (int, bool) {
	total := 0
	fixed := true
	for _, m := range e.Components() {
		n, ok := m.Footprint()
		total += n
		fixed = fixed && ok
	}

	return total, fixed
}

// Violations implements Descriptor. Every member is checked; none short-circuits.
func (e BinaryEncoding) Violations() []string {
	return messages(e.violations())
}

// Validate implements Descriptor.
func (e BinaryEncoding) Validate() error {
	return joinViolations(e.violations())
}

func (e BinaryEncoding) violations() []violation {
	var vs []violation
	add := func(err error, msgFmt string, args ...any) {
		vs = append(vs, violation{err, fmt.Sprintf(msgFmt, args...)})
	}

	if e.ByteOrder != format.BigEndian && e.ByteOrder != format.LittleEndian {
		add(errs.ErrInvalidByteOrder, "byteOrder %d is not bigEndian or littleEndian", e.ByteOrder)
	}
	if e.ByteEncoding != format.ByteEncodingRaw && e.ByteEncoding != format.ByteEncodingBase64 {
		add(errs.ErrInvalidByteEncoding, "byteEncoding %d is not supported", e.ByteEncoding)
	}

	components := 0
	blocks := 0
	for i, m := range e.Members {
		if m.Type == MemberBlock {
			blocks++
			vs = append(vs, blockViolations(i, m)...)

			continue
		}
		components++
		vs = append(vs, memberViolations(i, m)...)
	}

	if components == 0 {
		add(errs.ErrEmptyMembers, "members must contain at least one component member")
	}
	if blocks > 1 {
		add(errs.ErrInvalidMember, "at most one block member is supported, got %d", blocks)
	}

	if e.ByteLength < 0 {
		add(errs.ErrInvalidEncoding, "byteLength %d is negative", e.ByteLength)
	} else if e.ByteLength > 0 {
		if size, fixed := e.RecordSize(); fixed && size != e.ByteLength {
			add(errs.ErrInvalidEncoding, "byteLength %d does not match the record size %d", e.ByteLength, size)
		}
	}

	return vs
}

func memberViolations(i int, m Member) []violation {
	var vs []violation
	name := fmt.Sprintf("member %d (%s)", i, m.Ref)
	add := func(err error, msgFmt string, args ...any) {
		vs = append(vs, violation{err, name + ": " + fmt.Sprintf(msgFmt, args...)})
	}

	if strings.TrimSpace(m.Ref) == "" {
		add(errs.ErrInvalidMember, "ref is required")
	}
	if !m.DataType.Valid() {
		add(errs.ErrUnsupportedDataType, "dataType is missing or unsupported")

		return vs
	}

	switch m.DataType {
	case format.TypeString:
		if m.ByteLength <= 0 {
			add(errs.ErrInvalidMember, "string requires a positive byteLength")
		}
	case format.TypeUTF8:
		if m.ByteLength != 0 {
			add(errs.ErrInvalidMember, "utf8 is variable length and cannot declare byteLength")
		}
	default:
		if m.ByteLength != 0 && m.ByteLength != m.DataType.Size() {
			add(errs.ErrInvalidMember, "byteLength %d does not match %s size %d", m.ByteLength, m.DataType, m.DataType.Size())
		}
	}

	if m.BitLength != 0 {
		switch {
		case !m.DataType.Integer() && m.DataType != format.TypeBoolean:
			add(errs.ErrInvalidMember, "bitLength is only allowed on integer types, not %s", m.DataType)
		case m.BitLength < 0 || m.BitLength > m.DataType.Size()*8:
			add(errs.ErrInvalidMember, "bitLength %d outside 1..%d", m.BitLength, m.DataType.Size()*8)
		}
	}
	if m.SignificantBits < 0 || (m.DataType.Size() > 0 && m.SignificantBits > m.DataType.Size()*8) {
		add(errs.ErrInvalidMember, "significantBits %d is out of range", m.SignificantBits)
	}
	if m.PaddingBefore < 0 || m.PaddingAfter < 0 {
		add(errs.ErrInvalidMember, "padding cannot be negative")
	}
	if m.Compression != "" || m.Encryption != "" {
		add(errs.ErrInvalidMember, "compression and encryption apply to block members only")
	}

	return vs
}

func blockViolations(i int, m Member) []violation {
	var vs []violation
	name := fmt.Sprintf("block %d (%s)", i, m.Ref)

	if !m.IsRootBlock() {
		vs = append(vs, violation{errs.ErrUnsupported, name + ": block members are only supported on the root"})
	}
	if _, err := format.ParseCompression(m.Compression); err != nil {
		vs = append(vs, violation{errs.ErrUnsupported, fmt.Sprintf("%s: compression %q is not supported", name, m.Compression)})
	}
	if m.Encryption != "" {
		vs = append(vs, violation{errs.ErrUnsupported, fmt.Sprintf("%s: encryption %q is not supported", name, m.Encryption)})
	}

	return vs
}
