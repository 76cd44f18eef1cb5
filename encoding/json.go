package encoding

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"

	"github.com/arloliu/swecodec/errs"
	"github.com/arloliu/swecodec/format"
)

const (
	typeText   = "TextEncoding"
	typeBinary = "BinaryEncoding"
)

type wireText struct {
	Type string `json:"type"`
	textAlias
}

type textAlias TextEncoding

// MarshalJSON renders the SWE JSON form, including "type": "TextEncoding".
func (e TextEncoding) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireText{Type: typeText, textAlias: textAlias(e)})
}

// UnmarshalJSON parses the SWE JSON form. The "type" property is optional.
func (e *TextEncoding) UnmarshalJSON(data []byte) error {
	var w wireText
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("%w: %v", errs.ErrInvalidEncoding, err)
	}
	if w.Type != "" && w.Type != typeText {
		return fmt.Errorf("%w: type %q is not %s", errs.ErrInvalidEncoding, w.Type, typeText)
	}
	*e = TextEncoding(w.textAlias)

	return nil
}

type wireMember struct {
	Type            string `json:"type,omitempty"`
	Ref             string `json:"ref"`
	DataType        string `json:"dataType,omitempty"`
	ByteLength      int    `json:"byteLength,omitempty"`
	BitLength       int    `json:"bitLength,omitempty"`
	SignificantBits int    `json:"significantBits,omitempty"`
	PaddingBefore   int    `json:"paddingBytes-before,omitempty"`
	PaddingAfter    int    `json:"paddingBytes-after,omitempty"`
	Compression     string `json:"compression,omitempty"`
	Encryption      string `json:"encryption,omitempty"`
}

// MarshalJSON renders the SWE JSON member form.
func (m Member) MarshalJSON() ([]byte, error) {
	w := wireMember{
		Type:            m.Type.String(),
		Ref:             m.Ref,
		ByteLength:      m.ByteLength,
		BitLength:       m.BitLength,
		SignificantBits: m.SignificantBits,
		PaddingBefore:   m.PaddingBefore,
		PaddingAfter:    m.PaddingAfter,
		Compression:     m.Compression,
		Encryption:      m.Encryption,
	}
	if m.Type == MemberComponent {
		w.DataType = m.DataType.String()
	}

	return json.Marshal(w)
}

// UnmarshalJSON parses the SWE JSON member form. Data types may be short names
// ("float") or OGC URIs; a missing "type" means Component.
func (m *Member) UnmarshalJSON(data []byte) error {
	var w wireMember
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("%w: %v", errs.ErrInvalidMember, err)
	}

	out := Member{
		Ref:             w.Ref,
		ByteLength:      w.ByteLength,
		BitLength:       w.BitLength,
		SignificantBits: w.SignificantBits,
		PaddingBefore:   w.PaddingBefore,
		PaddingAfter:    w.PaddingAfter,
		Compression:     w.Compression,
		Encryption:      w.Encryption,
	}

	switch strings.ToLower(w.Type) {
	case "", "component":
		out.Type = MemberComponent
		dt, err := format.ParseDataType(w.DataType)
		if err != nil {
			return fmt.Errorf("member %q: %w", w.Ref, err)
		}
		out.DataType = dt
	case "block":
		out.Type = MemberBlock
	default:
		return fmt.Errorf("%w: member type %q", errs.ErrInvalidMember, w.Type)
	}
	*m = out

	return nil
}

type wireBinary struct {
	Type         string   `json:"type"`
	ByteOrder    string   `json:"byteOrder,omitempty"`
	ByteEncoding string   `json:"byteEncoding,omitempty"`
	ByteLength   int      `json:"byteLength,omitempty"`
	Members      []Member `json:"members"`
}

// MarshalJSON renders the SWE JSON form, including "type": "BinaryEncoding".
func (e BinaryEncoding) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireBinary{
		Type:         typeBinary,
		ByteOrder:    e.ByteOrder.String(),
		ByteEncoding: e.ByteEncoding.String(),
		ByteLength:   e.ByteLength,
		Members:      e.Members,
	})
}

// UnmarshalJSON parses the SWE JSON form. A missing byteOrder means bigEndian.
func (e *BinaryEncoding) UnmarshalJSON(data []byte) error {
	var w wireBinary
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("%w: %w", errs.ErrInvalidEncoding, err)
	}
	if w.Type != "" && w.Type != typeBinary {
		return fmt.Errorf("%w: type %q is not %s", errs.ErrInvalidEncoding, w.Type, typeBinary)
	}

	order, err := format.ParseByteOrder(w.ByteOrder)
	if err != nil {
		return err
	}
	be, err := format.ParseByteEncoding(w.ByteEncoding)
	if err != nil {
		return err
	}
	*e = BinaryEncoding{ByteOrder: order, ByteEncoding: be, ByteLength: w.ByteLength, Members: w.Members}

	return nil
}

// UnmarshalDescriptor parses a SWE JSON encoding whose "type" is TextEncoding or
// BinaryEncoding.
//
// Returns:
//   - Descriptor: a TextEncoding or BinaryEncoding value
//   - error: errs.ErrInvalidEncoding for malformed input or an unknown type
func UnmarshalDescriptor(data []byte) (Descriptor, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrInvalidEncoding, err)
	}

	switch head.Type {
	case typeText:
		var e TextEncoding
		if err := e.UnmarshalJSON(data); err != nil {
			return nil, err
		}

		return e, nil
	case typeBinary:
		var e BinaryEncoding
		if err := e.UnmarshalJSON(data); err != nil {
			return nil, err
		}

		return e, nil
	default:
		return nil, fmt.Errorf("%w: unknown encoding type %q", errs.ErrInvalidEncoding, head.Type)
	}
}

// Marshal renders a descriptor as SWE JSON.
func Marshal(d Descriptor) ([]byte, error) {
	if d == nil {
		return nil, fmt.Errorf("%w: nil descriptor", errs.ErrInvalidEncoding)
	}

	return json.Marshal(d)
}
