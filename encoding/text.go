package encoding

import (
	"github.com/arloliu/swecodec/errs"
)

// DefaultDecimalSeparator is the decimal separator used when none is declared.
const DefaultDecimalSeparator = "."

// TextEncoding describes delimited text. Separators may be multi-character strings.
type TextEncoding struct {
	TokenSeparator      string `json:"tokenSeparator"`
	BlockSeparator      string `json:"blockSeparator"`
	DecimalSeparator    string `json:"decimalSeparator,omitempty"`
	CollapseWhiteSpaces bool   `json:"collapseWhiteSpaces,omitempty"`
}

// NewTextEncoding returns a TextEncoding with the given separators and the default
// decimal separator.
func NewTextEncoding(tokenSep, blockSep string) TextEncoding {
	return TextEncoding{TokenSeparator: tokenSep, BlockSeparator: blockSep}
}

// CSV returns the comma/newline TextEncoding.
func CSV() TextEncoding {
	return NewTextEncoding(",", "\n")
}

func (TextEncoding) descriptor() {}

// Decimal returns the effective decimal separator.
func (e TextEncoding) Decimal() string {
	if e.DecimalSeparator == "" {
		return DefaultDecimalSeparator
	}

	return e.DecimalSeparator
}

// HasCustomDecimal reports whether numbers use a separator other than '.'.
func (e TextEncoding) HasCustomDecimal() bool {
	return e.Decimal() != DefaultDecimalSeparator
}

// Violations implements Descriptor. Every rule is evaluated; none short-circuits.
func (e TextEncoding) Violations() []string {
	return messages(e.violations())
}

// Validate implements Descriptor.
func (e TextEncoding) Validate() error {
	return joinViolations(e.violations())
}

func (e TextEncoding) violations() []violation {
	var vs []violation
	if e.TokenSeparator == "" {
		vs = append(vs, violation{errs.ErrInvalidEncoding, "tokenSeparator is required"})
	}
	if e.BlockSeparator == "" {
		vs = append(vs, violation{errs.ErrInvalidEncoding, "blockSeparator is required"})
	}
	if e.TokenSeparator != "" && e.TokenSeparator == e.BlockSeparator {
		vs = append(vs, violation{errs.ErrInvalidEncoding, "tokenSeparator and blockSeparator must differ"})
	}
	if e.DecimalSeparator != "" {
		if e.DecimalSeparator == e.TokenSeparator {
			vs = append(vs, violation{errs.ErrInvalidEncoding, "decimalSeparator must differ from tokenSeparator"})
		}
		if e.DecimalSeparator == e.BlockSeparator {
			vs = append(vs, violation{errs.ErrInvalidEncoding, "decimalSeparator must differ from blockSeparator"})
		}
	}

	return vs
}
