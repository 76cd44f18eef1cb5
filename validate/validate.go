// Package validate checks encoding descriptors, schemas and encoded text against
// each other and reports every problem found as a human-readable message.
//
// No rule short-circuits another: a Result lists all violations of a call.
package validate

import (
	"fmt"
	"strings"

	"github.com/arloliu/swecodec/component"
	"github.com/arloliu/swecodec/encoding"
	"github.com/arloliu/swecodec/errs"
	"github.com/arloliu/swecodec/internal/collision"
	"github.com/arloliu/swecodec/textcodec"
)

// Result is the outcome of a validation.
type Result struct {
	Valid  bool
	Errors []string
}

func newResult(violations []string) Result {
	return Result{Valid: len(violations) == 0, Errors: violations}
}

// Err returns nil for a valid result, otherwise an error wrapping errs.ErrValidation
// that carries every message.
func (r Result) Err() error {
	if r.Valid {
		return nil
	}

	return fmt.Errorf("%w: %s", errs.ErrValidation, strings.Join(r.Errors, "; "))
}

// TextEncoding checks the separator rules of a text encoding.
func TextEncoding(enc encoding.TextEncoding) Result {
	return newResult(enc.Violations())
}

// BinaryEncoding checks members, data types, lengths, byte order, byte encoding and
// block compression of a binary encoding.
func BinaryEncoding(enc encoding.BinaryEncoding) Result {
	return newResult(enc.Violations())
}

// TextDataLength checks that text holds exactly expected non-blank blocks.
func TextDataLength(text string, enc encoding.TextEncoding, expected int) Result {
	got := len(textcodec.SplitBlocks(text, enc))
	if got != expected {
		return newResult([]string{fmt.Sprintf("expected %d records, found %d", expected, got)})
	}

	return newResult(nil)
}

// TextDataStructure checks every non-blank block of text against record.
//
// Records whose token count is fixed by the schema are checked by counting tokens
// with the decoder's tokenizer. Records containing variable-size arrays are checked
// by decoding the block. Record numbers in messages start at 1.
func TextDataStructure(text string, enc encoding.TextEncoding, record component.Component) Result {
	if v := enc.Violations(); len(v) > 0 {
		return newResult(v)
	}
	if record == nil {
		return newResult([]string{"record schema is required"})
	}

	want, fixed := component.TokenCount(record)
	var violations []string
	for i, block := range textcodec.SplitBlocks(text, enc) {
		if fixed {
			if got := textcodec.CountTokens(block, enc); got != want {
				violations = append(violations, fmt.Sprintf("record %d: expected %d fields, found %d", i+1, want, got))
			}

			continue
		}

		if _, err := textcodec.DecodeRecord(block, enc, record, textcodec.WithLenientParsing()); err != nil {
			violations = append(violations, fmt.Sprintf("record %d: %v", i+1, err))
		}
	}

	return newResult(violations)
}

// Schema checks a component tree: named record fields, unique field names per
// record, non-empty records and arrays with an element type.
func Schema(c component.Component) Result {
	var violations []string
	checkSchema(c, "", &violations)

	return newResult(violations)
}

func checkSchema(c component.Component, at string, violations *[]string) {
	if c == nil {
		*violations = append(*violations, fmt.Sprintf("%s: component is nil", pathOrRoot(at)))

		return
	}

	switch {
	case c.Kind().IsRecord():
		children := component.Children(c)
		if len(children) == 0 {
			*violations = append(*violations, fmt.Sprintf("%s: %s has no fields", pathOrRoot(at), c.Kind()))
		}

		tracker := newTracker()
		for i, child := range children {
			if child == nil {
				*violations = append(*violations, fmt.Sprintf("%s: field %d is nil", pathOrRoot(at), i))

				continue
			}
			name := child.Meta().Name
			if _, err := tracker.Track(name); err != nil {
				switch {
				case name == "":
					*violations = append(*violations, fmt.Sprintf("%s: field %d has no name", pathOrRoot(at), i))
				default:
					*violations = append(*violations, fmt.Sprintf("%s: duplicate field name %q", pathOrRoot(at), name))
				}
			}
			checkSchema(child, at+"/"+name, violations)
		}
		if tracker.HasCollision() {
			*violations = append(*violations, fmt.Sprintf("%s: field names %s share a hash ID",
				pathOrRoot(at), strings.Join(tracker.Collisions(), ", ")))
		}
	case c.Kind().IsArray():
		elem, count, _ := component.ElementOf(c)
		if elem == nil {
			*violations = append(*violations, fmt.Sprintf("%s: %s has no element type", pathOrRoot(at), c.Kind()))

			return
		}
		if count != nil && count.Value != nil && *count.Value < 0 {
			*violations = append(*violations, fmt.Sprintf("%s: negative element count %d", pathOrRoot(at), *count.Value))
		}
		checkSchema(elem, at, violations)
	}
}

// newTracker is replaced in tests to force hash collisions.
var newTracker = collision.NewTracker

func pathOrRoot(at string) string {
	if at == "" {
		return "/"
	}

	return at
}
