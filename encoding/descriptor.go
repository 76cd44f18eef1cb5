package encoding

import (
	"errors"
	"fmt"

	"github.com/arloliu/swecodec/errs"
)

// Descriptor is implemented by TextEncoding and BinaryEncoding.
type Descriptor interface {
	// Violations returns every rule the descriptor breaks, as human-readable messages.
	Violations() []string
	// Validate returns nil for a usable descriptor, otherwise an error joining one
	// wrapped sentinel per violation.
	Validate() error
	descriptor()
}

var (
	_ Descriptor = TextEncoding{}
	_ Descriptor = BinaryEncoding{}
)

// violation pairs a message with the sentinel error it is reported under.
type violation struct {
	err error
	msg string
}

func messages(vs []violation) []string {
	if len(vs) == 0 {
		return nil
	}

	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = v.msg
	}

	return out
}

func joinViolations(vs []violation) error {
	if len(vs) == 0 {
		return nil
	}

	list := make([]error, len(vs))
	for i, v := range vs {
		list[i] = fmt.Errorf("%w: %s", v.err, v.msg)
	}

	return fmt.Errorf("%w: %w", errs.ErrInvalidEncoding, errors.Join(list...))
}
