// Package errs defines the sentinel errors returned by the swecodec packages.
//
// Errors are wrapped at the failure site with fmt.Errorf("%w: ...") so callers
// can test the category with errors.Is while still getting a descriptive message.
package errs

import "errors"

// Configuration errors are raised before any data is processed.
var (
	ErrInvalidEncoding     = errors.New("invalid encoding descriptor")
	ErrEmptyMembers        = errors.New("binary encoding has no members")
	ErrInvalidMember       = errors.New("invalid binary member")
	ErrInvalidByteOrder    = errors.New("invalid byte order")
	ErrInvalidByteEncoding = errors.New("invalid byte encoding")
	ErrInvalidSchema       = errors.New("invalid component schema")
	ErrUnsupported         = errors.New("unsupported feature")
)

// Type errors.
var (
	ErrUnsupportedDataType = errors.New("unsupported data type")
	ErrValueType           = errors.New("value type mismatch")
)

// Structural mismatch errors.
var (
	ErrTokenCountMismatch = errors.New("token count mismatch")
	ErrUnknownField       = errors.New("unknown field")
	ErrMemberOrder        = errors.New("member order does not match field order")
	ErrOutOfRange         = errors.New("read out of range")
	ErrTrailingData       = errors.New("trailing data")
)

// ErrInvalidToken is returned when a text token cannot be parsed as its declared kind.
var ErrInvalidToken = errors.New("invalid token")

// ErrValidation is the category of every error produced from a failed validation result.
var ErrValidation = errors.New("validation failed")
