package record

import (
	"errors"
	"fmt"
)

// MissingFieldError reports an access to a field group the record was
// not loaded with, for example reading a payer's email address from a
// transaction fetched without the payer field group.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("record was not loaded with the %q field group", e.Field)
}

// DecodeError reports record content that could not be decoded: missing
// required values, malformed JSON, or values outside the API's
// documented vocabulary.
type DecodeError struct {
	Err  error
	Path string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// ErrAbsent marks a leaf value the record does not contain. Accessors
// wrap it in a DecodeError, so absence stays distinguishable from
// malformed content.
var ErrAbsent = errors.New("value is absent")

// IsAbsent reports whether err means a value was simply not there:
// either its whole field group was never loaded, or the record carries
// the group without that leaf.
func IsAbsent(err error) bool {
	var missing *MissingFieldError
	return errors.As(err, &missing) || errors.Is(err, ErrAbsent)
}
