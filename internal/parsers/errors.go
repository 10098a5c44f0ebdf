package parsers

import (
	"errors"
	"fmt"
)

// Error kinds. Match them with errors.Is.
var (
	ErrFileRead        = errors.New("file read error")
	ErrInvalidFormat   = errors.New("invalid format")
	ErrExternalProcess = errors.New("external process error")
	ErrDuplicateName   = errors.New("duplicate parser name")
	ErrUnsupportedKind = errors.New("unsupported parser kind")
)

// Error carries one of the kinds above together with a human-readable message
// and, optionally, the underlying cause.
type Error struct {
	Kind error
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Is(target error) bool {
	return target == e.Kind
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind error, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: err}
}
