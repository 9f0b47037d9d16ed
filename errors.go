package regexpu

import (
	"errors"
	"fmt"
)

// The sentinels below identify the kind of a failure; test with errors.Is. Every error returned by
// Parse, Generate, and RewritePattern matches exactly one of them.
var (
	ErrSyntax      = errors.New("invalid regular expression")
	ErrUnsupported = errors.New("unsupported input")
	ErrStructural  = errors.New("structural violation")
	ErrConfig      = errors.New("invalid configuration")
)

// Error carries the kind, the byte offset in the pattern where the problem was found (-1 if there isn't
// one), and a description.
type Error struct {
	Kind   error
	Offset int
	Msg    string
}

func (e *Error) Error() string {
	return e.Kind.Error() + ": " + e.Msg
}

func (e *Error) Is(target error) bool {
	return target == e.Kind
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func syntaxErrorf(offset int, format string, args ...any) error {
	return &Error{Kind: ErrSyntax, Offset: offset, Msg: fmt.Sprintf(format, args...)}
}

func unsupportedf(format string, args ...any) error {
	return &Error{Kind: ErrUnsupported, Offset: -1, Msg: fmt.Sprintf(format, args...)}
}

func structuralf(format string, args ...any) error {
	return &Error{Kind: ErrStructural, Offset: -1, Msg: fmt.Sprintf(format, args...)}
}

func configf(format string, args ...any) error {
	return &Error{Kind: ErrConfig, Offset: -1, Msg: fmt.Sprintf(format, args...)}
}
