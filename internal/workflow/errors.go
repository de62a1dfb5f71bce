package workflow

import (
	"errors"
	"fmt"
)

// Kind classifies workflow failures for callers and log filtering.
type Kind string

const (
	KindNotFound          Kind = "not_found"
	KindIllegalTransition Kind = "illegal_transition"
	KindForbidden         Kind = "forbidden"
	KindInvalidArgument   Kind = "invalid_argument"
	KindConflict          Kind = "conflict"
	KindLedgerWriteFailed Kind = "ledger_write_failed"
)

// Sentinels for errors.Is. They match any *Error of the same kind.
var (
	ErrNotFound          = &Error{Kind: KindNotFound}
	ErrIllegalTransition = &Error{Kind: KindIllegalTransition}
	ErrForbidden         = &Error{Kind: KindForbidden}
	ErrInvalidArgument   = &Error{Kind: KindInvalidArgument}
	ErrConflict          = &Error{Kind: KindConflict}
	ErrLedgerWriteFailed = &Error{Kind: KindLedgerWriteFailed}
)

// Error is a classified workflow failure. Message is safe to show to users;
// Err carries the underlying cause, if any.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func newError(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches sentinels (errors without a message) by kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Message == "" && t.Err == nil && t.Kind == e.Kind
}

// ErrorKind reports the classification recorded in the error_kind log field.
func (e *Error) ErrorKind() string { return string(e.Kind) }

// KindOf returns the kind of the first *Error in err's chain, or "" when err
// is not a workflow error.
func KindOf(err error) Kind {
	var wfErr *Error
	if errors.As(err, &wfErr) {
		return wfErr.Kind
	}
	return ""
}

// UserMessage returns the human-readable part of a workflow error, falling
// back to err.Error() for anything else.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var wfErr *Error
	if errors.As(err, &wfErr) && wfErr.Message != "" {
		return wfErr.Message
	}
	return err.Error()
}
