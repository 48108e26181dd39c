package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error so handlers can map it to an HTTP status
// without string-matching messages.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindPrecondition
	KindConflict
	KindNotFound
	KindPersistence
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindPrecondition:
		return "precondition_not_met"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	case KindPersistence:
		return "persistence"
	}
	return "unknown"
}

// Error carries a kind plus a human-readable message naming the record
// and rule involved, so the caller can correct input or retry.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match on kind sentinels below
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Msg == ""
}

// Kind sentinels for errors.Is checks
var (
	ErrValidation   = &Error{Kind: KindValidation}
	ErrPrecondition = &Error{Kind: KindPrecondition}
	ErrConflict     = &Error{Kind: KindConflict}
	ErrNotFound     = &Error{Kind: KindNotFound}
	ErrPersistence  = &Error{Kind: KindPersistence}
)

func Validation(format string, args ...interface{}) error {
	return &Error{Kind: KindValidation, Msg: fmt.Sprintf(format, args...)}
}

func Precondition(format string, args ...interface{}) error {
	return &Error{Kind: KindPrecondition, Msg: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...interface{}) error {
	return &Error{Kind: KindConflict, Msg: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...interface{}) error {
	return &Error{Kind: KindNotFound, Msg: fmt.Sprintf(format, args...)}
}

// Persistence wraps a store failure so the original error stays inspectable
func Persistence(err error, format string, args ...interface{}) error {
	return &Error{Kind: KindPersistence, Msg: fmt.Sprintf(format, args...), Err: err}
}

// KindOf returns the kind of err, or 0 if err is not an *Error
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
