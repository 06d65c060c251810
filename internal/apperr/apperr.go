// Package apperr defines the typed errors shared by the repositories,
// services and handlers.
package apperr

import (
	"errors"
)

// Kind classifies an application error.
type Kind uint8

const (
	KindUnknown Kind = iota
	// KindNotFound means the identifier has no matching record.
	KindNotFound
	// KindValidation means the store schema rejected the record.
	KindValidation
	// KindStoreUnavailable covers every other failure raised by the store.
	KindStoreUnavailable
	KindUnauthorized
	KindConflict
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "NOT_FOUND"
	case KindValidation:
		return "VALIDATION_FAILED"
	case KindStoreUnavailable:
		return "STORE_UNAVAILABLE"
	case KindUnauthorized:
		return "UNAUTHORIZED"
	case KindConflict:
		return "CONFLICT"
	default:
		return "UNKNOWN"
	}
}

// Error is an error carrying a Kind and the message shown to API clients.
type Error struct {
	kind Kind
	msg  string
	err  error
}

// New creates an Error with the given kind and message.
func New(kind Kind, msg string) *Error {
	return &Error{kind: kind, msg: msg}
}

// Wrap creates an Error whose message is the text of err.
func Wrap(kind Kind, err error) *Error {
	if err == nil {
		return nil
	}
	return &Error{kind: kind, msg: err.Error(), err: err}
}

// NotFound creates a KindNotFound error.
func NotFound(msg string) *Error {
	return New(KindNotFound, msg)
}

// Validation creates a KindValidation error.
func Validation(msg string) *Error {
	return New(KindValidation, msg)
}

// StoreUnavailable wraps a store failure, keeping its raw message.
func StoreUnavailable(err error) *Error {
	return Wrap(KindStoreUnavailable, err)
}

// Unauthorized creates a KindUnauthorized error.
func Unauthorized(msg string) *Error {
	return New(KindUnauthorized, msg)
}

// Conflict creates a KindConflict error.
func Conflict(msg string) *Error {
	return New(KindConflict, msg)
}

func (e *Error) Error() string {
	return e.msg
}

func (e *Error) Unwrap() error {
	return e.err
}

// Kind returns the kind of the error.
func (e *Error) Kind() Kind {
	return e.kind
}

// KindOf returns the kind of the first *Error in err's chain, or KindUnknown.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.kind
	}
	return KindUnknown
}

// Is reports whether err's chain holds an *Error of the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Message returns the client-facing message of err: the message of the
// first *Error in its chain, or err.Error() when there is none.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.msg
	}
	return err.Error()
}
