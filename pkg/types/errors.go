package types

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failure for propagation policy: the first four kinds
// abort and surface to the caller, StorageFailure aborts after compensation,
// DependencyFailure is swallowed with a warning on best-effort paths, and
// Conflict signals a lost optimistic-concurrency race.
type ErrorKind string

const (
	KindNotFound          ErrorKind = "not_found"
	KindInvalidState      ErrorKind = "invalid_state"
	KindValidationFailed  ErrorKind = "validation_failed"
	KindForbidden         ErrorKind = "forbidden"
	KindStorageFailure    ErrorKind = "storage_failure"
	KindDependencyFailure ErrorKind = "dependency_failure"
	KindConflict          ErrorKind = "conflict"
)

type Error struct {
	Kind ErrorKind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// E builds a domain error with no underlying cause.
func E(kind ErrorKind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

func Ef(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// WrapE attaches a domain kind to an underlying error.
func WrapE(kind ErrorKind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// KindOf returns the kind of the nearest *Error in the chain, or "" when the
// error carries no domain classification.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}

func IsNotFound(err error) bool {
	return IsKind(err, KindNotFound)
}
