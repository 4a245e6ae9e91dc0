// Package apperr defines the error taxonomy shared by the API and the worker.
// Request-scoped failures (bad input, missing entity) propagate to the caller;
// unit-of-work failures (one adapter, one email) are recorded where they
// happened and never escalate past their unit.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an Error.
type Kind int

const (
	// KindValidation marks malformed or empty input.
	KindValidation Kind = iota + 1
	// KindNotFound marks a reference to an absent entity.
	KindNotFound
	// KindAdapter marks a per-source discovery failure. Non-fatal: it is
	// logged against the search record and must not abort sibling sources.
	KindAdapter
	// KindGeneration marks an external text-model failure. Surfaced to the
	// caller, never retried internally.
	KindGeneration
	// KindEmailDelivery marks a mail-transport failure. Recorded on the
	// EmailLog as "failed", never retried internally.
	KindEmailDelivery
)

// Error carries a kind, a message, and an optional wrapped cause.
type Error struct {
	Kind Kind
	msg  string
	err  error
}

func (e *Error) Error() string {
	if e.err != nil {
		return e.msg + ": " + e.err.Error()
	}
	return e.msg
}

func (e *Error) Unwrap() error { return e.err }

func newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, msg: fmt.Sprintf(format, args...)}
}

// Validation builds a KindValidation error.
func Validation(format string, args ...any) *Error { return newf(KindValidation, format, args...) }

// NotFound builds a KindNotFound error.
func NotFound(format string, args ...any) *Error { return newf(KindNotFound, format, args...) }

// Adapter wraps a per-source failure, tagging the source name.
func Adapter(source string, err error) *Error {
	return &Error{Kind: KindAdapter, msg: "source " + source, err: err}
}

// Generation wraps an external text-model failure.
func Generation(err error) *Error {
	return &Error{Kind: KindGeneration, msg: "cover letter generation", err: err}
}

// EmailDelivery wraps a mail-transport failure.
func EmailDelivery(err error) *Error {
	return &Error{Kind: KindEmailDelivery, msg: "email delivery", err: err}
}

func is(err error, kind Kind) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == kind
}

// IsValidation reports whether err is (or wraps) a validation error.
func IsValidation(err error) bool { return is(err, KindValidation) }

// IsNotFound reports whether err is (or wraps) a not-found error.
func IsNotFound(err error) bool { return is(err, KindNotFound) }

// IsAdapter reports whether err is (or wraps) a per-source adapter error.
func IsAdapter(err error) bool { return is(err, KindAdapter) }

// IsGeneration reports whether err is (or wraps) a generation error.
func IsGeneration(err error) bool { return is(err, KindGeneration) }

// IsEmailDelivery reports whether err is (or wraps) a delivery error.
func IsEmailDelivery(err error) bool { return is(err, KindEmailDelivery) }
