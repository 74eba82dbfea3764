// Package apperr defines the typed error taxonomy shared by the auth
// subsystem and the HTTP layer. Every core failure is a value carrying a
// machine-readable kind plus a client-safe message; the transport layer maps
// kinds to status codes in one place.
package apperr

import (
	"errors"
	"fmt"
)

// Kind categorizes a failure.
type Kind string

const (
	KindEmailTaken         Kind = "email_taken"
	KindInvalidCredentials Kind = "invalid_credentials"
	KindTokenExpired       Kind = "token_expired"
	KindTokenMalformed     Kind = "token_malformed"
	KindTokenSignature     Kind = "token_signature"
	KindUnauthenticated    Kind = "unauthenticated"
	KindNotFound           Kind = "not_found"
	KindForbidden          Kind = "forbidden"
	KindValidation         Kind = "validation"
	KindInternal           Kind = "internal"
)

// Error is a categorized failure. Message is safe to return to clients;
// the wrapped error is for server-side logs only.
type Error struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
	err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes the underlying cause to errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// New creates an Error with the given kind and client-safe message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates an Error that keeps the underlying cause for logging.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, err: err}
}

// KindOf extracts the kind from any error. Unrecognized errors are internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// MessageOf extracts the client-safe message from any error. Unrecognized
// errors get a generic message so internal detail never leaks outward.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "an unexpected error occurred"
}

// Internal wraps an unexpected failure as an internal error with a generic
// client message.
func Internal(err error) *Error {
	return Wrap(KindInternal, "an unexpected error occurred", err)
}
