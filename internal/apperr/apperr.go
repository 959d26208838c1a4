// Package apperr defines the closed error taxonomy every remote or
// storage failure is mapped into at the boundary where it occurs.
package apperr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	// Transport: the request never produced a response.
	Transport Kind = iota
	// Server: the remote answered with a structured error or a non-2xx
	// status.
	Server
	// Validation: local field or form level, never reaches the network.
	Validation
	// Storage: durable client storage read/write/remove failed.
	Storage
)

func (k Kind) String() string {
	switch k {
	case Transport:
		return "transport"
	case Server:
		return "server"
	case Validation:
		return "validation"
	case Storage:
		return "storage"
	}
	return "unknown"
}

// Fallback messages shown when the failure carries nothing readable.
const (
	MsgNoResponse = "No response was received! Please try again later."
	MsgUnknown    = "Something went wrong! Please try again later."
)

type Error struct {
	Kind    Kind
	Field   string // set for Validation errors only
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func FieldError(field, message string) *Error {
	return &Error{Kind: Validation, Field: field, Message: message}
}

// Is reports whether err is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// Message extracts the human-readable message from err, falling back to
// MsgUnknown for anything outside the taxonomy.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	if err != nil {
		return MsgUnknown
	}
	return ""
}
