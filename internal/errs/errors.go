// Package errs provides the unified error type used across sqlgate.
//
// Every subsystem (config resolution, the MySQL connector, introspection)
// wraps its native errors into *errs.Error before returning them to callers.
// Callers use the Is* predicates to decide how an error propagates: config
// errors abort the process, connection errors fail the whole request, query
// errors fail one backend operation. Statement failures inside a batch never
// surface as errors at all; the executor records them as positional report
// entries.
//
// Usage:
//
//	// In the connector — wrap native errors:
//	return errs.Wrap(errs.ErrKindConnectionFailed, "dial failed", drvErr)
//
//	// In a tool handler — check error kind:
//	if errs.IsConfig(err) {
//	    log.Fatalf("%v", err)
//	}
package errs

import (
	"errors"
	"fmt"
)

// ErrKind categorises an error without exposing driver-specific codes.
// The kinds mirror the gateway's propagation policy: Config is fatal,
// ConnectionFailed fails a request, QueryFailed fails one backend operation.
type ErrKind int

const (
	ErrKindUnknown          ErrKind = iota
	ErrKindConfig                   // unusable configuration (missing file, bad source tag)
	ErrKindConnectionFailed         // cannot reach, authenticate to, or select the database
	ErrKindQueryFailed              // a query, introspection, or scan operation failed
)

func (k ErrKind) String() string {
	switch k {
	case ErrKindConfig:
		return "config"
	case ErrKindConnectionFailed:
		return "connection_failed"
	case ErrKindQueryFailed:
		return "query_failed"
	default:
		return "unknown"
	}
}

// Error is the single error type returned by all sqlgate subsystems.
type Error struct {
	Kind    ErrKind
	Message string
	Cause   error // original driver-level error, preserved for logging
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

// Unwrap allows errors.Is / errors.As to traverse the cause chain.
func (e *Error) Unwrap() error {
	return e.Cause
}

// --- Constructors ---

// New creates an *Error with the given kind and message and no cause.
func New(kind ErrKind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Wrap creates an *Error with the given kind, message, and an underlying cause.
func Wrap(kind ErrKind, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, Cause: cause}
}

// --- Predicates ---

// IsConfig reports whether err means the service has no usable configuration.
// These errors are unrecoverable: the caller should terminate the process.
func IsConfig(err error) bool {
	return kindOf(err) == ErrKindConfig
}

// IsConnectionFailed reports whether err is a connectivity, auth, or
// database-selection failure.
func IsConnectionFailed(err error) bool {
	return kindOf(err) == ErrKindConnectionFailed
}

// IsQueryFailed reports whether err is a backend operation failure
// (introspection query error, row scan error, …).
func IsQueryFailed(err error) bool {
	return kindOf(err) == ErrKindQueryFailed
}

// kindOf extracts the ErrKind from any error in the chain.
func kindOf(err error) ErrKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ErrKindUnknown
}
