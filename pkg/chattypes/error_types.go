// Package chattypes defines the shared value types for claudechat.
// This file contains the classified error type used across the session,
// configuration, and provider client layers.
package chattypes

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures surfaced by the conversation core.
type ErrorKind int

// Failure classifications. Only RateLimited, Timeout and ServiceUnavailable
// are retried by the session's retry policy; everything else surfaces
// immediately.
const (
	ErrUnknown ErrorKind = iota
	ErrInvalidConfiguration
	ErrEmptyInput
	ErrSessionBusy
	ErrAuthentication
	ErrRateLimited
	ErrInvalidRequest
	ErrServiceUnavailable
	ErrTimeout
)

var errorKindNames = [...]string{
	ErrUnknown:              "unknown",
	ErrInvalidConfiguration: "invalid_configuration",
	ErrEmptyInput:           "empty_input",
	ErrSessionBusy:          "session_busy",
	ErrAuthentication:       "authentication",
	ErrRateLimited:          "rate_limited",
	ErrInvalidRequest:       "invalid_request",
	ErrServiceUnavailable:   "service_unavailable",
	ErrTimeout:              "timeout",
}

func (k ErrorKind) String() string {
	if int(k) < len(errorKindNames) {
		return errorKindNames[k]
	}
	return fmt.Sprintf("unknown(%d)", int(k))
}

// Retryable returns true if failures of this kind may be retried with backoff.
func (k ErrorKind) Retryable() bool {
	switch k {
	case ErrRateLimited, ErrTimeout, ErrServiceUnavailable:
		return true
	default:
		return false
	}
}

// Error is the classified error type surfaced at the session boundary.
// Message must be a safe summary: never the API credential or the full
// request payload.
type Error struct {
	Kind     ErrorKind
	Provider string // provider name if the failure came from a client
	Message  string
	Cause    error
}

func (e *Error) Error() string {
	if e.Provider != "" {
		return fmt.Sprintf("chat [%s] %s: %s", e.Kind, e.Provider, e.Message)
	}
	return fmt.Sprintf("chat [%s]: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError constructs a classified error without an underlying cause.
func NewError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// KindOf extracts the ErrorKind from err, returning ErrUnknown for nil or
// unclassified errors.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ErrUnknown
	}
	var cerr *Error
	if errors.As(err, &cerr) {
		return cerr.Kind
	}
	return ErrUnknown
}
