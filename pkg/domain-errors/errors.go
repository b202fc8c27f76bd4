// Package domainerrors carries coded errors across layers. Services return
// these so callers (CLI, reporters) can branch on a stable code instead of
// matching message text.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code is a machine-readable error classification.
type Code string

const (
	// CodeInvalidInput marks malformed external input (e.g. unparseable text).
	CodeInvalidInput Code = "invalid_input"
	// CodeValidation marks well-formed input that fails a business rule.
	CodeValidation Code = "validation_error"
	// CodeInvariantViolation marks a caller breaking a function's contract.
	CodeInvariantViolation Code = "invariant_violation"
	// CodeBadRequest marks a request that cannot be processed as given.
	CodeBadRequest Code = "bad_request"
	// CodeTimeout marks work abandoned because its context ended.
	CodeTimeout Code = "timeout"
	// CodeInternal marks unexpected failures.
	CodeInternal Code = "internal_error"
)

// Error is a coded domain error. Reason is an optional finer-grained,
// machine-readable cause within the code (e.g. "checksum_mismatch").
type Error struct {
	Code    Code
	Message string
	Reason  string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a domain error with the given code.
func New(code Code, msg string) error {
	return &Error{Code: code, Message: msg}
}

// NewWithReason creates a domain error that also carries a reason.
func NewWithReason(code Code, reason, msg string) error {
	return &Error{Code: code, Message: msg, Reason: reason}
}

// Wrap attaches a code and message to an underlying error.
// Returns nil when err is nil.
func Wrap(err error, code Code, msg string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: msg, Err: err}
}

// As extracts the outermost domain error from an error chain.
func As(err error) (*Error, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// HasCode reports whether err carries the given code anywhere in its chain.
func HasCode(err error, code Code) bool {
	for err != nil {
		var de *Error
		if !errors.As(err, &de) {
			return false
		}
		if de.Code == code {
			return true
		}
		err = de.Err
	}
	return false
}

// CodeOf returns the code of the outermost domain error, or CodeInternal.
func CodeOf(err error) Code {
	if de, ok := As(err); ok {
		return de.Code
	}
	return CodeInternal
}

// ReasonOf returns the reason of the outermost domain error, if any.
func ReasonOf(err error) string {
	if de, ok := As(err); ok {
		return de.Reason
	}
	return ""
}

// Is is errors.Is, re-exported so callers need a single import.
func Is(err, target error) bool {
	return errors.Is(err, target)
}
