// Package domainerrors defines the error taxonomy shared by services and
// transports. Services create coded errors; transports map codes to wire
// responses without inspecting error strings.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code identifies a class of domain error. String values double as the wire
// error code, so they are stable API surface.
type Code string

const (
	// CodeInvalidInput covers malformed identifiers or values rejected at a
	// trust boundary (bad UUID, unknown enum value).
	CodeInvalidInput Code = "invalid_input"

	// CodeBadRequest covers structurally invalid requests (missing body,
	// undecodable JSON).
	CodeBadRequest Code = "bad_request"

	// CodeValidation covers well-formed requests that violate a business
	// validation rule.
	CodeValidation Code = "validation_error"

	// CodeNotFound covers lookups of vendors, documents, requirements,
	// members, or keys that do not exist.
	CodeNotFound Code = "not_found"

	// CodeConflict covers operations that lost a uniqueness or state race.
	CodeConflict Code = "conflict"

	// CodeIllegalTransition covers lifecycle edges not in the transition
	// table. Never retried automatically.
	CodeIllegalTransition Code = "illegal_transition"

	// CodeMissingReason covers rejections attempted without a reason.
	CodeMissingReason Code = "missing_reason"

	// CodeVendorNotActive covers credential and membership operations
	// attempted against a vendor that is not active.
	CodeVendorNotActive Code = "vendor_not_active"

	// CodeVendorArchived covers document operations attempted against an
	// archived vendor.
	CodeVendorArchived Code = "vendor_archived"

	// CodeInvariantViolation covers aggregate invariants broken by a caller.
	// Services usually translate these to CodeValidation or CodeConflict.
	CodeInvariantViolation Code = "invariant_violation"

	// CodeUnauthorized covers missing or invalid credentials.
	CodeUnauthorized Code = "unauthorized"

	// CodeForbidden covers authenticated callers lacking permission.
	CodeForbidden Code = "forbidden"

	// CodeInternal covers unexpected infrastructure failures. Details are
	// logged, never returned to callers.
	CodeInternal Code = "internal_error"
)

// Error is a coded domain error with an optional wrapped cause.
type Error struct {
	code  Code
	msg   string
	cause error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.cause)
	}
	return e.msg
}

func (e *Error) Unwrap() error { return e.cause }

// Code returns the error's code.
func (e *Error) Code() Code { return e.code }

// Message returns the caller-safe message without the wrapped cause.
func (e *Error) Message() string { return e.msg }

// New creates a domain error with the given code and message.
func New(code Code, msg string) error {
	return &Error{code: code, msg: msg}
}

// Newf creates a domain error with a formatted message.
func Newf(code Code, format string, args ...any) error {
	return &Error{code: code, msg: fmt.Sprintf(format, args...)}
}

// Wrap annotates err with a code and message while preserving the cause for
// errors.Is/As chains. Returns nil if err is nil.
func Wrap(err error, code Code, msg string) error {
	if err == nil {
		return nil
	}
	return &Error{code: code, msg: msg, cause: err}
}

// HasCode reports whether any error in the chain carries the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.code == code
	}
	return false
}

// CodeOf returns the code of the outermost domain error in the chain, or
// CodeInternal if err is not a domain error.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.code
	}
	return CodeInternal
}
