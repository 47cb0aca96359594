// Package errors provides domain-specific error types for fwgen.
//
// Every error that can abort a compile, apply, save or rollback carries an error code
// and, where it applies, the reference (variable, zone, chain or family) it is about.
// Callers match on codes with errors.Is against the sentinel values below.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a category of error that can occur in the application.
type ErrorCode string

const (
	// ErrCodeUndefinedVariable indicates a ${name} placeholder with no matching variable.
	ErrCodeUndefinedVariable ErrorCode = "UNDEFINED_VARIABLE"

	// ErrCodeUndefinedZone indicates a %{name} placeholder with no matching zone.
	ErrCodeUndefinedZone ErrorCode = "UNDEFINED_ZONE"

	// ErrCodeSubstitutionCycle indicates placeholder resolution that does not terminate.
	ErrCodeSubstitutionCycle ErrorCode = "SUBSTITUTION_CYCLE"

	// ErrCodeMalformedPlaceholder indicates an opening placeholder tag without a closing brace.
	ErrCodeMalformedPlaceholder ErrorCode = "MALFORMED_PLACEHOLDER"

	// ErrCodeInvalidChain indicates a zone rule declared against a chain that cannot be dispatched.
	ErrCodeInvalidChain ErrorCode = "INVALID_CHAIN"

	// ErrCodeEngineSubmission indicates that a packet-filter or set engine rejected a submission.
	ErrCodeEngineSubmission ErrorCode = "ENGINE_SUBMISSION_FAILURE"

	// ErrCodeSnapshotIO indicates a failure reading or writing a snapshot document.
	ErrCodeSnapshotIO ErrorCode = "SNAPSHOT_IO_FAILURE"

	// ErrCodeSnapshotNotFound indicates that no snapshot has been saved yet.
	ErrCodeSnapshotNotFound ErrorCode = "SNAPSHOT_NOT_FOUND"

	// ErrCodeConfig indicates a configuration-related error.
	ErrCodeConfig ErrorCode = "CONFIG_ERROR"

	// ErrCodeValidation indicates a validation error.
	ErrCodeValidation ErrorCode = "VALIDATION_ERROR"

	// ErrCodeInternal indicates an unexpected internal error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// Sentinels for errors.Is matching. Only the code is compared.
var (
	ErrUndefinedVariable    = &Error{Code: ErrCodeUndefinedVariable}
	ErrUndefinedZone        = &Error{Code: ErrCodeUndefinedZone}
	ErrSubstitutionCycle    = &Error{Code: ErrCodeSubstitutionCycle}
	ErrMalformedPlaceholder = &Error{Code: ErrCodeMalformedPlaceholder}
	ErrInvalidChain         = &Error{Code: ErrCodeInvalidChain}
	ErrEngineSubmission     = &Error{Code: ErrCodeEngineSubmission}
	ErrSnapshotIO           = &Error{Code: ErrCodeSnapshotIO}
	ErrSnapshotNotFound     = &Error{Code: ErrCodeSnapshotNotFound}
)

// Error represents a domain-specific error with an error code and optional cause.
type Error struct {
	Code    ErrorCode
	Message string
	// Ref names the offending variable, zone, chain or protocol family.
	Ref   string
	Cause error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if e.Ref != "" {
		msg = fmt.Sprintf("%s [%s]", msg, e.Ref)
	}
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, msg, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, msg)
}

// Unwrap returns the underlying cause of the error for errors.Is and errors.As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is checks if the error matches the target error code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// New creates a new domain error with the specified code and message.
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// Wrap creates a new domain error wrapping an existing error.
func Wrap(code ErrorCode, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// CodeOf returns the code of the first domain error in err's chain, or an empty code.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// RefOf returns the reference of the first domain error in err's chain that carries one.
func RefOf(err error) string {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return ""
		}
		if e.Ref != "" {
			return e.Ref
		}
		err = e.Cause
	}
	return ""
}

// NewUndefinedVariableError reports a reference to a variable that is not configured.
func NewUndefinedVariableError(name string) *Error {
	return &Error{Code: ErrCodeUndefinedVariable, Message: "undefined variable", Ref: name}
}

// NewUndefinedZoneError reports a reference to a zone that is not configured.
func NewUndefinedZoneError(name string) *Error {
	return &Error{Code: ErrCodeUndefinedZone, Message: "undefined zone", Ref: name}
}

// NewSubstitutionCycleError reports placeholder resolution that exceeded its depth bound.
func NewSubstitutionCycleError(text string, depth int) *Error {
	return &Error{
		Code:    ErrCodeSubstitutionCycle,
		Message: fmt.Sprintf("placeholder resolution did not terminate after %d passes", depth),
		Ref:     text,
	}
}

// NewMalformedPlaceholderError reports text whose placeholder tags cannot be parsed.
func NewMalformedPlaceholderError(text string, cause error) *Error {
	return &Error{Code: ErrCodeMalformedPlaceholder, Message: "malformed placeholder", Ref: text, Cause: cause}
}

// NewInvalidChainError reports a zone rule declared against a chain that has no dispatch direction.
func NewInvalidChainError(chain string) *Error {
	return &Error{Code: ErrCodeInvalidChain, Message: "not a valid default chain", Ref: chain}
}

// NewEngineSubmissionError reports that an engine rejected a document for the given family.
func NewEngineSubmissionError(family string, cause error) *Error {
	return &Error{Code: ErrCodeEngineSubmission, Message: "engine submission failed", Ref: family, Cause: cause}
}

// NewSnapshotIOError reports a snapshot read or write failure.
func NewSnapshotIOError(id string, cause error) *Error {
	return &Error{Code: ErrCodeSnapshotIO, Message: "snapshot I/O failed", Ref: id, Cause: cause}
}

// NewSnapshotNotFoundError reports that no snapshot has been saved for the given id.
func NewSnapshotNotFoundError(id string) *Error {
	return &Error{Code: ErrCodeSnapshotNotFound, Message: "snapshot not found", Ref: id}
}

// NewConfigError creates a new configuration error.
func NewConfigError(message string, cause error) *Error {
	return Wrap(ErrCodeConfig, message, cause)
}

// NewValidationError creates a new validation error.
func NewValidationError(message string, cause error) *Error {
	return Wrap(ErrCodeValidation, message, cause)
}

// NewInternalError creates a new internal error.
func NewInternalError(message string, cause error) *Error {
	return Wrap(ErrCodeInternal, message, cause)
}
