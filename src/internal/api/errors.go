package api

import (
	"encoding/json"
	"net/http"

	fwerrors "github.com/maksimkurb/fwgen/src/internal/errors"
)

// ErrorCode represents standard API error codes.
type ErrorCode string

const (
	// ErrCodeInvalidRequest indicates malformed or invalid request data.
	ErrCodeInvalidRequest ErrorCode = "invalid_request"

	// ErrCodeNotFound indicates the requested resource was not found.
	ErrCodeNotFound ErrorCode = "not_found"

	// ErrCodeForbidden indicates the client is not allowed to use the API.
	ErrCodeForbidden ErrorCode = "forbidden"

	// ErrCodeInternalError indicates an internal server error.
	ErrCodeInternalError ErrorCode = "internal_error"

	// ErrCodeValidationFailed indicates the configuration does not compile.
	ErrCodeValidationFailed ErrorCode = "validation_failed"

	// ErrCodeServiceError indicates an engine or snapshot operation failed.
	ErrCodeServiceError ErrorCode = "service_error"
)

// APIError represents a structured API error response.
type APIError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// ErrorResponse wraps an APIError for JSON responses.
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// NewAPIError creates a new APIError with the given code and message.
func NewAPIError(code ErrorCode, message string) APIError {
	return APIError{
		Code:    code,
		Message: message,
	}
}

// WithDetails adds details to an APIError.
func (e APIError) WithDetails(details map[string]interface{}) APIError {
	e.Details = details
	return e
}

// WriteError writes an error response to the HTTP response writer.
func WriteError(w http.ResponseWriter, statusCode int, err APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{Error: err})
}

// WriteInvalidRequest writes a 400 Bad Request error.
func WriteInvalidRequest(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, NewAPIError(ErrCodeInvalidRequest, message))
}

// WriteNotFound writes a 404 Not Found error.
func WriteNotFound(w http.ResponseWriter, resource string) {
	WriteError(w, http.StatusNotFound, NewAPIError(ErrCodeNotFound, resource+" not found"))
}

// WriteForbidden writes a 403 Forbidden error.
func WriteForbidden(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusForbidden, NewAPIError(ErrCodeForbidden, message))
}

// WriteInternalError writes a 500 Internal Server Error.
func WriteInternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, NewAPIError(ErrCodeInternalError, message))
}

// WriteValidationError writes a 422 Unprocessable Entity with validation details.
func WriteValidationError(w http.ResponseWriter, message string, details map[string]interface{}) {
	err := NewAPIError(ErrCodeValidationFailed, message).WithDetails(details)
	WriteError(w, http.StatusUnprocessableEntity, err)
}

// WriteServiceError writes a 500 Internal Server Error for service failures.
func WriteServiceError(w http.ResponseWriter, message string, details map[string]interface{}) {
	WriteError(w, http.StatusInternalServerError, NewAPIError(ErrCodeServiceError, message).WithDetails(details))
}

// WriteFirewallError maps a compiler or lifecycle error onto a response.
// Compile and configuration errors are the client's fault; engine and snapshot
// failures are not.
func WriteFirewallError(w http.ResponseWriter, err error) {
	details := errorDetails(err)

	switch fwerrors.CodeOf(err) {
	case fwerrors.ErrCodeUndefinedVariable,
		fwerrors.ErrCodeUndefinedZone,
		fwerrors.ErrCodeSubstitutionCycle,
		fwerrors.ErrCodeMalformedPlaceholder,
		fwerrors.ErrCodeInvalidChain,
		fwerrors.ErrCodeValidation,
		fwerrors.ErrCodeConfig:
		WriteValidationError(w, err.Error(), details)
	case fwerrors.ErrCodeSnapshotNotFound:
		WriteError(w, http.StatusNotFound, NewAPIError(ErrCodeNotFound, err.Error()).WithDetails(details))
	default:
		WriteServiceError(w, err.Error(), details)
	}
}

func errorDetails(err error) map[string]interface{} {
	code := fwerrors.CodeOf(err)
	if code == "" {
		return nil
	}
	details := map[string]interface{}{"code": code}
	if ref := fwerrors.RefOf(err); ref != "" {
		details["ref"] = ref
	}
	return details
}
