package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		expected string
	}{
		{
			name:     "error without cause",
			err:      &Error{Code: ErrCodeConfig, Message: "invalid configuration"},
			expected: "[CONFIG_ERROR] invalid configuration",
		},
		{
			name:     "error with cause",
			err:      Wrap(ErrCodeInternal, "failed to build", errors.New("boom")),
			expected: "[INTERNAL_ERROR] failed to build: boom",
		},
		{
			name:     "error with reference",
			err:      NewUndefinedVariableError("MGMT_NET"),
			expected: "[UNDEFINED_VARIABLE] undefined variable [MGMT_NET]",
		},
		{
			name:     "error with reference and cause",
			err:      NewEngineSubmissionError("ipv6", errors.New("exit status 2")),
			expected: "[ENGINE_SUBMISSION_FAILURE] engine submission failed [ipv6]: exit status 2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeInternal, "wrapper", cause)

	if unwrapped := err.Unwrap(); unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}
}

func TestError_Is(t *testing.T) {
	err1 := &Error{Code: ErrCodeConfig, Message: "test error"}
	err2 := &Error{Code: ErrCodeConfig, Message: "another error"}
	err3 := &Error{Code: ErrCodeInternal, Message: "internal error"}

	if !err1.Is(err2) {
		t.Errorf("Expected errors with same code to match")
	}

	if err1.Is(err3) {
		t.Errorf("Expected errors with different codes to not match")
	}
}

func TestSentinels_MatchThroughWrapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
	}{
		{"undefined variable", NewUndefinedVariableError("X"), ErrUndefinedVariable},
		{"undefined zone", NewUndefinedZoneError("lan"), ErrUndefinedZone},
		{"cycle", NewSubstitutionCycleError("${A}", 3), ErrSubstitutionCycle},
		{"malformed", NewMalformedPlaceholderError("${A", nil), ErrMalformedPlaceholder},
		{"invalid chain", NewInvalidChainError("FOO"), ErrInvalidChain},
		{"engine", NewEngineSubmissionError("ipv4", nil), ErrEngineSubmission},
		{"snapshot io", NewSnapshotIOError("iptables", nil), ErrSnapshotIO},
		{"snapshot missing", NewSnapshotNotFoundError("ipsets"), ErrSnapshotNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("outer: %w", tt.err)
			if !errors.Is(wrapped, tt.sentinel) {
				t.Errorf("expected %v to match sentinel %v", wrapped, tt.sentinel)
			}
		})
	}

	if errors.Is(NewInvalidChainError("FOO"), ErrUndefinedZone) {
		t.Error("different codes must not match")
	}
}

func TestCodeOf(t *testing.T) {
	err := fmt.Errorf("compile: %w", NewUndefinedZoneError("dmz"))
	if code := CodeOf(err); code != ErrCodeUndefinedZone {
		t.Errorf("CodeOf() = %v, want %v", code, ErrCodeUndefinedZone)
	}

	if code := CodeOf(errors.New("plain")); code != "" {
		t.Errorf("CodeOf(plain) = %v, want empty", code)
	}
}

func TestRefOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"direct", NewUndefinedVariableError("WAN"), "WAN"},
		{"wrapped", fmt.Errorf("apply: %w", NewEngineSubmissionError("ipv6", errors.New("exit 1"))), "ipv6"},
		{"nested in cause", NewValidationError("invalid", NewInvalidChainError("FORWARD2")), "FORWARD2"},
		{"no ref", NewInternalError("boom", nil), ""},
		{"plain", errors.New("plain"), ""},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RefOf(tt.err); got != tt.want {
				t.Errorf("RefOf() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewConfigError(t *testing.T) {
	cause := errors.New("file not found")
	err := NewConfigError("failed to load config", cause)

	if err.Code != ErrCodeConfig {
		t.Errorf("Expected code %v, got %v", ErrCodeConfig, err.Code)
	}

	if err.Message != "failed to load config" {
		t.Errorf("Expected message 'failed to load config', got %v", err.Message)
	}

	if err.Cause != cause {
		t.Errorf("Expected cause to be preserved")
	}
}
