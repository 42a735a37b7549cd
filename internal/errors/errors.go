package apperrors

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Application exit codes define the standard exit statuses for the application.
// These codes are used to signal the outcome of the program execution to the OS.
const (
	ExitSuccess          = 0   // Indicates successful execution.
	ExitErrorGeneric     = 1   // Indicates a generic error.
	ExitErrorTimeout     = 2   // Indicates the operation timed out.
	ExitErrorCompression = 3   // Indicates the service reported a failed compression.
	ExitErrorConfig      = 4   // Indicates a configuration error.
	ExitErrorValidation  = 5   // Indicates the selected file was rejected before submission.
	ExitErrorCanceled    = 130 // Indicates the operation was canceled (e.g., SIGINT).
)

// ConfigError represents a user configuration error, such as invalid flags or
// values. It indicates that the application cannot proceed due to incorrect user input.
type ConfigError struct {
	// Message explains the specific configuration error.
	Message string
}

// Error returns the error message for a ConfigError.
func (e ConfigError) Error() string { return e.Message }

// NewConfigError creates a new ConfigError with a formatted message.
//
// Parameters:
//   - format: A format string (see fmt.Sprintf).
//   - a: Arguments to be formatted into the string.
//
// Returns:
//   - error: A new ConfigError instance containing the formatted message.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// TransportError reports a failed exchange with the compression service:
// the request never completed, the service answered with a non-success
// status, or the response body could not be decoded. Callers that present
// results to users collapse every TransportError into one generic message;
// the cause is kept for logs.
type TransportError struct {
	// Op names the service operation, e.g. "compress" or "formats".
	Op string
	// Cause is the underlying error.
	Cause error
}

// Error returns a message naming the operation and its cause.
func (e TransportError) Error() string {
	return fmt.Sprintf("%s request failed: %v", e.Op, e.Cause)
}

// Unwrap returns the original cause, allowing for error chain inspection
// (e.g., using errors.Is or errors.As).
func (e TransportError) Unwrap() error { return e.Cause }

// NewTransportError wraps cause as a TransportError for operation op.
// A formatted cause is built when cause is nil.
//
// Parameters:
//   - op: The service operation name.
//   - cause: The underlying error, may be nil.
//   - format: A format string used when cause is nil.
//   - a: Arguments to be formatted into the string.
//
// Returns:
//   - error: A new TransportError.
func NewTransportError(op string, cause error, format string, a ...any) error {
	if cause == nil {
		cause = fmt.Errorf(format, a...)
	}
	return TransportError{Op: op, Cause: cause}
}

// TimeoutError represents an operation that exceeded its configured limit.
// It captures the operation name and the duration limit that was exceeded.
type TimeoutError struct {
	// Operation is the name of the operation that timed out.
	Operation string
	// Limit is the duration after which the operation was considered timed out.
	Limit time.Duration
}

// Error returns a formatted message describing the timeout.
func (e TimeoutError) Error() string {
	return fmt.Sprintf("operation %q timed out after %s", e.Operation, e.Limit)
}

// ValidationError represents an input validation failure. It identifies which
// field failed validation and provides a human-readable explanation.
// Front ends show Message inline next to the offending input.
type ValidationError struct {
	// Field is the name of the field that failed validation.
	Field string
	// Message explains the validation failure.
	Message string
}

// Error returns a formatted message describing the validation failure.
func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error for %q: %s", e.Field, e.Message)
}

// WrapError wraps an error with additional context using fmt.Errorf and %w.
// This allows the wrapped error to be unwrapped with errors.Unwrap() and
// checked with errors.Is() and errors.As().
//
// Parameters:
//   - err: The error to wrap.
//   - format: A format string for the context message.
//   - args: Arguments for the format string.
//
// Returns:
//   - error: The wrapped error, or nil if err is nil.
func WrapError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// IsContextError checks if the error is a context cancellation or deadline exceeded error.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// ExitCodeFor maps an error returned by a front end to the process exit code.
//
// Parameters:
//   - err: The error to classify, may be nil.
//
// Returns:
//   - int: One of the Exit* constants.
func ExitCodeFor(err error) int {
	var (
		configErr     ConfigError
		validationErr ValidationError
		timeoutErr    TimeoutError
	)
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, context.Canceled):
		return ExitErrorCanceled
	case errors.As(err, &timeoutErr), errors.Is(err, context.DeadlineExceeded):
		return ExitErrorTimeout
	case errors.As(err, &configErr):
		return ExitErrorConfig
	case errors.As(err, &validationErr):
		return ExitErrorValidation
	default:
		return ExitErrorGeneric
	}
}
