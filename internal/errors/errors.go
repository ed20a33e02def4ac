package apperrors

import (
	"context"
	"errors"
	"fmt"
)

// Application exit codes define the standard exit statuses for the
// primesieve binary. These codes signal the outcome of the program
// execution to the OS.
const (
	ExitSuccess      = 0   // Indicates successful execution.
	ExitErrorGeneric = 1   // Indicates a generic error.
	ExitErrorSieve   = 2   // Indicates the sieve failed while running.
	ExitErrorConfig  = 4   // Indicates a configuration error.
	ExitErrorCancel  = 130 // Indicates the operation was canceled (e.g., SIGINT).
)

// ConfigError represents a user configuration error, such as invalid
// flags or values. It indicates that the application cannot proceed due
// to incorrect user input. Out-of-range thread counts are NOT
// configuration errors: the planner silently clamps them.
type ConfigError struct {
	// Message explains the specific configuration error.
	Message string
}

// Error returns the error message for a ConfigError.
func (e ConfigError) Error() string { return e.Message }

// NewConfigError creates a new ConfigError with a formatted message.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// SieveError encapsulates a failure inside a sieve run while preserving
// the original cause. Sieving a chunk is deterministic, so a SieveError
// is always fatal for the run: it propagates out of the top-level call
// rather than being retried.
type SieveError struct {
	// Cause is the underlying error that ended the run.
	Cause error
}

// Error returns the error message including the underlying cause.
func (e SieveError) Error() string { return "sieve: " + e.Cause.Error() }

// Unwrap returns the original wrapped error, allowing for error chain
// inspection (e.g., using errors.Is or errors.As).
func (e SieveError) Unwrap() error { return e.Cause }

// ValidationError represents an input validation failure. It identifies
// which field failed validation and provides a human-readable explanation.
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

// WrapError wraps an error with additional context using fmt.Errorf and
// %w so the result supports errors.Is and errors.As.
func WrapError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// IsContextError checks if the error is a context cancellation or
// deadline exceeded error.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// ExitCode maps an error to the corresponding process exit code.
func ExitCode(err error) int {
	var configErr ConfigError
	var sieveErr SieveError
	switch {
	case err == nil:
		return ExitSuccess
	case IsContextError(err):
		return ExitErrorCancel
	case errors.As(err, &configErr):
		return ExitErrorConfig
	case errors.As(err, &sieveErr):
		return ExitErrorSieve
	default:
		return ExitErrorGeneric
	}
}
