package apperrors

import (
	"context"
	"errors"
	"fmt"
)

// Application exit codes define the standard exit statuses for the application.
// These codes are used to signal the outcome of the program execution to the OS.
const (
	ExitSuccess        = 0   // Indicates successful execution.
	ExitErrorGeneric   = 1   // Indicates a generic error.
	ExitErrorMismatch  = 3   // Indicates a parallel result differs from the sequential reference.
	ExitErrorConfig    = 4   // Indicates a configuration error.
	ExitErrorPartition = 5   // Indicates at least one partition failed.
	ExitErrorCanceled  = 130 // Indicates the operation was canceled (e.g., SIGINT).
)

// ConfigError represents a user configuration error, such as invalid flags or
// values. It indicates that the application cannot proceed due to incorrect user input.
type ConfigError struct {
	// Message explains the specific configuration error.
	Message string
}

// Error returns the error message for a ConfigError.
//
// Returns:
//   - string: The error message string.
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

// ValidationError represents an input validation failure. It identifies which
// field failed validation and provides a human-readable explanation.
type ValidationError struct {
	// Field is the name of the field that failed validation.
	Field string
	// Message explains the validation failure.
	Message string
}

// Error returns a formatted message describing the validation failure.
//
// Returns:
//   - string: The error message string.
func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error for %q: %s", e.Field, e.Message)
}

// PartitionError records the failure of a single partition of a parallel
// loop. The partition stopped at its first failure; Cause is that failure
// (a returned error or a recovered panic).
type PartitionError struct {
	// Index is the partition index. The caller's own partition has the
	// highest index.
	Index int
	// Low and High are the inclusive bounds of the partition.
	Low, High int
	// Cause is the underlying failure.
	Cause error
}

// Error returns a formatted message naming the partition and its cause.
func (e PartitionError) Error() string {
	return fmt.Sprintf("partition %d [%d,%d]: %v", e.Index, e.Low, e.High, e.Cause)
}

// Unwrap returns the underlying cause.
func (e PartitionError) Unwrap() error { return e.Cause }

// SpawnError reports that the worker for a partition could not be started.
type SpawnError struct {
	// Index is the partition whose worker could not be started.
	Index int
	// Cause is the reason reported by the spawner.
	Cause error
}

// Error returns a formatted message describing the spawn failure.
func (e SpawnError) Error() string {
	return fmt.Sprintf("cannot start worker for partition %d: %v", e.Index, e.Cause)
}

// Unwrap returns the underlying cause.
func (e SpawnError) Unwrap() error { return e.Cause }

// MismatchError reports that a parallel computation produced a value different
// from its sequential reference.
type MismatchError struct {
	// Workload names the computation.
	Workload string
	// Detail describes the first difference found.
	Detail string
}

// Error returns a formatted message describing the mismatch.
func (e MismatchError) Error() string {
	return fmt.Sprintf("workload %q: result mismatch: %s", e.Workload, e.Detail)
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
//
// Parameters:
//   - err: The error to check.
//
// Returns:
//   - bool: true if the error is a context error.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// ExitCodeFor maps an error to the exit code the CLI reports for it.
func ExitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var (
		configErr     ConfigError
		validationErr ValidationError
		mismatchErr   MismatchError
		partitionErr  PartitionError
		spawnErr      SpawnError
	)
	switch {
	case IsContextError(err):
		return ExitErrorCanceled
	case errors.As(err, &configErr), errors.As(err, &validationErr):
		return ExitErrorConfig
	case errors.As(err, &mismatchErr):
		return ExitErrorMismatch
	case errors.As(err, &partitionErr), errors.As(err, &spawnErr):
		return ExitErrorPartition
	default:
		return ExitErrorGeneric
	}
}
