package errors

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/Ahmad-Mosha/cyborg-nutrition/internal/logger"
)

var (
	// ErrNotFound is returned when a plan, meal, meal food or food is absent
	// or not owned by the caller.
	ErrNotFound = stderrors.New("not found")
	// ErrInvalidInput is returned for requests rejected before any write begins.
	ErrInvalidInput = stderrors.New("invalid input")
	// ErrExternalLookup is returned when the food resolver fails or comes back empty.
	ErrExternalLookup = stderrors.New("external food lookup failed")
	// ErrConsistencyViolation is returned when a meal's eaten flag disagrees with its foods.
	ErrConsistencyViolation = stderrors.New("consistency violation")
)

// NotFound wraps ErrNotFound with a descriptive message.
func NotFound(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

// InvalidInput wraps ErrInvalidInput with a descriptive message.
func InvalidInput(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// ExternalLookup wraps ErrExternalLookup. cause may be nil when the lookup
// succeeded but returned nothing usable.
func ExternalLookup(cause error, format string, args ...interface{}) error {
	msg := fmt.Sprintf(format, args...)
	if cause == nil {
		return fmt.Errorf("%w: %s", ErrExternalLookup, msg)
	}
	return fmt.Errorf("%w: %s: %w", ErrExternalLookup, msg, cause)
}

// ConsistencyViolation wraps ErrConsistencyViolation with a descriptive message.
func ConsistencyViolation(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrConsistencyViolation, fmt.Sprintf(format, args...))
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// Retryable reports whether the caller may retry the failed operation unchanged.
func Retryable(err error) bool {
	return stderrors.Is(err, ErrExternalLookup)
}

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}
