package service

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is returned when input validation fails.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound is returned when a requested resource is not found.
	ErrNotFound = errors.New("not found")
	// ErrExternalService is returned when an external service call fails.
	ErrExternalService = errors.New("external service error")

	// ErrUpstreamUnavailable means the model server could not be reached or timed out.
	ErrUpstreamUnavailable = fmt.Errorf("%w: upstream unavailable", ErrExternalService)
	// ErrUpstreamBadStatus means the model server answered with a non-success status.
	ErrUpstreamBadStatus = fmt.Errorf("%w: upstream returned bad status", ErrExternalService)
)

// StreamErrorText is the single event sent to a streaming client when the relay fails.
const StreamErrorText = "Error communicating with LLM"

// ValidationError represents a validation error with a field name.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field %s: %s", e.Field, e.Message)
}

// Unwrap lets callers match validation failures with errors.Is(err, ErrInvalidInput).
func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// RelayError reports a failed call to the model server.
// Kind is ErrUpstreamUnavailable or ErrUpstreamBadStatus.
type RelayError struct {
	Kind error
	Err  error
}

func (e *RelayError) Error() string {
	return fmt.Sprintf("%v: %v", e.Kind, e.Err)
}

func (e *RelayError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

// WrapError wraps an error with additional context.
func WrapError(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}
