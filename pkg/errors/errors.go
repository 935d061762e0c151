package errors

import (
	"errors"
	"fmt"
)

// Error kinds surfaced by the lead relay. Anything that wraps none of these
// is treated as unexpected and reported with its own message.

var (
	// ErrInvalidInput indicates the inbound request failed validation
	ErrInvalidInput = errors.New("invalid input")

	// ErrConfiguration indicates a required setting is missing
	ErrConfiguration = errors.New("configuration error")

	// ErrUpstream indicates the automation webhook answered with a non-200 status
	ErrUpstream = errors.New("upstream error")
)

// UpstreamError carries the raw webhook response for diagnostics
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("webhook returned status %d", e.StatusCode)
}

// Unwrap lets errors.Is match ErrUpstream
func (e *UpstreamError) Unwrap() error {
	return ErrUpstream
}

// ConfigurationError creates a configuration error naming the missing setting
func ConfigurationError(setting string) error {
	return fmt.Errorf("%s not configured: %w", setting, ErrConfiguration)
}

// InvalidInputError creates an invalid input error with context
func InvalidInputError(field, reason string) error {
	return fmt.Errorf("%s: %s: %w", field, reason, ErrInvalidInput)
}

// NewUpstreamError records a failed webhook call
func NewUpstreamError(statusCode int, body string) error {
	return &UpstreamError{StatusCode: statusCode, Body: body}
}

// Is checks if an error matches a target error (works with wrapped errors)
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target any) bool {
	return errors.As(err, target)
}
