package errors

import (
	"errors"
	"fmt"
)

// ErrorCategory represents the category of a gateway failure
type ErrorCategory string

const (
	CategoryDeclined       ErrorCategory = "declined"
	CategoryInvalidRequest ErrorCategory = "invalid_request"
	CategoryNetworkError   ErrorCategory = "network_error"
	CategorySystemError    ErrorCategory = "system_error"
)

// GatewayError is raised by the gateway client for any failed call.
// Message is the human-readable text surfaced to the host order workflow.
type GatewayError struct {
	Code           string
	Message        string
	GatewayMessage string
	IsRetriable    bool
	Category       ErrorCategory
	Err            error
}

func (e *GatewayError) Error() string {
	if e.GatewayMessage != "" && e.GatewayMessage != e.Message {
		return fmt.Sprintf("%s (gateway: %s)", e.Message, e.GatewayMessage)
	}
	return e.Message
}

// Unwrap returns the transport error, if any
func (e *GatewayError) Unwrap() error {
	return e.Err
}

// NewDeclinedError creates an error for an issuer or gateway decline
func NewDeclinedError(code, message string) *GatewayError {
	return &GatewayError{
		Code:           code,
		Message:        message,
		GatewayMessage: message,
		Category:       CategoryDeclined,
	}
}

// NewGatewayRejectedError creates an error for a request the gateway refused to process
func NewGatewayRejectedError(code, message string) *GatewayError {
	return &GatewayError{
		Code:           code,
		Message:        message,
		GatewayMessage: message,
		Category:       CategoryInvalidRequest,
	}
}

// NewNetworkError creates an error for transport failures (timeouts, connectivity)
func NewNetworkError(message string, err error) *GatewayError {
	return &GatewayError{
		Code:        "NETWORK",
		Message:     message,
		IsRetriable: true,
		Category:    CategoryNetworkError,
		Err:         err,
	}
}

// NewSystemError creates an error for malformed or unexpected gateway responses
func NewSystemError(message string, err error) *GatewayError {
	return &GatewayError{
		Code:     "SYSTEM",
		Message:  message,
		Category: CategorySystemError,
		Err:      err,
	}
}

// AsGatewayError extracts a GatewayError from err's chain
func AsGatewayError(err error) (*GatewayError, bool) {
	var gwErr *GatewayError
	if errors.As(err, &gwErr) {
		return gwErr, true
	}
	return nil, false
}

// ValidationError represents input validation errors
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}
