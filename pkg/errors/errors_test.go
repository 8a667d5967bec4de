package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGatewayError_Error(t *testing.T) {
	declined := NewDeclinedError("05", "The card was declined.")
	assert.Equal(t, "The card was declined.", declined.Error())
	assert.Equal(t, CategoryDeclined, declined.Category)
	assert.False(t, declined.IsRetriable)

	rejected := &GatewayError{Code: "-2", Message: "authentication error", GatewayMessage: "Authentication Error"}
	assert.Equal(t, "authentication error (gateway: Authentication Error)", rejected.Error())
}

func TestNewNetworkError_Unwrap(t *testing.T) {
	cause := errors.New("dial tcp: i/o timeout")
	err := NewNetworkError("gateway unreachable", cause)

	assert.True(t, errors.Is(err, cause))
	assert.True(t, err.IsRetriable)
	assert.Equal(t, CategoryNetworkError, err.Category)
}

func TestAsGatewayError(t *testing.T) {
	wrapped := fmt.Errorf("capture: %w", NewSystemError("bad response", nil))

	gwErr, ok := AsGatewayError(wrapped)
	assert.True(t, ok)
	assert.Equal(t, CategorySystemError, gwErr.Category)

	_, ok = AsGatewayError(errors.New("plain"))
	assert.False(t, ok)
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("token_value", "is required")
	assert.Equal(t, "validation error on field 'token_value': is required", err.Error())
}
