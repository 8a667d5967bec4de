// Package secrets resolves gateway credentials stored outside the settings table.
// None of the backends cache: every read goes to the backend so key rotation
// takes effect on the next payment operation.
package secrets

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSecretNotFound is returned when the backend has no value at the path
var ErrSecretNotFound = errors.New("secret not found")

// validatePath rejects empty and traversing paths
func validatePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("secret path is required")
	}
	for _, part := range strings.Split(path, "/") {
		if part == ".." {
			return fmt.Errorf("invalid secret path %q", path)
		}
	}
	return nil
}
