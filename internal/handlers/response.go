// Package handlers holds the plain HTTP/JSON surface the host platform calls.
// Subpackages bind one screen or bridge each; this package carries the shared helpers.
package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/kevin07696/securesubmit-plugin/internal/domain"
)

// MaxBodyBytes caps request bodies accepted by the JSON endpoints
const MaxBodyBytes = 1 << 20

// ErrorResponse is the JSON body of every non-2xx response
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// WriteJSON writes v with the given status code
func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes an ErrorResponse with the given status code
func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, ErrorResponse{Error: message})
}

// WriteDomainError maps a domain error to a status code: validation errors are 400,
// unavailable settings 503 and everything else 500.
func WriteDomainError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case domain.IsValidationError(err):
		status = http.StatusBadRequest
	case domain.IsDomainError(err, domain.ErrorCodeSettingsUnavailable):
		status = http.StatusServiceUnavailable
	case domain.IsDomainError(err, domain.ErrorCodeNotImplemented):
		status = http.StatusNotImplemented
	}
	WriteJSON(w, status, ErrorResponse{Error: err.Error(), Code: string(domain.GetErrorCode(err))})
}

// DecodeJSON reads a size-limited JSON body into v
func DecodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// StoreScope reads the "store" query parameter. Missing means the global scope.
func StoreScope(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("store")
	if raw == "" {
		return 0, nil
	}
	scope, err := strconv.Atoi(raw)
	if err != nil || scope < 0 {
		return 0, fmt.Errorf("invalid store scope %q", raw)
	}
	return scope, nil
}
