package secrets

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newVaultTestAdapter(t *testing.T, handler http.HandlerFunc) *VaultAdapter {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := DefaultVaultConfig(srv.URL)
	cfg.Token = "test-token"
	adapter, err := NewVaultAdapter(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	return adapter
}

func TestVaultAdapter_GetSecret_KVv2(t *testing.T) {
	adapter := newVaultTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/secret/data/securesubmit/store-2", r.URL.Path)
		assert.Equal(t, "test-token", r.Header.Get("X-Vault-Token"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"data":{"data":{"value":"skapi_cert_vault","owner":"ops"},"metadata":{"version":3,"created_time":"2026-01-02T03:04:05Z"}}}`)
	})

	secret, err := adapter.GetSecret(context.Background(), "securesubmit/store-2")
	require.NoError(t, err)
	assert.Equal(t, "skapi_cert_vault", secret.Value)
	assert.Equal(t, "3", secret.Version)
	assert.Equal(t, "ops", secret.Metadata["owner"])
	assert.Equal(t, "2026-01-02T03:04:05Z", secret.CreatedAt)
}

func TestVaultAdapter_GetSecret_NotFound(t *testing.T) {
	adapter := newVaultTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"errors":[]}`)
	})

	_, err := adapter.GetSecret(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrSecretNotFound)
}

func TestVaultAdapter_PutSecret_KVv2(t *testing.T) {
	var body map[string]interface{}
	adapter := newVaultTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/secret/data/securesubmit/store-2", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"data":{"version":4}}`)
	})

	version, err := adapter.PutSecret(context.Background(), "securesubmit/store-2", "skapi_new", nil)
	require.NoError(t, err)
	assert.Equal(t, "4", version)

	data, ok := body["data"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "skapi_new", data["value"])
}

func TestNewVaultAdapter_RequiresToken(t *testing.T) {
	cfg := DefaultVaultConfig("http://127.0.0.1:1")
	_, err := NewVaultAdapter(context.Background(), cfg, zap.NewNop())
	assert.Error(t, err)

	cfg.AuthMethod = "kerberos"
	_, err = NewVaultAdapter(context.Background(), cfg, zap.NewNop())
	assert.Error(t, err)
}
