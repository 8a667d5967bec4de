package configuration_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/kevin07696/securesubmit-plugin/internal/adapters/memory"
	"github.com/kevin07696/securesubmit-plugin/internal/domain/models"
	"github.com/kevin07696/securesubmit-plugin/internal/domain/ports"
	"github.com/kevin07696/securesubmit-plugin/internal/handlers/configuration"
	"github.com/kevin07696/securesubmit-plugin/internal/services/settings"
	"github.com/kevin07696/securesubmit-plugin/pkg/middleware"
	"github.com/kevin07696/securesubmit-plugin/test/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupHandler(t *testing.T) (*configuration.Handler, *memory.SettingsStore) {
	t.Helper()
	store := memory.NewSettingsStore()
	require.NoError(t, store.SaveValues(context.Background(), models.DefaultSettings().Values(), ports.GlobalScope))
	svc := settings.NewService(store, mocks.NewMockLogger())
	return configuration.NewHandler(svc, zap.NewNop()), store
}

func TestHandler_Get(t *testing.T) {
	h, _ := setupHandler(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, configuration.Route+"?store=0", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var model settings.ConfigurationModel
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &model))
	assert.Equal(t, 1, model.TransactModeID)
	assert.Equal(t, "123", model.PublicAPIKey)
	assert.Len(t, model.TransactModeValues, 2)
}

func TestHandler_PostStoreOverride(t *testing.T) {
	h, store := setupHandler(t)
	body := `{"transact_mode_id":2,"transact_mode_id_override_for_store":true,"public_api_key":"pk","secret_api_key":"sk","additional_fee":"0"}`

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, configuration.Route+"?store=5", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var model settings.ConfigurationModel
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &model))
	assert.Equal(t, 5, model.ActiveStoreScope)
	assert.Equal(t, 2, model.TransactModeID)
	assert.True(t, model.TransactModeIDOverrideForStore)
	assert.False(t, model.PublicAPIKeyOverrideForStore)
	assert.Equal(t, "123", model.PublicAPIKey, "non-overridden fields keep the global value")

	loaded, err := store.Load(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, models.TransactModeCharge, loaded.TransactMode)
}

func TestHandler_Errors(t *testing.T) {
	h, _ := setupHandler(t)

	tests := []struct {
		name   string
		method string
		target string
		body   string
		want   int
	}{
		{name: "bad_scope", method: http.MethodGet, target: configuration.Route + "?store=x", want: http.StatusBadRequest},
		{name: "bad_json", method: http.MethodPost, target: configuration.Route, body: "{", want: http.StatusBadRequest},
		{name: "invalid_mode", method: http.MethodPost, target: configuration.Route, body: `{"transact_mode_id":9}`, want: http.StatusBadRequest},
		{name: "method", method: http.MethodDelete, target: configuration.Route, want: http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.target, strings.NewReader(tt.body)))
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

const hostSecret = "0123456789abcdef0123456789abcdef"

func signed(req *http.Request, body string) *http.Request {
	ts := time.Now().Unix()
	req.Header.Set(middleware.TimestampHeader, strconv.FormatInt(ts, 10))
	req.Header.Set(middleware.SignatureHeader, middleware.Sign(hostSecret, ts, req.Method, req.URL.RequestURI(), []byte(body)))
	return req
}

func TestHandler_RequiresHostAuthentication(t *testing.T) {
	h, store := setupHandler(t)
	auth, err := middleware.NewHostAuth(middleware.HostAuthConfig{Secret: hostSecret, MaxSkew: time.Minute}, zap.NewNop())
	require.NoError(t, err)
	protected := auth.Middleware(h)

	rec := httptest.NewRecorder()
	protected.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, configuration.Route+"?store=0", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.NotContains(t, rec.Body.String(), "456", "secret key must not leak to unauthenticated callers")

	body := `{"transact_mode_id":1,"public_api_key":"pk","secret_api_key":"attacker_key","additional_fee":"0"}`
	rec = httptest.NewRecorder()
	protected.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, configuration.Route+"?store=0", strings.NewReader(body)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	loaded, err := store.Load(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, "456", loaded.SecretAPIKey, "unauthenticated save must not reach the store")

	rec = httptest.NewRecorder()
	protected.ServeHTTP(rec, signed(httptest.NewRequest(http.MethodGet, configuration.Route+"?store=0", nil), ""))
	require.Equal(t, http.StatusOK, rec.Code)
	var model settings.ConfigurationModel
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &model))
	assert.Equal(t, "123", model.PublicAPIKey)

	body = `{"transact_mode_id":2,"public_api_key":"pk","secret_api_key":"sk_new","additional_fee":"0"}`
	rec = httptest.NewRecorder()
	protected.ServeHTTP(rec, signed(httptest.NewRequest(http.MethodPost, configuration.Route+"?store=0", strings.NewReader(body)), body))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	loaded, err = store.Load(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, "sk_new", loaded.SecretAPIKey)
}
