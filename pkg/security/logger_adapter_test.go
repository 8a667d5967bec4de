package security

import (
	"errors"
	"testing"

	"github.com/kevin07696/securesubmit-plugin/internal/domain/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLoggerAdapter_ConvertsFields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	logger := NewZapLogger(zap.New(core))

	logger.Info("charge approved", ports.String("operation", "charge"), ports.Int("store", 2))
	logger.Error("charge failed", ports.Err(errors.New("declined")))

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "charge", entries[0].ContextMap()["operation"])
	assert.Equal(t, int64(2), entries[0].ContextMap()["store"])
	assert.Equal(t, "declined", entries[1].ContextMap()["error"])
}

func TestZapLoggerAdapter_RedactsSecrets(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	logger := NewZapLogger(zap.New(core))

	logger.Warn("settings", ports.String("secret_api_key", "skapi_cert_abc"), ports.String("token", "tok_abc"))

	ctx := logs.All()[0].ContextMap()
	assert.Equal(t, "[REDACTED]", ctx["secret_api_key"])
	assert.Equal(t, "[REDACTED]", ctx["token"])
}
