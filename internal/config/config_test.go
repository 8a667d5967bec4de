package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testHostSecret = "0123456789abcdef0123456789abcdef"

func TestLoadFromEnv_Defaults(t *testing.T) {
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("HOST_AUTH_SECRET", testHostSecret)

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 9090, cfg.Server.MetricsPort)
	assert.Equal(t, "none", cfg.Secrets.Backend)
	assert.Equal(t, 30*time.Second, cfg.Gateway.Timeout)
	assert.Contains(t, cfg.Gateway.CertificationURL, "cert.api2.heartlandportico.com")
	assert.False(t, cfg.Server.IsProduction())
	assert.Equal(t, 5*time.Minute, cfg.HostAuth.MaxSkew)
	assert.Empty(t, cfg.HostAuth.AllowedIPs)
}

func TestLoadFromEnv_RequiresDBPassword(t *testing.T) {
	t.Setenv("HOST_AUTH_SECRET", testHostSecret)
	t.Setenv("DB_PASSWORD", "")
	_, err := LoadFromEnv()
	assert.Error(t, err)

	t.Setenv("DB_ENABLED", "false")
	_, err = LoadFromEnv()
	assert.NoError(t, err, "in-memory settings need no database password")
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("HOST_AUTH_SECRET", testHostSecret)
	t.Setenv("HOST_AUTH_ALLOWED_IPS", " 10.0.0.5, 192.168.0.0/16,,")
	t.Setenv("SERVER_PORT", "7000")
	t.Setenv("PORTICO_TIMEOUT", "5s")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("DB_PORT", "not-a-number")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, 7000, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Gateway.Timeout)
	assert.Equal(t, 2.5, cfg.RateLimit.RequestsPerSecond)
	assert.Equal(t, 5432, cfg.Database.Port, "invalid ints fall back to the default")
	assert.True(t, cfg.Server.IsProduction())
	assert.Equal(t, []string{"10.0.0.5", "192.168.0.0/16"}, cfg.HostAuth.AllowedIPs)
}

func TestLoadFromEnv_RequiresHostSecret(t *testing.T) {
	t.Setenv("DB_PASSWORD", "secret")

	t.Setenv("HOST_AUTH_SECRET", "")
	_, err := LoadFromEnv()
	assert.Error(t, err, "plugin endpoints must never run unauthenticated")

	t.Setenv("HOST_AUTH_SECRET", "too-short")
	_, err = LoadFromEnv()
	assert.Error(t, err)

	t.Setenv("HOST_AUTH_SECRET", testHostSecret)
	_, err = LoadFromEnv()
	assert.NoError(t, err)
}

func TestValidate_SecretsBackend(t *testing.T) {
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("HOST_AUTH_SECRET", testHostSecret)

	t.Setenv("SECRETS_BACKEND", "vault")
	_, err := LoadFromEnv()
	assert.Error(t, err, "vault needs an address")

	t.Setenv("VAULT_ADDR", "https://vault:8200")
	t.Setenv("VAULT_TOKEN", "tkn")
	_, err = LoadFromEnv()
	assert.NoError(t, err)

	t.Setenv("SECRETS_BACKEND", "gcp")
	_, err = LoadFromEnv()
	assert.Error(t, err)
}

func TestDatabaseConfig_ConnectionString(t *testing.T) {
	c := DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", Database: "securesubmit", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=securesubmit sslmode=disable", c.ConnectionString())
}
