package database

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDefaultPostgreSQLConfig(t *testing.T) {
	cfg := DefaultPostgreSQLConfig("postgres://localhost/db")
	assert.Equal(t, "postgres://localhost/db", cfg.DatabaseURL)
	assert.Equal(t, int32(10), cfg.MaxConns)
	assert.Equal(t, time.Hour, cfg.MaxConnLifetime)
}

func TestNewPostgreSQLAdapter_InvalidURL(t *testing.T) {
	_, err := NewPostgreSQLAdapter(context.Background(), DefaultPostgreSQLConfig("://bad"), zap.NewNop())
	assert.Error(t, err)
}

// Requires a running database; set TEST_DATABASE_URL to run.
func TestNewPostgreSQLAdapter(t *testing.T) {
	databaseURL := os.Getenv("TEST_DATABASE_URL")
	if databaseURL == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping integration test")
	}

	adapter, err := NewPostgreSQLAdapter(context.Background(), DefaultPostgreSQLConfig(databaseURL), zap.NewNop())
	require.NoError(t, err)
	defer adapter.Close()

	assert.NoError(t, adapter.HealthCheck(context.Background()))
	assert.NotNil(t, adapter.Pool())
}
