package shutdown

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestManager_ShutdownReverseOrder(t *testing.T) {
	m := NewManager(zap.NewNop(), time.Second)

	var order []string
	m.RegisterNoErr("database", func() { order = append(order, "database") })
	m.RegisterNoErr("http", func() { order = append(order, "http") })
	m.Register("metrics", func(context.Context) error {
		order = append(order, "metrics")
		return nil
	})

	assert.NoError(t, m.Shutdown())
	assert.Equal(t, []string{"metrics", "http", "database"}, order)
}

func TestManager_ShutdownCollectsErrors(t *testing.T) {
	m := NewManager(zap.NewNop(), time.Second)
	boom := errors.New("boom")

	ran := false
	m.RegisterNoErr("first", func() { ran = true })
	m.Register("second", func(context.Context) error { return boom })

	err := m.Shutdown()
	assert.ErrorIs(t, err, boom)
	assert.True(t, ran, "later failures must not stop earlier components")
}
