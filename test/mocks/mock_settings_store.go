package mocks

import (
	"context"

	"github.com/kevin07696/securesubmit-plugin/internal/domain/models"
	"github.com/kevin07696/securesubmit-plugin/internal/domain/ports"
	"github.com/stretchr/testify/mock"
)

// MockSettingsStore mocks ports.SettingsStore
type MockSettingsStore struct {
	mock.Mock
}

var _ ports.SettingsStore = (*MockSettingsStore)(nil)

func (m *MockSettingsStore) Load(ctx context.Context, scope int) (models.Settings, error) {
	args := m.Called(ctx, scope)
	return args.Get(0).(models.Settings), args.Error(1)
}

func (m *MockSettingsStore) Save(ctx context.Context, key, value string, scope int) error {
	args := m.Called(ctx, key, value, scope)
	return args.Error(0)
}

func (m *MockSettingsStore) Exists(ctx context.Context, key string, scope int) (bool, error) {
	args := m.Called(ctx, key, scope)
	return args.Bool(0), args.Error(1)
}

func (m *MockSettingsStore) Delete(ctx context.Context, key string, scope int) error {
	args := m.Called(ctx, key, scope)
	return args.Error(0)
}

func (m *MockSettingsStore) ClearCache() {
	m.Called()
}

// MockLocaleResourceStore mocks ports.LocaleResourceStore
type MockLocaleResourceStore struct {
	mock.Mock
}

var _ ports.LocaleResourceStore = (*MockLocaleResourceStore)(nil)

func (m *MockLocaleResourceStore) AddOrUpdate(ctx context.Context, name, value string) error {
	args := m.Called(ctx, name, value)
	return args.Error(0)
}

func (m *MockLocaleResourceStore) Delete(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

func (m *MockLocaleResourceStore) Get(ctx context.Context, name string) (string, bool, error) {
	args := m.Called(ctx, name)
	return args.String(0), args.Bool(1), args.Error(2)
}
