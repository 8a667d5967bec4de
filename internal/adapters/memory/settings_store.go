// Package memory provides in-process settings and locale stores for
// development and tests.
package memory

import (
	"context"
	"sync"

	"github.com/kevin07696/securesubmit-plugin/internal/domain/models"
	"github.com/kevin07696/securesubmit-plugin/internal/domain/ports"
)

// SettingsStore keeps settings per store scope in memory
type SettingsStore struct {
	mu     sync.RWMutex
	scopes map[int]map[string]string
}

var _ ports.SettingsStore = (*SettingsStore)(nil)

// NewSettingsStore creates an empty store
func NewSettingsStore() *SettingsStore {
	return &SettingsStore{scopes: make(map[int]map[string]string)}
}

// Load resolves every key for the scope, falling back to the global value
func (s *SettingsStore) Load(ctx context.Context, scope int) (models.Settings, error) {
	s.mu.RLock()
	values := make(map[string]string, len(models.SettingKeys))
	for _, key := range models.SettingKeys {
		if v, ok := s.scopes[scope][key]; ok {
			values[key] = v
		} else if v, ok := s.scopes[ports.GlobalScope][key]; ok {
			values[key] = v
		}
	}
	s.mu.RUnlock()

	return models.SettingsFromValues(values)
}

// Save writes one setting at the given scope
func (s *SettingsStore) Save(ctx context.Context, key, value string, scope int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.scopes[scope] == nil {
		s.scopes[scope] = make(map[string]string)
	}
	s.scopes[scope][key] = value
	return nil
}

// SaveValues writes several settings at once
func (s *SettingsStore) SaveValues(ctx context.Context, values map[string]string, scope int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.scopes[scope] == nil {
		s.scopes[scope] = make(map[string]string)
	}
	for k, v := range values {
		s.scopes[scope][k] = v
	}
	return nil
}

// Exists reports whether the scope holds its own value for key
func (s *SettingsStore) Exists(ctx context.Context, key string, scope int) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.scopes[scope][key]
	return ok, nil
}

// Delete removes the scope's value for key
func (s *SettingsStore) Delete(ctx context.Context, key string, scope int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.scopes[scope], key)
	return nil
}

// ClearCache is a no-op; values are always read from the map
func (s *SettingsStore) ClearCache() {}
