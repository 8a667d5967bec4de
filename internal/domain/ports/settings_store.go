package ports

import (
	"context"

	"github.com/kevin07696/securesubmit-plugin/internal/domain/models"
)

// GlobalScope is the store scope holding settings shared by every storefront
const GlobalScope = 0

// SettingsStore persists plugin settings per store scope.
// A positive scope overrides the global value key by key and falls back to it when absent.
type SettingsStore interface {
	// Load resolves every plugin setting for the scope
	Load(ctx context.Context, scope int) (models.Settings, error)

	// Save writes one setting at the given scope
	Save(ctx context.Context, key, value string, scope int) error

	// Exists reports whether the scope itself holds a value for the key (no fallback)
	Exists(ctx context.Context, key string, scope int) (bool, error)

	// Delete removes the scope's value for the key
	Delete(ctx context.Context, key string, scope int) error

	// ClearCache drops any cached values held by the store
	ClearCache()
}

// LocaleResourceStore manages the plugin's localized admin strings
type LocaleResourceStore interface {
	AddOrUpdate(ctx context.Context, name, value string) error
	Delete(ctx context.Context, name string) error
	Get(ctx context.Context, name string) (string, bool, error)
}

// ValuesSaver is implemented by stores that can write several settings atomically
type ValuesSaver interface {
	SaveValues(ctx context.Context, values map[string]string, scope int) error
}

// SaveValues writes every value at the scope, atomically when the store supports it
func SaveValues(ctx context.Context, store SettingsStore, values map[string]string, scope int) error {
	if saver, ok := store.(ValuesSaver); ok {
		return saver.SaveValues(ctx, values, scope)
	}
	for key, value := range values {
		if err := store.Save(ctx, key, value, scope); err != nil {
			return err
		}
	}
	return nil
}
