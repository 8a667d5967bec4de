package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/kevin07696/securesubmit-plugin/internal/domain/models"
	"github.com/kevin07696/securesubmit-plugin/internal/domain/ports"
)

const (
	// The store scope row wins over the global (0) row for the same name
	loadSettingsSQL = `
		SELECT DISTINCT ON (name) name, value
		FROM plugin_settings
		WHERE name = ANY($1) AND store_id IN (0, $2)
		ORDER BY name, store_id DESC`

	upsertSettingSQL = `
		INSERT INTO plugin_settings (name, store_id, value, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (name, store_id) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`

	existsSettingSQL = `SELECT EXISTS (SELECT 1 FROM plugin_settings WHERE name = $1 AND store_id = $2)`

	deleteSettingSQL = `DELETE FROM plugin_settings WHERE name = $1 AND store_id = $2`
)

// SettingsStore persists plugin settings in the plugin_settings table.
// It keeps no cache: every Load reads the table.
type SettingsStore struct {
	db *DBExecutor
}

var _ ports.SettingsStore = (*SettingsStore)(nil)

// NewSettingsStore creates a settings store
func NewSettingsStore(db *DBExecutor) *SettingsStore {
	return &SettingsStore{db: db}
}

// Load resolves every plugin setting for the scope
func (s *SettingsStore) Load(ctx context.Context, scope int) (models.Settings, error) {
	rows, err := s.db.pool.Query(ctx, loadSettingsSQL, models.SettingKeys, scope)
	if err != nil {
		return models.Settings{}, fmt.Errorf("query settings: %w", err)
	}

	values := make(map[string]string, len(models.SettingKeys))
	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			rows.Close()
			return models.Settings{}, fmt.Errorf("scan setting: %w", err)
		}
		values[name] = value
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return models.Settings{}, fmt.Errorf("read settings: %w", err)
	}

	return models.SettingsFromValues(values)
}

// Save writes one setting at the given scope
func (s *SettingsStore) Save(ctx context.Context, key, value string, scope int) error {
	return saveSetting(ctx, s.db.pool, key, value, scope)
}

// SaveValues writes several settings in one transaction
func (s *SettingsStore) SaveValues(ctx context.Context, values map[string]string, scope int) error {
	return s.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		for key, value := range values {
			if err := saveSetting(ctx, tx, key, value, scope); err != nil {
				return err
			}
		}
		return nil
	})
}

func saveSetting(ctx context.Context, q ports.DBTX, key, value string, scope int) error {
	if _, err := q.Exec(ctx, upsertSettingSQL, key, scope, value); err != nil {
		return fmt.Errorf("save setting %s: %w", key, err)
	}
	return nil
}

// Exists reports whether the scope holds its own row for key
func (s *SettingsStore) Exists(ctx context.Context, key string, scope int) (bool, error) {
	var exists bool
	if err := s.db.pool.QueryRow(ctx, existsSettingSQL, key, scope).Scan(&exists); err != nil {
		return false, fmt.Errorf("check setting %s: %w", key, err)
	}
	return exists, nil
}

// Delete removes the scope's row for key
func (s *SettingsStore) Delete(ctx context.Context, key string, scope int) error {
	if _, err := s.db.pool.Exec(ctx, deleteSettingSQL, key, scope); err != nil {
		return fmt.Errorf("delete setting %s: %w", key, err)
	}
	return nil
}

// ClearCache is a no-op; the store reads through on every Load
func (s *SettingsStore) ClearCache() {}
