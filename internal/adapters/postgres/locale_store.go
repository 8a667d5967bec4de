package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/kevin07696/securesubmit-plugin/internal/domain/ports"
)

// LocaleResourceStore persists localized admin strings in locale_string_resources
type LocaleResourceStore struct {
	db *DBExecutor
}

var _ ports.LocaleResourceStore = (*LocaleResourceStore)(nil)

// NewLocaleResourceStore creates a locale resource store
func NewLocaleResourceStore(db *DBExecutor) *LocaleResourceStore {
	return &LocaleResourceStore{db: db}
}

func (s *LocaleResourceStore) AddOrUpdate(ctx context.Context, name, value string) error {
	_, err := s.db.pool.Exec(ctx, `
		INSERT INTO locale_string_resources (name, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (name) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`,
		name, value)
	if err != nil {
		return fmt.Errorf("save locale resource %s: %w", name, err)
	}
	return nil
}

func (s *LocaleResourceStore) Delete(ctx context.Context, name string) error {
	if _, err := s.db.pool.Exec(ctx, `DELETE FROM locale_string_resources WHERE name = $1`, name); err != nil {
		return fmt.Errorf("delete locale resource %s: %w", name, err)
	}
	return nil
}

func (s *LocaleResourceStore) Get(ctx context.Context, name string) (string, bool, error) {
	var value string
	err := s.db.pool.QueryRow(ctx, `SELECT value FROM locale_string_resources WHERE name = $1`, name).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get locale resource %s: %w", name, err)
	}
	return value, true, nil
}
