package settings

import (
	"context"
	"fmt"
	"strings"

	"github.com/kevin07696/securesubmit-plugin/internal/domain"
	"github.com/kevin07696/securesubmit-plugin/internal/domain/models"
	"github.com/kevin07696/securesubmit-plugin/internal/domain/ports"
)

// SecretRefPrefix marks a stored secret API key that lives in the secret manager
const SecretRefPrefix = "secret://"

// ResolvingStore wraps a settings store and replaces secret:// references in the
// secret API key with the value held by the secret manager. The secret is fetched
// on every Load; nothing is cached.
type ResolvingStore struct {
	ports.SettingsStore
	secrets ports.SecretManager
	logger  ports.Logger
}

var _ ports.SettingsStore = (*ResolvingStore)(nil)

// NewResolvingStore creates a resolving decorator. secrets may be nil, in which case
// a stored reference fails to load.
func NewResolvingStore(store ports.SettingsStore, secrets ports.SecretManager, logger ports.Logger) *ResolvingStore {
	return &ResolvingStore{
		SettingsStore: store,
		secrets:       secrets,
		logger:        logger,
	}
}

// Load resolves the scope's settings and any secret reference they carry
func (r *ResolvingStore) Load(ctx context.Context, scope int) (models.Settings, error) {
	s, err := r.SettingsStore.Load(ctx, scope)
	if err != nil {
		return s, err
	}

	path, ok := strings.CutPrefix(s.SecretAPIKey, SecretRefPrefix)
	if !ok {
		return s, nil
	}
	if r.secrets == nil {
		return models.Settings{}, domain.NewDomainError(domain.ErrorCodeSettingsInvalid, "secret API key references a secret but no secret manager is configured")
	}

	secret, err := r.secrets.GetSecret(ctx, path)
	if err != nil {
		r.logger.Error("failed to resolve secret API key",
			ports.Int("store_scope", scope),
			ports.String("secret_path", path),
			ports.Err(err))
		return models.Settings{}, domain.WrapError(domain.ErrorCodeSettingsUnavailable, fmt.Sprintf("resolve secret %q", path), err)
	}

	s.SecretAPIKey = strings.TrimSpace(secret.Value)
	return s, nil
}

// SaveValues forwards to the wrapped store
func (r *ResolvingStore) SaveValues(ctx context.Context, values map[string]string, scope int) error {
	return ports.SaveValues(ctx, r.SettingsStore, values, scope)
}
