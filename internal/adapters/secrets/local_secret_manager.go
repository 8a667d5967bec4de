package secrets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kevin07696/securesubmit-plugin/internal/domain/ports"
	"go.uber.org/zap"
)

// LocalSecretManager reads secrets from files under a base directory.
// Development only; use Vault or AWS Secrets Manager in production.
type LocalSecretManager struct {
	basePath string
	logger   *zap.Logger
}

var _ ports.SecretManager = (*LocalSecretManager)(nil)

// localSecretFile is the JSON layout written by PutSecret
type localSecretFile struct {
	Value     string            `json:"value"`
	Tags      map[string]string `json:"tags,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

// NewLocalSecretManager creates a new local filesystem secret manager
func NewLocalSecretManager(basePath string, logger *zap.Logger) *LocalSecretManager {
	return &LocalSecretManager{basePath: basePath, logger: logger}
}

// GetSecret reads a secret file. Plain text files are returned trimmed.
func (m *LocalSecretManager) GetSecret(ctx context.Context, path string) (*ports.Secret, error) {
	if err := validatePath(path); err != nil {
		return nil, err
	}

	m.logger.Debug("Reading secret from filesystem", zap.String("path", path))

	data, err := os.ReadFile(filepath.Join(m.basePath, path))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrSecretNotFound, path)
		}
		return nil, fmt.Errorf("failed to read secret: %w", err)
	}

	var file localSecretFile
	if err := json.Unmarshal(data, &file); err == nil && file.Value != "" {
		return &ports.Secret{
			Value:     file.Value,
			Version:   "v1",
			Metadata:  file.Tags,
			CreatedAt: file.CreatedAt.Format(time.RFC3339),
		}, nil
	}

	return &ports.Secret{
		Value:   strings.TrimSpace(string(data)),
		Version: "v1",
	}, nil
}

// PutSecret writes a secret file with 0600 permissions
func (m *LocalSecretManager) PutSecret(ctx context.Context, path, value string, tags map[string]string) (string, error) {
	if err := validatePath(path); err != nil {
		return "", err
	}

	filePath := filepath.Join(m.basePath, path)
	if err := os.MkdirAll(filepath.Dir(filePath), 0700); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	data, err := json.MarshalIndent(localSecretFile{Value: value, Tags: tags, CreatedAt: time.Now().UTC()}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal secret: %w", err)
	}

	if err := os.WriteFile(filePath, data, 0600); err != nil {
		return "", fmt.Errorf("failed to write secret: %w", err)
	}

	m.logger.Info("Stored secret on filesystem", zap.String("path", path))
	return "v1", nil
}

// DeleteSecret removes a secret file
func (m *LocalSecretManager) DeleteSecret(ctx context.Context, path string) error {
	if err := validatePath(path); err != nil {
		return err
	}

	if err := os.Remove(filepath.Join(m.basePath, path)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrSecretNotFound, path)
		}
		return fmt.Errorf("failed to delete secret: %w", err)
	}

	m.logger.Info("Deleted secret from filesystem", zap.String("path", path))
	return nil
}
