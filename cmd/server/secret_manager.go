package main

import (
	"context"
	"fmt"

	"github.com/kevin07696/securesubmit-plugin/internal/adapters/secrets"
	"github.com/kevin07696/securesubmit-plugin/internal/config"
	"github.com/kevin07696/securesubmit-plugin/internal/domain/ports"
	"go.uber.org/zap"
)

// initSecretManager selects the backend that resolves secret:// API key references.
//
// Backends (SECRETS_BACKEND):
//   - none: keys are stored in plain settings; secret:// references fail to resolve
//   - local: files under SECRETS_LOCAL_PATH (development only)
//   - vault: HashiCorp Vault KV engine, token or AppRole auth
//   - aws: AWS Secrets Manager
func initSecretManager(ctx context.Context, cfg *config.Config, logger *zap.Logger) (ports.SecretManager, error) {
	switch cfg.Secrets.Backend {
	case "local":
		if cfg.Server.IsProduction() {
			logger.Warn("Local secret manager in production, use vault or aws instead")
		}
		logger.Info("Local secret manager initialized", zap.String("path", cfg.Secrets.LocalPath))
		return secrets.NewLocalSecretManager(cfg.Secrets.LocalPath, logger), nil

	case "vault":
		vaultCfg := secrets.DefaultVaultConfig(cfg.Secrets.VaultAddress)
		vaultCfg.Token = cfg.Secrets.VaultToken
		vaultCfg.MountPath = cfg.Secrets.VaultMountPath
		vaultCfg.KVVersion = cfg.Secrets.VaultKVVersion
		if cfg.Secrets.VaultToken == "" {
			vaultCfg.AuthMethod = "approle"
			vaultCfg.RoleID = cfg.Secrets.VaultRoleID
			vaultCfg.SecretID = cfg.Secrets.VaultSecretID
		}

		sm, err := secrets.NewVaultAdapter(ctx, vaultCfg, logger)
		if err != nil {
			return nil, fmt.Errorf("initialize vault: %w", err)
		}
		logger.Info("Vault secret manager initialized",
			zap.String("address", cfg.Secrets.VaultAddress),
			zap.String("auth_method", vaultCfg.AuthMethod),
		)
		return sm, nil

	case "aws":
		sm, err := secrets.NewAWSSecretsManagerAdapter(ctx, &secrets.AWSSecretsManagerConfig{
			Region:   cfg.Secrets.AWSRegion,
			Profile:  cfg.Secrets.AWSProfile,
			Endpoint: cfg.Secrets.AWSEndpoint,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("initialize aws secrets manager: %w", err)
		}
		logger.Info("AWS Secrets Manager initialized", zap.String("region", cfg.Secrets.AWSRegion))
		return sm, nil

	case "none":
		logger.Info("No secret manager configured, API keys are read from settings as-is")
		return nil, nil

	default:
		return nil, fmt.Errorf("unsupported secrets backend %q", cfg.Secrets.Backend)
	}
}
