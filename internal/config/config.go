package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// minHostSecretLength is the shortest accepted HMAC secret shared with the host platform
const minHostSecretLength = 32

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Gateway   GatewayConfig
	Secrets   SecretsConfig
	RateLimit RateLimitConfig
	HostAuth  HostAuthConfig
	Logger    LoggerConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port            int
	Host            string
	MetricsPort     int
	Environment     string // development, staging, production
	ShutdownTimeout time.Duration
}

// DatabaseConfig holds PostgreSQL configuration.
// When Enabled is false settings live in memory (development only).
type DatabaseConfig struct {
	Enabled  bool
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int32
	MinConns int32
}

// GatewayConfig holds Portico endpoint configuration
type GatewayConfig struct {
	CertificationURL string
	ProductionURL    string
	Timeout          time.Duration

	CircuitMaxFailures uint32
	CircuitOpenTimeout time.Duration
}

// SecretsConfig selects the backend used to resolve secret:// API key references
type SecretsConfig struct {
	Backend string // local, vault, aws, none

	LocalPath string

	VaultAddress   string
	VaultToken     string
	VaultRoleID    string
	VaultSecretID  string
	VaultMountPath string
	VaultKVVersion string

	AWSRegion   string
	AWSProfile  string
	AWSEndpoint string
}

// RateLimitConfig holds per-client HTTP rate limits
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

// HostAuthConfig holds the credentials the host platform signs plugin requests with
type HostAuthConfig struct {
	Secret     string
	AllowedIPs []string // IPs or CIDRs; empty accepts any source address
	MaxSkew    time.Duration
}

// LoggerConfig holds logging configuration
type LoggerConfig struct {
	Level       string // debug, info, warn, error
	Development bool
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnvAsInt("SERVER_PORT", 8080),
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			MetricsPort:     getEnvAsInt("METRICS_PORT", 9090),
			Environment:     getEnv("ENVIRONMENT", "development"),
			ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 15*time.Second),
		},
		Database: DatabaseConfig{
			Enabled:  getEnvAsBool("DB_ENABLED", true),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "securesubmit"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
			MaxConns: int32(getEnvAsInt("DB_MAX_CONNS", 10)),
			MinConns: int32(getEnvAsInt("DB_MIN_CONNS", 2)),
		},
		Gateway: GatewayConfig{
			CertificationURL:   getEnv("PORTICO_CERT_URL", "https://cert.api2.heartlandportico.com/Hps.Exchange.PosGateway/PosGatewayService.asmx"),
			ProductionURL:      getEnv("PORTICO_PROD_URL", "https://api2.heartlandportico.com/Hps.Exchange.PosGateway/PosGatewayService.asmx"),
			Timeout:            getEnvAsDuration("PORTICO_TIMEOUT", 30*time.Second),
			CircuitMaxFailures: uint32(getEnvAsInt("PORTICO_CIRCUIT_MAX_FAILURES", 5)),
			CircuitOpenTimeout: getEnvAsDuration("PORTICO_CIRCUIT_OPEN_TIMEOUT", 30*time.Second),
		},
		Secrets: SecretsConfig{
			Backend:        getEnv("SECRETS_BACKEND", "none"),
			LocalPath:      getEnv("SECRETS_LOCAL_PATH", "./secrets"),
			VaultAddress:   getEnv("VAULT_ADDR", ""),
			VaultToken:     getEnv("VAULT_TOKEN", ""),
			VaultRoleID:    getEnv("VAULT_ROLE_ID", ""),
			VaultSecretID:  getEnv("VAULT_SECRET_ID", ""),
			VaultMountPath: getEnv("VAULT_MOUNT_PATH", "secret"),
			VaultKVVersion: getEnv("VAULT_KV_VERSION", "v2"),
			AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
			AWSProfile:     getEnv("AWS_PROFILE", ""),
			AWSEndpoint:    getEnv("AWS_SECRETS_ENDPOINT", ""),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: getEnvAsFloat("RATE_LIMIT_RPS", 10),
			Burst:             getEnvAsInt("RATE_LIMIT_BURST", 20),
		},
		HostAuth: HostAuthConfig{
			Secret:     getEnv("HOST_AUTH_SECRET", ""),
			AllowedIPs: getEnvAsSlice("HOST_AUTH_ALLOWED_IPS"),
			MaxSkew:    getEnvAsDuration("HOST_AUTH_MAX_SKEW", 5*time.Minute),
		},
		Logger: LoggerConfig{
			Level:       getEnv("LOG_LEVEL", "info"),
			Development: getEnvAsBool("LOG_DEVELOPMENT", false),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks required fields and backend-specific options
func (c *Config) Validate() error {
	if c.Database.Enabled && c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.Gateway.Timeout <= 0 {
		return fmt.Errorf("PORTICO_TIMEOUT must be positive")
	}

	switch c.Secrets.Backend {
	case "none", "local":
	case "vault":
		if c.Secrets.VaultAddress == "" {
			return fmt.Errorf("VAULT_ADDR is required for the vault secrets backend")
		}
		if c.Secrets.VaultToken == "" && (c.Secrets.VaultRoleID == "" || c.Secrets.VaultSecretID == "") {
			return fmt.Errorf("VAULT_TOKEN or VAULT_ROLE_ID/VAULT_SECRET_ID is required for the vault secrets backend")
		}
	case "aws":
		if c.Secrets.AWSRegion == "" {
			return fmt.Errorf("AWS_REGION is required for the aws secrets backend")
		}
	default:
		return fmt.Errorf("unsupported SECRETS_BACKEND %q", c.Secrets.Backend)
	}

	if c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.Burst <= 0 {
		return fmt.Errorf("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}

	if len(c.HostAuth.Secret) < minHostSecretLength {
		return fmt.Errorf("HOST_AUTH_SECRET must be at least %d characters", minHostSecretLength)
	}
	if c.HostAuth.MaxSkew <= 0 {
		return fmt.Errorf("HOST_AUTH_MAX_SKEW must be positive")
	}
	return nil
}

// IsProduction reports whether the service runs in production
func (c *ServerConfig) IsProduction() bool {
	return c.Environment == "production"
}

// ConnectionString returns PostgreSQL connection string
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsSlice(key string) []string {
	var values []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			values = append(values, part)
		}
	}
	return values
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
