package securesubmit

import (
	"strings"
	"time"
)

const (
	// DeveloperID and VersionNumber identify this integration to Portico
	DeveloperID   = "002914"
	VersionNumber = "1513"

	// SupportedCurrency is the only currency Portico credit transactions settle in
	SupportedCurrency = "USD"

	CertificationURL = "https://cert.api2.heartlandportico.com/Hps.Exchange.PosGateway/PosGatewayService.asmx"
	ProductionURL    = "https://api2.heartlandportico.com/Hps.Exchange.PosGateway/PosGatewayService.asmx"
)

// Config contains configuration for the Portico gateway client
type Config struct {
	// Certification (sandbox) endpoint, used for secret keys containing "_cert_"
	CertificationURL string

	// Production endpoint
	ProductionURL string

	// HTTP client timeout
	Timeout time.Duration

	// Circuit breaker shared by every client the factory opens
	CircuitBreaker CircuitBreakerConfig
}

// DefaultConfig returns the public Portico endpoints
func DefaultConfig() *Config {
	return &Config{
		CertificationURL: CertificationURL,
		ProductionURL:    ProductionURL,
		Timeout:          30 * time.Second,
		CircuitBreaker:   DefaultCircuitBreakerConfig(),
	}
}

// EndpointFor selects the Portico endpoint matching the key's environment
func (c *Config) EndpointFor(secretAPIKey string) string {
	if strings.Contains(secretAPIKey, "_cert_") {
		return c.CertificationURL
	}
	return c.ProductionURL
}
