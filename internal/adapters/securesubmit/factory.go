package securesubmit

import (
	"net/http"
	"strings"

	"github.com/kevin07696/securesubmit-plugin/internal/domain"
	"github.com/kevin07696/securesubmit-plugin/internal/domain/models"
	"github.com/kevin07696/securesubmit-plugin/internal/domain/ports"
	"github.com/kevin07696/securesubmit-plugin/pkg/observability"
	"go.uber.org/zap"
)

// Factory opens a Client per operation from the credentials resolved for that operation.
// The HTTP transport and the circuit breaker are shared across clients.
type Factory struct {
	config         *Config
	httpClient     *http.Client
	circuitBreaker *CircuitBreaker
	logger         *zap.Logger
}

var _ ports.CreditGatewayFactory = (*Factory)(nil)

// NewFactory creates a client factory
func NewFactory(config *Config, logger *zap.Logger) *Factory {
	breaker := NewCircuitBreaker(config.CircuitBreaker)
	breaker.OnStateChange(func(state BreakerState) {
		observability.SetGatewayCircuitState(int(state))
		logger.Warn("Portico circuit breaker changed state", zap.Stringer("state", state))
	})

	return &Factory{
		config:         config,
		httpClient:     &http.Client{Timeout: config.Timeout},
		circuitBreaker: breaker,
		logger:         logger,
	}
}

// NewCreditGateway opens a client for the given settings snapshot
func (f *Factory) NewCreditGateway(settings models.Settings) (ports.CreditGateway, error) {
	key := strings.TrimSpace(settings.SecretAPIKey)
	if key == "" {
		return nil, domain.NewDomainError(domain.ErrorCodeSettingsInvalid, "secret API key is not configured")
	}
	return NewClient(f.config, key, f.httpClient, f.circuitBreaker, f.logger), nil
}

// CircuitState reports the shared breaker state for health checks
func (f *Factory) CircuitState() BreakerState {
	return f.circuitBreaker.State()
}
