package securesubmit

import (
	"errors"
	"sync"
	"time"

	pkgerrors "github.com/kevin07696/securesubmit-plugin/pkg/errors"
)

// BreakerState is the state of the gateway circuit breaker
type BreakerState int

const (
	BreakerClosed BreakerState = iota
	BreakerOpen
	BreakerHalfOpen
)

func (s BreakerState) String() string {
	switch s {
	case BreakerClosed:
		return "closed"
	case BreakerOpen:
		return "open"
	case BreakerHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

var (
	// ErrCircuitOpen is returned without contacting Portico while the breaker is open
	ErrCircuitOpen = errors.New("payment gateway temporarily unavailable (circuit open)")
	// ErrProbeInFlight is returned while the half-open probe request is outstanding
	ErrProbeInFlight = errors.New("payment gateway temporarily unavailable (recovery probe in flight)")
)

// CircuitBreakerConfig configures when the breaker trips and recovers
type CircuitBreakerConfig struct {
	// Consecutive infrastructure failures before opening
	MaxFailures uint32
	// Time spent open before a probe is allowed
	OpenTimeout time.Duration
	// Concurrent probes allowed while half-open
	MaxProbes uint32
}

// DefaultCircuitBreakerConfig returns the defaults used in production
func DefaultCircuitBreakerConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		MaxFailures: 5,
		OpenTimeout: 30 * time.Second,
		MaxProbes:   1,
	}
}

// CircuitBreaker fails fast when Portico is unreachable. It never retries:
// a rejected call surfaces as an ordinary error to the caller.
// Declines and gateway rejections are answers, not outages, and do not count as failures.
type CircuitBreaker struct {
	mu       sync.Mutex
	cfg      CircuitBreakerConfig
	state    BreakerState
	failures uint32
	probes   uint32
	openedAt time.Time
	now      func() time.Time
	onChange func(BreakerState)
}

// NewCircuitBreaker creates a closed breaker
func NewCircuitBreaker(cfg CircuitBreakerConfig) *CircuitBreaker {
	if cfg.MaxFailures == 0 {
		cfg.MaxFailures = 1
	}
	if cfg.MaxProbes == 0 {
		cfg.MaxProbes = 1
	}
	return &CircuitBreaker{cfg: cfg, state: BreakerClosed, now: time.Now}
}

// OnStateChange registers a callback invoked, under the breaker lock, on every transition
func (cb *CircuitBreaker) OnStateChange(fn func(BreakerState)) {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.onChange = fn
}

func (cb *CircuitBreaker) setState(state BreakerState) {
	if cb.state == state {
		return
	}
	cb.state = state
	if cb.onChange != nil {
		cb.onChange(state)
	}
}

// Execute runs fn if the breaker allows it and records the outcome
func (cb *CircuitBreaker) Execute(fn func() error) error {
	if err := cb.admit(); err != nil {
		return err
	}
	err := fn()
	cb.record(countsAsOutage(err))
	return err
}

func (cb *CircuitBreaker) admit() error {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case BreakerOpen:
		if cb.now().Sub(cb.openedAt) < cb.cfg.OpenTimeout {
			return ErrCircuitOpen
		}
		cb.setState(BreakerHalfOpen)
		cb.probes = 1
		return nil
	case BreakerHalfOpen:
		if cb.probes >= cb.cfg.MaxProbes {
			return ErrProbeInFlight
		}
		cb.probes++
		return nil
	default:
		return nil
	}
}

func (cb *CircuitBreaker) record(outage bool) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if !outage {
		cb.setState(BreakerClosed)
		cb.failures = 0
		cb.probes = 0
		return
	}

	cb.failures++
	if cb.state == BreakerHalfOpen || cb.failures >= cb.cfg.MaxFailures {
		cb.setState(BreakerOpen)
		cb.openedAt = cb.now()
		cb.probes = 0
	}
}

// countsAsOutage reports whether err indicates Portico itself is unhealthy
func countsAsOutage(err error) bool {
	if err == nil {
		return false
	}
	if gwErr, ok := pkgerrors.AsGatewayError(err); ok {
		return gwErr.Category == pkgerrors.CategoryNetworkError || gwErr.Category == pkgerrors.CategorySystemError
	}
	return true
}

// State returns the current breaker state
func (cb *CircuitBreaker) State() BreakerState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// Failures returns the consecutive failure count
func (cb *CircuitBreaker) Failures() uint32 {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.failures
}
