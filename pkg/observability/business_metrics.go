package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Payment operation metrics
	operationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "securesubmit_operations_total",
		Help: "Total number of payment operations by outcome",
	}, []string{
		"operation", // authorize, charge, capture, refund, void
		"status",    // authorized, captured, refunded, partially_refunded, voided, failed
	})

	operationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name: "securesubmit_operation_duration_seconds",
		Help: "Time to complete a payment operation including the gateway round trip",
		// Buckets: 50ms to 30s (Portico client timeout)
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	}, []string{
		"operation",
	})

	settingsLoadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "securesubmit_settings_loads_total",
		Help: "Settings loads performed before payment operations",
	}, []string{
		"result", // ok, error
	})

	gatewayCircuitState = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "securesubmit_gateway_circuit_state",
		Help: "Portico circuit breaker state (0=closed, 1=open, 2=half-open)",
	})
)

// RecordOperation records the outcome and latency of a payment operation
func RecordOperation(operation, status string, elapsed time.Duration) {
	operationsTotal.WithLabelValues(operation, status).Inc()
	operationDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// RecordSettingsLoad records a settings load result
func RecordSettingsLoad(err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	settingsLoadsTotal.WithLabelValues(result).Inc()
}

// SetGatewayCircuitState publishes the numeric breaker state
func SetGatewayCircuitState(state int) {
	gatewayCircuitState.Set(float64(state))
}
