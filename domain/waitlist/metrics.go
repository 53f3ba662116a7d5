package waitlist

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/swipefolio/landing-api/pkg/circuitbreaker"
)

const (
	outcomeCreated  = "created"
	outcomeExisting = "existing"
	outcomeInvalid  = "invalid"
	outcomeError    = "error"
)

type Metrics struct {
	signups      *prometheus.CounterVec
	circuitState prometheus.Gauge
}

// NewMetrics registers the waitlist collectors on reg, reusing any that are already there.
// A nil reg yields metrics that are counted but never exported.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	signups := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "waitlist_signups_total",
			Help: "Waitlist signup attempts by outcome.",
		},
		[]string{"outcome"},
	)
	circuitState := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "waitlist_store_circuit_state",
		Help: "Subscriber store circuit breaker state: 0 closed, 1 open, 2 half-open.",
	})

	return &Metrics{
		signups:      registerOrReuse(reg, signups),
		circuitState: registerOrReuse(reg, circuitState),
	}
}

func registerOrReuse[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	if reg == nil {
		return c
	}

	if err := reg.Register(c); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(C); ok {
				return existing
			}
		}
	}
	return c
}

func (m *Metrics) observe(outcome string) {
	if m == nil {
		return
	}
	m.signups.WithLabelValues(outcome).Inc()
}

func (m *Metrics) setCircuitState(state circuitbreaker.CircuitState) {
	if m == nil {
		return
	}
	m.circuitState.Set(float64(state))
}
