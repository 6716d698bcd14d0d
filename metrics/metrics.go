package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sony/gobreaker/v2"
)

// Metrics holds the order pipeline collectors.
type Metrics struct {
	submissions  *prometheus.CounterVec
	fallbacks    *prometheus.CounterVec
	unresolved   *prometheus.CounterVec
	breakerState *prometheus.GaugeVec
}

// New registers the collectors on reg. Tests pass a fresh registry.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		submissions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "order_submissions_total",
				Help: "Order submission attempts by mode, provider and outcome",
			},
			[]string{"mode", "provider", "outcome"},
		),
		fallbacks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "order_fallback_offered_total",
				Help: "Manual order drafts offered after a failed submission",
			},
			[]string{"provider"},
		),
		unresolved: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "order_unresolved_selections_total",
				Help: "Checkout requests refused because the selection has no SKU",
			},
			[]string{"product"},
		),
		breakerState: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "provider_circuit_breaker_state",
				Help: "Provider circuit breaker state (0=closed, 1=half-open, 2=open)",
			},
			[]string{"name"},
		),
	}
	reg.MustRegister(m.submissions, m.fallbacks, m.unresolved, m.breakerState)
	return m
}

func (m *Metrics) Submission(mode, provider, outcome string) {
	m.submissions.WithLabelValues(mode, provider, outcome).Inc()
}

func (m *Metrics) FallbackOffered(provider string) {
	m.fallbacks.WithLabelValues(provider).Inc()
}

func (m *Metrics) Unresolved(productID string) {
	m.unresolved.WithLabelValues(productID).Inc()
}

func (m *Metrics) BreakerState(name string, state gobreaker.State) {
	m.breakerState.WithLabelValues(name).Set(stateToFloat(state))
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
