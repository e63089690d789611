// Package metrics exposes prometheus instruments for contract lifecycle and
// revenue calculations.
package metrics

import (
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	TransitionResultApplied  = "applied"
	TransitionResultRejected = "rejected"
	TransitionResultFailed   = "failed"
)

type Metrics struct {
	registry            *prometheus.Registry
	statusTransitions   *prometheus.CounterVec
	revenueCalculations *prometheus.CounterVec
	revenueDuration     prometheus.Histogram
}

// New builds the instruments on their own registry together with the Go
// runtime and process collectors.
func New(environment string) *Metrics {
	environment = strings.TrimSpace(environment)
	if environment == "" {
		environment = "unknown"
	}
	constLabels := prometheus.Labels{
		"service": "partner-contracts",
		"env":     environment,
	}

	m := &Metrics{
		registry: prometheus.NewRegistry(),
		statusTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "contracts_status_transitions_total",
			Help:        "Contract status change attempts by source state, target state and result.",
			ConstLabels: constLabels,
		}, []string{"from", "to", "result"}),
		revenueCalculations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "contracts_revenue_calculations_total",
			Help:        "Revenue calculations by outcome.",
			ConstLabels: constLabels,
		}, []string{"outcome"}),
		revenueDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:        "contracts_revenue_calculation_seconds",
			Help:        "Revenue calculation latency.",
			Buckets:     []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			ConstLabels: constLabels,
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.statusTransitions,
		m.revenueCalculations,
		m.revenueDuration,
	)
	return m
}

func (m *Metrics) ObserveRevenueCalculation(outcome string, elapsed time.Duration) {
	m.revenueCalculations.WithLabelValues(outcome).Inc()
	m.revenueDuration.Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveStatusTransition(from, to, result string) {
	m.statusTransitions.WithLabelValues(from, to, result).Inc()
}

// Handler serves the registry in the prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
