package generator

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels for the constraints counter.
const (
	OutcomeGenerated = "generated"
	OutcomeSkipped   = "skipped"
	OutcomeFailed    = "failed"
)

// Metrics counts generation outcomes on a private Prometheus registry.
// A nil *Metrics records nothing.
type Metrics struct {
	registry    *prometheus.Registry
	constraints *prometheus.CounterVec
	degraded    prometheus.Gauge
}

// NewMetrics creates and registers the generator collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		constraints: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "codeclare",
			Name:      "constraints_total",
			Help:      "Constraint definitions processed, by outcome.",
		}, []string{"outcome"}),
		degraded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "codeclare",
			Name:      "parser_degraded",
			Help:      "1 when no formula parser is available and formulas pass through unparsed.",
		}),
	}
	m.registry.MustRegister(m.constraints, m.degraded)
	for _, outcome := range []string{OutcomeGenerated, OutcomeSkipped, OutcomeFailed} {
		m.constraints.WithLabelValues(outcome)
	}
	return m
}

// Registry exposes the underlying registry for scraping or tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) observe(outcome string) {
	if m == nil {
		return
	}
	m.constraints.WithLabelValues(outcome).Inc()
}

func (m *Metrics) setDegraded(degraded bool) {
	if m == nil {
		return
	}
	if degraded {
		m.degraded.Set(1)
	} else {
		m.degraded.Set(0)
	}
}

// WriteTextfile writes the current metrics in the text exposition format,
// suitable for the node exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
