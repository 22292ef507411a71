// Package observability provides Prometheus instrumentation for the Arbor
// engine, wired through the engine's lifecycle hooks.
package observability

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/arbor/pkg/domain"
)

// Metrics holds the Prometheus collectors for fact application.
type Metrics struct {
	applied  *prometheus.CounterVec
	rejected *prometheus.CounterVec
	items    prometheus.Gauge
}

// NewMetrics creates and registers the collectors on the given registerer.
// Pass prometheus.DefaultRegisterer for the promhttp default handler.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		applied: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "arbor_facts_applied_total",
				Help: "Total number of facts applied, by fact kind.",
			},
			[]string{"kind"},
		),
		rejected: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "arbor_facts_rejected_total",
				Help: "Total number of facts rejected, by rejection reason.",
			},
			[]string{"reason"},
		),
		items: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "arbor_items",
				Help: "Number of live items in the store.",
			},
		),
	}
	reg.MustRegister(m.applied, m.rejected, m.items)
	return m
}

// AppliedFor returns the applied counter for one fact kind label.
func (m *Metrics) AppliedFor(kind string) prometheus.Counter {
	return m.applied.WithLabelValues(kind)
}

// RejectedFor returns the rejected counter for one reason label.
func (m *Metrics) RejectedFor(reason string) prometheus.Counter {
	return m.rejected.WithLabelValues(reason)
}

// ItemsGauge returns the live item count gauge.
func (m *Metrics) ItemsGauge() prometheus.Gauge {
	return m.items
}

// Hooks returns lifecycle hooks that feed the collectors. counter is an
// optional item-count source (e.g. the engine's Len method); pass nil to
// skip the gauge.
func (m *Metrics) Hooks(counter func() int) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnFactApplied: func(_ context.Context, ev *domain.FactEvent) {
			m.applied.WithLabelValues(string(ev.Kind)).Inc()
			if counter != nil {
				m.items.Set(float64(counter()))
			}
		},
		OnFactRejected: func(_ context.Context, ev *domain.FactEvent) {
			m.rejected.WithLabelValues(ev.Reason).Inc()
		},
	}
}
