// Package metrics instruments the DHCP server with Prometheus counters
// and gauges. This is ambient observability (SPEC_FULL.md §6.8), not a
// feature spec.md calls for — Metrics is nil-safe throughout so the
// processor and server stay metrics-agnostic, the way the teacher's
// Handler treats its optional conflict.Detector and events.Bus fields.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "dhcplite"

// Metrics holds one server process's counters, registered against its
// own registry rather than the global one so tests can create
// independent instances.
type Metrics struct {
	reg *prometheus.Registry

	OffersTotal        prometheus.Counter
	AcksTotal          prometheus.Counter
	NaksTotal          prometheus.Counter
	DropsTotal         *prometheus.CounterVec
	PoolExhaustedTotal prometheus.Counter
	BindingsActive     prometheus.Gauge
}

// New creates a Metrics instance with its own registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		reg: reg,
		OffersTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "offers_total",
			Help:      "Total DHCPOFFER replies sent.",
		}),
		AcksTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "acks_total",
			Help:      "Total DHCPACK replies sent.",
		}),
		NaksTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "naks_total",
			Help:      "Total DHCPNAK replies sent.",
		}),
		DropsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "drops_total",
			Help:      "Total requests dropped, by reason.",
		}, []string{"reason"}),
		PoolExhaustedTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pool_exhausted_total",
			Help:      "Total DISCOVERs dropped because the address pool was exhausted.",
		}),
		BindingsActive: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "bindings_active",
			Help:      "Number of client bindings currently held, excluding the server sentinel.",
		}),
	}
}

// Registry returns the registry this instance's metrics are registered
// against, for wiring into an HTTP exposition handler.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.reg
}
