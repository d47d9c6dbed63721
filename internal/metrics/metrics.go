// Package metrics provides Prometheus metrics for Proxy Toggle.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for Proxy Toggle.
type Metrics struct {
	// ActivationsTotal counts activation attempts by result.
	ActivationsTotal *prometheus.CounterVec
	// RefreshesTotal counts reconciliations against the OS setting.
	RefreshesTotal prometheus.Counter
	// PersistFailuresTotal counts profile saves that failed after a
	// successful system write.
	PersistFailuresTotal prometheus.Counter
	// ActiveProfile is the index of the active profile, -1 when none.
	ActiveProfile prometheus.Gauge

	registry *prometheus.Registry
}

// New creates a new Metrics instance with all metrics registered.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
	}

	m.ActivationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "proxytoggle_activations_total",
			Help: "Total number of proxy activation attempts",
		},
		[]string{"result"},
	)

	m.RefreshesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "proxytoggle_refreshes_total",
			Help: "Total number of reconciliations against the system proxy state",
		},
	)

	m.PersistFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "proxytoggle_persist_failures_total",
			Help: "Total number of profile saves that failed after a system change",
		},
	)

	m.ActiveProfile = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "proxytoggle_active_profile",
			Help: "Index of the currently active profile, -1 when no profile is active",
		},
	)
	m.ActiveProfile.Set(-1)

	m.registry.MustRegister(
		m.ActivationsTotal,
		m.RefreshesTotal,
		m.PersistFailuresTotal,
		m.ActiveProfile,
	)

	return m
}

// Registry returns the underlying Prometheus registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns an HTTP handler serving the metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
