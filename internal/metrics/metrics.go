// Package metrics counts resolution outcomes for the /metrics endpoint.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"sourcery/internal/model"
)

// Metrics owns a private registry so several instances can coexist.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	reg           *prometheus.Registry
	resolutions   *prometheus.CounterVec
	substitutions *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		reg: reg,
		resolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sourcery",
			Name:      "resolutions_total",
			Help:      "Navigation events resolved, by outcome.",
		}, []string{"outcome"}),
		substitutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sourcery",
			Name:      "substitutions_total",
			Help:      "Path substitution lookups, by result.",
		}, []string{"result"}),
	}
	reg.MustRegister(m.resolutions, m.substitutions)
	return m
}

// ObserveDisplay counts one navigation outcome.
func (m *Metrics) ObserveDisplay(status model.Status) {
	if m == nil {
		return
	}
	m.resolutions.WithLabelValues(string(status)).Inc()
}

// ObserveSubstitution counts one rewriter lookup.
func (m *Metrics) ObserveSubstitution(found bool) {
	if m == nil {
		return
	}
	result := "miss"
	if found {
		result = "hit"
	}
	m.substitutions.WithLabelValues(result).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}
