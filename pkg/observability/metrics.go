package observability

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/galvani"
	"github.com/aretw0/galvani/pkg/model"
)

// Metrics collects build metrics.
type Metrics struct {
	registry      *prometheus.Registry
	phaseDuration *prometheus.HistogramVec
	phaseErrors   *prometheus.CounterVec
	compiles      *prometheus.CounterVec
	stateSize     *prometheus.GaugeVec
	layoutChanges *prometheus.CounterVec
}

// NewMetrics creates and registers every collector.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		phaseDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "galvani_phase_duration_seconds",
				Help:    "Duration of assembly phases",
				Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
			},
			[]string{"model", "phase"},
		),
		phaseErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "galvani_phase_errors_total",
				Help: "Total number of failed assembly phases",
			},
			[]string{"model", "phase"},
		),
		compiles: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "galvani_compiles_total",
				Help: "Total number of compilations by result",
			},
			[]string{"model", "result"},
		),
		stateSize: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "galvani_state_size",
				Help: "Length of the state vector of the last successful compilation",
			},
			[]string{"model", "kind"},
		),
		layoutChanges: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "galvani_layout_changes_total",
				Help: "Total number of compilations whose state layout changed",
			},
			[]string{"model"},
		),
	}
	m.registry.MustRegister(m.phaseDuration, m.phaseErrors, m.compiles, m.stateSize, m.layoutChanges)
	return m
}

// Hooks returns pipeline hooks that record into m. next, if set, is called
// after recording.
func (m *Metrics) Hooks(next galvani.Hooks) galvani.Hooks {
	return galvani.Hooks{
		OnPhaseStart: next.OnPhaseStart,
		OnPhaseEnd: func(ctx context.Context, e *model.PhaseEvent) {
			m.phaseDuration.WithLabelValues(e.Model, string(e.Phase)).Observe(e.Duration.Seconds())
			if e.Err != nil {
				m.phaseErrors.WithLabelValues(e.Model, string(e.Phase)).Inc()
			}
			if next.OnPhaseEnd != nil {
				next.OnPhaseEnd(ctx, e)
			}
		},
		OnCompiled: func(ctx context.Context, e *galvani.CompileEvent) {
			if e.Err != nil {
				m.compiles.WithLabelValues(e.Model, "error").Inc()
			} else {
				m.compiles.WithLabelValues(e.Model, "ok").Inc()
				m.stateSize.WithLabelValues(e.Model, "differential").Set(float64(e.Differential))
				m.stateSize.WithLabelValues(e.Model, "algebraic").Set(float64(e.Size - e.Differential))
				changes := m.layoutChanges.WithLabelValues(e.Model)
				if e.Changed {
					changes.Inc()
				}
			}
			if next.OnCompiled != nil {
				next.OnCompiled(ctx, e)
			}
		},
	}
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the metrics in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// WriteToTextfile writes the current metrics to path atomically.
func (m *Metrics) WriteToTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
