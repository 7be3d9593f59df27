package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Mode labels for the two runs of a benchmark case.
const (
	ModeJIT   = "jit"
	ModeNoJIT = "no_jit"
)

// Mode returns the label for a JIT toggle.
func Mode(jit bool) string {
	if jit {
		return ModeJIT
	}
	return ModeNoJIT
}

// Metrics represents the collection of harness Prometheus metrics.
// All record methods are safe to call on a nil *Metrics.
type Metrics struct {
	registry *prometheus.Registry

	RunsTotal    *prometheus.CounterVec
	RunDuration  *prometheus.HistogramVec
	SpeedupRatio *prometheus.GaugeVec
}

// NewMetrics creates the harness metrics on a dedicated registry.
func NewMetrics() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.RunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "slowbench_runs_total",
			Help: "Total number of workload runs",
		},
		[]string{"mode", "status"},
	)

	m.RunDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "slowbench_run_duration_milliseconds",
			Help:    "Wall-clock duration of successful workload runs in milliseconds",
			Buckets: prometheus.ExponentialBuckets(10, 2, 14),
		},
		[]string{"mode"},
	)

	m.SpeedupRatio = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "slowbench_speedup_ratio",
			Help: "No-JIT time divided by JIT time for the last measured case",
		},
		[]string{"workload", "args"},
	)

	m.registry.MustRegister(m.RunsTotal, m.RunDuration, m.SpeedupRatio)
	return m
}

// RecordRun counts one run and, when it succeeded, observes its duration.
func (m *Metrics) RecordRun(mode string, ok bool, millis float64) {
	if m == nil {
		return
	}
	status := "success"
	if !ok {
		status = "failure"
	}
	m.RunsTotal.WithLabelValues(mode, status).Inc()
	if ok {
		m.RunDuration.WithLabelValues(mode).Observe(millis)
	}
}

// RecordSpeedup sets the speedup gauge for a case.
func (m *Metrics) RecordSpeedup(workload, args string, ratio float64) {
	if m == nil {
		return
	}
	m.SpeedupRatio.WithLabelValues(workload, args).Set(ratio)
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns the Prometheus HTTP handler for these metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
