// Package monitoring exposes Prometheus instrumentation for the optimization
// pipeline.
package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Stage label values reported by the pipeline.
const (
	StageAnalyze = "analyze"
	StageSolve   = "solve"
	StageExecute = "execute"
)

// Run status label values.
const (
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

// Metrics holds the pipeline's Prometheus collectors. A nil *Metrics is valid
// and records nothing, so instrumentation stays optional in tests.
type Metrics struct {
	stageDuration *prometheus.HistogramVec
	pipelineRuns  *prometheus.CounterVec
	infeasible    prometheus.Counter
	storedGraphs  prometheus.Gauge
}

// NewMetrics creates and registers the pipeline collectors.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		stageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "noah",
			Subsystem: "optimizer",
			Name:      "stage_duration_seconds",
			Help:      "Duration of each pipeline stage.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"stage"}),
		pipelineRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "noah",
			Subsystem: "optimizer",
			Name:      "pipeline_runs_total",
			Help:      "Completed pipeline runs by status.",
		}, []string{"status"}),
		infeasible: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "noah",
			Subsystem: "optimizer",
			Name:      "infeasible_problems_total",
			Help:      "Problems rejected as infeasible by the solver.",
		}),
		storedGraphs: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "noah",
			Subsystem: "graphstore",
			Name:      "stored_graphs",
			Help:      "Number of graphs currently held in the store.",
		}),
	}
	reg.MustRegister(m.stageDuration, m.pipelineRuns, m.infeasible, m.storedGraphs)
	return m
}

// ObserveStage records the duration of one pipeline stage.
func (m *Metrics) ObserveStage(stage string, d time.Duration) {
	if m == nil {
		return
	}
	m.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// ObserveRun records a completed pipeline run.
func (m *Metrics) ObserveRun(status string) {
	if m == nil {
		return
	}
	m.pipelineRuns.WithLabelValues(status).Inc()
}

// ObserveInfeasible records a problem rejected as infeasible.
func (m *Metrics) ObserveInfeasible() {
	if m == nil {
		return
	}
	m.infeasible.Inc()
}

// SetStoredGraphs records the current graph count in the store.
func (m *Metrics) SetStoredGraphs(n int) {
	if m == nil {
		return
	}
	m.storedGraphs.Set(float64(n))
}
