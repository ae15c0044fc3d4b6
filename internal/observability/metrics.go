package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// dataset pipeline and its cache.
type Metrics struct {
	PipelineRuns   prometheus.Counter
	PipelineErrors *prometheus.CounterVec // label: stage={load,normalize}
	RowsIngested   prometheus.Counter
	RowsDropped    prometheus.Counter
	RunDuration    prometheus.Histogram
	CacheLookups   *prometheus.CounterVec // label: result={hit,miss}
	DatasetReady   prometheus.Gauge
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.PipelineRuns,
		m.PipelineErrors,
		m.RowsIngested,
		m.RowsDropped,
		m.RunDuration,
		m.CacheLookups,
		m.DatasetReady,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		PipelineRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hfmd_dashboard",
			Name:      "pipeline_runs_total",
			Help:      "Total dataset pipeline executions, cached or not.",
		}),
		PipelineErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hfmd_dashboard",
			Name:      "pipeline_errors_total",
			Help:      "Pipeline failures by stage.",
		}, []string{"stage"}),
		RowsIngested: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hfmd_dashboard",
			Name:      "rows_ingested_total",
			Help:      "Raw rows read from the dataset source.",
		}),
		RowsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hfmd_dashboard",
			Name:      "rows_dropped_total",
			Help:      "Rows dropped during normalization (unparseable dates, duplicate dates).",
		}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "hfmd_dashboard",
			Name:      "run_duration_seconds",
			Help:      "Duration of a full load-normalize-aggregate-summarize run.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hfmd_dashboard",
			Name:      "cache_lookups_total",
			Help:      "Result cache lookups by outcome.",
		}, []string{"result"}),
		DatasetReady: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "hfmd_dashboard",
			Name:      "dataset_ready",
			Help:      "1 after at least one successful pipeline run.",
		}),
	}
}
