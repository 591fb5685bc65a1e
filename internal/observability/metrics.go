package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus instruments for the heat-stress pipeline.
type Metrics struct {
	RecordsRead     prometheus.Counter
	RecordsSkipped  *prometheus.CounterVec // label: reason (record error kind)
	ResultsProduced prometheus.Counter
	BucketsProduced prometheus.Counter
	SourceFailures  *prometheus.CounterVec // label: source (candidate name)
	PipelineRunning prometheus.Gauge

	RunDuration prometheus.Histogram
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.RecordsRead,
		m.RecordsSkipped,
		m.ResultsProduced,
		m.BucketsProduced,
		m.SourceFailures,
		m.PipelineRunning,
		m.RunDuration,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering, avoiding
// "already registered" panics across tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		RecordsRead: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "heat_etl",
			Name:      "records_read_total",
			Help:      "Total raw records read from the resolved source.",
		}),
		RecordsSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "heat_etl",
			Name:      "records_skipped_total",
			Help:      "Records skipped during normalization, by reason.",
		}, []string{"reason"}),
		ResultsProduced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "heat_etl",
			Name:      "results_produced_total",
			Help:      "Index results computed and loaded.",
		}),
		BucketsProduced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "heat_etl",
			Name:      "buckets_produced_total",
			Help:      "Aggregate buckets emitted.",
		}),
		SourceFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "heat_etl",
			Name:      "source_failures_total",
			Help:      "Candidate source failures, by candidate name.",
		}, []string{"source"}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "heat_etl",
			Name:      "pipeline_running",
			Help:      "1 while a run is in flight, 0 otherwise.",
		}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "heat_etl",
			Name:      "run_duration_seconds",
			Help:      "Duration of a complete resolve-normalize-compute-aggregate run.",
			Buckets:   []float64{0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
	}
}
