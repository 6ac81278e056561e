package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Skip reasons used as the "reason" label on LinesSkipped.
const (
	ReasonMalformedLine    = "malformed_line"
	ReasonMalformedNumeric = "malformed_numeric"
)

// Metrics holds the Prometheus counters, histograms, and gauges for an ingestion run.
type Metrics struct {
	SourcesOpened      prometheus.Counter
	LinesRead          prometheus.Counter
	LinesSkipped       *prometheus.CounterVec // labels: reason={malformed_line,malformed_numeric}
	ObservationsFolded prometheus.Counter
	StatesTracked      prometheus.Gauge
	IngestDuration     prometheus.Histogram
	SummariesPublished prometheus.Counter
	PipelineRunning    prometheus.Gauge
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.SourcesOpened,
		m.LinesRead,
		m.LinesSkipped,
		m.ObservationsFolded,
		m.StatesTracked,
		m.IngestDuration,
		m.SummariesPublished,
		m.PipelineRunning,
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
		SourcesOpened: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "climate",
			Name:      "sources_opened_total",
			Help:      "Total input files opened for reading.",
		}),
		LinesRead: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "climate",
			Name:      "lines_read_total",
			Help:      "Total lines read from all sources.",
		}),
		LinesSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "climate",
			Name:      "lines_skipped_total",
			Help:      "Lines rejected by the parser, by reason.",
		}, []string{"reason"}),
		ObservationsFolded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "climate",
			Name:      "observations_folded_total",
			Help:      "Observations merged into a state aggregate.",
		}),
		StatesTracked: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "climate",
			Name:      "states_tracked",
			Help:      "Distinct state codes seen so far.",
		}),
		IngestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "climate",
			Name:      "ingest_duration_seconds",
			Help:      "Duration of a complete ingestion pass over all sources.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		SummariesPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "climate",
			Name:      "summaries_published_total",
			Help:      "State summaries written to the sink topic.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "climate",
			Name:      "pipeline_running",
			Help:      "1 while ingestion is in progress, 0 otherwise.",
		}),
	}
}
