// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Ingestion metrics
	BarsIngested    prometheus.Counter
	BarsRejected    *prometheus.CounterVec
	InstrumentsSeen prometheus.Counter

	// Analysis metrics
	RunsTotal             *prometheus.CounterVec
	WindowsProcessed      prometheus.Counter
	CombinationsEvaluated prometheus.Counter
	TradesSimulated       prometheus.Counter
	FallbacksSelected     prometheus.Counter

	// Latency metrics
	WindowDuration prometheus.Histogram
	RunDuration    prometheus.Histogram

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec

	// Reporting metrics
	ReportsGenerated prometheus.Counter
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "walkforward_lab"
	}

	return &Metrics{
		BarsIngested: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "bars_ingested_total",
			Help:      "Total number of price bars ingested",
		}),
		BarsRejected: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "bars_rejected_total",
			Help:      "Total number of price bars rejected by reason",
		}, []string{"reason"}),
		InstrumentsSeen: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "instruments_seen_total",
			Help:      "Total number of distinct instruments ingested",
		}),

		RunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "runs_total",
			Help:      "Total number of walk-forward runs by status",
		}, []string{"status"}),
		WindowsProcessed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "windows_processed_total",
			Help:      "Total number of walk-forward windows processed",
		}),
		CombinationsEvaluated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "combinations_evaluated_total",
			Help:      "Total number of parameter combinations evaluated",
		}),
		TradesSimulated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "trades_simulated_total",
			Help:      "Total number of trades produced by simulations",
		}),
		FallbacksSelected: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "fallbacks_selected_total",
			Help:      "Total number of windows that fell back to median parameters",
		}),

		WindowDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "window_duration_seconds",
			Help:      "Per-window optimization duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
		RunDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "run_duration_seconds",
			Help:      "Full walk-forward run duration in seconds",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 300, 600},
		}),

		DBQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"database", "operation"}),
		DBQueryErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_errors_total",
			Help:      "Total number of database query errors",
		}, []string{"database", "operation"}),

		ReportsGenerated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reporting",
			Name:      "reports_generated_total",
			Help:      "Total number of reports generated",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordBarsIngested adds to the ingested bar counter.
func RecordBarsIngested(n int) {
	DefaultMetrics.BarsIngested.Add(float64(n))
}

// RecordBarRejected records a rejected bar by reason.
func RecordBarRejected(reason string) {
	DefaultMetrics.BarsRejected.WithLabelValues(reason).Inc()
}

// RecordRun records a completed walk-forward run.
func RecordRun(status string, durationSeconds float64) {
	DefaultMetrics.RunsTotal.WithLabelValues(status).Inc()
	DefaultMetrics.RunDuration.Observe(durationSeconds)
}

// RecordWindow records one processed window.
func RecordWindow(durationSeconds float64, combinations, trades int, fallback bool) {
	DefaultMetrics.WindowsProcessed.Inc()
	DefaultMetrics.WindowDuration.Observe(durationSeconds)
	DefaultMetrics.CombinationsEvaluated.Add(float64(combinations))
	DefaultMetrics.TradesSimulated.Add(float64(trades))
	if fallback {
		DefaultMetrics.FallbacksSelected.Inc()
	}
}

// RecordDBQuery records database query metrics.
func RecordDBQuery(database, operation string, seconds float64, err error) {
	DefaultMetrics.DBQueryDuration.WithLabelValues(database, operation).Observe(seconds)
	if err != nil {
		DefaultMetrics.DBQueryErrors.WithLabelValues(database, operation).Inc()
	}
}

// RecordReportGenerated increments the reports generated counter.
func RecordReportGenerated() {
	DefaultMetrics.ReportsGenerated.Inc()
}
