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
	// Journal metrics
	TradesStored      prometheus.Counter
	TradeDecodeErrors prometheus.Counter

	// Analytics metrics
	AnalyticsRunsTotal *prometheus.CounterVec
	AnalyticsDuration  prometheus.Histogram
	AnalyzedTradeCount prometheus.Histogram
	SnapshotsRecorded  prometheus.Counter

	// HTTP metrics
	HTTPRequestsTotal  *prometheus.CounterVec
	HTTPRequestLatency *prometheus.HistogramVec

	// WebSocket metrics
	WSClientsConnected prometheus.Gauge
	WSBroadcastsTotal  prometheus.Counter

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec

	// Health metrics
	LastSuccessfulAnalytics prometheus.Gauge
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "vantage_journal"
	}

	return &Metrics{
		TradesStored: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "journal",
			Name:      "trades_stored_total",
			Help:      "Total number of trades persisted",
		}),
		TradeDecodeErrors: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "journal",
			Name:      "trade_decode_errors_total",
			Help:      "Total number of trade records rejected at decode",
		}),

		AnalyticsRunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analytics",
			Name:      "runs_total",
			Help:      "Total number of analytics runs by status",
		}, []string{"status"}),
		AnalyticsDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "analytics",
			Name:      "run_duration_seconds",
			Help:      "Analytics run duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
		AnalyzedTradeCount: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "analytics",
			Name:      "trade_count",
			Help:      "Number of trades per analytics run",
			Buckets:   []float64{10, 50, 100, 500, 1000, 5000, 10000, 50000},
		}),
		SnapshotsRecorded: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analytics",
			Name:      "snapshots_recorded_total",
			Help:      "Total number of stats snapshots recorded",
		}),

		HTTPRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by endpoint and status code",
		}, []string{"endpoint", "code"}),
		HTTPRequestLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_latency_seconds",
			Help:      "HTTP request latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"endpoint"}),

		WSClientsConnected: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "ws",
			Name:      "clients_connected",
			Help:      "Current number of connected WebSocket clients",
		}),
		WSBroadcastsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ws",
			Name:      "broadcasts_total",
			Help:      "Total number of analytics payloads broadcast to WebSocket clients",
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

		LastSuccessfulAnalytics: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_analytics_timestamp",
			Help:      "Unix timestamp of last successful analytics run",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordTradeStored increments the trades stored counter.
func RecordTradeStored(n int) {
	DefaultMetrics.TradesStored.Add(float64(n))
}

// RecordDecodeError increments the decode error counter.
func RecordDecodeError() {
	DefaultMetrics.TradeDecodeErrors.Inc()
}

// RecordAnalyticsRun records one analytics run.
func RecordAnalyticsRun(status string, durationSeconds float64, tradeCount int) {
	DefaultMetrics.AnalyticsRunsTotal.WithLabelValues(status).Inc()
	DefaultMetrics.AnalyticsDuration.Observe(durationSeconds)
	DefaultMetrics.AnalyzedTradeCount.Observe(float64(tradeCount))
}

// RecordSnapshot increments the snapshots recorded counter.
func RecordSnapshot() {
	DefaultMetrics.SnapshotsRecorded.Inc()
}

// RecordHTTPRequest records one served HTTP request.
func RecordHTTPRequest(endpoint, code string, seconds float64) {
	DefaultMetrics.HTTPRequestsTotal.WithLabelValues(endpoint, code).Inc()
	DefaultMetrics.HTTPRequestLatency.WithLabelValues(endpoint).Observe(seconds)
}

// RecordDBQuery records database query metrics.
func RecordDBQuery(database, operation string, seconds float64, err error) {
	DefaultMetrics.DBQueryDuration.WithLabelValues(database, operation).Observe(seconds)
	if err != nil {
		DefaultMetrics.DBQueryErrors.WithLabelValues(database, operation).Inc()
	}
}
