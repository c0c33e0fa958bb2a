package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the analytics service.
type Metrics struct {
	// Analytics computation metrics
	AnalyticsRequests *prometheus.CounterVec
	AnalyticsDuration *prometheus.HistogramVec

	// Dataset metrics
	DatasetRows    *prometheus.GaugeVec
	DatasetUploads prometheus.Counter

	// Cache metrics
	CacheHits    *prometheus.CounterVec
	ArchivedRows prometheus.Counter

	// System metrics
	DBConnections *prometheus.GaugeVec

	// Rate limiting metrics
	RateLimitHits *prometheus.CounterVec
}

// NewMetrics creates and registers all Prometheus metrics.
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		AnalyticsRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "analytics_requests_total",
				Help:      "Analytics operations served, by operation and status",
			},
			[]string{"operation", "status"},
		),
		AnalyticsDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "analytics_duration_seconds",
				Help:      "Analytics computation latency in seconds",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
			},
			[]string{"operation"},
		),
		DatasetRows: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "dataset_rows",
				Help:      "Rows currently held per table",
			},
			[]string{"table"},
		),
		DatasetUploads: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "dataset_uploads_total",
				Help:      "Dataset replacements accepted",
			},
		),
		CacheHits: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "report_cache_requests_total",
				Help:      "Insight report cache lookups, by result",
			},
			[]string{"result"}, // hit, miss
		),
		ArchivedRows: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "archived_tracking_rows_total",
				Help:      "Tracking rows written to the warehouse archive",
			},
		),
		DBConnections: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "db_connections",
				Help:      "Database connection pool stats",
			},
			[]string{"state"}, // idle, in_use, total
		),
		RateLimitHits: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rate_limit_hits_total",
				Help:      "Rate limit rejections",
			},
			[]string{"endpoint"},
		),
	}
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordAnalytics records one analytics operation.
func (m *Metrics) RecordAnalytics(operation, status string, duration time.Duration) {
	m.AnalyticsRequests.WithLabelValues(operation, status).Inc()
	m.AnalyticsDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// UpdateDatasetRows updates the per-table row gauges.
func (m *Metrics) UpdateDatasetRows(influencers, posts, tracking, payouts int) {
	m.DatasetRows.WithLabelValues("influencers").Set(float64(influencers))
	m.DatasetRows.WithLabelValues("posts").Set(float64(posts))
	m.DatasetRows.WithLabelValues("tracking").Set(float64(tracking))
	m.DatasetRows.WithLabelValues("payouts").Set(float64(payouts))
}

// RecordDatasetUpload records an accepted dataset replacement.
func (m *Metrics) RecordDatasetUpload() {
	m.DatasetUploads.Inc()
}

// RecordCacheLookup records a report cache hit or miss.
func (m *Metrics) RecordCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheHits.WithLabelValues(result).Inc()
}

// RecordArchivedRows records rows written to the tracking archive.
func (m *Metrics) RecordArchivedRows(n int) {
	m.ArchivedRows.Add(float64(n))
}

// UpdateDBStats updates database connection metrics.
func (m *Metrics) UpdateDBStats(idle, inUse, total int) {
	m.DBConnections.WithLabelValues("idle").Set(float64(idle))
	m.DBConnections.WithLabelValues("in_use").Set(float64(inUse))
	m.DBConnections.WithLabelValues("total").Set(float64(total))
}

// RecordRateLimitHit records a rate limit hit.
func (m *Metrics) RecordRateLimitHit(endpoint string) {
	m.RateLimitHits.WithLabelValues(endpoint).Inc()
}
