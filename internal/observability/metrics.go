// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// API client metrics
	APIRequestLatency *prometheus.HistogramVec
	APIRequestErrors  *prometheus.CounterVec

	// Engagement metrics
	AggregateBatchSize prometheus.Histogram
	AggregateDuration  prometheus.Histogram
	AggregateErrors    prometheus.Counter
	CacheHits          prometheus.Counter
	CacheMisses        prometheus.Counter
	CacheInvalidations prometheus.Counter
	VoteToggles        *prometheus.CounterVec
	VoteRollbacks      prometheus.Counter
	CommentsPosted     prometheus.Counter

	// Snapshot metrics
	SnapshotRunsTotal      *prometheus.CounterVec
	SnapshotDuration       prometheus.Histogram
	LastSuccessfulSnapshot prometheus.Gauge

	// HTTP server metrics
	HTTPRequestDuration *prometheus.HistogramVec
	HTTPRequestErrors   *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "liquidchecker"
	}

	return &Metrics{
		APIRequestLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "liquidlaunch",
			Name:      "request_latency_seconds",
			Help:      "Upstream token API request latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"endpoint"}),
		APIRequestErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "liquidlaunch",
			Name:      "request_errors_total",
			Help:      "Total number of upstream token API request errors",
		}, []string{"endpoint"}),

		AggregateBatchSize: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "engagement",
			Name:      "aggregate_batch_size",
			Help:      "Number of token addresses per aggregation batch",
			Buckets:   []float64{1, 5, 10, 25, 50, 100, 250},
		}),
		AggregateDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "engagement",
			Name:      "aggregate_duration_seconds",
			Help:      "Engagement aggregation duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
		AggregateErrors: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engagement",
			Name:      "aggregate_errors_total",
			Help:      "Total number of failed aggregation batches",
		}),
		CacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engagement",
			Name:      "cache_hits_total",
			Help:      "Total number of engagement cache hits",
		}),
		CacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engagement",
			Name:      "cache_misses_total",
			Help:      "Total number of engagement cache misses",
		}),
		CacheInvalidations: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engagement",
			Name:      "cache_invalidations_total",
			Help:      "Total number of engagement cache invalidations",
		}),
		VoteToggles: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engagement",
			Name:      "vote_toggles_total",
			Help:      "Total number of vote toggles by direction",
		}, []string{"direction"}),
		VoteRollbacks: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engagement",
			Name:      "vote_rollbacks_total",
			Help:      "Total number of optimistic vote updates rolled back",
		}),
		CommentsPosted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engagement",
			Name:      "comments_posted_total",
			Help:      "Total number of comments posted",
		}),

		SnapshotRunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "snapshot",
			Name:      "runs_total",
			Help:      "Total number of snapshot runs by status",
		}, []string{"status"}),
		SnapshotDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "snapshot",
			Name:      "duration_seconds",
			Help:      "Snapshot run duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60},
		}),
		LastSuccessfulSnapshot: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "snapshot",
			Name:      "last_successful_timestamp",
			Help:      "Unix timestamp of last successful snapshot",
		}),

		HTTPRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		HTTPRequestErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_errors_total",
			Help:      "Total number of HTTP error responses",
		}, []string{"route", "code"}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordAPIRequest records an upstream API call.
func RecordAPIRequest(endpoint string, seconds float64, err error) {
	DefaultMetrics.APIRequestLatency.WithLabelValues(endpoint).Observe(seconds)
	if err != nil {
		DefaultMetrics.APIRequestErrors.WithLabelValues(endpoint).Inc()
	}
}

// RecordAggregateBatch records one engagement aggregation batch.
func RecordAggregateBatch(size int, seconds float64, err error) {
	DefaultMetrics.AggregateBatchSize.Observe(float64(size))
	DefaultMetrics.AggregateDuration.Observe(seconds)
	if err != nil {
		DefaultMetrics.AggregateErrors.Inc()
	}
}

// RecordCacheHit increments the cache hit counter.
func RecordCacheHit() {
	DefaultMetrics.CacheHits.Inc()
}

// RecordCacheMiss increments the cache miss counter.
func RecordCacheMiss() {
	DefaultMetrics.CacheMisses.Inc()
}

// RecordCacheInvalidation increments the cache invalidation counter.
func RecordCacheInvalidation() {
	DefaultMetrics.CacheInvalidations.Inc()
}

// RecordVoteToggle records a vote toggle in the given direction.
func RecordVoteToggle(direction string) {
	DefaultMetrics.VoteToggles.WithLabelValues(direction).Inc()
}

// RecordVoteRollback increments the rollback counter.
func RecordVoteRollback() {
	DefaultMetrics.VoteRollbacks.Inc()
}

// RecordCommentPosted increments the comments posted counter.
func RecordCommentPosted() {
	DefaultMetrics.CommentsPosted.Inc()
}

// RecordSnapshotRun records a snapshot run.
func RecordSnapshotRun(status string, seconds float64) {
	DefaultMetrics.SnapshotRunsTotal.WithLabelValues(status).Inc()
	DefaultMetrics.SnapshotDuration.Observe(seconds)
	if status == "success" {
		DefaultMetrics.LastSuccessfulSnapshot.SetToCurrentTime()
	}
}

// RecordHTTPRequest records a served HTTP request.
func RecordHTTPRequest(route string, code int, seconds float64) {
	DefaultMetrics.HTTPRequestDuration.WithLabelValues(route).Observe(seconds)
	if code >= 400 {
		DefaultMetrics.HTTPRequestErrors.WithLabelValues(route, strconv.Itoa(code)).Inc()
	}
}
