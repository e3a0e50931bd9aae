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
	// Stream metrics
	StreamConnects     prometheus.Counter
	StreamReconnects   prometheus.Counter
	StreamGracefulEnds prometheus.Counter

	// Pipeline metrics
	NotificationsReceived   prometheus.Counter
	NotificationsClassified *prometheus.CounterVec
	EventsGatedOut          prometheus.Counter
	ClassificationErrors    prometheus.Counter
	PoolsQualified          *prometheus.CounterVec
	CriteriaFailures        *prometheus.CounterVec

	// Enrichment metrics
	HolderCacheHits   prometheus.Counter
	HolderCacheMisses prometheus.Counter
	RPCCallLatency    *prometheus.HistogramVec

	// Database metrics
	DBQueryErrors *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "pool_watch"
	}

	return &Metrics{
		StreamConnects: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "stream",
			Name:      "connects_total",
			Help:      "Total number of WebSocket connections established",
		}),
		StreamReconnects: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "stream",
			Name:      "reconnects_total",
			Help:      "Total number of reconnect attempts after transport failures",
		}),
		StreamGracefulEnds: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "stream",
			Name:      "graceful_ends_total",
			Help:      "Total number of peer-initiated graceful stream closes",
		}),

		NotificationsReceived: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "notifications_received_total",
			Help:      "Total number of log notifications received",
		}),
		NotificationsClassified: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "notifications_classified_total",
			Help:      "Total number of notifications classified as pool creations by variant",
		}, []string{"variant"}),
		EventsGatedOut: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "events_gated_out_total",
			Help:      "Total number of events dropped by the environment gate",
		}),
		ClassificationErrors: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "classification_errors_total",
			Help:      "Total number of notifications dropped for missing or unresolvable fields",
		}),
		PoolsQualified: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "pools_qualified_total",
			Help:      "Total number of pools that passed all criteria by variant",
		}, []string{"variant"}),
		CriteriaFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "criteria_failures_total",
			Help:      "Total number of evaluated events rejected per failing criterion",
		}, []string{"criterion"}),

		HolderCacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "enrichment",
			Name:      "holder_cache_hits_total",
			Help:      "Total number of holder count lookups served from cache",
		}),
		HolderCacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "enrichment",
			Name:      "holder_cache_misses_total",
			Help:      "Total number of holder count lookups requiring ledger queries",
		}),
		RPCCallLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "solana",
			Name:      "rpc_call_latency_seconds",
			Help:      "Solana RPC call latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),

		DBQueryErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_errors_total",
			Help:      "Total number of database query errors",
		}, []string{"database", "operation"}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordConnect increments the connection counter.
func RecordConnect() {
	DefaultMetrics.StreamConnects.Inc()
}

// RecordReconnect increments the reconnect counter.
func RecordReconnect() {
	DefaultMetrics.StreamReconnects.Inc()
}

// RecordGracefulEnd increments the graceful close counter.
func RecordGracefulEnd() {
	DefaultMetrics.StreamGracefulEnds.Inc()
}

// RecordNotification increments the received notification counter.
func RecordNotification() {
	DefaultMetrics.NotificationsReceived.Inc()
}

// RecordClassified increments the classified counter for a variant.
func RecordClassified(variant string) {
	DefaultMetrics.NotificationsClassified.WithLabelValues(variant).Inc()
}

// RecordGatedOut increments the environment gate drop counter.
func RecordGatedOut() {
	DefaultMetrics.EventsGatedOut.Inc()
}

// RecordClassificationError increments the classification error counter.
func RecordClassificationError() {
	DefaultMetrics.ClassificationErrors.Inc()
}

// RecordQualified increments the qualified pool counter for a variant.
func RecordQualified(variant string) {
	DefaultMetrics.PoolsQualified.WithLabelValues(variant).Inc()
}

// RecordCriteriaFailure increments the failure counter for a criterion.
func RecordCriteriaFailure(criterion string) {
	DefaultMetrics.CriteriaFailures.WithLabelValues(criterion).Inc()
}

// RecordCacheHit increments the holder cache hit counter.
func RecordCacheHit() {
	DefaultMetrics.HolderCacheHits.Inc()
}

// RecordCacheMiss increments the holder cache miss counter.
func RecordCacheMiss() {
	DefaultMetrics.HolderCacheMisses.Inc()
}

// RecordRPCLatency records RPC call latency.
func RecordRPCLatency(method string, seconds float64) {
	DefaultMetrics.RPCCallLatency.WithLabelValues(method).Observe(seconds)
}

// RecordDBError records a database query error.
func RecordDBError(database, operation string) {
	DefaultMetrics.DBQueryErrors.WithLabelValues(database, operation).Inc()
}
