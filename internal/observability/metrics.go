// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Search metrics
	SearchesTotal      *prometheus.CounterVec
	AttemptsTotal      *prometheus.CounterVec
	AttemptDuration    *prometheus.HistogramVec
	SamplesEvaluated   prometheus.Counter
	CandidatesAccepted prometheus.Counter
	Rejections         *prometheus.CounterVec
	Refinements        *prometheus.CounterVec

	// Cache metrics
	CacheLookups *prometheus.CounterVec
	CacheEntries *prometheus.GaugeVec

	// Ephemeris metrics
	EphemerisLatency *prometheus.HistogramVec
	EphemerisErrors  *prometheus.CounterVec

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec

	// Boundary metrics
	HTTPRequests    *prometheus.CounterVec
	ActiveStreams   prometheus.Gauge
	EventsPublished *prometheus.CounterVec

	// Health metrics
	LastSuccessfulSearch prometheus.Gauge
}

// NewMetrics creates a new Metrics instance registered with the default registry.
func NewMetrics(namespace string) *Metrics {
	return NewMetricsWithRegistry(namespace, prometheus.DefaultRegisterer)
}

// NewMetricsWithRegistry creates a Metrics instance registered with reg.
func NewMetricsWithRegistry(namespace string, reg prometheus.Registerer) *Metrics {
	if namespace == "" {
		namespace = "rectification_lab"
	}
	f := promauto.With(reg)

	return &Metrics{
		// Search metrics
		SearchesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "runs_total",
			Help:      "Total number of searches by outcome",
		}, []string{"outcome"}),
		AttemptsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "attempts_total",
			Help:      "Total number of search attempts by fallback state and result",
		}, []string{"state", "result"}),
		AttemptDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "attempt_duration_seconds",
			Help:      "Search attempt duration in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"state"}),
		SamplesEvaluated: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "samples_evaluated_total",
			Help:      "Total number of time samples run through the hard filter",
		}),
		CandidatesAccepted: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "candidates_accepted_total",
			Help:      "Total number of samples accepted by the hard filter",
		}),
		Rejections: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "rejections_total",
			Help:      "Total number of rejected samples by failing gate",
		}, []string{"class"}),
		Refinements: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "refinements_total",
			Help:      "Total number of pala-level refinements by result",
		}, []string{"result"}),

		// Cache metrics
		CacheLookups: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "lookups_total",
			Help:      "Cache lookups by cache and serving tier",
		}, []string{"cache", "tier"}),
		CacheEntries: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "entries",
			Help:      "Current number of in-memory cache entries",
		}, []string{"cache"}),

		// Ephemeris metrics
		EphemerisLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "ephemeris",
			Name:      "call_latency_seconds",
			Help:      "Ephemeris call latency in seconds",
			Buckets:   []float64{1e-6, 1e-5, 1e-4, 1e-3, 1e-2, 0.1},
		}, []string{"method"}),
		EphemerisErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ephemeris",
			Name:      "errors_total",
			Help:      "Total number of failed ephemeris calls",
		}, []string{"method"}),

		// Database metrics
		DBQueryDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"database", "operation"}),
		DBQueryErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_errors_total",
			Help:      "Total number of database query errors",
		}, []string{"database", "operation"}),

		// Boundary metrics
		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by route and status code",
		}, []string{"route", "code"}),
		ActiveStreams: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "active_streams",
			Help:      "Number of open WebSocket search streams",
		}),
		EventsPublished: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "events",
			Name:      "published_total",
			Help:      "Total number of search events published by status",
		}, []string{"status"}),

		// Health metrics
		LastSuccessfulSearch: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_search_timestamp",
			Help:      "Unix timestamp of last search that returned candidates",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordSearch records a finished search.
func RecordSearch(outcome string) {
	DefaultMetrics.SearchesTotal.WithLabelValues(outcome).Inc()
	if outcome == "found" {
		DefaultMetrics.LastSuccessfulSearch.SetToCurrentTime()
	}
}

// RecordAttempt records one fallback attempt.
func RecordAttempt(state string, accepted int, d time.Duration) {
	result := "empty"
	if accepted > 0 {
		result = "found"
	}
	DefaultMetrics.AttemptsTotal.WithLabelValues(state, result).Inc()
	DefaultMetrics.AttemptDuration.WithLabelValues(state).Observe(d.Seconds())
}

// RecordSample records one hard-filter evaluation. class is empty when accepted.
func RecordSample(class string) {
	DefaultMetrics.SamplesEvaluated.Inc()
	if class == "" {
		DefaultMetrics.CandidatesAccepted.Inc()
		return
	}
	DefaultMetrics.Rejections.WithLabelValues(class).Inc()
}

// RecordRefinement records a refinement result: improved, unchanged or flipped.
func RecordRefinement(result string) {
	DefaultMetrics.Refinements.WithLabelValues(result).Inc()
}

// RecordCacheLookup records which tier served a cache lookup.
func RecordCacheLookup(cache, tier string) {
	DefaultMetrics.CacheLookups.WithLabelValues(cache, tier).Inc()
}

// UpdateCacheEntries sets the in-memory entry count of a cache.
func UpdateCacheEntries(cache string, n int) {
	DefaultMetrics.CacheEntries.WithLabelValues(cache).Set(float64(n))
}

// RecordEphemerisCall records ephemeris call latency and failures.
func RecordEphemerisCall(method string, d time.Duration, err error) {
	DefaultMetrics.EphemerisLatency.WithLabelValues(method).Observe(d.Seconds())
	if err != nil {
		DefaultMetrics.EphemerisErrors.WithLabelValues(method).Inc()
	}
}

// RecordDBQuery records database query metrics.
func RecordDBQuery(database, operation string, seconds float64, err error) {
	DefaultMetrics.DBQueryDuration.WithLabelValues(database, operation).Observe(seconds)
	if err != nil {
		DefaultMetrics.DBQueryErrors.WithLabelValues(database, operation).Inc()
	}
}

// RecordHTTPRequest records a served request.
func RecordHTTPRequest(route string, code int) {
	DefaultMetrics.HTTPRequests.WithLabelValues(route, httpCode(code)).Inc()
}

// StreamOpened increments the active stream gauge; the returned func decrements it.
func StreamOpened() func() {
	DefaultMetrics.ActiveStreams.Inc()
	return DefaultMetrics.ActiveStreams.Dec
}

// RecordEventPublished records an event publish attempt.
func RecordEventPublished(err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	DefaultMetrics.EventsPublished.WithLabelValues(status).Inc()
}

func httpCode(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
