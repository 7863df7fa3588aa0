package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the ingestion worker

var (
	// API call metrics
	APICallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nba_api_calls_total",
			Help: "Total number of NBA stats API calls",
		},
		[]string{"endpoint", "status"},
	)

	APICallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "nba_api_call_duration_seconds",
			Help:    "Duration of API calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	// Ingestion metrics
	DatesProcessed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nba_ingest_dates_processed_total",
			Help: "Total number of season dates walked",
		},
	)

	GamesFound = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nba_ingest_games_found_total",
			Help: "Total number of games discovered during date walks",
		},
	)

	BoxScoresInserted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nba_ingest_box_scores_inserted_total",
			Help: "Total number of box score rows persisted",
		},
	)

	DuplicatesSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nba_ingest_duplicates_skipped_total",
			Help: "Total number of duplicate box score rows skipped",
		},
		[]string{"layer"}, // memory, database, constraint
	)

	BatchFlushes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nba_ingest_batch_flushes_total",
			Help: "Total number of batch flushes",
		},
		[]string{"mode"}, // checked, unchecked, fallback
	)

	BatchFlushDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "nba_ingest_batch_flush_duration_seconds",
			Help:    "Duration of batch flushes in seconds",
			Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5},
		},
	)

	// Cache metrics
	CacheHitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nba_cache_hits_total",
			Help: "Total number of scoreboard cache hits",
		},
	)

	CacheMissesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nba_cache_misses_total",
			Help: "Total number of scoreboard cache misses",
		},
	)

	// Error metrics
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nba_errors_total",
			Help: "Total number of errors",
		},
		[]string{"component", "error_type"},
	)

	// System metrics
	SystemUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "nba_system_uptime_seconds",
			Help: "Worker uptime in seconds",
		},
	)

	LastSuccessfulRun = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "nba_last_successful_run_timestamp",
			Help: "Timestamp of the last completed ingestion run",
		},
	)
)

// RecordAPICall records an API call metric
func RecordAPICall(endpoint, status string, duration float64) {
	APICallsTotal.WithLabelValues(endpoint, status).Inc()
	APICallDuration.WithLabelValues(endpoint).Observe(duration)
}

// RecordBatchFlush records a batch flush and its duration
func RecordBatchFlush(mode string, duration float64) {
	BatchFlushes.WithLabelValues(mode).Inc()
	BatchFlushDuration.Observe(duration)
}

// RecordDuplicate records a duplicate skipped at the given layer
func RecordDuplicate(layer string, n int) {
	DuplicatesSkipped.WithLabelValues(layer).Add(float64(n))
}

// RecordError records an error
func RecordError(component, errorType string) {
	ErrorsTotal.WithLabelValues(component, errorType).Inc()
}

// RecordCacheHit records a scoreboard cache hit
func RecordCacheHit() {
	CacheHitsTotal.Inc()
}

// RecordCacheMiss records a scoreboard cache miss
func RecordCacheMiss() {
	CacheMissesTotal.Inc()
}
