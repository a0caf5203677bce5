package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the synchronization engine

var (
	// Provider call metrics
	ProviderCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "oddins_provider_calls_total",
			Help: "Total number of provider API calls",
		},
		[]string{"endpoint", "status"},
	)

	ProviderCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "oddins_provider_call_duration_seconds",
			Help:    "Duration of provider API calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	// Job metrics
	JobRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "oddins_job_runs_total",
			Help: "Total number of sync job runs",
		},
		[]string{"job", "status"},
	)

	JobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "oddins_job_duration_seconds",
			Help:    "Duration of sync job runs in seconds",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600},
		},
		[]string{"job"},
	)

	ItemsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "oddins_items_processed_total",
			Help: "Total number of provider items reconciled",
		},
		[]string{"job"},
	)

	ItemsSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "oddins_items_skipped_total",
			Help: "Total number of provider items skipped after item-level failures",
		},
		[]string{"job"},
	)

	LockContention = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "oddins_lock_contention_total",
			Help: "Job runs skipped because the advisory lock was already held",
		},
		[]string{"job"},
	)

	LastSuccessfulSync = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "oddins_last_successful_sync_timestamp",
			Help: "Unix timestamp of the last successful run per job",
		},
		[]string{"job"},
	)

	MatchesDeleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "oddins_matches_deleted_total",
			Help: "Matches removed by the retention cleanup job",
		},
	)

	// System metrics
	SystemUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "oddins_system_uptime_seconds",
			Help: "System uptime in seconds",
		},
	)
)

// RecordProviderCall records one provider API call.
func RecordProviderCall(endpoint, status string, duration float64) {
	ProviderCallsTotal.WithLabelValues(endpoint, status).Inc()
	ProviderCallDuration.WithLabelValues(endpoint).Observe(duration)
}

// RecordJobRun records the outcome of one job invocation.
func RecordJobRun(job, status string, duration float64) {
	JobRunsTotal.WithLabelValues(job, status).Inc()
	JobDuration.WithLabelValues(job).Observe(duration)

	if status == "success" {
		LastSuccessfulSync.WithLabelValues(job).SetToCurrentTime()
	}
}

// RecordItems records per-item counters for one job run.
func RecordItems(job string, processed, skipped int) {
	ItemsProcessed.WithLabelValues(job).Add(float64(processed))
	ItemsSkipped.WithLabelValues(job).Add(float64(skipped))
}

// RecordLockContention records a run skipped because the lock was held.
func RecordLockContention(job string) {
	LockContention.WithLabelValues(job).Inc()
}
