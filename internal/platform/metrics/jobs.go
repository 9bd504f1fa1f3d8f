package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(
		jobsStartedTotal,
		jobsFinishedTotal,
		jobDurationSeconds,
		jobsEvictedTotal,
		itemsProcessedTotal,
		itemDurationSeconds,
		webhookDeliveriesTotal,
	)
}

var (
	jobsStartedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "jobs_started_total",
			Help: "Number of background jobs that began processing.",
		},
	)

	jobsFinishedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobs_finished_total",
			Help: "Number of background jobs reaching a terminal state.",
		},
		[]string{"status"}, // 'completed', 'failed'
	)

	jobDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "job_duration_seconds",
			Help:    "Wall-clock duration of background jobs.",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600, 1200},
		},
		[]string{"status"},
	)

	jobsEvictedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "jobs_evicted_total",
			Help: "Number of stale job records removed by the janitor.",
		},
	)

	itemsProcessedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "job_items_processed_total",
			Help: "Number of batch items processed, labeled by outcome.",
		},
		[]string{"outcome"}, // 'ok', 'error', 'panic'
	)

	itemDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "job_item_duration_seconds",
			Help:    "Per-item processing latency.",
			Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60, 120, 300},
		},
		[]string{"outcome"},
	)

	webhookDeliveriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhook_deliveries_total",
			Help: "Webhook delivery attempts, labeled by event type and result.",
		},
		[]string{"event", "result"},
	)
)

// IncJobStarted counts a job entering the processing state.
func IncJobStarted() {
	jobsStartedTotal.Inc()
}

// ObserveJobFinished counts a terminal transition and records its duration.
func ObserveJobFinished(status string, d time.Duration) {
	jobsFinishedTotal.WithLabelValues(status).Inc()
	jobDurationSeconds.WithLabelValues(status).Observe(d.Seconds())
}

// AddJobsEvicted counts records removed by a janitor sweep.
func AddJobsEvicted(n int) {
	jobsEvictedTotal.Add(float64(n))
}

// ObserveItemProcessed counts one finished batch item and its latency.
func ObserveItemProcessed(outcome string, d time.Duration) {
	itemsProcessedTotal.WithLabelValues(outcome).Inc()
	itemDurationSeconds.WithLabelValues(outcome).Observe(d.Seconds())
}

// IncWebhookDelivery counts one webhook delivery attempt.
func IncWebhookDelivery(event, result string) {
	webhookDeliveriesTotal.WithLabelValues(event, result).Inc()
}
