package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var histogramBuckets = []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5}

var (
	IngestAccepted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tally_ingest_accepted_total",
		Help: "Events accepted by the ingestion endpoint and handed to the dispatcher.",
	})

	IngestRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tally_ingest_rejected_total",
		Help: "Ingest requests rejected before dispatch, labelled by reason.",
	}, []string{"reason"})

	EnqueueFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tally_enqueue_failures_total",
		Help: "Background queue inserts that failed after the caller was answered.",
	})

	EnqueueDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "tally_enqueue_duration_seconds",
		Help:    "Latency of background queue inserts.",
		Buckets: histogramBuckets,
	})

	BatchPasses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tally_batch_passes_total",
		Help: "Aggregation passes, labelled by outcome (ok, empty, error).",
	}, []string{"outcome"})

	BatchEntriesProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tally_batch_entries_processed_total",
		Help: "Queue entries claimed and written to the canonical table.",
	})

	BatchDaysAggregated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tally_batch_days_aggregated_total",
		Help: "(site, day) groups touched by aggregation passes.",
	})

	BatchFoldFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tally_batch_fold_failures_total",
		Help: "Per-group rollup writes that failed and were skipped.",
	})

	BatchMarkProcessedFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tally_batch_mark_processed_failures_total",
		Help: "Passes whose mark-processed step failed.",
	})

	StatsQueries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tally_stats_queries_total",
		Help: "Stats queries, labelled by scope (day, all) and cache result (hit, miss).",
	}, []string{"scope", "cache"})

	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tally_http_requests_total",
		Help: "Count of processed HTTP requests.",
	}, []string{"method", "route", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tally_http_request_duration_seconds",
		Help:    "Latency distribution of HTTP handlers.",
		Buckets: histogramBuckets,
	}, []string{"method", "route", "status"})
)
