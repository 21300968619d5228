package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Source-level metrics.
var (
	SourcesFetchedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aggregator_sources_fetched_total",
			Help: "Total number of feed source fetches by result",
		},
		[]string{"result"}, // result: success, failure
	)

	FeedFetchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "aggregator_feed_fetch_duration_seconds",
			Help:    "Time taken to fetch and parse a feed source",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
		},
	)
)

// Entry-level metrics.
var (
	EntriesSeenTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "aggregator_entries_seen_total",
			Help: "Total number of entries yielded by successfully parsed sources",
		},
	)

	EntriesDuplicateTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "aggregator_entries_duplicate_total",
			Help: "Total number of entries dropped because their fingerprint was already seen",
		},
	)

	DateFallbackTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "aggregator_date_fallback_total",
			Help: "Total number of entries whose timestamp could not be parsed and defaulted to now",
		},
	)

	ContentResolvedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aggregator_content_resolved_total",
			Help: "Total number of entries by the content tier that produced their text",
		},
		[]string{"tier"}, // tier: article, page, excerpt
	)

	ContentTierFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aggregator_content_tier_failures_total",
			Help: "Total number of content tier attempts that failed or returned no text",
		},
		[]string{"tier"},
	)

	SummariesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aggregator_summaries_total",
			Help: "Total number of summaries produced by mode",
		},
		[]string{"mode"}, // mode: local, external, degraded
	)

	SummarizationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "aggregator_summarization_duration_seconds",
			Help:    "Time taken by the summarizer for one entry",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		},
	)
)

// Run-level metrics.
var (
	RecordsPublished = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "aggregator_records_published",
			Help: "Number of items written to the output feed by the last run",
		},
	)

	RunDuration = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "aggregator_run_duration_seconds",
			Help: "Wall-clock duration of the last aggregation run",
		},
	)

	LastSuccessTimestamp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "aggregator_last_success_timestamp_seconds",
			Help: "Unix timestamp of the last run that wrote its output feed",
		},
	)
)
