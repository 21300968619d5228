package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Content tiers, used as label values.
const (
	TierArticle = "article"
	TierPage    = "page"
	TierExcerpt = "excerpt"
)

// Summary modes, used as label values.
const (
	ModeLocal    = "local"
	ModeExternal = "external"
	ModeDegraded = "degraded"
)

// RecordSourceFetch records the outcome and duration of one feed fetch.
func RecordSourceFetch(success bool, duration time.Duration) {
	result := "success"
	if !success {
		result = "failure"
	}
	SourcesFetchedTotal.WithLabelValues(result).Inc()
	FeedFetchDuration.Observe(duration.Seconds())
}

// RecordEntrySeen counts one entry yielded by a parsed source.
func RecordEntrySeen() {
	EntriesSeenTotal.Inc()
}

// RecordDuplicate counts one entry dropped by the seen-set.
func RecordDuplicate() {
	EntriesDuplicateTotal.Inc()
}

// RecordDateFallback counts one unparseable timestamp.
func RecordDateFallback() {
	DateFallbackTotal.Inc()
}

// RecordContentResolved records which tier produced an entry's text.
func RecordContentResolved(tier string) {
	ContentResolvedTotal.WithLabelValues(tier).Inc()
}

// RecordContentTierFailure records a failed or empty tier attempt.
func RecordContentTierFailure(tier string) {
	ContentTierFailuresTotal.WithLabelValues(tier).Inc()
}

// RecordSummary records the mode that produced an entry's summary and how long it took.
func RecordSummary(mode string, duration time.Duration) {
	SummariesTotal.WithLabelValues(mode).Inc()
	SummarizationDuration.Observe(duration.Seconds())
}

// RecordRunCompleted records the size and duration of a run whose feed was written.
func RecordRunCompleted(records int, duration time.Duration) {
	RecordsPublished.Set(float64(records))
	RunDuration.Set(duration.Seconds())
	LastSuccessTimestamp.SetToCurrentTime()
}

// WriteTextfile writes every metric of the default gatherer to path in the
// Prometheus text exposition format, for the node-exporter textfile collector.
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, prometheus.DefaultGatherer); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
