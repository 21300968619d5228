package aggregate

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"combined-feed/internal/domain/entity"
	"combined-feed/internal/observability/logging"
	"combined-feed/internal/observability/metrics"
	"combined-feed/internal/utils/text"
)

const (
	// DefaultSummaryChars is the local summary length.
	DefaultSummaryChars = 300

	// MaxTags caps the topical tags kept per record.
	MaxTags = 4
)

// LocalSummarizer summarizes by taking the first Limit characters of the excerpt.
// It never calls out and never fails.
type LocalSummarizer struct {
	Limit int
}

// NewLocalSummarizer creates a LocalSummarizer. A non-positive limit uses DefaultSummaryChars.
func NewLocalSummarizer(limit int) LocalSummarizer {
	if limit <= 0 {
		limit = DefaultSummaryChars
	}
	return LocalSummarizer{Limit: limit}
}

// Summarize implements Summarizer. Tags are always empty.
func (l LocalSummarizer) Summarize(_ context.Context, _ string, excerpt string) (Enrichment, error) {
	return Enrichment{Summary: text.Truncate(excerpt, l.Limit)}, nil
}

// Enricher combines an entry's title and resolved text into its summary and tags.
//
// With no external summarizer configured it runs in local mode. Otherwise it asks the
// external summarizer first and falls back to the local summary for that entry alone
// when the call errors, panics or returns nothing usable.
type Enricher struct {
	external Summarizer
	local    LocalSummarizer
}

// NewEnricher creates an Enricher. external may be nil for local mode.
func NewEnricher(external Summarizer, local LocalSummarizer) *Enricher {
	return &Enricher{external: external, local: local}
}

// Mode reports the configured mode: "external" or "local".
func (e *Enricher) Mode() string {
	if e.external != nil {
		return metrics.ModeExternal
	}
	return metrics.ModeLocal
}

// Enrich returns the summary and tags for one entry along with the mode that
// actually produced them (local, external, or degraded when the external call failed).
func (e *Enricher) Enrich(ctx context.Context, title, body, link string) (Enrichment, string) {
	start := time.Now()

	if e.external == nil {
		out, _ := e.local.Summarize(ctx, title, body)
		metrics.RecordSummary(metrics.ModeLocal, time.Since(start))
		return out, metrics.ModeLocal
	}

	out, err := e.summarizeExternal(ctx, title, body)
	if err != nil {
		logging.FromContext(ctx).Warn("external summarization failed, using local summary",
			slog.String("url", link),
			slog.String("title", title),
			slog.Any("error", err))
		local, _ := e.local.Summarize(ctx, title, body)
		metrics.RecordSummary(metrics.ModeDegraded, time.Since(start))
		return local, metrics.ModeDegraded
	}

	metrics.RecordSummary(metrics.ModeExternal, time.Since(start))
	return out, metrics.ModeExternal
}

func (e *Enricher) summarizeExternal(ctx context.Context, title, body string) (out Enrichment, err error) {
	defer func() {
		if p := recover(); p != nil {
			out, err = Enrichment{}, fmt.Errorf("%w: summarizer panicked: %v", ErrSummarizationFailed, p)
		}
	}()

	out, err = e.external.Summarize(ctx, title, body)
	if err != nil {
		return Enrichment{}, fmt.Errorf("%w: %w", ErrSummarizationFailed, err)
	}

	out.Summary = strings.TrimSpace(out.Summary)
	if out.Summary == "" {
		return Enrichment{}, ErrEmptySummary
	}
	out.Tags = entity.NormalizeTags(out.Tags)
	if len(out.Tags) > MaxTags {
		out.Tags = out.Tags[:MaxTags]
	}
	return out, nil
}
