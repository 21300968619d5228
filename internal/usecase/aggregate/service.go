package aggregate

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	"combined-feed/internal/domain/entity"
	"combined-feed/internal/observability/logging"
	"combined-feed/internal/observability/metrics"
	"combined-feed/internal/observability/tracing"
)

// RunStats contains statistics about one aggregation pass.
type RunStats struct {
	Sources           int
	FailedSources     int
	Entries           int
	Duplicates        int
	Records           int
	DegradedSummaries int
	ContentFallbacks  int
	DateFallbacks     int
	Duration          time.Duration
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithParallelism sets how many feeds are fetched, and how many entries enriched,
// at the same time. Values below 1 are treated as 1.
func WithParallelism(n int) Option {
	return func(a *Aggregator) {
		if n < 1 {
			n = 1
		}
		a.parallelism = n
	}
}

// WithDateNormalizer replaces the default date normalizer.
func WithDateNormalizer(d *DateNormalizer) Option {
	return func(a *Aggregator) {
		if d != nil {
			a.dates = d
		}
	}
}

// Aggregator runs one aggregation pass over an ordered list of feed URLs.
type Aggregator struct {
	feeds       FeedFetcher
	resolver    *ContentResolver
	enricher    *Enricher
	dates       *DateNormalizer
	parallelism int
}

// NewAggregator creates an Aggregator with the given collaborators.
func NewAggregator(feeds FeedFetcher, resolver *ContentResolver, enricher *Enricher, opts ...Option) *Aggregator {
	a := &Aggregator{
		feeds:       feeds,
		resolver:    resolver,
		enricher:    enricher,
		dates:       NewDateNormalizer(nil),
		parallelism: 1,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// sourceResult is the outcome of fetching one source, kept in its declared slot.
type sourceResult struct {
	entries []entity.SourceEntry
	err     error
}

// pendingEntry is a unique entry awaiting enrichment, tagged with its owning source.
type pendingEntry struct {
	entry  entity.SourceEntry
	source string
}

// enriched is the per-slot outcome of enriching one pending entry.
type enriched struct {
	record       entity.Record
	mode         string
	tier         string
	dateFallback bool
}

// Run fetches every source, deduplicates entries and enriches the survivors.
//
// Records come back in source order then entry order, and a fingerprint seen in
// several sources belongs to the earliest one. Both hold regardless of parallelism.
// Run never fails: an unreachable or malformed source is logged and skipped.
func (a *Aggregator) Run(ctx context.Context, sources []string) ([]entity.Record, RunStats) {
	ctx, span := tracing.GetTracer().Start(ctx, "aggregate.run")
	defer span.End()

	logger := logging.FromContext(ctx)
	start := time.Now()
	stats := RunStats{Sources: len(sources)}

	results := a.fetchAll(ctx, sources)

	seen := make(seenSet)
	pending := make([]pendingEntry, 0)
	for i, res := range results {
		if res.err != nil {
			stats.FailedSources++
			continue
		}
		for _, entry := range res.entries {
			stats.Entries++
			metrics.RecordEntrySeen()
			if !seen.claim(Fingerprint(entry)) {
				stats.Duplicates++
				metrics.RecordDuplicate()
				continue
			}
			pending = append(pending, pendingEntry{entry: entry, source: sources[i]})
		}
	}

	outcomes := a.enrichAll(ctx, pending)

	records := make([]entity.Record, 0, len(outcomes))
	for _, out := range outcomes {
		records = append(records, out.record)
		if out.mode == metrics.ModeDegraded {
			stats.DegradedSummaries++
		}
		if out.tier == metrics.TierExcerpt {
			stats.ContentFallbacks++
		}
		if out.dateFallback {
			stats.DateFallbacks++
		}
	}

	stats.Records = len(records)
	stats.Duration = time.Since(start)

	span.SetAttributes(
		attribute.Int("sources", stats.Sources),
		attribute.Int("failed_sources", stats.FailedSources),
		attribute.Int("records", stats.Records),
	)

	logger.Info("aggregation run completed",
		slog.Int("sources", stats.Sources),
		slog.Int("failed_sources", stats.FailedSources),
		slog.Int("entries", stats.Entries),
		slog.Int("duplicates", stats.Duplicates),
		slog.Int("records", stats.Records),
		slog.Int("degraded_summaries", stats.DegradedSummaries),
		slog.Int("content_fallbacks", stats.ContentFallbacks),
		slog.Int("date_fallbacks", stats.DateFallbacks),
		slog.Duration("duration", stats.Duration),
	)

	return records, stats
}

// fetchAll fetches every source into the slot matching its position.
func (a *Aggregator) fetchAll(ctx context.Context, sources []string) []sourceResult {
	results := make([]sourceResult, len(sources))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(a.parallelism)
	for i, src := range sources {
		eg.Go(func() error {
			results[i] = a.fetchSource(egCtx, src)
			return nil
		})
	}
	_ = eg.Wait()

	return results
}

func (a *Aggregator) fetchSource(ctx context.Context, src string) (res sourceResult) {
	ctx, span := tracing.GetTracer().Start(ctx, "aggregate.source")
	span.SetAttributes(attribute.String("source", src))
	defer span.End()

	logger := logging.FromContext(ctx)
	start := time.Now()

	defer func() {
		if p := recover(); p != nil {
			res = sourceResult{err: ErrFeedFetchFailed}
			logger.Error("feed fetcher panicked",
				slog.String("source", src),
				slog.Any("panic", p))
		}
		metrics.RecordSourceFetch(res.err == nil, time.Since(start))
		if res.err != nil {
			span.RecordError(res.err)
			span.SetStatus(codes.Error, "source failed")
		}
	}()

	entries, err := a.feeds.Fetch(ctx, src)
	if err != nil {
		logger.Warn("source failed, skipping",
			slog.String("source", src),
			slog.Any("error", err),
			slog.Duration("duration", time.Since(start)))
		return sourceResult{err: err}
	}

	span.SetAttributes(attribute.Int("entries", len(entries)))
	logger.Info("source fetched",
		slog.String("source", src),
		slog.Int("entries", len(entries)),
		slog.Duration("duration", time.Since(start)))
	return sourceResult{entries: entries}
}

// enrichAll enriches each pending entry into the slot matching its position.
func (a *Aggregator) enrichAll(ctx context.Context, pending []pendingEntry) []enriched {
	out := make([]enriched, len(pending))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(a.parallelism)
	for i, p := range pending {
		eg.Go(func() error {
			out[i] = a.enrichEntry(egCtx, p)
			return nil
		})
	}
	_ = eg.Wait()

	return out
}

func (a *Aggregator) enrichEntry(ctx context.Context, p pendingEntry) enriched {
	ctx, span := tracing.GetTracer().Start(ctx, "aggregate.entry")
	span.SetAttributes(
		attribute.String("source", p.source),
		attribute.String("link", p.entry.Link),
	)
	defer span.End()

	entry := p.entry

	body, tier := entry.ExcerptRaw, metrics.TierExcerpt
	if strings.TrimSpace(entry.Link) != "" {
		res := a.resolver.ResolveDetailed(ctx, entry.Link, entry.ExcerptRaw)
		body, tier = res.Text, res.Tier
	} else {
		metrics.RecordContentResolved(metrics.TierExcerpt)
	}

	published, fellBack := a.dates.NormalizeWithFallback(entry.PublishedRaw)
	if fellBack {
		metrics.RecordDateFallback()
		logging.FromContext(ctx).Warn("unparseable publication date, using current time",
			slog.String("link", entry.Link),
			slog.String("raw", entry.PublishedRaw))
	}

	enrichment, mode := a.enricher.Enrich(ctx, entry.Title, body, entry.Link)

	span.SetAttributes(
		attribute.String("content_tier", tier),
		attribute.String("summary_mode", mode),
	)

	return enriched{
		record:       entity.NewRecord(entry.Title, entry.Link, published, enrichment.Summary, enrichment.Tags, p.source),
		mode:         mode,
		tier:         tier,
		dateFallback: fellBack,
	}
}
