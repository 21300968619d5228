package aggregate

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"combined-feed/internal/observability/logging"
	"combined-feed/internal/observability/metrics"
	"combined-feed/internal/utils/text"
)

// DefaultMaxArticleChars bounds resolved article text.
const DefaultMaxArticleChars = 400

// TierResult is the explicit outcome of one content tier.
type TierResult struct {
	Tier string
	Text string
	Err  error
}

// OK reports whether the tier produced usable text.
func (r TierResult) OK() bool {
	return r.Err == nil && strings.TrimSpace(r.Text) != ""
}

// Resolution is the text chosen for an entry and the tier that produced it.
type Resolution struct {
	Text string
	Tier string
}

// ContentResolver produces the best available body text for an entry.
//
// Tiers, each attempted only when the previous one failed or came back empty:
//  1. article extraction (download + main-content heuristics)
//  2. plain page fetch with markup stripped
//  3. the feed-provided excerpt, returned unchanged
//
// Text from tiers 1 and 2 is cut to MaxChars characters. Resolve never returns an
// error and never lets a collaborator panic escape.
type ContentResolver struct {
	articles ArticleExtractor
	pages    PageFetcher
	maxChars int
}

// NewContentResolver creates a ContentResolver. Either tier collaborator may be nil,
// which disables that tier. A non-positive maxChars uses DefaultMaxArticleChars.
func NewContentResolver(articles ArticleExtractor, pages PageFetcher, maxChars int) *ContentResolver {
	if maxChars <= 0 {
		maxChars = DefaultMaxArticleChars
	}
	return &ContentResolver{
		articles: articles,
		pages:    pages,
		maxChars: maxChars,
	}
}

// MaxChars returns the configured bound on resolved text.
func (r *ContentResolver) MaxChars() int {
	return r.maxChars
}

// Resolve returns the resolved text for link, or fallbackExcerpt when no tier succeeds.
func (r *ContentResolver) Resolve(ctx context.Context, link, fallbackExcerpt string) string {
	return r.ResolveDetailed(ctx, link, fallbackExcerpt).Text
}

// ResolveDetailed is Resolve that also reports which tier produced the text.
func (r *ContentResolver) ResolveDetailed(ctx context.Context, link, fallbackExcerpt string) Resolution {
	logger := logging.FromContext(ctx)

	if strings.TrimSpace(link) == "" {
		metrics.RecordContentResolved(metrics.TierExcerpt)
		return Resolution{Text: fallbackExcerpt, Tier: metrics.TierExcerpt}
	}

	tiers := []struct {
		name string
		run  func(context.Context, string) (string, error)
	}{
		{name: metrics.TierArticle, run: r.extractArticle},
		{name: metrics.TierPage, run: r.fetchPage},
	}

	for _, tier := range tiers {
		start := time.Now()
		result := attempt(ctx, tier.name, link, tier.run)
		if result.OK() {
			metrics.RecordContentResolved(tier.name)
			logger.Debug("content resolved",
				slog.String("url", link),
				slog.String("tier", tier.name),
				slog.Int("length", text.CountRunes(result.Text)),
				slog.Duration("duration", time.Since(start)))
			return Resolution{Text: text.Truncate(result.Text, r.maxChars), Tier: tier.name}
		}

		metrics.RecordContentTierFailure(tier.name)
		logger.Warn("content tier failed, falling through",
			slog.String("url", link),
			slog.String("tier", tier.name),
			slog.Any("error", result.Err),
			slog.Duration("duration", time.Since(start)))
	}

	metrics.RecordContentResolved(metrics.TierExcerpt)
	return Resolution{Text: fallbackExcerpt, Tier: metrics.TierExcerpt}
}

func (r *ContentResolver) extractArticle(ctx context.Context, link string) (string, error) {
	if r.articles == nil {
		return "", fmt.Errorf("%w: article extraction disabled", ErrNoContent)
	}
	return r.articles.Extract(ctx, link)
}

func (r *ContentResolver) fetchPage(ctx context.Context, link string) (string, error) {
	if r.pages == nil {
		return "", fmt.Errorf("%w: page fetch disabled", ErrNoContent)
	}
	return r.pages.FetchText(ctx, link)
}

// attempt runs one tier and folds errors, empty text and panics into a TierResult.
func attempt(ctx context.Context, tier, link string, run func(context.Context, string) (string, error)) (result TierResult) {
	result.Tier = tier
	defer func() {
		if p := recover(); p != nil {
			result = TierResult{Tier: tier, Err: fmt.Errorf("%w: %v", ErrTierPanicked, p)}
		}
	}()

	body, err := run(ctx, link)
	if err != nil {
		return TierResult{Tier: tier, Err: err}
	}
	if strings.TrimSpace(body) == "" {
		return TierResult{Tier: tier, Err: ErrNoContent}
	}
	return TierResult{Tier: tier, Text: body}
}
