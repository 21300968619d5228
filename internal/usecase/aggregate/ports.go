package aggregate

import (
	"context"

	"combined-feed/internal/domain/entity"
)

// FeedFetcher is the feed-parsing collaborator.
// Fetch returns the entries of the feed at url in document order. A malformed or
// unreachable feed is reported as an error; the aggregator skips that source.
type FeedFetcher interface {
	Fetch(ctx context.Context, url string) ([]entity.SourceEntry, error)
}

// ArticleExtractor is content tier 1: download the page and run main-content
// extraction, returning plain article text.
//
// Implementations MUST bound the call with a timeout and SHOULD reject URLs that are
// not http(s). Errors are recovered by the ContentResolver.
type ArticleExtractor interface {
	Extract(ctx context.Context, url string) (string, error)
}

// PageFetcher is content tier 2: a direct GET of the page with its markup stripped
// to plain text.
type PageFetcher interface {
	FetchText(ctx context.Context, url string) (string, error)
}

// Summarizer turns a title and excerpt into a summary and topical tags.
// External implementations may fail; the Enricher downgrades any failure to the
// local summary for that entry.
type Summarizer interface {
	Summarize(ctx context.Context, title, excerpt string) (Enrichment, error)
}

// Enrichment is the summarizer output for one entry.
type Enrichment struct {
	Summary string
	Tags    []string
}
