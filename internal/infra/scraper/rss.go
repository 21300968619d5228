// Package scraper fetches and parses the configured RSS/Atom sources.
// It uses the gofeed library to parse feed content with reliability patterns.
package scraper

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/sony/gobreaker"

	"combined-feed/internal/domain/entity"
	"combined-feed/internal/observability/logging"
	"combined-feed/internal/resilience/circuitbreaker"
	"combined-feed/internal/resilience/retry"
	"combined-feed/internal/usecase/aggregate"
)

const (
	// DefaultUserAgent is sent with every feed request.
	DefaultUserAgent = "CombinedFeedBot/1.0"

	// DefaultMaxFeedSize bounds a feed document.
	DefaultMaxFeedSize int64 = 20 * 1024 * 1024
)

// NewHTTPClient creates the HTTP client for feed requests, with connection pooling
// and TLS 1.2+ enforced.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
		},
	}
}

// RSSFetcher implements aggregate.FeedFetcher using the gofeed library.
// It includes circuit breaker and retry logic for improved reliability.
// Breakers are kept per host so one dead publisher cannot block the others.
type RSSFetcher struct {
	client      *http.Client
	retryConfig retry.Config
	userAgent   string
	maxSize     int64

	breakers *circuitbreaker.Group
}

// Option configures an RSSFetcher.
type Option func(*RSSFetcher)

// WithRetryConfig overrides the retry policy.
func WithRetryConfig(cfg retry.Config) Option {
	return func(f *RSSFetcher) { f.retryConfig = cfg }
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *RSSFetcher) { f.userAgent = ua }
}

// WithMaxFeedSize overrides the feed body size limit.
func WithMaxFeedSize(n int64) Option {
	return func(f *RSSFetcher) { f.maxSize = n }
}

// NewRSSFetcher creates a new RSSFetcher with the given HTTP client.
// It automatically configures circuit breaker and retry logic.
func NewRSSFetcher(client *http.Client, opts ...Option) *RSSFetcher {
	f := &RSSFetcher{
		client:      client,
		retryConfig: retry.FeedFetchConfig(),
		userAgent:   DefaultUserAgent,
		maxSize:     DefaultMaxFeedSize,
		breakers:    circuitbreaker.NewGroup(circuitbreaker.FeedFetchConfig()),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch retrieves and parses an RSS/Atom feed from the given URL and returns its
// entries in document order. A URL that is not absolute http(s) fails at once
// with aggregate.ErrFeedFetchFailed, without retry.
func (f *RSSFetcher) Fetch(ctx context.Context, feedURL string) ([]entity.SourceEntry, error) {
	if err := entity.ValidateURL("source", feedURL); err != nil {
		return nil, fmt.Errorf("%w: %w", aggregate.ErrFeedFetchFailed, err)
	}

	var entries []entity.SourceEntry
	cb := f.breakers.For(feedURL)

	retryErr := retry.WithBackoff(ctx, f.retryConfig, func() error {
		result, err := circuitbreaker.Run(cb, func() ([]entity.SourceEntry, error) {
			return f.doFetch(ctx, feedURL)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) {
				logging.FromContext(ctx).Warn("feed fetch circuit breaker open, request rejected",
					slog.String("service", "feed-fetch"),
					slog.String("url", feedURL),
					slog.String("state", cb.State().String()))
			}
			return err
		}
		entries = result
		return nil
	})

	if retryErr != nil {
		return nil, retryErr
	}
	return entries, nil
}

// doFetch performs the actual feed fetch without retry or circuit breaker.
func (f *RSSFetcher) doFetch(ctx context.Context, feedURL string) ([]entity.SourceEntry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", aggregate.ErrFeedFetchFailed, err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/xml;q=0.9, */*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", aggregate.ErrFeedFetchFailed, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: %w", aggregate.ErrFeedFetchFailed,
			&retry.HTTPError{StatusCode: resp.StatusCode, Message: resp.Status})
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", aggregate.ErrFeedFetchFailed, err)
	}
	if int64(len(body)) > f.maxSize {
		return nil, fmt.Errorf("%w: feed exceeds %d bytes", aggregate.ErrInvalidFeedFormat, f.maxSize)
	}

	return ParseFeed(ctx, bytes.NewReader(body), feedURL)
}

// ParseFeed parses an RSS or Atom document into source entries.
// A document gofeed cannot recognize is reported as aggregate.ErrInvalidFeedFormat.
func ParseFeed(ctx context.Context, r io.Reader, sourceURL string) ([]entity.SourceEntry, error) {
	feed, err := gofeed.NewParser().Parse(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", aggregate.ErrInvalidFeedFormat, err)
	}

	entries := make([]entity.SourceEntry, 0, len(feed.Items))
	for _, it := range feed.Items {
		if it == nil {
			continue
		}
		entries = append(entries, entity.SourceEntry{
			Title:        strings.TrimSpace(it.Title),
			Link:         strings.TrimSpace(it.Link),
			PublishedRaw: publishedRaw(it),
			ExcerptRaw:   excerptRaw(it),
			SourceURL:    sourceURL,
		})
	}
	return entries, nil
}

// publishedRaw prefers the published stamp and falls back to updated.
// When only a parsed value exists it is rendered as RFC 3339.
func publishedRaw(it *gofeed.Item) string {
	switch {
	case strings.TrimSpace(it.Published) != "":
		return it.Published
	case strings.TrimSpace(it.Updated) != "":
		return it.Updated
	case it.PublishedParsed != nil:
		return it.PublishedParsed.UTC().Format(time.RFC3339)
	case it.UpdatedParsed != nil:
		return it.UpdatedParsed.UTC().Format(time.RFC3339)
	}
	return ""
}

// excerptRaw is the entry's summary, else its full content.
func excerptRaw(it *gofeed.Item) string {
	if strings.TrimSpace(it.Description) != "" {
		return it.Description
	}
	return it.Content
}
