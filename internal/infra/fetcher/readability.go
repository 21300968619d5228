package fetcher

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-shiori/go-readability"

	"combined-feed/internal/observability/logging"
	"combined-feed/internal/resilience/circuitbreaker"
)

// ReadabilityFetcher is the article extraction tier. It downloads a page and runs
// Mozilla's Readability heuristics over it to recover the main article text.
//
// Thread safety: ReadabilityFetcher is safe for concurrent use.
type ReadabilityFetcher struct {
	client   *http.Client
	breakers *circuitbreaker.Group
	config   ContentFetchConfig
}

// NewReadabilityFetcher creates a ReadabilityFetcher with its own HTTP client and
// per-host circuit breakers.
//
// Example:
//
//	f := NewReadabilityFetcher(DefaultConfig())
//	text, err := f.Extract(ctx, "https://example.com/article")
func NewReadabilityFetcher(config ContentFetchConfig) *ReadabilityFetcher {
	return &ReadabilityFetcher{
		client:   newHTTPClient(config),
		breakers: hostBreakers(circuitbreaker.ArticleFetchConfig()),
		config:   config,
	}
}

// Extract fetches urlStr and returns the extracted article as plain text.
func (f *ReadabilityFetcher) Extract(ctx context.Context, urlStr string) (string, error) {
	if err := validateURL(urlStr, f.config.DenyPrivateIPs); err != nil {
		return "", err
	}

	return circuitbreaker.Run(f.breakers.For(urlStr), func() (string, error) {
		return f.doExtract(ctx, urlStr)
	})
}

func (f *ReadabilityFetcher) doExtract(ctx context.Context, urlStr string) (string, error) {
	p, err := download(ctx, f.client, f.config, urlStr)
	if err != nil {
		return "", err
	}

	article, err := readability.FromReader(bytes.NewReader(p.body), p.finalURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrReadabilityFailed, err)
	}

	text := strings.TrimSpace(article.TextContent)
	if text == "" {
		return "", fmt.Errorf("%w: no readable content found", ErrReadabilityFailed)
	}

	logging.FromContext(ctx).Debug("article extracted",
		slog.String("url", urlStr),
		slog.String("title", article.Title),
		slog.Int("length", len(text)))
	return text, nil
}
