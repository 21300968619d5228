// Package resilience provides the fault tolerance patterns wrapped around every
// network call the aggregator makes.
//
// The package supports:
//   - Circuit breakers for external calls (feed fetches, article downloads, LLM APIs)
//   - Retry logic with exponential backoff and jitter
//
// Usage Example:
//
//	cb := circuitbreaker.New(circuitbreaker.ArticleFetchConfig())
//	text, err := circuitbreaker.Run(cb, func() (string, error) {
//	    return download(ctx, url)
//	})
//
//	err := retry.WithBackoff(ctx, retry.FeedFetchConfig(), func() error {
//	    return fetchFeed(ctx, url)
//	})
package resilience
