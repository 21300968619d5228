// Package aggregate implements one aggregation pass: fetch every configured feed,
// drop duplicate entries by fingerprint, resolve each entry's text through the
// content tiers, normalize its timestamp, summarize it and collect the records.
package aggregate

import "errors"

// Sentinel errors for aggregation operations.
var (
	// ErrFeedFetchFailed indicates that fetching a feed from the source URL failed.
	// This can occur due to network issues, invalid URLs, or server errors.
	ErrFeedFetchFailed = errors.New("failed to fetch feed from source")

	// ErrInvalidFeedFormat indicates that the feed content could not be parsed.
	ErrInvalidFeedFormat = errors.New("invalid feed format")

	// ErrNoContent indicates a content tier completed but produced no text.
	ErrNoContent = errors.New("no content extracted")

	// ErrTierPanicked indicates a content collaborator panicked; the tier counts as failed.
	ErrTierPanicked = errors.New("content tier panicked")

	// ErrSummarizationFailed indicates the external summarizer could not produce a summary.
	ErrSummarizationFailed = errors.New("failed to summarize article content")

	// ErrEmptySummary indicates the summarizer returned no usable text.
	ErrEmptySummary = errors.New("summarizer returned empty summary")
)
