package fetcher

import "errors"

// Sentinel errors for content fetching.
var (
	// ErrInvalidURL indicates the URL is malformed or uses a scheme other than http/https.
	ErrInvalidURL = errors.New("invalid URL")

	// ErrPrivateIP indicates the URL resolves to a private, loopback or link-local address.
	ErrPrivateIP = errors.New("private IP address not allowed")

	// ErrTooManyRedirects indicates the redirect limit was exceeded.
	ErrTooManyRedirects = errors.New("too many redirects")

	// ErrTimeout indicates the request exceeded its time budget.
	ErrTimeout = errors.New("request timeout")

	// ErrBodyTooLarge indicates the response body exceeded MaxBodySize.
	ErrBodyTooLarge = errors.New("response body too large")

	// ErrReadabilityFailed indicates main-content extraction produced nothing.
	ErrReadabilityFailed = errors.New("readability extraction failed")

	// ErrNoText indicates the page contained no visible text.
	ErrNoText = errors.New("page has no text")
)
