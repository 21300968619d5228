package fetcher

import (
	"fmt"
	"time"
)

// DefaultUserAgent identifies the aggregator to the sites it reads.
const DefaultUserAgent = "CombinedFeedBot/1.0"

// ContentFetchConfig controls one content tier's HTTP behavior.
type ContentFetchConfig struct {
	// Timeout bounds a single request, including reading the body.
	Timeout time.Duration

	// MaxBodySize is enforced while reading, not from Content-Length.
	MaxBodySize int64

	// MaxRedirects is checked on every hop; each target is validated like the original URL.
	MaxRedirects int

	// DenyPrivateIPs rejects URLs that resolve to private addresses.
	DenyPrivateIPs bool

	UserAgent string
}

// DefaultConfig returns the configuration for article extraction.
func DefaultConfig() ContentFetchConfig {
	return ContentFetchConfig{
		Timeout:      15 * time.Second,
		MaxBodySize:  10 * 1024 * 1024, // 10MB
		MaxRedirects: 5,
		UserAgent:    DefaultUserAgent,
	}
}

// PageConfig returns the configuration for the plain page fetch tier.
func PageConfig() ContentFetchConfig {
	cfg := DefaultConfig()
	cfg.Timeout = 8 * time.Second
	return cfg
}

// Validate checks that the configuration values are usable.
func (c *ContentFetchConfig) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}

	minBodySize := int64(1024)              // 1KB
	maxBodySize := int64(100 * 1024 * 1024) // 100MB
	if c.MaxBodySize < minBodySize || c.MaxBodySize > maxBodySize {
		return fmt.Errorf("max body size must be between %d and %d bytes, got %d", minBodySize, maxBodySize, c.MaxBodySize)
	}

	if c.MaxRedirects < 0 || c.MaxRedirects > 10 {
		return fmt.Errorf("max redirects must be between 0 and 10, got %d", c.MaxRedirects)
	}

	return nil
}
