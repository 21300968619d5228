package fetcher_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"combined-feed/internal/infra/fetcher"
)

func TestDefaultConfig(t *testing.T) {
	cfg := fetcher.DefaultConfig()

	assert.Equal(t, 15*time.Second, cfg.Timeout)
	assert.Equal(t, int64(10*1024*1024), cfg.MaxBodySize)
	assert.Equal(t, 5, cfg.MaxRedirects)
	assert.False(t, cfg.DenyPrivateIPs)
	assert.Equal(t, fetcher.DefaultUserAgent, cfg.UserAgent)
	assert.NoError(t, cfg.Validate())
}

func TestConfigValidate_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*fetcher.ContentFetchConfig)
	}{
		{"zero timeout", func(c *fetcher.ContentFetchConfig) { c.Timeout = 0 }},
		{"negative timeout", func(c *fetcher.ContentFetchConfig) { c.Timeout = -time.Second }},
		{"body too small", func(c *fetcher.ContentFetchConfig) { c.MaxBodySize = 100 }},
		{"body too large", func(c *fetcher.ContentFetchConfig) { c.MaxBodySize = 200 * 1024 * 1024 }},
		{"negative redirects", func(c *fetcher.ContentFetchConfig) { c.MaxRedirects = -1 }},
		{"too many redirects", func(c *fetcher.ContentFetchConfig) { c.MaxRedirects = 11 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := fetcher.DefaultConfig()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
