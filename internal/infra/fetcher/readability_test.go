package fetcher_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"combined-feed/internal/infra/fetcher"
	"combined-feed/internal/resilience/retry"
)

const articleHTML = `<!DOCTYPE html>
<html>
<head><title>Exchange lists new token</title></head>
<body>
  <nav><a href="/">Home</a> <a href="/markets">Markets</a></nav>
  <article>
    <h1>Exchange lists new token</h1>
    <p>The exchange announced on Monday that it will list the token for spot trading,
    following weeks of speculation among traders and a review by its listing committee.</p>
    <p>Deposits open immediately, with withdrawals enabled once liquidity meets the
    exchange's thresholds. Market makers have committed to tight spreads at launch.</p>
    <p>The company said additional trading pairs would follow in the coming weeks as
    part of its broader expansion into new digital asset markets across the region.</p>
    <p>Analysts noted that listings on major venues have historically brought a short
    burst of volume, though the lasting effect on price has varied widely by asset.</p>
  </article>
  <footer>Copyright</footer>
</body>
</html>`

func testConfig() fetcher.ContentFetchConfig {
	cfg := fetcher.DefaultConfig()
	cfg.Timeout = 2 * time.Second
	return cfg
}

func TestExtract_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, fetcher.DefaultUserAgent, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(articleHTML))
	}))
	defer server.Close()

	text, err := fetcher.NewReadabilityFetcher(testConfig()).Extract(context.Background(), server.URL+"/post")

	require.NoError(t, err)
	assert.Contains(t, text, "list the token for spot trading")
	assert.NotContains(t, text, "<p>")
}

func TestExtract_InvalidScheme(t *testing.T) {
	for _, u := range []string{"ftp://example.com/a", "file:///etc/passwd", "javascript:alert(1)", "://bad"} {
		_, err := fetcher.NewReadabilityFetcher(testConfig()).Extract(context.Background(), u)
		assert.ErrorIs(t, err, fetcher.ErrInvalidURL, "url=%q", u)
	}
}

func TestExtract_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "missing", http.StatusNotFound)
	}))
	defer server.Close()

	_, err := fetcher.NewReadabilityFetcher(testConfig()).Extract(context.Background(), server.URL)

	var httpErr *retry.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusNotFound, httpErr.StatusCode)
}

func TestExtract_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	}))
	defer server.Close()

	cfg := testConfig()
	cfg.Timeout = 100 * time.Millisecond

	start := time.Now()
	_, err := fetcher.NewReadabilityFetcher(cfg).Extract(context.Background(), server.URL)

	assert.Error(t, err)
	assert.Less(t, time.Since(start), time.Second)
}

func TestExtract_BodyTooLarge(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("a", 4096)))
	}))
	defer server.Close()

	cfg := testConfig()
	cfg.MaxBodySize = 1024

	_, err := fetcher.NewReadabilityFetcher(cfg).Extract(context.Background(), server.URL)

	assert.ErrorIs(t, err, fetcher.ErrBodyTooLarge)
}

func TestExtract_TooManyRedirects(t *testing.T) {
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, server.URL+r.URL.Path+"x", http.StatusFound)
	}))
	defer server.Close()

	cfg := testConfig()
	cfg.MaxRedirects = 2

	_, err := fetcher.NewReadabilityFetcher(cfg).Extract(context.Background(), server.URL+"/r")

	assert.ErrorIs(t, err, fetcher.ErrTooManyRedirects)
}

func TestExtract_DenyPrivateIPs(t *testing.T) {
	cfg := testConfig()
	cfg.DenyPrivateIPs = true

	_, err := fetcher.NewReadabilityFetcher(cfg).Extract(context.Background(), "http://127.0.0.1:1/article")

	assert.ErrorIs(t, err, fetcher.ErrPrivateIP)
}

func TestExtract_NoReadableContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body></body></html>`))
	}))
	defer server.Close()

	_, err := fetcher.NewReadabilityFetcher(testConfig()).Extract(context.Background(), server.URL)

	assert.Error(t, err)
}
