package aggregate_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"combined-feed/internal/infra/fetcher"
	"combined-feed/internal/observability/metrics"
	"combined-feed/internal/usecase/aggregate"
)

const newsArticle = `<!DOCTYPE html>
<html>
<head><title>Startup raises seed round</title></head>
<body>
  <nav><a href="/">Home</a></nav>
  <article>
    <h1>Startup raises seed round</h1>
    <p>The wallet startup said on Tuesday that it had closed a seed round led by two
    early-stage funds, with participation from several angel investors in the sector.</p>
    <p>The company plans to use the capital to hire engineers and expand support for
    additional networks, starting with the most widely used layer two rollups.</p>
    <p>Its founders previously worked on payments infrastructure and said the product
    would focus on making self custody simpler for people new to digital assets.</p>
    <p>A public beta is expected later this quarter, followed by a wider launch once
    the team has completed an external security review of the signing components.</p>
  </article>
</body>
</html>`

func newResolverWithFetchers() *aggregate.ContentResolver {
	articleCfg := fetcher.DefaultConfig()
	articleCfg.Timeout = 2 * time.Second
	pageCfg := fetcher.PageConfig()
	pageCfg.Timeout = 2 * time.Second
	return aggregate.NewContentResolver(
		fetcher.NewReadabilityFetcher(articleCfg),
		fetcher.NewPageFetcher(pageCfg),
		aggregate.DefaultMaxArticleChars,
	)
}

func TestContentResolver_DeadLinksDoNotDegradeHealthyLinks(t *testing.T) {
	healthy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/gone/") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(newsArticle))
	}))
	defer healthy.Close()

	var downHits atomic.Int32
	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		downHits.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer down.Close()

	r := newResolverWithFetchers()
	ctx := context.Background()

	first := r.ResolveDetailed(ctx, healthy.URL+"/ok", "excerpt")
	require.Equal(t, metrics.TierArticle, first.Tier)

	// Missing pages on a healthy host are per-link failures.
	for i := 0; i < 10; i++ {
		res := r.ResolveDetailed(ctx, fmt.Sprintf("%s/gone/%d", healthy.URL, i), "excerpt")
		assert.Equal(t, metrics.TierExcerpt, res.Tier)
		assert.Equal(t, "excerpt", res.Text)
	}

	// A host that keeps failing with 503 only affects its own links.
	for i := 0; i < 10; i++ {
		res := r.ResolveDetailed(ctx, fmt.Sprintf("%s/post/%d", down.URL, i), "excerpt")
		assert.Equal(t, metrics.TierExcerpt, res.Tier)
	}
	hitsBefore := downHits.Load()
	res := r.ResolveDetailed(ctx, down.URL+"/post/fresh", "excerpt")
	assert.Equal(t, metrics.TierExcerpt, res.Tier)
	assert.Equal(t, hitsBefore, downHits.Load(), "open breaker must short-circuit the failing host")

	after := r.ResolveDetailed(ctx, healthy.URL+"/ok2", "excerpt")
	assert.Equal(t, metrics.TierArticle, after.Tier)
	assert.Equal(t, first.Text, after.Text)
}
