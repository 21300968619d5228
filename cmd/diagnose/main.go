// Command diagnose probes every configured feed source and prints a JSON report
// of which feeds are reachable and parseable. Logs go to stderr.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"golang.org/x/time/rate"

	"combined-feed/internal/config"
	"combined-feed/internal/infra/scraper"
	"combined-feed/internal/observability/logging"
	"combined-feed/internal/usecase/aggregate"
)

// Diagnostic statuses.
const (
	StatusOK         = "OK"
	StatusRedirect   = "REDIRECT"
	StatusHTTPError  = "HTTP_ERROR"
	StatusTimeout    = "TIMEOUT"
	StatusReadError  = "READ_ERROR"
	StatusParseError = "PARSE_ERROR"
	StatusEmpty      = "EMPTY"
)

const maxDiagnoseBody = 20 * 1024 * 1024

// FeedDiagnostic is the result for a single feed.
type FeedDiagnostic struct {
	URL          string `json:"url"`
	Status       string `json:"status"`
	HTTPCode     int    `json:"http_code"`
	ItemCount    int    `json:"item_count"`
	LatestDate   string `json:"latest_date,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
	RedirectURL  string `json:"redirect_url,omitempty"`
	ResponseTime int64  `json:"response_time_ms"`
}

// Healthy reports whether the aggregator can use the feed.
func (d FeedDiagnostic) Healthy() bool {
	return d.Status == StatusOK || d.Status == StatusRedirect
}

func main() {
	logger := logging.New(os.Stderr)

	cfg, err := config.Load(logger, nil)
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	client := scraper.NewHTTPClient(cfg.FeedTimeout)
	// One request every 500ms to be polite to shared hosts.
	limiter := rate.NewLimiter(rate.Every(500*time.Millisecond), 1)

	ctx := context.Background()
	diagnostics := make([]FeedDiagnostic, 0, len(cfg.Sources))
	for i, src := range cfg.Sources {
		if err := limiter.Wait(ctx); err != nil {
			break
		}
		logger.Info("diagnosing feed",
			slog.Int("index", i+1),
			slog.Int("total", len(cfg.Sources)),
			slog.String("url", src))
		diagnostics = append(diagnostics, diagnoseFeed(ctx, client, src))
	}

	healthy := 0
	for _, d := range diagnostics {
		if d.Healthy() {
			healthy++
		}
	}
	logger.Info("diagnosis complete",
		slog.Int("healthy", healthy),
		slog.Int("broken", len(diagnostics)-healthy))

	if err := writeReport(os.Stdout, diagnostics); err != nil {
		logger.Error("failed to write report", slog.Any("error", err))
		os.Exit(1)
	}
}

func diagnoseFeed(ctx context.Context, client *http.Client, url string) FeedDiagnostic {
	diag := FeedDiagnostic{URL: url}
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		diag.Status = StatusHTTPError
		diag.ErrorMessage = err.Error()
		return diag
	}
	req.Header.Set("User-Agent", scraper.DefaultUserAgent)
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/xml, text/xml")

	resp, err := client.Do(req)
	diag.ResponseTime = time.Since(start).Milliseconds()
	if err != nil {
		var netErr interface{ Timeout() bool }
		if errors.As(err, &netErr) && netErr.Timeout() {
			diag.Status = StatusTimeout
		} else {
			diag.Status = StatusHTTPError
		}
		diag.ErrorMessage = err.Error()
		return diag
	}
	defer func() { _ = resp.Body.Close() }()

	diag.HTTPCode = resp.StatusCode
	if final := resp.Request.URL.String(); final != url {
		diag.RedirectURL = final
	}

	if resp.StatusCode != http.StatusOK {
		diag.Status = StatusHTTPError
		diag.ErrorMessage = fmt.Sprintf("HTTP %d", resp.StatusCode)
		return diag
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDiagnoseBody))
	if err != nil {
		diag.Status = StatusReadError
		diag.ErrorMessage = err.Error()
		return diag
	}

	entries, err := scraper.ParseFeed(ctx, bytes.NewReader(body), url)
	if err != nil {
		diag.Status = StatusParseError
		diag.ErrorMessage = err.Error()
		return diag
	}

	diag.ItemCount = len(entries)
	if len(entries) == 0 {
		diag.Status = StatusEmpty
		diag.ErrorMessage = "feed has no items"
		return diag
	}

	var latest time.Time
	for _, e := range entries {
		if t, err := aggregate.ParseDate(e.PublishedRaw); err == nil && t.After(latest) {
			latest = t
		}
	}
	if !latest.IsZero() {
		diag.LatestDate = latest.Format(time.RFC3339)
	}

	diag.Status = StatusOK
	if diag.RedirectURL != "" {
		diag.Status = StatusRedirect
	}
	return diag
}

func writeReport(w io.Writer, diagnostics []FeedDiagnostic) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(diagnostics)
}
