package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"combined-feed/internal/infra/scraper"
)

const diagFeed = `<?xml version="1.0"?>
<rss version="2.0"><channel><title>t</title>
<item><title>older</title><link>https://x.example/1</link><pubDate>Mon, 01 Jan 2024 10:00:00 GMT</pubDate></item>
<item><title>newer</title><link>https://x.example/2</link><pubDate>Tue, 02 Jan 2024 10:00:00 GMT</pubDate></item>
</channel></rss>`

func TestDiagnoseFeed(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/feed", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(diagFeed))
	})
	mux.HandleFunc("/moved", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/feed", http.StatusMovedPermanently)
	})
	mux.HandleFunc("/empty", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<rss version="2.0"><channel><title>t</title></channel></rss>`))
	})
	mux.HandleFunc("/html", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html><body>not a feed</body></html>"))
	})
	mux.HandleFunc("/gone", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusGone)
	})
	mux.HandleFunc("/slow", func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := scraper.NewHTTPClient(100 * time.Millisecond)

	tests := []struct {
		path   string
		status string
		items  int
	}{
		{"/feed", StatusOK, 2},
		{"/moved", StatusRedirect, 2},
		{"/empty", StatusEmpty, 0},
		{"/html", StatusParseError, 0},
		{"/gone", StatusHTTPError, 0},
		{"/slow", StatusTimeout, 0},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			d := diagnoseFeed(context.Background(), client, server.URL+tt.path)
			assert.Equal(t, tt.status, d.Status, d.ErrorMessage)
			assert.Equal(t, tt.items, d.ItemCount)
		})
	}

	ok := diagnoseFeed(context.Background(), client, server.URL+"/feed")
	assert.Equal(t, "2024-01-02T10:00:00Z", ok.LatestDate)
	assert.True(t, ok.Healthy())

	moved := diagnoseFeed(context.Background(), client, server.URL+"/moved")
	assert.Equal(t, server.URL+"/feed", moved.RedirectURL)
}

func TestWriteReport(t *testing.T) {
	var buf bytes.Buffer
	in := []FeedDiagnostic{{URL: "https://a.example/feed", Status: StatusOK, HTTPCode: 200, ItemCount: 3}}

	require.NoError(t, writeReport(&buf, in))

	var out []FeedDiagnostic
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, in, out)
}
