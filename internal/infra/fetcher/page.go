package fetcher

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"combined-feed/internal/resilience/circuitbreaker"
)

// invisibleElements never contribute visible text.
const invisibleElements = "script, style, noscript, template, iframe, svg, head"

// PageFetcher is the plain page tier: it GETs the page and strips all markup,
// keeping each run of visible text on its own line.
type PageFetcher struct {
	client   *http.Client
	breakers *circuitbreaker.Group
	config   ContentFetchConfig
}

// NewPageFetcher creates a PageFetcher. Use PageConfig for the standard 8 second budget.
func NewPageFetcher(config ContentFetchConfig) *PageFetcher {
	return &PageFetcher{
		client:   newHTTPClient(config),
		breakers: hostBreakers(circuitbreaker.PageFetchConfig()),
		config:   config,
	}
}

// FetchText downloads urlStr and returns its visible text, newline separated.
func (f *PageFetcher) FetchText(ctx context.Context, urlStr string) (string, error) {
	if err := validateURL(urlStr, f.config.DenyPrivateIPs); err != nil {
		return "", err
	}

	return circuitbreaker.Run(f.breakers.For(urlStr), func() (string, error) {
		p, err := download(ctx, f.client, f.config, urlStr)
		if err != nil {
			return "", err
		}
		return HTMLToText(p.body)
	})
}

// HTMLToText parses an HTML document and returns its visible text. Text nodes are
// trimmed and joined with "\n"; blank ones are dropped.
func HTMLToText(body []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	doc.Find(invisibleElements).Remove()

	var lines []string
	for _, n := range doc.Nodes {
		collectText(n, &lines)
	}

	text := strings.Join(lines, "\n")
	if text == "" {
		return "", ErrNoText
	}
	return text, nil
}

func collectText(n *html.Node, lines *[]string) {
	if n.Type == html.TextNode {
		if s := strings.TrimSpace(n.Data); s != "" {
			*lines = append(*lines, s)
		}
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, lines)
	}
}
