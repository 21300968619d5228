// Package feedwriter serializes the assembled feed as RSS 2.0 and writes it to disk.
package feedwriter

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gorilla/feeds"

	"combined-feed/internal/domain/entity"
)

// Generator is advertised in the channel's <generator> element.
const Generator = "combined-feed"

// RSSWriter writes feeds to a file, replacing it atomically.
type RSSWriter struct {
	path string
	now  func() time.Time
}

// NewRSSWriter creates an RSSWriter for path.
func NewRSSWriter(path string) *RSSWriter {
	return &RSSWriter{path: path, now: time.Now}
}

// Path returns the output file path.
func (w *RSSWriter) Path() string {
	return w.path
}

// Write renders feed and replaces the output file. The document is written to a
// temporary file in the same directory and renamed over the target, so readers
// see either the previous document or the new one.
func (w *RSSWriter) Write(ctx context.Context, feed entity.Feed) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(w.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(w.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		// no-op once the rename succeeded
		_ = os.Remove(tmpName)
	}()

	if err := Render(tmp, feed, w.now()); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmpName, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("chmod %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, w.path); err != nil {
		return fmt.Errorf("replace %s: %w", w.path, err)
	}
	return nil
}

const (
	contentNamespace = "http://purl.org/rss/1.0/modules/content/"
	atomNamespace    = "http://www.w3.org/2005/Atom"
)

// selfLinkedRss is a gorilla/feeds channel plus the <atom:link rel="self"> element
// the library does not model.
type selfLinkedRss struct {
	channel *feeds.RssFeed
	self    atomLink
}

type atomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr"`
	Type string `xml:"type,attr"`
}

type rssDocument struct {
	XMLName          xml.Name `xml:"rss"`
	Version          string   `xml:"version,attr"`
	ContentNamespace string   `xml:"xmlns:content,attr"`
	AtomNamespace    string   `xml:"xmlns:atom,attr"`
	Channel          *rssChannel
}

type rssChannel struct {
	*feeds.RssFeed
	AtomLink atomLink `xml:"atom:link"`
}

// FeedXml implements feeds.XmlFeed.
func (r *selfLinkedRss) FeedXml() interface{} {
	return &rssDocument{
		Version:          "2.0",
		ContentNamespace: contentNamespace,
		AtomNamespace:    atomNamespace,
		Channel:          &rssChannel{RssFeed: r.channel, AtomLink: r.self},
	}
}

// Render writes feed as an RSS 2.0 document. builtAt becomes <lastBuildDate>.
func Render(out io.Writer, feed entity.Feed, builtAt time.Time) error {
	f := &feeds.Feed{
		Title:       feed.Channel.Title,
		Link:        &feeds.Link{Href: feed.Channel.Link},
		Description: feed.Channel.Description,
		Updated:     builtAt.UTC(),
	}

	for _, it := range feed.Items {
		f.Items = append(f.Items, &feeds.Item{
			Title:       it.Title,
			Link:        &feeds.Link{Href: it.Link},
			Description: it.Description,
			Id:          it.Link,
			Created:     it.Published.UTC(),
		})
	}

	rss := (&feeds.Rss{Feed: f}).RssFeed()
	rss.Language = feed.Channel.Language
	rss.Generator = Generator
	for i, it := range feed.Items {
		if len(it.Categories) > 0 {
			rss.Items[i].Category = strings.Join(it.Categories, ", ")
		}
	}

	doc := &selfLinkedRss{
		channel: rss,
		self:    atomLink{Href: feed.Channel.Link, Rel: "self", Type: "application/rss+xml"},
	}
	if err := feeds.WriteXML(doc, out); err != nil {
		return fmt.Errorf("render rss: %w", err)
	}
	return nil
}
