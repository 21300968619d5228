// Package publish turns aggregated records into the output feed document.
package publish

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"combined-feed/internal/domain/entity"
	"combined-feed/internal/observability/logging"
)

// sourceSeparator joins a record's summary and its source attribution.
const sourceSeparator = "\n\nSource: "

// FeedWriter serializes an assembled feed to its destination.
// Write either fully replaces the destination or leaves it untouched.
type FeedWriter interface {
	Write(ctx context.Context, feed entity.Feed) error
	Path() string
}

// Assembler orders records and builds the output feed.
type Assembler struct {
	channel entity.Channel
	writer  FeedWriter
}

// NewAssembler creates an Assembler for the given channel metadata.
func NewAssembler(channel entity.Channel, writer FeedWriter) *Assembler {
	return &Assembler{channel: channel, writer: writer}
}

// Assemble builds the feed document. Items are ordered newest first; records with
// equal Published times keep their relative input order. The input slice is not modified.
func (a *Assembler) Assemble(records []entity.Record) entity.Feed {
	sorted := make([]entity.Record, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Published.After(sorted[j].Published)
	})

	items := make([]entity.Item, 0, len(sorted))
	for _, r := range sorted {
		items = append(items, ItemFromRecord(r))
	}

	return entity.Feed{Channel: a.channel, Items: items}
}

// Publish assembles records and hands the document to the writer.
// A write failure is returned unchanged in meaning; the caller treats it as fatal.
func (a *Assembler) Publish(ctx context.Context, records []entity.Record) error {
	feed := a.Assemble(records)
	if err := a.writer.Write(ctx, feed); err != nil {
		return fmt.Errorf("publish feed: %w", err)
	}

	logging.FromContext(ctx).Info(fmt.Sprintf("Wrote %s", a.writer.Path()),
		slog.String("path", a.writer.Path()),
		slog.Int("items", len(feed.Items)))
	return nil
}

// ItemFromRecord maps one record to an output item.
func ItemFromRecord(r entity.Record) entity.Item {
	return entity.Item{
		Title:       r.Title,
		Link:        r.Link,
		Published:   r.Published,
		Description: r.Summary + sourceSeparator + r.Source,
		Categories:  r.Tags(),
	}
}
