package entity

import (
	"strings"
	"time"
)

// Record is a fully enriched, deduplicated unit ready for output.
// Records are built once per unique fingerprint via NewRecord and treated as read-only
// afterwards; the aggregator hands them to the publisher by value.
type Record struct {
	Title     string
	Link      string
	Published time.Time
	Summary   string
	Source    string

	tags []string
}

// NewRecord builds a Record. Tags are trimmed, blank ones dropped and duplicates removed
// while keeping first-seen order.
func NewRecord(title, link string, published time.Time, summary string, tags []string, source string) Record {
	return Record{
		Title:     title,
		Link:      link,
		Published: published,
		Summary:   summary,
		Source:    source,
		tags:      NormalizeTags(tags),
	}
}

// Tags returns a copy of the record's tag set.
func (r Record) Tags() []string {
	if len(r.tags) == 0 {
		return nil
	}
	out := make([]string, len(r.tags))
	copy(out, r.tags)
	return out
}

// NormalizeTags trims and deduplicates tags, preserving first-seen order.
// Comparison is case-insensitive; the first spelling wins.
func NormalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		key := strings.ToLower(tag)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, tag)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
