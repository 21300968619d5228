package entity

// SourceEntry is one item as yielded by the feed-parsing collaborator, before any
// enrichment. Every field is optional; absent values are empty strings.
type SourceEntry struct {
	Title string
	Link  string

	// PublishedRaw is the feed's own timestamp text (published, else updated).
	PublishedRaw string

	// ExcerptRaw is the feed-provided summary or description, possibly HTML.
	ExcerptRaw string

	// SourceURL is the configured feed URL this entry was read from.
	SourceURL string
}
