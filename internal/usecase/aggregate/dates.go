package aggregate

import (
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// feedLayouts are tried before the permissive parser. They cover what RSS 2.0 and
// Atom producers actually emit, including single-digit days and missing seconds.
var feedLayouts = []string{
	time.RFC1123Z,
	time.RFC1123,
	time.RFC3339Nano,
	time.RFC3339,
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"Mon, 2 Jan 2006 15:04:05 MST",
	"Mon, 02 Jan 2006 15:04 -0700",
	"Mon, 2 Jan 2006 15:04 MST",
	time.RFC822Z,
	time.RFC822,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// DateNormalizer parses heterogeneous feed timestamps into UTC instants.
// Unparseable input resolves to the current time, so the entry is kept and sorts
// as if it had just been published.
type DateNormalizer struct {
	now func() time.Time
}

// NewDateNormalizer creates a DateNormalizer. A nil clock means time.Now.
func NewDateNormalizer(now func() time.Time) *DateNormalizer {
	if now == nil {
		now = time.Now
	}
	return &DateNormalizer{now: now}
}

// Normalize returns the parsed instant of raw, or the current time if raw cannot be parsed.
func (d *DateNormalizer) Normalize(raw string) time.Time {
	t, _ := d.NormalizeWithFallback(raw)
	return t
}

// NormalizeWithFallback is Normalize that also reports whether the fallback was used.
func (d *DateNormalizer) NormalizeWithFallback(raw string) (time.Time, bool) {
	t, err := ParseDate(raw)
	if err != nil {
		return d.now().UTC(), true
	}
	return t, false
}

// ParseDate parses raw with the known feed layouts, then with dateparse.
// Values without a zone are read as UTC. The result is always in UTC.
func ParseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, fmt.Errorf("parse date: empty value")
	}

	for _, layout := range feedLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}

	t, err := dateparse.ParseIn(raw, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", raw, err)
	}
	return t.UTC(), nil
}
