package aggregate

import (
	"crypto/sha256"
	"encoding/hex"

	"combined-feed/internal/domain/entity"
)

// Fingerprint returns the dedup identity of an entry: the hex SHA-256 of link
// followed by title. No other field contributes, so entries that differ only in
// excerpt or date collide by construction.
func Fingerprint(entry entity.SourceEntry) string {
	sum := sha256.Sum256([]byte(entry.Link + entry.Title))
	return hex.EncodeToString(sum[:])
}

// seenSet is the run-scoped set of fingerprints already claimed by a record.
type seenSet map[string]struct{}

// claim marks fp as seen and reports whether this call was the first to see it.
func (s seenSet) claim(fp string) bool {
	if _, ok := s[fp]; ok {
		return false
	}
	s[fp] = struct{}{}
	return true
}
