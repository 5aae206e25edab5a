package domain

import (
	"crypto/sha256"
	"encoding/hex"
)

// EntryUID derives the stable unique identifier that guards against
// duplicate publication: a digest over the feed URL and the entry's
// identity-source fallback chain. Identical entries yield identical uids
// across runs.
func EntryUID(feedURL string, entry FeedEntry) string {
	sum := sha256.Sum256([]byte(feedURL + "|" + entry.IdentitySource()))
	return hex.EncodeToString(sum[:])
}
