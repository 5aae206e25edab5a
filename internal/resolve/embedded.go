package resolve

import (
	"context"
	"regexp"

	"PodcastPoster/internal/domain"
)

var (
	episodeURLPattern = regexp.MustCompile(`https?://open\.spotify\.com/episode/([A-Za-z0-9]+)`)
	episodeURIPattern = regexp.MustCompile(`spotify:episode:([A-Za-z0-9]+)`)
)

// EmbeddedMatcher scans an entry's text blob for a canonical episode URL the
// feed publisher embedded directly, or for the compact URI form from which
// the canonical URL can be reconstructed. First pattern wins.
type EmbeddedMatcher struct{}

// NewEmbeddedMatcher builds the blob-scanning strategy.
func NewEmbeddedMatcher() *EmbeddedMatcher {
	return &EmbeddedMatcher{}
}

// Provenance identifies the strategy in resolved links.
func (m *EmbeddedMatcher) Provenance() domain.Provenance {
	return domain.ProvenanceDirectoryA
}

// Match returns the canonical episode URL found in the entry blob, if any.
func (m *EmbeddedMatcher) Match(_ context.Context, entry domain.FeedEntry, _ domain.FeedConfig) (string, bool) {
	blob := Blob(entry)
	if match := episodeURLPattern.FindStringSubmatch(blob); match != nil {
		return "https://open.spotify.com/episode/" + match[1], true
	}
	if match := episodeURIPattern.FindStringSubmatch(blob); match != nil {
		return "https://open.spotify.com/episode/" + match[1], true
	}
	return "", false
}
