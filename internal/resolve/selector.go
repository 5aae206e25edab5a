package resolve

import (
	"context"
	"log/slog"
	"strings"

	"PodcastPoster/internal/domain"
)

// adminMarkers flags links that point at hosting dashboards or other
// non-playable administrative surfaces rather than an episode a listener
// can open.
var adminMarkers = []string{
	"podcasters.spotify.com",
	"creators.spotify.com",
	"anchor.fm",
	"/wp-admin",
}

// Matcher is one tagged link-resolution strategy. Strategies absorb their
// own transient failures and report them as "no match".
type Matcher interface {
	Provenance() domain.Provenance
	Match(ctx context.Context, entry domain.FeedEntry, feed domain.FeedConfig) (string, bool)
}

// Selector picks the most authoritative playable URL for an entry by trying
// matchers in priority order, then enclosure and primary-link fallbacks.
// Every returned URL is normalized.
type Selector struct {
	matchers        []Matcher
	allowEnclosures bool
	logger          *slog.Logger
}

// NewSelector builds the selector with matchers in descending priority.
func NewSelector(matchers []Matcher, allowEnclosures bool, logger *slog.Logger) *Selector {
	return &Selector{matchers: matchers, allowEnclosures: allowEnclosures, logger: logger}
}

// Best resolves the entry's link. Article-kind entries bypass the podcast
// tiers and use the primary link with no domain filtering.
func (s *Selector) Best(ctx context.Context, entry domain.FeedEntry, feed domain.FeedConfig) (domain.ResolvedLink, bool) {
	if feed.Kind != domain.KindPodcast {
		link := strings.TrimSpace(entry.Link)
		if link == "" {
			return domain.ResolvedLink{}, false
		}
		return domain.ResolvedLink{URL: NormalizeLink(link), Provenance: domain.ProvenanceFallback}, true
	}

	for _, matcher := range s.matchers {
		if url, ok := matcher.Match(ctx, entry, feed); ok {
			s.debug("link resolved", "provenance", string(matcher.Provenance()), "url", url)
			return domain.ResolvedLink{URL: NormalizeLink(url), Provenance: matcher.Provenance()}, true
		}
	}

	if s.allowEnclosures {
		for _, enc := range entry.Enclosures {
			if href := strings.TrimSpace(enc.Href); href != "" {
				return domain.ResolvedLink{URL: NormalizeLink(href), Provenance: domain.ProvenanceEnclosure}, true
			}
		}
	}

	primary := strings.TrimSpace(entry.Link)
	if primary == "" {
		return domain.ResolvedLink{}, false
	}

	if isAdministrative(primary) {
		for _, ln := range entry.Links {
			href := strings.TrimSpace(ln.Href)
			if href != "" && !isAdministrative(href) {
				return domain.ResolvedLink{URL: NormalizeLink(href), Provenance: domain.ProvenanceFallback}, true
			}
		}
		s.debug("only administrative links available", "url", primary)
	}

	return domain.ResolvedLink{URL: NormalizeLink(primary), Provenance: domain.ProvenanceFallback}, true
}

func isAdministrative(url string) bool {
	for _, marker := range adminMarkers {
		if strings.Contains(url, marker) {
			return true
		}
	}
	return false
}

func (s *Selector) debug(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
