package resolve

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"PodcastPoster/internal/domain"
	"PodcastPoster/internal/ports"
)

const (
	highSimilarityFloor = 0.87
	dateWindowFloor     = 0.65
	dateWindow          = 3 * 24 * time.Hour
)

// DirectoryMatcher resolves an entry against an external per-program episode
// directory. Matching tiers, strictest first: exact external GUID, exact
// normalized title, high title similarity, then a release-date window with a
// lower similarity floor. Lookup failures are absorbed as "no match".
type DirectoryMatcher struct {
	lookup  ports.DirectoryLookup
	country string
	logger  *slog.Logger
}

// NewDirectoryMatcher wires the external lookup service.
func NewDirectoryMatcher(lookup ports.DirectoryLookup, country string, logger *slog.Logger) *DirectoryMatcher {
	return &DirectoryMatcher{lookup: lookup, country: country, logger: logger}
}

// Provenance identifies the strategy in resolved links.
func (m *DirectoryMatcher) Provenance() domain.Provenance {
	return domain.ProvenanceDirectoryB
}

// Match fetches the program's directory listing and applies the tiered
// matching policy against the entry.
func (m *DirectoryMatcher) Match(ctx context.Context, entry domain.FeedEntry, feed domain.FeedConfig) (string, bool) {
	if feed.DirectoryProgramID == "" || m.lookup == nil {
		return "", false
	}

	items, err := m.lookup.Episodes(ctx, feed.DirectoryProgramID, m.country)
	if err != nil {
		m.warn("directory lookup failed", "program", feed.DirectoryProgramID, "error", err)
		return "", false
	}
	if len(items) == 0 {
		return "", false
	}

	guid := strings.TrimSpace(entry.ID)
	if guid == "" {
		guid = strings.TrimSpace(entry.GUID)
	}

	// Tier 1: exact external GUID.
	if guid != "" {
		for _, item := range items {
			if strings.TrimSpace(item.GUID) == guid {
				return item.URL, true
			}
		}
	}

	title := strings.TrimSpace(entry.Title)
	normalized := NormalizeTitle(title)

	// Tier 2: exact normalized title.
	if normalized != "" {
		for _, item := range items {
			if NormalizeTitle(item.Name) == normalized {
				return item.URL, true
			}
		}
	}

	// Tier 3: best title similarity above the strict floor.
	var best *domain.DirectoryItem
	bestSim := 0.0
	for i := range items {
		if sim := Similarity(items[i].Name, title); sim > bestSim {
			bestSim = sim
			best = &items[i]
		}
	}
	if best != nil && bestSim >= highSimilarityFloor {
		return best.URL, true
	}

	// Tier 4: release date within the window, relaxed similarity floor,
	// maximizing (similarity, -|date delta|).
	if ts := entry.Timestamp(); ts != 0 {
		published := time.Unix(ts, 0)
		var (
			nearest     *domain.DirectoryItem
			nearestSim  float64
			nearestGap  time.Duration
			foundInside bool
		)
		for i := range items {
			if !items[i].HasReleased {
				continue
			}
			gap := absDuration(items[i].ReleasedAt.Sub(published))
			if gap > dateWindow {
				continue
			}
			sim := Similarity(items[i].Name, title)
			if !foundInside || sim > nearestSim || (sim == nearestSim && gap < nearestGap) {
				nearest = &items[i]
				nearestSim = sim
				nearestGap = gap
				foundInside = true
			}
		}
		if foundInside && nearestSim >= dateWindowFloor {
			return nearest.URL, true
		}
	}

	return "", false
}

func (m *DirectoryMatcher) warn(msg string, args ...any) {
	if m.logger != nil {
		m.logger.Warn(msg, args...)
	}
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
