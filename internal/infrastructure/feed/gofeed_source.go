package feed

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/mmcdole/gofeed"

	"PodcastPoster/internal/domain"
	"PodcastPoster/internal/ports"
)

const userAgent = "PodcastPoster/1.0"

// Source fetches and parses RSS/Atom feeds into domain entries.
type Source struct {
	client *gofeed.Parser
	http   *http.Client
	logger *slog.Logger
}

var _ ports.EntrySource = (*Source)(nil)

// NewSource wires an HTTP client; a nil client gets a 20s timeout default.
func NewSource(httpClient *http.Client, logger *slog.Logger) *Source {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 20 * time.Second}
	}
	return &Source{client: gofeed.NewParser(), http: httpClient, logger: logger}
}

// Fetch downloads the feed, converts its items, re-sorts newest first
// (entries without a timestamp sink to the end) and returns at most limit
// entries.
func (s *Source) Fetch(ctx context.Context, feedURL string, limit int) ([]domain.FeedEntry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed returned %s", resp.Status)
	}

	parsed, err := s.client.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	entries := make([]domain.FeedEntry, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		if item == nil {
			continue
		}
		entries = append(entries, convertItem(item))
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp() > entries[j].Timestamp()
	})

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}

	if s.logger != nil {
		s.logger.Debug("feed fetched", "url", feedURL, "entries", len(entries))
	}
	return entries, nil
}

func convertItem(item *gofeed.Item) domain.FeedEntry {
	entry := domain.FeedEntry{
		ID:      item.GUID,
		GUID:    item.GUID,
		Link:    item.Link,
		Title:   item.Title,
		Summary: item.Description,
	}

	if item.Content != "" {
		entry.Content = append(entry.Content, domain.ContentBlock{Value: item.Content})
	}

	for _, href := range item.Links {
		if href != "" {
			entry.Links = append(entry.Links, domain.EntryLink{Href: href})
		}
	}

	for _, enc := range item.Enclosures {
		if enc == nil || enc.URL == "" {
			continue
		}
		entry.Enclosures = append(entry.Enclosures, domain.Enclosure{Href: enc.URL, Type: enc.Type})
	}

	if item.PublishedParsed != nil {
		t := item.PublishedParsed.UTC()
		entry.PublishedAt = &t
	} else if item.UpdatedParsed != nil {
		t := item.UpdatedParsed.UTC()
		entry.PublishedAt = &t
	}

	return entry
}
