package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

const rssPayload = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Test Program</title>
    <item>
      <title>Middle Episode</title>
      <guid>guid-middle</guid>
      <link>https://example.com/middle</link>
      <pubDate>Mon, 09 Mar 2026 12:00:00 GMT</pubDate>
    </item>
    <item>
      <title>Undated Episode</title>
      <guid>guid-undated</guid>
      <link>https://example.com/undated</link>
    </item>
    <item>
      <title>Newest Episode</title>
      <guid>guid-newest</guid>
      <link>https://example.com/newest</link>
      <description>notes with spotify:episode:NEW1</description>
      <enclosure url="https://cdn.example.com/new.mp3" type="audio/mpeg" length="1"/>
      <pubDate>Tue, 10 Mar 2026 12:00:00 GMT</pubDate>
    </item>
  </channel>
</rss>`

func serveRSS(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); ua == "" {
			t.Error("missing User-Agent header")
		}
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(rssPayload))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestFetchSortsNewestFirstWithUndatedLast(t *testing.T) {
	t.Parallel()

	server := serveRSS(t)
	source := NewSource(server.Client(), nil)

	entries, err := source.Fetch(context.Background(), server.URL, 0)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}

	if entries[0].GUID != "guid-newest" || entries[1].GUID != "guid-middle" {
		t.Fatalf("unexpected order: %s, %s", entries[0].GUID, entries[1].GUID)
	}
	if entries[2].GUID != "guid-undated" {
		t.Fatalf("entries without a timestamp must sort last, got %s", entries[2].GUID)
	}
	if entries[2].PublishedAt != nil {
		t.Fatal("undated entry must keep an absent timestamp")
	}
}

func TestFetchConvertsFields(t *testing.T) {
	t.Parallel()

	server := serveRSS(t)
	source := NewSource(server.Client(), nil)

	entries, err := source.Fetch(context.Background(), server.URL, 1)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("limit not applied, got %d entries", len(entries))
	}

	newest := entries[0]
	if newest.Title != "Newest Episode" || newest.Link != "https://example.com/newest" {
		t.Fatalf("unexpected entry: %+v", newest)
	}
	if newest.Summary == "" {
		t.Fatal("description must map to the summary field")
	}
	if len(newest.Enclosures) != 1 || newest.Enclosures[0].Href != "https://cdn.example.com/new.mp3" {
		t.Fatalf("enclosure not converted: %+v", newest.Enclosures)
	}
}

func TestFetchErrorStatus(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	source := NewSource(server.Client(), nil)
	if _, err := source.Fetch(context.Background(), server.URL, 0); err == nil {
		t.Fatal("expected an error for a non-200 response")
	}
}
