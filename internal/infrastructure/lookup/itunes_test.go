package lookup

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

const listingPayload = `{
	"resultCount": 3,
	"results": [
		{"wrapperType": "track", "trackName": "The Program Itself"},
		{
			"wrapperType": "podcastEpisode",
			"trackName": "Episode 1",
			"episodeGuid": "guid-1",
			"releaseDate": "2026-03-10T12:00:00Z",
			"trackViewUrl": "https://directory.example/ep1"
		},
		{
			"wrapperType": "podcastEpisode",
			"trackName": "Episode 2",
			"trackViewUrl": "https://directory.example/ep2"
		}
	]
}`

func TestEpisodesFiltersAndConverts(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/lookup" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("id") != "12345" || q.Get("entity") != "podcastEpisode" {
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}
		if q.Get("limit") != "200" || q.Get("country") != "JP" {
			t.Errorf("unexpected paging: %s", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		if _, err := w.Write([]byte(listingPayload)); err != nil {
			t.Errorf("write payload: %v", err)
		}
	}))
	defer server.Close()

	client := NewClient(server.URL, 200, server.Client(), nil)
	items, err := client.Episodes(context.Background(), "12345", "JP")
	if err != nil {
		t.Fatalf("episodes: %v", err)
	}

	if len(items) != 2 {
		t.Fatalf("expected 2 episode records, got %d", len(items))
	}
	if items[0].Name != "Episode 1" || items[0].GUID != "guid-1" {
		t.Fatalf("unexpected first item: %+v", items[0])
	}
	if !items[0].HasReleased {
		t.Fatal("release date should be parsed")
	}
	if items[1].HasReleased {
		t.Fatal("missing release date should be flagged")
	}
}

func TestEpisodesErrorStatus(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer server.Close()

	client := NewClient(server.URL, 200, server.Client(), nil)
	if _, err := client.Episodes(context.Background(), "12345", "JP"); err == nil {
		t.Fatal("expected an error for a non-2xx response")
	}
}

func TestEpisodesRetriesServerErrors(t *testing.T) {
	t.Parallel()

	var attempts int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		attempts++
		if attempts == 1 {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results": []}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 200, server.Client(), nil)
	items, err := client.Episodes(context.Background(), "12345", "JP")
	if err != nil {
		t.Fatalf("episodes after retry: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected an empty listing, got %d", len(items))
	}
	if attempts != 2 {
		t.Fatalf("expected one retry, got %d attempts", attempts)
	}
}
