package resolve

import (
	"strings"
	"testing"

	"PodcastPoster/internal/domain"
)

func TestBlobCollectsAllTextFields(t *testing.T) {
	t.Parallel()

	entry := domain.FeedEntry{
		ID:      "id-1",
		GUID:    "guid-1",
		Link:    "https://example.com/ep1",
		Title:   "Episode One",
		Summary: "summary text",
		Detail:  "detail text",
		Content: []domain.ContentBlock{{Value: "<p>show notes</p>"}},
		Links: []domain.EntryLink{
			{Href: "https://alt.example.com/ep1"},
		},
	}

	blob := Blob(entry)
	for _, want := range []string{
		"id-1", "guid-1", "https://example.com/ep1", "Episode One",
		"summary text", "detail text", "show notes", "https://alt.example.com/ep1",
	} {
		if !strings.Contains(blob, want) {
			t.Fatalf("blob missing %q:\n%s", want, blob)
		}
	}
}

func TestBlobHarvestsEscapedAnchorHrefs(t *testing.T) {
	t.Parallel()

	entry := domain.FeedEntry{
		Content: []domain.ContentBlock{{
			Value: `<p>Listen <a href="https://open.spotify.com/episode/XYZ?si=1&amp;t=2">here</a></p>`,
		}},
	}

	blob := Blob(entry)
	if !strings.Contains(blob, "https://open.spotify.com/episode/XYZ?si=1&t=2") {
		t.Fatalf("anchor href not unescaped into blob:\n%s", blob)
	}
}

func TestBlobEmptyEntry(t *testing.T) {
	t.Parallel()

	if blob := Blob(domain.FeedEntry{}); blob != "" {
		t.Fatalf("expected empty blob, got %q", blob)
	}
}
