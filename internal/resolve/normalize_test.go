package resolve

import "testing"

func TestNormalizeTitle(t *testing.T) {
	t.Parallel()

	got := NormalizeTitle("Ep. 12: The \"Big\" One!")
	if got != "ep12thebigone" {
		t.Fatalf("unexpected normalization: %q", got)
	}

	if NormalizeTitle("第３回・ゲスト回「前編」") != "第３回ゲスト回前編" {
		t.Fatalf("cjk punctuation not stripped: %q", NormalizeTitle("第３回・ゲスト回「前編」"))
	}
}

func TestSimilarity(t *testing.T) {
	t.Parallel()

	if sim := Similarity("Episode 42", "episode 42"); sim != 1.0 {
		t.Fatalf("case difference should not matter, got %f", sim)
	}

	if sim := Similarity("Episode 42: Interviews", "Episode 42: Interview"); sim < 0.9 {
		t.Fatalf("near-identical titles scored too low: %f", sim)
	}

	if sim := Similarity("Completely different", "ZZZZZZ"); sim > 0.3 {
		t.Fatalf("unrelated titles scored too high: %f", sim)
	}

	if sim := Similarity("", ""); sim != 1.0 {
		t.Fatalf("two empty titles should score 1.0, got %f", sim)
	}
	if sim := Similarity("something", ""); sim != 0.0 {
		t.Fatalf("one empty title should score 0.0, got %f", sim)
	}
}

func TestNormalizeLinkStripsEpisodeQuery(t *testing.T) {
	t.Parallel()

	in := "https://open.spotify.com/episode/abc123?si=xyz&utm_source=feed"
	want := "https://open.spotify.com/episode/abc123"
	if got := NormalizeLink(in); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestNormalizeLinkIdempotent(t *testing.T) {
	t.Parallel()

	urls := []string{
		"https://open.spotify.com/episode/abc123?si=xyz",
		"https://open.spotify.com/episode/abc123",
		"https://example.com/page?keep=1",
		"  https://example.com/page  ",
		"",
	}
	for _, u := range urls {
		once := NormalizeLink(u)
		if twice := NormalizeLink(once); twice != once {
			t.Fatalf("not idempotent for %q: %q vs %q", u, once, twice)
		}
	}
}

func TestNormalizeLinkLeavesOtherURLs(t *testing.T) {
	t.Parallel()

	in := "https://example.com/episode?id=5"
	if got := NormalizeLink(in); got != in {
		t.Fatalf("non-canonical URL modified: %q", got)
	}
}
