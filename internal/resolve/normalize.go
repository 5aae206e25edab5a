package resolve

import "strings"

// strippedRunes is the punctuation/whitespace set removed before fuzzy title
// comparison. It covers both ASCII punctuation and the CJK marks common in
// Japanese episode titles.
const strippedRunes = " \t\r\n\"'()[]{}.,!?！？。、・:：;；‐-–—―ー〜~…「」『』“”‘’／/\\|"

const canonicalEpisodeMarker = "open.spotify.com/episode/"

// NormalizeTitle case-folds a title and strips the fixed punctuation set so
// that cross-directory comparisons ignore styling differences.
func NormalizeTitle(s string) string {
	lowered := strings.ToLower(s)
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(strippedRunes, r) {
			return -1
		}
		return r
	}, lowered)
}

// Similarity scores two titles in [0,1] after normalization, using the
// longest-common-subsequence ratio 2*lcs/(len(a)+len(b)). This reproduces
// the contract of difflib-style sequence matching closely enough for the
// fixed acceptance floors used by the directory matcher.
func Similarity(a, b string) float64 {
	ra := []rune(NormalizeTitle(a))
	rb := []rune(NormalizeTitle(b))
	if len(ra) == 0 && len(rb) == 0 {
		return 1.0
	}
	if len(ra) == 0 || len(rb) == 0 {
		return 0.0
	}
	return 2.0 * float64(lcs(ra, rb)) / float64(len(ra)+len(rb))
}

func lcs(a, b []rune) int {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1] + 1
			} else if prev[j] >= curr[j-1] {
				curr[j] = prev[j]
			} else {
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

// NormalizeLink strips the query string from canonical-episode URLs; the
// platform appends volatile tracking parameters (?si=...) that only bloat
// the link. Other URLs pass through unchanged. Idempotent.
func NormalizeLink(link string) string {
	link = strings.TrimSpace(link)
	if link == "" {
		return link
	}
	if strings.Contains(link, canonicalEpisodeMarker) {
		if cut, _, found := strings.Cut(link, "?"); found {
			return cut
		}
	}
	return link
}
