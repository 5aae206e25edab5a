// Package compose renders bounded-length posts from a feed template, a
// title, a program name and a resolved link. The link is always appended on
// its own trailing line and is never shortened; only the variable fields
// give way when the platform budget is tight.
package compose

import (
	"regexp"
	"strings"

	"PodcastPoster/internal/resolve"
)

const ellipsis = "…"

// urlPattern detects embedded URLs for weighted-length accounting.
var urlPattern = regexp.MustCompile(`https?://[^\s\)\]\}<>]+`)

var (
	titleSlots   = []string{"{title}", "{タイトル}"}
	programSlots = []string{"{program}", "{番組名}"}
	linkSlots    = []string{"{link}", "{URL}", "{Url}", "{url}", "{エピソードURL}", "{記事URL}"}
)

// WeightedLength computes the platform's billed width of a text: every URL
// is charged a fixed urlWidth regardless of its real length, narrow
// (single-byte) code points cost 1 and everything else costs 2.
func WeightedLength(s string, urlWidth int) int {
	total := 0
	last := 0
	for _, loc := range urlPattern.FindAllStringIndex(s, -1) {
		total += plainWidth(s[last:loc[0]])
		total += urlWidth
		last = loc[1]
	}
	total += plainWidth(s[last:])
	return total
}

func plainWidth(s string) int {
	width := 0
	for _, r := range s {
		if r <= 0x7F {
			width++
		} else {
			width += 2
		}
	}
	return width
}

// ShortenTitle caps a raw title at maxLen runes, marking the cut with an
// ellipsis.
func ShortenTitle(title string, maxLen int) string {
	t := strings.TrimSpace(title)
	runes := []rune(t)
	if len(runes) <= maxLen {
		return t
	}
	return string(runes[:maxLen-1]) + ellipsis
}

// Fit renders the template within the weighted-length limit. The fitting
// ladder: full title, then the longest title prefix found by binary search,
// then no title and no program, then the template's leading fixed phrase
// plus the link, and finally the bare link.
func Fit(template, title, program, link string, limit, urlWidth int) string {
	link = resolve.NormalizeLink(link)
	prefix := leadingPhrase(template)

	candidate := render(template, title, program, link)
	if WeightedLength(candidate, urlWidth) <= limit {
		return candidate
	}

	titleRunes := []rune(title)
	lo, hi := 0, len(titleRunes)
	best := ""
	for lo <= hi {
		mid := (lo + hi) / 2
		candidate = render(template, truncate(titleRunes, mid), program, link)
		if WeightedLength(candidate, urlWidth) <= limit {
			best = candidate
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}
	if best != "" {
		return best
	}

	if prefix != "" {
		candidate = render(template, "", "", link)
		if WeightedLength(candidate, urlWidth) <= limit {
			return candidate
		}

		candidate = appendLink(prefix, link)
		if WeightedLength(candidate, urlWidth) <= limit {
			return candidate
		}
	}

	return link
}

// render substitutes the title and program slots, blanks the link slots, and
// appends the link on its own final line.
func render(template, title, program, link string) string {
	body := template
	for _, slot := range titleSlots {
		body = strings.ReplaceAll(body, slot, title)
	}
	for _, slot := range programSlots {
		body = strings.ReplaceAll(body, slot, program)
	}
	for _, slot := range linkSlots {
		body = strings.TrimRight(strings.ReplaceAll(body, slot, ""), " \t\n")
	}
	body = strings.TrimRight(strings.ReplaceAll(body, "\r", ""), " \t\n")
	return appendLink(body, link)
}

func appendLink(body, link string) string {
	if link == "" {
		return strings.TrimSpace(body)
	}
	return strings.TrimSpace(body + "\n" + link)
}

// leadingPhrase returns the fixed template text preceding the first slot
// marker; it survives every truncation stage except the bare-link fallback.
func leadingPhrase(template string) string {
	cut := len(template)
	slots := make([]string, 0, len(titleSlots)+len(programSlots)+len(linkSlots))
	slots = append(slots, titleSlots...)
	slots = append(slots, programSlots...)
	slots = append(slots, linkSlots...)
	for _, slot := range slots {
		if idx := strings.Index(template, slot); idx >= 0 && idx < cut {
			cut = idx
		}
	}
	return strings.TrimSpace(template[:cut])
}

func truncate(runes []rune, keep int) string {
	if keep >= len(runes) {
		return string(runes)
	}
	if keep <= 0 {
		return ""
	}
	return string(runes[:keep-1]) + ellipsis
}
