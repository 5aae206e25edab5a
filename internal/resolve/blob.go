package resolve

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"PodcastPoster/internal/domain"
)

// Blob flattens every text-bearing field of an entry into one search corpus
// for the embedded-URL matcher. The field order is fixed but irrelevant to
// matching; completeness is what matters, since a missed field hides an
// embedded canonical URL.
func Blob(entry domain.FeedEntry) string {
	chunks := make([]string, 0, 8+len(entry.Content)+len(entry.Links))

	for _, v := range []string{entry.ID, entry.GUID, entry.Link, entry.Title, entry.Summary, entry.Detail} {
		if v != "" {
			chunks = append(chunks, v)
		}
	}

	for _, block := range entry.Content {
		if block.Value == "" {
			continue
		}
		chunks = append(chunks, block.Value)
		chunks = append(chunks, anchorHrefs(block.Value)...)
	}

	for _, ln := range entry.Links {
		if ln.Href != "" {
			chunks = append(chunks, ln.Href)
		}
	}

	return strings.Join(chunks, "\n")
}

// anchorHrefs pulls href attributes out of an HTML fragment. Hosting
// platforms frequently entity-escape query separators inside descriptions;
// parsing the markup recovers the unescaped URL that a plain substring scan
// would miss.
func anchorHrefs(fragment string) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return nil
	}

	var hrefs []string
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		if href, ok := sel.Attr("href"); ok && href != "" {
			hrefs = append(hrefs, href)
		}
	})
	return hrefs
}
