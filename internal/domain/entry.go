package domain

import "time"

// FeedKind distinguishes how entries of a feed resolve their links.
type FeedKind string

const (
	KindPodcast FeedKind = "podcast"
	KindArticle FeedKind = "article"
)

// EntryLink is one alternate link declared by a feed entry.
type EntryLink struct {
	Href string
	Rel  string
}

// Enclosure references a media file attached to an entry.
type Enclosure struct {
	Href string
	Type string
}

// ContentBlock is one structured content value of an entry (usually HTML).
type ContentBlock struct {
	Value string
}

// FeedEntry is a single syndicated item read from a feed. It is immutable
// once parsed; absent fields stay empty and a missing publication time is a
// nil PublishedAt.
type FeedEntry struct {
	ID          string
	GUID        string
	Link        string
	Title       string
	Summary     string
	Detail      string
	Content     []ContentBlock
	Links       []EntryLink
	Enclosures  []Enclosure
	PublishedAt *time.Time
}

// Timestamp returns the publication time as epoch seconds, or 0 when the
// entry carries no timestamp.
func (e FeedEntry) Timestamp() int64 {
	if e.PublishedAt == nil {
		return 0
	}
	return e.PublishedAt.Unix()
}

// IdentitySource returns the first non-empty identity field, giving a stable
// dedup key even for malformed entries.
func (e FeedEntry) IdentitySource() string {
	for _, v := range []string{e.ID, e.GUID, e.Link, e.Title} {
		if v != "" {
			return v
		}
	}
	return ""
}

// FeedConfig describes one monitored feed. Loaded once per run, read-only.
type FeedConfig struct {
	URL                string
	Template           string
	Kind               FeedKind
	ProgramName        string
	DirectoryProgramID string
	FreshWaitMin       int
}

// Provenance tags where a resolved link came from.
type Provenance string

const (
	ProvenanceDirectoryA Provenance = "directory-a"
	ProvenanceDirectoryB Provenance = "directory-b"
	ProvenanceEnclosure  Provenance = "enclosure"
	ProvenanceFallback   Provenance = "fallback"
)

// ResolvedLink is the chosen playable URL for an entry. Consumed once by the
// composer; never re-resolved within a run.
type ResolvedLink struct {
	URL        string
	Provenance Provenance
}

// DirectoryItem is one record from an external episode directory listing.
type DirectoryItem struct {
	Name        string
	GUID        string
	ReleasedAt  time.Time
	URL         string
	HasReleased bool
}

// PostCandidate is a fully composed post waiting for the end-of-run pick.
type PostCandidate struct {
	UID       string
	Timestamp int64
	Text      string
	Title     string
}
