package ports

import (
	"context"
	"time"

	"PodcastPoster/internal/domain"
)

// EntrySource pulls the current entries of one feed, newest first.
type EntrySource interface {
	Fetch(ctx context.Context, feedURL string, limit int) ([]domain.FeedEntry, error)
}

// DirectoryLookup queries an external per-program episode directory.
type DirectoryLookup interface {
	Episodes(ctx context.Context, programID, country string) ([]domain.DirectoryItem, error)
}

// StateRepository persists the uid → publication-epoch mapping across runs.
// Load runs once at start; Commit at most once, after a confirmed publish.
type StateRepository interface {
	Load(ctx context.Context) error
	Contains(uid string) bool
	Commit(ctx context.Context, uid string, publishedAt int64) error
}

// Publisher submits final post text to the microblogging platform. The
// returned id is the platform's confirmation of acceptance.
type Publisher interface {
	Publish(ctx context.Context, text string) (id string, err error)
}

// Scheduler controls when runs execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
