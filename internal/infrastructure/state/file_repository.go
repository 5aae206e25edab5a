// Package state persists the publication state: a uid → epoch mapping that
// records which entries have already been posted. Entries are appended only
// after a confirmed publish and are never removed.
package state

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"PodcastPoster/internal/ports"
)

// FileRepository stores publication state as a JSON file, committed with a
// write-temp-then-rename so an interrupted run never leaves a torn file.
type FileRepository struct {
	path    string
	logger  *slog.Logger
	entries map[string]int64
}

var _ ports.StateRepository = (*FileRepository)(nil)

// NewFileRepository points the repository at a state file path.
func NewFileRepository(path string, logger *slog.Logger) *FileRepository {
	return &FileRepository{path: path, logger: logger, entries: map[string]int64{}}
}

// Load reads the state file. A missing file is an empty state; a corrupt
// file is logged and treated as empty so a damaged state never blocks runs.
func (r *FileRepository) Load(_ context.Context) error {
	raw, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			r.entries = map[string]int64{}
			return nil
		}
		return fmt.Errorf("read state file: %w", err)
	}

	entries := map[string]int64{}
	if err := json.Unmarshal(raw, &entries); err != nil {
		if r.logger != nil {
			r.logger.Warn("state file unreadable, continuing with empty state", "path", r.path, "error", err)
		}
		r.entries = map[string]int64{}
		return nil
	}

	r.entries = entries
	return nil
}

// Contains reports whether the uid was already published.
func (r *FileRepository) Contains(uid string) bool {
	_, ok := r.entries[uid]
	return ok
}

// Commit records a confirmed publication and persists atomically.
func (r *FileRepository) Commit(_ context.Context, uid string, publishedAt int64) error {
	r.entries[uid] = publishedAt

	raw, err := json.MarshalIndent(r.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("write temp state: %w", err)
	}
	if err := os.Rename(tmp, r.path); err != nil {
		return fmt.Errorf("replace state file: %w", err)
	}
	return nil
}
