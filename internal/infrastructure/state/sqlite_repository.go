package state

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"

	"PodcastPoster/internal/ports"
)

// SQLiteRepository keeps publication state in a single-file sqlite database.
// Useful when several posters share one state location; writes are
// transactional so the atomic-commit guarantee of the file backend holds
// here as well.
type SQLiteRepository struct {
	db      *sql.DB
	entries map[string]int64
}

var _ ports.StateRepository = (*SQLiteRepository)(nil)

// NewSQLiteRepository opens (or creates) the database and its schema.
func NewSQLiteRepository(path string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open state database: %w", err)
	}

	schema := `CREATE TABLE IF NOT EXISTS published_entries (
		uid TEXT PRIMARY KEY,
		published_at INTEGER NOT NULL
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init state schema: %w", err)
	}

	return &SQLiteRepository{db: db, entries: map[string]int64{}}, nil
}

// Close releases the database handle.
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// Load reads all published uids into memory for the run.
func (r *SQLiteRepository) Load(ctx context.Context) error {
	query, args, err := sq.Select("uid", "published_at").
		From("published_entries").
		ToSql()
	if err != nil {
		return fmt.Errorf("build state query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("query state: %w", err)
	}
	defer rows.Close()

	entries := map[string]int64{}
	for rows.Next() {
		var uid string
		var publishedAt int64
		if err := rows.Scan(&uid, &publishedAt); err != nil {
			return fmt.Errorf("scan state row: %w", err)
		}
		entries[uid] = publishedAt
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate state rows: %w", err)
	}

	r.entries = entries
	return nil
}

// Contains reports whether the uid was already published.
func (r *SQLiteRepository) Contains(uid string) bool {
	_, ok := r.entries[uid]
	return ok
}

// Commit records a confirmed publication. Publication state is append-only;
// a conflicting uid means the entry was already recorded, which is fine.
func (r *SQLiteRepository) Commit(ctx context.Context, uid string, publishedAt int64) error {
	query, args, err := sq.Insert("published_entries").
		Columns("uid", "published_at").
		Values(uid, publishedAt).
		Suffix("ON CONFLICT (uid) DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("build state insert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert state row: %w", err)
	}

	r.entries[uid] = publishedAt
	return nil
}
