package state

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestFileRepositoryMissingFileIsEmpty(t *testing.T) {
	t.Parallel()

	repo := NewFileRepository(filepath.Join(t.TempDir(), "state.json"), nil)
	if err := repo.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	if repo.Contains("anything") {
		t.Fatal("empty state should contain nothing")
	}
}

func TestFileRepositoryCommitSurvivesReload(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "state.json")

	repo := NewFileRepository(path, nil)
	if err := repo.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := repo.Commit(context.Background(), "uid-1", 1700000000); err != nil {
		t.Fatalf("commit: %v", err)
	}

	reloaded := NewFileRepository(path, nil)
	if err := reloaded.Load(context.Background()); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !reloaded.Contains("uid-1") {
		t.Fatal("committed uid lost across reload")
	}
}

func TestFileRepositoryCommitLeavesNoTempFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "state.json")

	repo := NewFileRepository(path, nil)
	if err := repo.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := repo.Commit(context.Background(), "uid-1", 1); err != nil {
		t.Fatalf("commit: %v", err)
	}

	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatal("temporary file should be renamed away")
	}
}

func TestFileRepositoryToleratesCorruptFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("seed corrupt file: %v", err)
	}

	repo := NewFileRepository(path, nil)
	if err := repo.Load(context.Background()); err != nil {
		t.Fatalf("corrupt state must not fail the load: %v", err)
	}
	if repo.Contains("anything") {
		t.Fatal("corrupt state should behave as empty")
	}
}
