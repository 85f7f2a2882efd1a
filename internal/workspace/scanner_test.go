package workspace

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFindFirstContaining(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "nothing here")
	want := writeFile(t, dir, "b/prompt.py", `SYSTEM = "You are a helpful assistant"`)
	writeFile(t, dir, "c.txt", "You are a helpful assistant, too")

	s := NewScanner(dir)
	got, err := s.FindFirstContaining(context.Background(), "You are a helpful assistant", "**/*", "", 100)
	if err != nil {
		t.Fatalf("FindFirstContaining() error = %v", err)
	}
	// Lexical walk order: b/prompt.py before c.txt.
	if got != want {
		t.Errorf("FindFirstContaining() = %q, want %q", got, want)
	}
}

func TestFindFirstContainingNotFound(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "nothing here")

	s := NewScanner(dir)
	_, err := s.FindFirstContaining(context.Background(), "missing literal", "**/*", "", 100)
	if !errors.Is(err, ErrNotFoundInWorkspace) {
		t.Errorf("FindFirstContaining() error = %v, want ErrNotFoundInWorkspace", err)
	}
}

func TestFindAllContainingRespectsExcludeGlob(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "src/app.py", "the needle")
	writeFile(t, dir, "node_modules/pkg/index.js", "the needle")

	s := NewScanner(dir)
	hits, err := s.FindAllContaining(context.Background(), "the needle", "**/*", "**/node_modules/**", 100, false)
	if err != nil {
		t.Fatalf("FindAllContaining() error = %v", err)
	}
	if len(hits) != 1 {
		t.Fatalf("FindAllContaining() found %d files, want 1: %v", len(hits), hits)
	}
	if filepath.Base(hits[0]) != "app.py" {
		t.Errorf("FindAllContaining() = %v, want only src/app.py", hits)
	}
}

func TestFindAllContainingIncludeGlob(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.py", "the needle")
	writeFile(t, dir, "b.md", "the needle")

	s := NewScanner(dir)
	hits, err := s.FindAllContaining(context.Background(), "the needle", "**/*.py", "", 100, false)
	if err != nil {
		t.Fatalf("FindAllContaining() error = %v", err)
	}
	if len(hits) != 1 || filepath.Base(hits[0]) != "a.py" {
		t.Errorf("FindAllContaining() = %v, want only a.py", hits)
	}
}

func TestFindAllContainingLimitBoundsReads(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "filler")
	writeFile(t, dir, "b.txt", "filler")
	writeFile(t, dir, "z.txt", "the needle")

	s := NewScanner(dir)
	// Limit of 2 stops before z.txt is ever read.
	hits, err := s.FindAllContaining(context.Background(), "the needle", "**/*", "", 2, false)
	if err != nil {
		t.Fatalf("FindAllContaining() error = %v", err)
	}
	if len(hits) != 0 {
		t.Errorf("FindAllContaining() with limit 2 = %v, want no hits", hits)
	}
}

func TestFindAllContainingCancelledContext(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "the needle")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := NewScanner(dir)
	_, err := s.FindAllContaining(ctx, "the needle", "**/*", "", 100, false)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("FindAllContaining() error = %v, want context.Canceled", err)
	}
}
