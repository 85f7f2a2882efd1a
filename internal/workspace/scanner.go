package workspace

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// maxScanFileSize caps how large a file the scanner will read.
const maxScanFileSize = 2 << 20

// Scanner locates files by content under a workspace root.
type Scanner struct {
	Root string
}

// NewScanner creates a scanner rooted at dir.
func NewScanner(dir string) *Scanner {
	return &Scanner{Root: dir}
}

// FindFirstContaining walks the workspace in lexical order and returns the
// first file (matching includeGlob, not matching excludeGlob) whose content
// includes literal as an exact substring. At most limit files are read.
// Returns ErrNotFoundInWorkspace when nothing matches; callers decide
// whether that is an error or just "not found".
func (s *Scanner) FindFirstContaining(ctx context.Context, literal, includeGlob, excludeGlob string, limit int) (string, error) {
	paths, err := s.FindAllContaining(ctx, literal, includeGlob, excludeGlob, limit, true)
	if err != nil {
		return "", err
	}
	if len(paths) == 0 {
		return "", ErrNotFoundInWorkspace
	}
	return paths[0], nil
}

// FindAllContaining returns every matching file, up to limit files read.
// With firstOnly set it stops at the first hit.
func (s *Scanner) FindAllContaining(ctx context.Context, literal, includeGlob, excludeGlob string, limit int, firstOnly bool) ([]string, error) {
	if limit <= 0 {
		limit = 100
	}

	var hits []string
	read := 0

	err := filepath.WalkDir(s.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // unreadable entries are skipped, not fatal
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			return nil
		}
		if read >= limit {
			return fs.SkipAll
		}

		rel, err := filepath.Rel(s.Root, path)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if includeGlob != "" {
			if ok, _ := doublestar.Match(includeGlob, rel); !ok {
				return nil
			}
		}
		if excludeGlob != "" {
			if ok, _ := doublestar.Match(excludeGlob, rel); ok {
				return nil
			}
		}

		info, err := d.Info()
		if err != nil || info.Size() > maxScanFileSize {
			return nil
		}

		read++
		data, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		if strings.Contains(string(data), literal) {
			hits = append(hits, path)
			if firstOnly {
				return fs.SkipAll
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return hits, nil
}
