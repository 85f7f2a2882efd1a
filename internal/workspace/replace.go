package workspace

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Replacer applies text replacements to workspace files.
type Replacer struct {
	scanner *Scanner
}

// NewReplacer creates a replacer using the given scanner for bulk lookups.
func NewReplacer(scanner *Scanner) *Replacer {
	return &Replacer{scanner: scanner}
}

// ApplyReplacement loads the file, replaces the first (or, with all set,
// every) occurrence of search with replacement, and persists the edit
// through a temp-file rename so a failed write never truncates the target.
func (r *Replacer) ApplyReplacement(path, search, replacement string, all bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEditApplyFailed, err)
	}

	content := string(data)
	if !strings.Contains(content, search) {
		return ErrNotFoundInWorkspace
	}

	var updated string
	if all {
		updated = strings.ReplaceAll(content, search, replacement)
	} else {
		updated = strings.Replace(content, search, replacement, 1)
	}

	info, err := os.Stat(path)
	mode := os.FileMode(0o644)
	if err == nil {
		mode = info.Mode()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".handit-edit-*")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEditApplyFailed, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(updated); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", ErrEditApplyFailed, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", ErrEditApplyFailed, err)
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", ErrEditApplyFailed, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", ErrEditApplyFailed, err)
	}
	return nil
}

// BulkReplace substitutes every occurrence of search across all matching
// files and reports the count of files modified. Files that lose the match
// between scan and write are skipped, not fatal.
func (r *Replacer) BulkReplace(ctx context.Context, search, replacement, includeGlob, excludeGlob string, limit int) (int, error) {
	paths, err := r.scanner.FindAllContaining(ctx, search, includeGlob, excludeGlob, limit, false)
	if err != nil {
		return 0, err
	}

	modified := 0
	for _, path := range paths {
		if err := r.ApplyReplacement(path, search, replacement, true); err != nil {
			if err == ErrNotFoundInWorkspace {
				continue
			}
			return modified, err
		}
		modified++
	}
	return modified, nil
}
