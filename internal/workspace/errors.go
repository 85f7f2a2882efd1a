// Package workspace finds and modifies plain-text occurrences across
// workspace files, with a reviewable diff session before any mutation.
package workspace

import "errors"

var (
	// ErrNotFoundInWorkspace means no candidate file contains the target
	// text. For a search this is a valid outcome; at Accept time it is a
	// loud failure, since writing into the wrong location is worse than
	// writing nothing.
	ErrNotFoundInWorkspace = errors.New("text not found in workspace")

	// ErrEditApplyFailed means a file edit could not be persisted.
	ErrEditApplyFailed = errors.New("failed to apply edit")

	// ErrNoActiveDiff means Accept or Deny was invoked with no diff open.
	ErrNoActiveDiff = errors.New("no diff is currently open")
)
