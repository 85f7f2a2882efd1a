package workspace

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/handit-ai/handit-cli/internal/models"
)

// diffGraceWindow bounds how long an unattended diff session is retained.
// This is resource cleanup, not a correctness deadline.
const diffGraceWindow = 10 * time.Minute

// DiffSession is an open comparison between original and proposed text.
type DiffSession struct {
	ID          string
	Title       string
	Path        string
	Original    string
	Replacement string
	OpenedAt    time.Time

	// stale means the target file changed externally since the diff
	// opened. Guarded by the owning manager's mutex; the watch loop
	// writes it concurrently.
	stale bool
}

// FeedbackSink records free-text denial feedback.
type FeedbackSink func(record models.FeedbackRecord) error

// DiffManager owns the single active diff session. Opening a new diff
// closes the previous one, so at most one accept/deny affordance exists
// at a time.
type DiffManager struct {
	scanner  *Scanner
	replacer *Replacer
	feedback FeedbackSink

	mu      sync.Mutex
	active  *DiffSession
	watcher *fsnotify.Watcher
	timer   *time.Timer
	done    chan struct{}
}

// NewDiffManager creates a manager. The fsnotify watcher is best effort:
// if it cannot be created, external-edit detection is disabled and Accept
// still re-verifies the text before writing.
func NewDiffManager(scanner *Scanner, replacer *Replacer, feedback FeedbackSink) *DiffManager {
	m := &DiffManager{
		scanner:  scanner,
		replacer: replacer,
		feedback: feedback,
		done:     make(chan struct{}),
	}

	if w, err := fsnotify.NewWatcher(); err == nil {
		m.watcher = w
		go m.watchLoop()
	}
	return m
}

func (m *DiffManager) watchLoop() {
	for {
		select {
		case <-m.done:
			return
		case ev, ok := <-m.watcher.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			m.mu.Lock()
			if m.active != nil && m.active.Path == ev.Name {
				m.active.stale = true
			}
			m.mu.Unlock()
		case _, ok := <-m.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}

// OpenDiff opens a session comparing original against replacement in the
// given file and returns the session plus its rendered unified diff.
func (m *DiffManager) OpenDiff(path, original, replacement, title string) (*DiffSession, string, error) {
	rendered, err := renderUnifiedDiff(original, replacement, title)
	if err != nil {
		return nil, "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.closeActiveLocked()

	session := &DiffSession{
		ID:          uuid.NewString(),
		Title:       title,
		Path:        path,
		Original:    original,
		Replacement: replacement,
		OpenedAt:    time.Now(),
	}
	m.active = session

	if m.watcher != nil && path != "" {
		_ = m.watcher.Add(path)
	}

	id := session.ID
	m.timer = time.AfterFunc(diffGraceWindow, func() {
		m.mu.Lock()
		if m.active != nil && m.active.ID == id {
			m.closeActiveLocked()
		}
		m.mu.Unlock()
	})

	return session, rendered, nil
}

// Active returns the open session, or nil.
func (m *DiffManager) Active() *DiffSession {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}

// Accept re-locates the original text and performs the replacement in
// place. If the text was already modified or cannot be found, it fails
// loudly and writes nothing. Returns the path that was modified.
func (m *DiffManager) Accept(ctx context.Context) (string, error) {
	m.mu.Lock()
	session := m.active
	stale := session != nil && session.stale
	m.mu.Unlock()

	if session == nil {
		return "", ErrNoActiveDiff
	}

	path := session.Path
	if stale || path == "" || !fileContains(path, session.Original) {
		// The target moved or changed; re-scan rather than guessing.
		found, err := m.scanner.FindFirstContaining(ctx, session.Original, "**/*", "", 200)
		if err != nil {
			return "", fmt.Errorf("original text no longer present: %w", ErrNotFoundInWorkspace)
		}
		path = found
	}

	if err := m.replacer.ApplyReplacement(path, session.Original, session.Replacement, false); err != nil {
		return "", err
	}

	m.mu.Lock()
	if m.active != nil && m.active.ID == session.ID {
		m.closeActiveLocked()
	}
	m.mu.Unlock()
	return path, nil
}

// Deny records the user's free-text feedback and closes only the session
// this manager opened.
func (m *DiffManager) Deny(sessionID, feedback string) error {
	m.mu.Lock()
	session := m.active
	m.mu.Unlock()

	if session == nil {
		return ErrNoActiveDiff
	}

	if m.feedback != nil && feedback != "" {
		rec := models.FeedbackRecord{
			ID:        uuid.NewString(),
			SessionID: sessionID,
			Text:      feedback,
			CreatedAt: time.Now().UTC().Format(time.RFC3339),
		}
		if err := m.feedback(rec); err != nil {
			return err
		}
	}

	m.mu.Lock()
	if m.active != nil && m.active.ID == session.ID {
		m.closeActiveLocked()
	}
	m.mu.Unlock()
	return nil
}

// Close discards any open session and stops the watcher.
func (m *DiffManager) Close() {
	m.mu.Lock()
	m.closeActiveLocked()
	m.mu.Unlock()

	select {
	case <-m.done:
	default:
		close(m.done)
	}
	if m.watcher != nil {
		_ = m.watcher.Close()
	}
}

func (m *DiffManager) closeActiveLocked() {
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	if m.active != nil {
		if m.watcher != nil && m.active.Path != "" {
			_ = m.watcher.Remove(m.active.Path)
		}
		m.active = nil
	}
}

func renderUnifiedDiff(original, replacement, title string) (string, error) {
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(original),
		B:        difflib.SplitLines(replacement),
		FromFile: title + " (current)",
		ToFile:   title + " (optimized)",
		Context:  3,
	}
	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return "", fmt.Errorf("failed to render diff: %w", err)
	}
	return text, nil
}

func fileContains(path, literal string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	return strings.Contains(string(data), literal)
}
