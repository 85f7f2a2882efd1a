package tui

import (
	"github.com/handit-ai/handit-cli/internal/api"
	"github.com/handit-ai/handit-cli/internal/bridge"
	"github.com/handit-ai/handit-cli/internal/models"
)

// HostMsg wraps a host->UI bridge message for the Bubble Tea loop.
type HostMsg struct {
	Msg bridge.HostMessage
}

// ErrorMsg carries an error to display.
type ErrorMsg struct {
	Err error
}

// ClearStatusMsg clears the status-bar toast.
type ClearStatusMsg struct{}

// InsightsLoadedMsg carries the evaluation result for the session. Like
// the tick messages it carries the generation of the fetch that produced
// it, so a late duplicate cannot restart a newer animation.
type InsightsLoadedMsg struct {
	Result *api.InsightsResult
	gen    int
}

// OptimizationsLoadedMsg carries apply-insights results.
type OptimizationsLoadedMsg struct {
	Optimizations []models.Optimization
	gen           int
}

// CopiedMsg signals the optimized prompt reached the clipboard.
type CopiedMsg struct {
	Err error
}

// LogPreviewLoadedMsg carries trace log content read back from disk.
type LogPreviewLoadedMsg struct {
	Entry   *models.TraceLogEntry
	Content string
}

// evalDelayMsg fires after the fixed post-trace delay, moving the send
// step from waiting to evaluating. Stale generations are dropped.
type evalDelayMsg struct{ gen int }

// counterTickMsg advances the animated insight counter.
type counterTickMsg struct{ gen int }

// revealTickMsg advances a streaming text reveal.
type revealTickMsg struct{ gen int }

// spinnerTickMsg animates in-progress phases.
type spinnerTickMsg struct{ gen int }
