package tui

import (
	"testing"
	"time"

	"github.com/handit-ai/handit-cli/internal/models"
)

func trace() models.TraceEvent {
	return models.TraceEvent{
		Run:        models.Run{Action: "track", Status: "completed"},
		ReceivedAt: time.Now(),
	}
}

func TestControlPanelFirstTraceStartsDelay(t *testing.T) {
	v := NewControlPanelView()
	v.Advance() // start -> send

	if !v.OnTrace(trace(), 1) {
		t.Fatal("OnTrace(first) = false, want true")
	}
	if v.OnTrace(trace(), 2) {
		t.Error("OnTrace(second) = true, want false")
	}
	if !v.StartedDelay() {
		t.Error("StartedDelay() = false after first trace")
	}
}

func TestControlPanelTracesBeforeAdvance(t *testing.T) {
	v := NewControlPanelView()

	// Traces arriving on the start step must not start the delay.
	if v.OnTrace(trace(), 1) {
		t.Fatal("OnTrace on start step = true, want false")
	}

	// Advancing with traces already present enters the delay directly.
	v.Advance()
	if !v.StartedDelay() {
		t.Error("Advance() with buffered traces did not enter the delay phase")
	}
}

func TestControlPanelCounterGatesStreaming(t *testing.T) {
	v := NewControlPanelView()
	v.Advance()
	v.OnTrace(trace(), 1)
	v.BeginEvaluation()

	insights := []models.Insight{
		{Problem: "vague instructions", Solution: "add output format"},
		{Problem: "missing examples", Solution: "add few-shot examples"},
		{Problem: "no constraints", Solution: "state length limits"},
	}
	v.SetInsights(insights, len(insights))

	// The streaming reveal must not exist until the counter reaches the
	// total, tick by tick.
	ticks := 0
	for !v.TickCounter() {
		ticks++
		if v.reveal != nil {
			t.Fatalf("reveal created after %d ticks, before counter reached total", ticks)
		}
		if ticks > len(insights) {
			t.Fatalf("counter never completed after %d ticks", ticks)
		}
	}
	if v.counter != len(insights) {
		t.Errorf("counter = %d after completion, want %d", v.counter, len(insights))
	}
	if v.sendPhase != phaseStreaming {
		t.Fatalf("sendPhase = %v after counter completion, want streaming", v.sendPhase)
	}

	// Fix Issues stays disabled until every character is revealed.
	for !v.TickReveal() {
		if v.FixEnabled() {
			t.Fatal("FixEnabled() = true while streaming is incomplete")
		}
	}
	if !v.FixEnabled() {
		t.Error("FixEnabled() = false after streaming completed")
	}
}

func TestControlPanelZeroInsights(t *testing.T) {
	v := NewControlPanelView()
	v.Advance()
	v.OnTrace(trace(), 1)
	v.BeginEvaluation()
	v.SetInsights(nil, 0)

	if !v.TickCounter() {
		t.Fatal("TickCounter() with zero insights = false, want immediate completion")
	}
	if !v.TickReveal() {
		t.Fatal("TickReveal() over empty text = false, want immediate completion")
	}
	if !v.FixEnabled() {
		t.Error("FixEnabled() = false after empty evaluation")
	}
}

func TestControlPanelResetEvaluation(t *testing.T) {
	v := NewControlPanelView()
	v.Advance()
	v.OnTrace(trace(), 1)
	v.BeginEvaluation()

	v.ResetEvaluation()
	if v.sendPhase != phaseDelaying {
		t.Errorf("sendPhase after failed fetch = %v, want delaying", v.sendPhase)
	}
}

func TestControlPanelResetFromFixes(t *testing.T) {
	v := NewControlPanelView()
	v.Advance()
	v.OnTrace(trace(), 1)
	v.BeginEvaluation()
	v.SetInsights([]models.Insight{{Problem: "p", Solution: "s"}}, 1)
	for !v.TickCounter() {
	}
	for !v.TickReveal() {
	}
	v.BeginFixes()

	v.ResetEvaluation()
	if v.step != stepSend || v.sendPhase != phaseReady {
		t.Errorf("after failed apply: step=%v phase=%v, want send/ready", v.step, v.sendPhase)
	}
	if !v.FixEnabled() {
		t.Error("FixEnabled() = false after rollback, retry impossible")
	}
}

func TestControlPanelOptimizationSelection(t *testing.T) {
	tests := []struct {
		name        string
		opts        []models.Optimization
		expectIndex int
	}{
		{
			name: "First applied entry wins",
			opts: []models.Optimization{
				{OptimizedPrompt: "a", Applied: false},
				{OptimizedPrompt: "b", Applied: true},
				{OptimizedPrompt: "c", Applied: true},
			},
			expectIndex: 1,
		},
		{
			name: "No applied entry",
			opts: []models.Optimization{
				{OptimizedPrompt: "a", Applied: false},
			},
			expectIndex: -1,
		},
		{
			name:        "Empty result",
			opts:        nil,
			expectIndex: -1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewControlPanelView()
			v.BeginFixes()
			v.SetOptimizations(tt.opts)

			if tt.expectIndex < 0 {
				if v.CurrentOptimization() != nil {
					t.Error("CurrentOptimization() != nil, want nil")
				}
				if v.fixPhase != fixComplete {
					t.Errorf("fixPhase = %v, want complete", v.fixPhase)
				}
				return
			}

			if v.fixPhase != fixStreaming {
				t.Fatalf("fixPhase = %v, want streaming", v.fixPhase)
			}
			for !v.TickReveal() {
				if v.ActionsEnabled() {
					t.Fatal("ActionsEnabled() = true while the prompt is still streaming")
				}
			}
			opt := v.CurrentOptimization()
			if opt == nil || opt.OptimizedPrompt != tt.opts[tt.expectIndex].OptimizedPrompt {
				t.Errorf("CurrentOptimization() = %v, want index %d", opt, tt.expectIndex)
			}
			if !v.ActionsEnabled() {
				t.Error("ActionsEnabled() = false after streaming completed")
			}
		})
	}
}

func TestControlPanelDiffLifecycle(t *testing.T) {
	v := NewControlPanelView()
	v.SetDiff("--- a\n+++ b\n", true)
	if !v.DiffOpen() {
		t.Fatal("DiffOpen() = false after SetDiff")
	}

	v.StartDenyPrompt()
	if !v.DenyPrompting() {
		t.Fatal("DenyPrompting() = false after StartDenyPrompt")
	}

	v.CloseDiff()
	if v.DiffOpen() || v.DenyPrompting() {
		t.Error("CloseDiff() left diff or deny prompt open")
	}
}
