package tui

import (
	"testing"

	"github.com/handit-ai/handit-cli/internal/api"
	"github.com/handit-ai/handit-cli/internal/bridge"
	"github.com/handit-ai/handit-cli/internal/models"
)

func newTestModel() Model {
	return NewModel(nil, api.NewClient("http://127.0.0.1:1"), nil)
}

func asModel(t *testing.T, m interface{ View() string }) Model {
	t.Helper()
	model, ok := m.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", m)
	}
	return model
}

func TestModelStartsOnAuthWithoutCredentials(t *testing.T) {
	m := newTestModel()
	if m.view != viewAuth {
		t.Errorf("initial view = %v, want auth", m.view)
	}
	if m.Init() != nil {
		t.Error("Init() without credentials returned commands")
	}
}

func TestModelSkipsAuthWithCachedToken(t *testing.T) {
	m := NewModel(nil, api.NewClient("http://127.0.0.1:1"), &models.Credentials{
		Email: "dev@handit.ai",
		Token: "tok",
	})
	if m.view != viewProvider {
		t.Errorf("initial view = %v, want provider connect", m.view)
	}
}

func TestModelLoginResponseAdvances(t *testing.T) {
	m := newTestModel()

	next, cmd := m.Update(HostMsg{Msg: bridge.LoginResponse{OK: true}})
	m = asModel(t, next)
	if m.view != viewProvider {
		t.Errorf("view after successful login = %v, want provider connect", m.view)
	}
	if cmd == nil {
		t.Error("no provider fetch dispatched after login")
	}
}

func TestModelLoginErrorStaysOnAuth(t *testing.T) {
	m := newTestModel()
	m.auth.SetSubmitting(true)

	next, _ := m.Update(HostMsg{Msg: bridge.LoginResponse{OK: false, Error: "Invalid email or password."}})
	m = asModel(t, next)
	if m.view != viewAuth {
		t.Errorf("view after failed login = %v, want auth", m.view)
	}
	if m.auth.Submitting() {
		t.Error("form still submitting after the host responded")
	}
	if m.auth.banner == "" {
		t.Error("no banner shown for the host error")
	}
}

func TestModelDropsStaleTicks(t *testing.T) {
	m := newTestModel()
	m.view = viewPanel
	m.panel.Advance()
	m.panel.OnTrace(models.TraceEvent{Run: models.Run{Action: "track"}}, 1)
	m.panel.BeginEvaluation()
	m.panel.SetInsights([]models.Insight{{Problem: "p", Solution: "s"}}, 1)
	m.gen = 2

	// A tick from a superseded timeline must not advance anything.
	next, cmd := m.Update(counterTickMsg{gen: 1})
	m = asModel(t, next)
	if cmd != nil {
		t.Error("stale counter tick rescheduled itself")
	}
	if m.panel.counter != 0 {
		t.Errorf("stale tick advanced the counter to %d", m.panel.counter)
	}

	// The current generation still works.
	next, cmd = m.Update(counterTickMsg{gen: 2})
	m = asModel(t, next)
	if m.panel.counter != 1 {
		t.Errorf("current tick did not advance the counter: %d", m.panel.counter)
	}
	if cmd == nil {
		t.Error("completed counter should chain into the reveal ticker")
	}
}

func TestModelFirstTraceSchedulesDelayOnce(t *testing.T) {
	m := newTestModel()
	m.view = viewPanel
	m.panel.Advance()
	startGen := m.gen

	ev := models.TraceEvent{Run: models.Run{Action: "track"}}

	next, cmd := m.Update(HostMsg{Msg: bridge.TraceReceived{Trace: ev, Count: 1}})
	m = asModel(t, next)
	if cmd == nil {
		t.Fatal("first trace did not schedule the evaluation delay")
	}
	if m.gen == startGen {
		t.Error("starting a new timeline must bump the generation")
	}

	gen := m.gen
	next, cmd = m.Update(HostMsg{Msg: bridge.TraceReceived{Trace: ev, Count: 2}})
	m = asModel(t, next)
	if cmd != nil {
		t.Error("second trace scheduled another delay")
	}
	if m.gen != gen {
		t.Error("second trace bumped the generation")
	}
}

func TestModelErrorToastResetsProviderSubmit(t *testing.T) {
	m := newTestModel()
	m.view = viewProvider
	m.provider.SetProviders([]models.Provider{{ID: "openai", Name: "OpenAI"}})
	m.provider.Select()
	m.provider.SetSubmitting()

	// The host reports a failed createIntegrationToken as an error toast;
	// the token input must come back so the user can retry.
	next, _ := m.Update(HostMsg{Msg: bridge.Toast{Severity: bridge.SeverityError, Text: "Cannot reach the Handit backend."}})
	m = asModel(t, next)
	if !m.provider.EnteringToken() {
		t.Error("provider view still submitting after the host reported the failure")
	}
	if m.status == "" {
		t.Error("error toast not shown")
	}

	// Non-error toasts must not disturb an in-flight submission.
	m.provider.SetSubmitting()
	next, _ = m.Update(HostMsg{Msg: bridge.Toast{Severity: bridge.SeverityInfo, Text: "Trace stream connected"}})
	m = asModel(t, next)
	if m.provider.EnteringToken() {
		t.Error("info toast aborted an in-flight submission")
	}
}

func TestModelDropsStaleFetchResults(t *testing.T) {
	m := newTestModel()
	m.view = viewPanel
	m.panel.Advance()
	m.panel.OnTrace(models.TraceEvent{Run: models.Run{Action: "track"}}, 1)
	m.panel.BeginEvaluation()
	m.gen = 3

	res := &api.InsightsResult{Insights: []models.Insight{{Problem: "p", Solution: "s"}}, Total: 1}

	// A result from a superseded fetch must not restart the counter.
	next, cmd := m.Update(InsightsLoadedMsg{Result: res, gen: 2})
	m = asModel(t, next)
	if cmd != nil {
		t.Error("stale insights result scheduled a counter tick")
	}
	if m.panel.total != 0 {
		t.Errorf("stale insights result set total = %d", m.panel.total)
	}

	next, cmd = m.Update(InsightsLoadedMsg{Result: res, gen: 3})
	m = asModel(t, next)
	if m.panel.total != 1 {
		t.Errorf("current insights result ignored, total = %d", m.panel.total)
	}
	if cmd == nil {
		t.Error("current insights result did not start the counter")
	}

	next, cmd = m.Update(OptimizationsLoadedMsg{
		Optimizations: []models.Optimization{{OptimizedPrompt: "better", Applied: true}},
		gen:           2,
	})
	m = asModel(t, next)
	if cmd != nil {
		t.Error("stale optimizations result scheduled a reveal tick")
	}
	if m.panel.optimizations != nil {
		t.Error("stale optimizations result reached the panel")
	}
}

func TestModelToastClears(t *testing.T) {
	m := newTestModel()

	next, cmd := m.Update(HostMsg{Msg: bridge.Toast{Severity: bridge.SeverityInfo, Text: "Signed in"}})
	m = asModel(t, next)
	if m.status != "Signed in" {
		t.Errorf("status = %q", m.status)
	}
	if cmd == nil {
		t.Error("no clear-status timer scheduled")
	}

	next, _ = m.Update(ClearStatusMsg{})
	m = asModel(t, next)
	if m.status != "" {
		t.Errorf("status after clear = %q", m.status)
	}
}

func TestModelDiffOpenedShowsPane(t *testing.T) {
	m := newTestModel()
	m.view = viewPanel

	next, _ := m.Update(HostMsg{Msg: bridge.DiffOpened{Diff: "--- a\n+++ b\n", Found: true}})
	m = asModel(t, next)
	if !m.panel.DiffOpen() {
		t.Error("diff pane not open after diffOpened")
	}

	next, _ = m.Update(HostMsg{Msg: bridge.ReplaceApplied{Count: 1, Path: "a.py"}})
	m = asModel(t, next)
	if m.panel.DiffOpen() {
		t.Error("diff pane still open after replaceApplied")
	}
}
