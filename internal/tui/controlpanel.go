package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/handit-ai/handit-cli/internal/models"
)

type panelStep int

const (
	stepStart panelStep = iota
	stepSend
	stepFixes
)

// sendPhase is the fine-grained timeline inside the send step.
type sendPhase int

const (
	phaseWaiting    sendPhase = iota // no traces yet
	phaseDelaying                    // first trace arrived, fixed delay running
	phaseEvaluating                  // insights fetch in flight
	phaseCounting                    // animated insight-count reveal
	phaseStreaming                   // problems/solutions streaming out
	phaseReady                       // streaming complete, Fix Issues enabled
)

type fixPhase int

const (
	fixIdle fixPhase = iota
	fixProcessing
	fixStreaming
	fixComplete
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// ControlPanelView is the "fix my AI" wizard: start -> send -> fixes.
type ControlPanelView struct {
	step    panelStep
	session *models.Session

	// Traces (append-only, arrival order).
	traces     []models.TraceEvent
	traceCount int
	logPreview string

	// Send step.
	sendPhase sendPhase
	insights  []models.Insight
	total     int
	counter   int
	reveal    *Reveal

	// Fixes step.
	fixPhase      fixPhase
	optimizations []models.Optimization
	optIndex      int
	optReveal     *Reveal

	// Diff/deny state.
	diffText      string
	diffOpen      bool
	diffFound     bool
	denyPrompting bool
	feedbackInput textinput.Model

	spinFrame int
	width     int
	height    int
}

// NewControlPanelView creates the wizard at its start step.
func NewControlPanelView() *ControlPanelView {
	ti := textinput.New()
	ti.Placeholder = "why is this change wrong?"
	ti.CharLimit = 256
	ti.Width = 48
	return &ControlPanelView{feedbackInput: ti}
}

func (v *ControlPanelView) SetSize(w, h int) { v.width, v.height = w, h }

// SetSession stores the backend session shown in the start step.
func (v *ControlPanelView) SetSession(s *models.Session) { v.session = s }

// Session returns the active session, or nil.
func (v *ControlPanelView) Session() *models.Session { return v.session }

// OnTrace appends a relayed trace. Returns true when this was the first
// trace of the send step, which starts the fixed evaluation delay.
func (v *ControlPanelView) OnTrace(ev models.TraceEvent, count int) bool {
	v.traces = append(v.traces, ev)
	v.traceCount = count

	if v.step == stepSend && v.sendPhase == phaseWaiting {
		v.sendPhase = phaseDelaying
		return true
	}
	return false
}

// SetLogPreview stores the latest model log preview text.
func (v *ControlPanelView) SetLogPreview(preview string) { v.logPreview = preview }

// Advance moves start -> send.
func (v *ControlPanelView) Advance() {
	if v.step == stepStart {
		v.step = stepSend
		if v.traceCount > 0 {
			// Traces arrived while the user sat on the start step.
			v.sendPhase = phaseDelaying
		} else {
			v.sendPhase = phaseWaiting
		}
	}
}

// StartedDelay reports whether the send step entered its delay phase
// with traces already present (caller schedules the delay timer).
func (v *ControlPanelView) StartedDelay() bool {
	return v.step == stepSend && v.sendPhase == phaseDelaying
}

// BeginEvaluation moves the send step into the fetch-in-flight phase.
func (v *ControlPanelView) BeginEvaluation() {
	if v.step == stepSend && v.sendPhase == phaseDelaying {
		v.sendPhase = phaseEvaluating
	}
}

// SetInsights stores the evaluation result and starts the animated
// counter. Streaming begins only after the counter reaches the total.
func (v *ControlPanelView) SetInsights(insights []models.Insight, total int) {
	v.insights = insights
	v.total = total
	v.counter = 0
	v.sendPhase = phaseCounting
}

// TickCounter advances the animated count by one. When it reaches the
// total (and only then) the streaming reveal begins.
func (v *ControlPanelView) TickCounter() (done bool) {
	if v.sendPhase != phaseCounting {
		return true
	}
	if v.counter < v.total {
		v.counter++
	}
	if v.counter >= v.total {
		v.reveal = NewReveal(renderInsightsText(v.insights))
		v.sendPhase = phaseStreaming
		return true
	}
	return false
}

// TickReveal advances the active streaming reveal by one character.
func (v *ControlPanelView) TickReveal() (done bool) {
	switch {
	case v.step == stepSend && v.sendPhase == phaseStreaming && v.reveal != nil:
		if v.reveal.Step() {
			v.sendPhase = phaseReady
			return true
		}
	case v.step == stepFixes && v.fixPhase == fixStreaming && v.optReveal != nil:
		if v.optReveal.Step() {
			v.fixPhase = fixComplete
			return true
		}
	default:
		return true
	}
	return false
}

// ResetEvaluation rolls a failed fetch back so the flow can restart.
// A failed insights fetch returns to the delaying phase; a failed
// apply-insights call returns from fixes to the ready send step.
func (v *ControlPanelView) ResetEvaluation() {
	if v.step == stepSend && v.sendPhase == phaseEvaluating {
		v.sendPhase = phaseDelaying
		return
	}
	if v.step == stepFixes && v.fixPhase == fixProcessing {
		v.step = stepSend
		v.sendPhase = phaseReady
		v.fixPhase = fixIdle
	}
}

// FixEnabled reports whether the Fix Issues action is available: only
// once the insight streaming has fully completed.
func (v *ControlPanelView) FixEnabled() bool {
	return v.step == stepSend && v.sendPhase == phaseReady
}

// BeginFixes moves send -> fixes with the apply call in flight.
func (v *ControlPanelView) BeginFixes() {
	v.step = stepFixes
	v.fixPhase = fixProcessing
}

// SetOptimizations stores apply-insights results and starts streaming the
// first applied prompt.
func (v *ControlPanelView) SetOptimizations(opts []models.Optimization) {
	v.optimizations = opts
	v.optIndex = -1
	for i, o := range opts {
		if o.Applied {
			v.optIndex = i
			break
		}
	}
	if v.optIndex < 0 {
		v.fixPhase = fixComplete
		return
	}
	v.optReveal = NewReveal(opts[v.optIndex].OptimizedPrompt)
	v.fixPhase = fixStreaming
}

// CurrentOptimization returns the optimization under review, or nil.
func (v *ControlPanelView) CurrentOptimization() *models.Optimization {
	if v.optIndex < 0 || v.optIndex >= len(v.optimizations) {
		return nil
	}
	return &v.optimizations[v.optIndex]
}

// ActionsEnabled reports whether copy/diff/apply are available.
func (v *ControlPanelView) ActionsEnabled() bool {
	return v.step == stepFixes && v.fixPhase == fixComplete && v.CurrentOptimization() != nil
}

// SetDiff stores an opened diff for display.
func (v *ControlPanelView) SetDiff(diff string, found bool) {
	v.diffText = diff
	v.diffOpen = true
	v.diffFound = found
}

// CloseDiff hides the diff pane.
func (v *ControlPanelView) CloseDiff() {
	v.diffOpen = false
	v.diffText = ""
	v.denyPrompting = false
}

// DiffOpen reports whether a diff pane is showing.
func (v *ControlPanelView) DiffOpen() bool { return v.diffOpen }

// StartDenyPrompt opens the free-text feedback input.
func (v *ControlPanelView) StartDenyPrompt() {
	v.denyPrompting = true
	v.feedbackInput.SetValue("")
	v.feedbackInput.Focus()
}

// DenyPrompting reports whether the feedback input is active.
func (v *ControlPanelView) DenyPrompting() bool { return v.denyPrompting }

// Feedback returns the entered denial feedback.
func (v *ControlPanelView) Feedback() string { return strings.TrimSpace(v.feedbackInput.Value()) }

// HandleInput forwards a key to the feedback input.
func (v *ControlPanelView) HandleInput(msg tea.KeyMsg) {
	if v.denyPrompting {
		v.feedbackInput, _ = v.feedbackInput.Update(msg)
	}
}

// TickSpinner advances the activity spinner. Returns false when no phase
// needs animation.
func (v *ControlPanelView) TickSpinner() bool {
	v.spinFrame = (v.spinFrame + 1) % len(spinnerFrames)
	return (v.step == stepSend && (v.sendPhase == phaseDelaying || v.sendPhase == phaseEvaluating)) ||
		(v.step == stepFixes && v.fixPhase == fixProcessing)
}

func renderInsightsText(insights []models.Insight) string {
	var b strings.Builder
	for i, ins := range insights {
		fmt.Fprintf(&b, "%d. Problem: %s\n   Solution: %s\n", i+1, ins.Problem, ins.Solution)
	}
	return b.String()
}

// ── Rendering ────────────────────────────────────────────────────

// View renders the wizard.
func (v *ControlPanelView) View() string {
	var b strings.Builder

	b.WriteString(v.renderStepHeader())
	b.WriteString("\n\n")

	if v.denyPrompting {
		b.WriteString(titleStyle.Render("Why is this change wrong?"))
		b.WriteString("\n\n")
		b.WriteString(v.feedbackInput.View())
		b.WriteString("\n\n")
		b.WriteString(hintStyle.Render("Enter sends feedback and discards the change, Esc cancels"))
		return panelStyle.Render(b.String())
	}

	if v.diffOpen {
		b.WriteString(v.renderDiff())
		return panelStyle.Render(b.String())
	}

	switch v.step {
	case stepStart:
		b.WriteString(v.renderStart())
	case stepSend:
		b.WriteString(v.renderSend())
	case stepFixes:
		b.WriteString(v.renderFixes())
	}

	return panelStyle.Render(b.String())
}

func (v *ControlPanelView) renderStepHeader() string {
	names := []string{"1 Start", "2 Send traces", "3 Fixes"}
	parts := make([]string, len(names))
	for i, name := range names {
		switch {
		case panelStep(i) == v.step:
			parts[i] = stepActiveStyle.Render(name)
		case panelStep(i) < v.step:
			parts[i] = stepDoneStyle.Render(name + " ✓")
		default:
			parts[i] = stepInactiveStyle.Render(name)
		}
	}
	return strings.Join(parts, stepInactiveStyle.Render("  ·  "))
}

func (v *ControlPanelView) renderStart() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Your session is live"))
	b.WriteString("\n\n")
	if v.session != nil {
		b.WriteString(labelStyle.Render("Session"))
		b.WriteString(v.session.ID)
		b.WriteString("\n")
		b.WriteString(labelStyle.Render("Type"))
		b.WriteString(v.session.Type)
		b.WriteString("\n\n")
	}
	b.WriteString("Point your agent's Handit tracer at this session and run it.\n")
	b.WriteString("Traces will appear here as they arrive.\n\n")
	fmt.Fprintf(&b, "Traces received so far: %s\n\n", counterStyle.Render(fmt.Sprintf("%d", v.traceCount)))
	b.WriteString(hintStyle.Render("Enter continues"))
	return b.String()
}

func (v *ControlPanelView) renderSend() string {
	var b strings.Builder
	spin := spinnerFrames[v.spinFrame]

	fmt.Fprintf(&b, "Traces: %s\n\n", counterStyle.Render(fmt.Sprintf("%d", v.traceCount)))

	switch v.sendPhase {
	case phaseWaiting:
		b.WriteString(subtitleStyle.Render("Waiting for traces from your agent..."))

	case phaseDelaying:
		fmt.Fprintf(&b, "%s Traces received, preparing evaluation...", spin)

	case phaseEvaluating:
		fmt.Fprintf(&b, "%s Evaluating your prompts against the traces...", spin)

	case phaseCounting:
		fmt.Fprintf(&b, "Found %s issues", counterStyle.Render(fmt.Sprintf("%d", v.counter)))

	case phaseStreaming, phaseReady:
		fmt.Fprintf(&b, "Found %s issues\n\n", counterStyle.Render(fmt.Sprintf("%d", v.total)))
		b.WriteString(v.renderRevealText(v.reveal.Visible()))
		if v.sendPhase == phaseReady {
			b.WriteString("\n\n")
			b.WriteString(keyStyle.Render("f") + hintStyle.Render(" fixes the issues"))
		}
	}

	if v.logPreview != "" && v.sendPhase == phaseWaiting {
		b.WriteString("\n\n")
		b.WriteString(subtitleStyle.Render("Last trace:"))
		b.WriteString("\n")
		b.WriteString(truncateLines(v.logPreview, 4))
	}

	return b.String()
}

func (v *ControlPanelView) renderRevealText(text string) string {
	var b strings.Builder
	for _, line := range strings.Split(text, "\n") {
		switch {
		case strings.Contains(line, "Problem:"):
			b.WriteString(problemStyle.Render(line))
		case strings.Contains(line, "Solution:"):
			b.WriteString(solutionStyle.Render(line))
		default:
			b.WriteString(line)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (v *ControlPanelView) renderFixes() string {
	var b strings.Builder
	spin := spinnerFrames[v.spinFrame]

	switch v.fixPhase {
	case fixProcessing:
		fmt.Fprintf(&b, "%s Rewriting your prompt...", spin)

	case fixStreaming:
		b.WriteString(titleStyle.Render("Optimized prompt"))
		b.WriteString("\n\n")
		b.WriteString(promptStyle.Render(v.optReveal.Visible()))

	case fixComplete:
		opt := v.CurrentOptimization()
		if opt == nil {
			b.WriteString(subtitleStyle.Render("No optimization could be applied to your prompt."))
			break
		}
		b.WriteString(titleStyle.Render("Optimized prompt"))
		b.WriteString("\n\n")
		b.WriteString(promptStyle.Render(opt.OptimizedPrompt))
		b.WriteString("\n\n")
		b.WriteString(keyStyle.Render("c") + hintStyle.Render(" copy  "))
		b.WriteString(keyStyle.Render("d") + hintStyle.Render(" diff in project  "))
		b.WriteString(keyStyle.Render("a") + hintStyle.Render(" apply"))

		applied := 0
		for _, o := range v.optimizations {
			if o.Applied {
				applied++
			}
		}
		if applied < len(v.optimizations) {
			b.WriteString("\n\n")
			b.WriteString(subtitleStyle.Render(fmt.Sprintf("%d of %d prompts could be optimized", applied, len(v.optimizations))))
		}
	}

	return b.String()
}

func (v *ControlPanelView) renderDiff() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Proposed change"))
	if !v.diffFound {
		b.WriteString("  " + toastWarnStyle.Render("prompt not found in workspace"))
	}
	b.WriteString("\n\n")

	for _, line := range strings.Split(strings.TrimRight(v.diffText, "\n"), "\n") {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"), strings.HasPrefix(line, "@@"):
			b.WriteString(diffHdrStyle.Render(line))
		case strings.HasPrefix(line, "+"):
			b.WriteString(diffAddStyle.Render(line))
		case strings.HasPrefix(line, "-"):
			b.WriteString(diffDelStyle.Render(line))
		default:
			b.WriteString(line)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(keyStyle.Render("a") + hintStyle.Render(" accept  "))
	b.WriteString(keyStyle.Render("x") + hintStyle.Render(" deny  "))
	b.WriteString(keyStyle.Render("Esc") + hintStyle.Render(" close"))
	return b.String()
}

func truncateLines(s string, n int) string {
	lines := strings.Split(s, "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return lipgloss.NewStyle().Foreground(colorDim).Render(strings.Join(lines, "\n"))
}
