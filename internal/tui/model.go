package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/handit-ai/handit-cli/internal/api"
	"github.com/handit-ai/handit-cli/internal/bridge"
	"github.com/handit-ai/handit-cli/internal/models"
)

type view int

const (
	viewAuth view = iota
	viewProvider
	viewPanel
)

// Model is the root Bubble Tea model. Views advance linearly
// Auth -> ProviderConnect -> ControlPanel; no backward transition is
// exposed.
type Model struct {
	host   *bridge.Host
	client *api.Client

	view     view
	auth     *AuthView
	provider *ProviderView
	panel    *ControlPanelView

	// Status toast.
	status         string
	statusSeverity bridge.Severity

	// gen guards all timers: a tick from a superseded timeline is
	// dropped, so late results never corrupt newer state.
	gen      int
	spinning bool

	width  int
	height int
}

// NewModel creates the initial model. With cached credentials the auth
// view is skipped and the session resumes directly.
func NewModel(host *bridge.Host, client *api.Client, creds *models.Credentials) Model {
	prefill := ""
	startView := viewAuth
	if creds != nil && creds.Token != "" {
		prefill = creds.Email
		startView = viewProvider
	}

	return Model{
		host:     host,
		client:   client,
		view:     startView,
		auth:     NewAuthView(prefill),
		provider: NewProviderView(),
		panel:    NewControlPanelView(),
	}
}

// Init returns the initial commands.
func (m Model) Init() tea.Cmd {
	if m.view == viewProvider {
		return tea.Batch(
			resumeSessionCmd(m.host),
			dispatchCmd(m.host, &bridge.GetProvidersCommand{}),
		)
	}
	return nil
}

// Update processes messages and returns an updated model and commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.auth.SetWidth(msg.Width)
		m.panel.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case HostMsg:
		return m.handleHostMessage(msg.Msg)

	case ErrorMsg:
		return m.handleError(msg.Err)

	case evalDelayMsg:
		if msg.gen != m.gen || m.view != viewPanel {
			return m, nil
		}
		m.panel.BeginEvaluation()
		session := m.panel.Session()
		if session == nil {
			return m, nil
		}
		return m, tea.Batch(
			fetchInsightsCmd(m.client, session.ID, m.gen),
			m.ensureSpinner(),
		)

	case InsightsLoadedMsg:
		if msg.gen != m.gen || m.view != viewPanel {
			return m, nil
		}
		m.panel.SetInsights(msg.Result.Insights, msg.Result.Total)
		return m, counterTick(m.gen)

	case counterTickMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		if done := m.panel.TickCounter(); done {
			return m, revealTick(m.gen)
		}
		return m, counterTick(m.gen)

	case revealTickMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		if done := m.panel.TickReveal(); !done {
			return m, revealTick(m.gen)
		}
		return m, nil

	case spinnerTickMsg:
		if msg.gen != m.gen {
			m.spinning = false
			return m, nil
		}
		if m.panel.TickSpinner() {
			return m, spinnerTick(m.gen)
		}
		m.spinning = false
		return m, nil

	case OptimizationsLoadedMsg:
		if msg.gen != m.gen || m.view != viewPanel {
			return m, nil
		}
		m.panel.SetOptimizations(msg.Optimizations)
		return m, revealTick(m.gen)

	case CopiedMsg:
		if msg.Err != nil {
			return m.toast(bridge.SeverityWarning, "Could not copy to clipboard")
		}
		return m.toast(bridge.SeverityInfo, "Optimized prompt copied")

	case LogPreviewLoadedMsg:
		m.panel.SetLogPreview(msg.Content)
		return m, nil

	case ClearStatusMsg:
		m.status = ""
		return m, nil
	}

	return m, nil
}

// ── Key routing ──────────────────────────────────────────────────

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, globalKeys.Quit) {
		return m, tea.Quit
	}

	switch m.view {
	case viewAuth:
		return m.handleAuthKey(msg)
	case viewProvider:
		return m.handleProviderKey(msg)
	case viewPanel:
		return m.handlePanelKey(msg)
	}
	return m, nil
}

func (m Model) handleAuthKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.auth.Submitting() {
		return m, nil
	}

	switch {
	case key.Matches(msg, authKeys.Toggle):
		m.auth.ToggleMode()
		return m, nil

	case key.Matches(msg, authKeys.Next):
		m.auth.FocusNext()
		return m, nil

	case key.Matches(msg, authKeys.Prev):
		m.auth.FocusPrev()
		return m, nil

	case key.Matches(msg, authKeys.Submit):
		if !m.auth.Validate() {
			return m, nil
		}
		m.auth.SetSubmitting(true)
		if m.auth.IsSignup() {
			return m, dispatchCmd(m.host, &bridge.SignupCommand{
				Email:     m.auth.Email(),
				Password:  m.auth.Password(),
				FirstName: m.auth.FirstName(),
				LastName:  m.auth.LastName(),
			})
		}
		return m, dispatchCmd(m.host, &bridge.LoginCommand{
			Email:    m.auth.Email(),
			Password: m.auth.Password(),
		})
	}

	m.auth.HandleInput(msg)
	return m, nil
}

func (m Model) handleProviderKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.provider.EnteringToken() {
		switch {
		case key.Matches(msg, providerKeys.Select):
			p := m.provider.Selected()
			token := m.provider.Token()
			if p == nil || token == "" {
				return m, nil
			}
			m.provider.SetSubmitting()
			return m, dispatchCmd(m.host, &bridge.CreateIntegrationTokenCommand{
				ProviderID: p.ID,
				Name:       p.Name,
				Token:      token,
			})
		case key.Matches(msg, providerKeys.Back):
			m.provider.Back()
			return m, nil
		}
		m.provider.HandleInput(msg)
		return m, nil
	}

	switch {
	case key.Matches(msg, providerKeys.Up):
		m.provider.MoveUp()
	case key.Matches(msg, providerKeys.Down):
		m.provider.MoveDown()
	case key.Matches(msg, providerKeys.Select):
		m.provider.Select()
	case key.Matches(msg, providerKeys.Skip):
		return m.enterPanel()
	}
	return m, nil
}

func (m Model) handlePanelKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.panel.DenyPrompting() {
		switch {
		case key.Matches(msg, panelKeys.Continue):
			feedback := m.panel.Feedback()
			m.panel.CloseDiff()
			return m, dispatchCmd(m.host, &bridge.SubmitFeedbackCommand{Feedback: feedback})
		case msg.Type == tea.KeyEscape:
			m.panel.CloseDiff()
			return m, nil
		}
		m.panel.HandleInput(msg)
		return m, nil
	}

	if m.panel.DiffOpen() {
		switch {
		case key.Matches(msg, panelKeys.Apply):
			m.panel.CloseDiff()
			return m, dispatchCmd(m.host, &bridge.ApplyPromptChangeCommand{})
		case key.Matches(msg, panelKeys.Deny):
			m.panel.StartDenyPrompt()
			return m, nil
		case msg.Type == tea.KeyEscape:
			m.panel.CloseDiff()
			return m, dispatchCmd(m.host, &bridge.SubmitFeedbackCommand{})
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, panelKeys.Continue):
		m.panel.Advance()
		if m.panel.StartedDelay() {
			m.gen++
			return m, tea.Batch(evalDelayCmd(m.gen), m.ensureSpinner())
		}
		return m, nil

	case key.Matches(msg, panelKeys.Fix):
		if !m.panel.FixEnabled() {
			return m, nil
		}
		session := m.panel.Session()
		if session == nil {
			return m.toast(bridge.SeverityWarning, "No active session")
		}
		m.gen++
		m.panel.BeginFixes()
		return m, tea.Batch(
			applyInsightsCmd(m.client, session.ID, m.gen),
			m.ensureSpinner(),
		)

	case key.Matches(msg, panelKeys.Copy):
		if opt := m.panel.CurrentOptimization(); m.panel.ActionsEnabled() && opt != nil {
			return m, copyPromptCmd(opt.OptimizedPrompt)
		}

	case key.Matches(msg, panelKeys.Diff):
		if opt := m.panel.CurrentOptimization(); m.panel.ActionsEnabled() && opt != nil {
			return m, dispatchCmd(m.host, &bridge.DiffPromptCommand{
				OriginalPrompt:  opt.OriginalPrompt,
				OptimizedPrompt: opt.OptimizedPrompt,
				Title:           "prompt",
			})
		}

	case key.Matches(msg, panelKeys.Apply):
		// Accept routes through the host; with no diff open it fails
		// loudly rather than guessing a write target.
		return m, dispatchCmd(m.host, &bridge.ApplyPromptChangeCommand{})

	case key.Matches(msg, panelKeys.Logs):
		if session := m.panel.Session(); session != nil {
			return m, loadLogPreviewCmd(session.ID)
		}
	}
	return m, nil
}

// ── Host message routing ─────────────────────────────────────────

func (m Model) handleHostMessage(msg bridge.HostMessage) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case bridge.LoginResponse:
		if !msg.OK {
			m.auth.SetBanner(msg.Error)
			return m, nil
		}
		m.auth.SetSubmitting(false)
		return m.enterProviderConnect()

	case bridge.SignupResponse:
		if !msg.OK {
			m.auth.SetBanner(msg.Error)
			return m, nil
		}
		m.auth.SetSubmitting(false)
		return m.enterProviderConnect()

	case bridge.SessionCreated:
		session := msg.Session
		m.panel.SetSession(&session)
		return m, nil

	case bridge.TraceReceived:
		first := m.panel.OnTrace(msg.Trace, msg.Count)
		if first && m.view == viewPanel {
			m.gen++
			return m, tea.Batch(evalDelayCmd(m.gen), m.ensureSpinner())
		}
		return m, nil

	case bridge.ModelLogPreview:
		m.panel.SetLogPreview(msg.Preview)
		return m, nil

	case bridge.ProvidersLoaded:
		m.provider.SetProviders(msg.Providers)
		return m, nil

	case bridge.IntegrationTokenCreated:
		return m.enterPanel()

	case bridge.DiffOpened:
		m.panel.SetDiff(msg.Diff, msg.Found)
		return m, nil

	case bridge.ReplaceApplied:
		m.panel.CloseDiff()
		return m, nil

	case bridge.SessionUpdated:
		// State refresh only; the panel re-renders from its own state.
		return m, nil

	case bridge.Toast:
		if msg.Severity == bridge.SeverityError {
			// The host reports failed operations as error toasts; any
			// view waiting on such an operation must become interactive
			// again so the user can retry.
			m.provider.ResetAfterError()
		}
		return m.toast(msg.Severity, msg.Text)
	}
	return m, nil
}

func (m Model) handleError(err error) (tea.Model, tea.Cmd) {
	m.panel.ResetEvaluation()
	m.provider.ResetAfterError()
	return m.toast(bridge.SeverityError, err.Error())
}

// ── Transitions ──────────────────────────────────────────────────

func (m Model) enterProviderConnect() (tea.Model, tea.Cmd) {
	m.view = viewProvider
	m.gen++
	return m, dispatchCmd(m.host, &bridge.GetProvidersCommand{})
}

func (m Model) enterPanel() (tea.Model, tea.Cmd) {
	m.view = viewPanel
	m.gen++
	var cmd tea.Cmd
	if m.panel.StartedDelay() {
		cmd = tea.Batch(evalDelayCmd(m.gen), m.ensureSpinner())
	}
	return m, cmd
}

func (m Model) toast(severity bridge.Severity, text string) (tea.Model, tea.Cmd) {
	m.status = text
	m.statusSeverity = severity
	return m, clearStatusAfter(statusTimeout)
}

func (m *Model) ensureSpinner() tea.Cmd {
	if m.spinning {
		return nil
	}
	m.spinning = true
	return spinnerTick(m.gen)
}

// ── View ─────────────────────────────────────────────────────────

// View renders the TUI.
func (m Model) View() string {
	if m.width < 60 || m.height < 16 {
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(colorYellow).
			Render("Terminal too small (need 60x16)")
	}

	var content string
	switch m.view {
	case viewAuth:
		content = m.auth.View()
	case viewProvider:
		content = m.provider.View()
	case viewPanel:
		content = m.panel.View()
	}

	body := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height - 1).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, body, m.renderStatusBar())
}
