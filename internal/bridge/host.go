package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/x/ansi"

	"github.com/handit-ai/handit-cli/internal/api"
	"github.com/handit-ai/handit-cli/internal/config"
	"github.com/handit-ai/handit-cli/internal/models"
	"github.com/handit-ai/handit-cli/internal/workspace"
)

// State is the host's lifecycle position for one panel instance.
type State int

const (
	StateUninitialized State = iota
	StateRendered
	StateAuthenticating
	StateSessionPending
	StateSessionActive
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateRendered:
		return "rendered"
	case StateAuthenticating:
		return "authenticating"
	case StateSessionPending:
		return "session-pending"
	case StateSessionActive:
		return "session-active"
	}
	return "unknown"
}

// logPreviewLimit caps the size of a modelLogPreview relay.
const logPreviewLimit = 2000

// TraceLogger persists received traces; config.AppendTrace in production.
type TraceLogger func(sessionID string, ev models.TraceEvent, raw string) error

// Host bridges one panel to the API client and workspace utilities. It is
// stateless beyond the references needed for accept/deny and the session.
type Host struct {
	client   *api.Client
	channel  *api.Channel
	scanner  *workspace.Scanner
	replacer *workspace.Replacer
	diffs    *workspace.DiffManager
	ws       models.WorkspaceConfig
	traceLog TraceLogger
	send     func(HostMessage)

	mu         sync.Mutex
	state      State
	session    *models.Session
	traceCount int
}

// NewHost wires the host to its collaborators. send is invoked for every
// host->UI message; it must be safe to call from any goroutine.
func NewHost(client *api.Client, channel *api.Channel, scanner *workspace.Scanner, replacer *workspace.Replacer, diffs *workspace.DiffManager, ws models.WorkspaceConfig, traceLog TraceLogger, send func(HostMessage)) *Host {
	if traceLog == nil {
		traceLog = func(string, models.TraceEvent, string) error { return nil }
	}
	return &Host{
		client:   client,
		channel:  channel,
		scanner:  scanner,
		replacer: replacer,
		diffs:    diffs,
		ws:       ws,
		traceLog: traceLog,
		send:     send,
	}
}

// State returns the current lifecycle state.
func (h *Host) State() State {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

// Session returns the active session, or nil before one exists.
func (h *Host) Session() *models.Session {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.session
}

// TraceCount returns how many track traces have been relayed.
func (h *Host) TraceCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.traceCount
}

// Resolve moves the panel from Uninitialized to Rendered. Idempotent.
func (h *Host) Resolve() {
	h.mu.Lock()
	if h.state == StateUninitialized {
		h.state = StateRendered
	}
	h.mu.Unlock()
}

// Dispose tears down the notification channel and any open diff. The
// session itself is backend-owned and simply forgotten.
func (h *Host) Dispose() {
	if h.channel != nil {
		_ = h.channel.Close()
	}
	if h.diffs != nil {
		h.diffs.Close()
	}
	h.mu.Lock()
	h.session = nil
	h.traceCount = 0
	h.state = StateUninitialized
	h.mu.Unlock()
}

// Handle processes one UI command. Blocking work happens on the caller's
// goroutine; results come back through send. Errors never escape: every
// failure becomes exactly one toast or error-carrying response.
func (h *Host) Handle(ctx context.Context, cmd UICommand) {
	switch c := cmd.(type) {
	case *LoginCommand:
		h.handleLogin(ctx, c)
	case *SignupCommand:
		h.handleSignup(ctx, c)
	case *DiffPromptCommand:
		h.handleDiffPrompt(ctx, c)
	case *ApplyPromptChangeCommand:
		h.handleApplyPromptChange(ctx)
	case *BulkReplaceDiffCommand:
		h.handleBulkReplaceDiff(ctx, c)
	case *BulkApplyReplaceCommand:
		h.handleBulkApplyReplace(ctx, c)
	case *SubmitFeedbackCommand:
		h.handleSubmitFeedback(c)
	case *GetProvidersCommand:
		h.handleGetProviders(ctx)
	case *CreateIntegrationTokenCommand:
		h.handleCreateIntegrationToken(ctx, c)
	default:
		h.send(Toast{Severity: SeverityError, Text: fmt.Sprintf("unsupported command %q", cmd.Command())})
	}
}

// ── Auth ─────────────────────────────────────────────────────────

func (h *Host) handleLogin(ctx context.Context, c *LoginCommand) {
	h.setState(StateAuthenticating)

	_, err := h.client.Login(ctx, c.Email, c.Password)
	if err != nil {
		h.setState(StateRendered)
		h.send(LoginResponse{OK: false, Error: userMessage(err)})
		h.send(Toast{Severity: SeverityError, Text: userMessage(err)})
		return
	}

	h.send(LoginResponse{OK: true})
	h.send(Toast{Severity: SeverityInfo, Text: "Signed in"})
	h.establishSession(ctx)
}

func (h *Host) handleSignup(ctx context.Context, c *SignupCommand) {
	h.setState(StateAuthenticating)

	_, err := h.client.Signup(ctx, c.Email, c.Password, c.FirstName, c.LastName)
	if err != nil {
		h.setState(StateRendered)
		h.send(SignupResponse{OK: false, Error: userMessage(err)})
		h.send(Toast{Severity: SeverityError, Text: userMessage(err)})
		return
	}

	h.send(SignupResponse{OK: true})
	h.send(Toast{Severity: SeverityInfo, Text: "Account created"})
	h.establishSession(ctx)
}

// ResumeSession establishes a session using a previously cached token,
// skipping the interactive auth step.
func (h *Host) ResumeSession(ctx context.Context) {
	if h.client.Token() == "" {
		h.send(Toast{Severity: SeverityError, Text: userMessage(api.ErrUnauthenticated)})
		return
	}
	h.establishSession(ctx)
}

// establishSession creates the live session and opens the notification
// channel. Failures here are warnings: they never undo a successful auth.
func (h *Host) establishSession(ctx context.Context) {
	h.setState(StateSessionPending)

	masking := models.MaskingRules{MaskInputs: true, MaskOutputs: true}
	id, err := h.client.CreateSession(ctx, "live", masking)
	if err != nil {
		h.setState(StateRendered)
		h.send(Toast{Severity: SeverityWarning, Text: "Signed in, but session creation failed: " + userMessage(err)})
		return
	}

	session := &models.Session{ID: id, Type: "live", Masking: masking}
	h.mu.Lock()
	h.session = session
	h.state = StateSessionActive
	h.mu.Unlock()
	h.send(SessionCreated{Session: *session})

	h.registerChannelHandlers(id)
	if err := h.channel.Open(ctx, id); err != nil {
		h.send(Toast{Severity: SeverityWarning, Text: "Live trace updates unavailable: " + userMessage(err)})
	}
}

func (h *Host) registerChannelHandlers(sessionID string) {
	h.channel.On(api.EventRunCompleted, func(payload json.RawMessage) {
		h.onRunCompleted(sessionID, payload)
	})
	h.channel.On(api.EventSessionUpdated, func(payload json.RawMessage) {
		h.send(SessionUpdated{Payload: payload})
	})
	h.channel.On(api.EventDisconnect, func(json.RawMessage) {
		h.send(Toast{Severity: SeverityWarning, Text: "Trace stream disconnected, reconnecting"})
	})
	h.channel.On(api.EventError, func(payload json.RawMessage) {
		h.send(Toast{Severity: SeverityWarning, Text: "Trace stream error"})
	})
}

// onRunCompleted relays track runs exactly once each; anything else is a
// deliberate no-op.
func (h *Host) onRunCompleted(sessionID string, payload json.RawMessage) {
	var body struct {
		Run models.Run `json:"run"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		return
	}
	if body.Run.Action != "track" {
		return
	}

	ev := models.TraceEvent{Run: body.Run, ReceivedAt: time.Now()}

	h.mu.Lock()
	h.traceCount++
	count := h.traceCount
	h.mu.Unlock()

	h.send(TraceReceived{Trace: ev, Count: count})

	raw := ansi.Strip(string(payload))
	if err := h.traceLog(sessionID, ev, raw); err == nil {
		h.send(ModelLogPreview{SessionID: sessionID, Preview: truncatePreview(raw)})
	}
}

// truncatePreview caps the preview at logPreviewLimit bytes, backing up
// to a rune boundary so the cut never emits a split UTF-8 sequence.
func truncatePreview(s string) string {
	if len(s) <= logPreviewLimit {
		return s
	}
	cut := logPreviewLimit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// ── Workspace ────────────────────────────────────────────────────

func (h *Host) handleDiffPrompt(ctx context.Context, c *DiffPromptCommand) {
	path, err := h.scanner.FindFirstContaining(ctx, c.OriginalPrompt, h.ws.IncludeGlob, h.ws.ExcludeGlob, h.ws.ScanLimit)
	found := err == nil
	if err != nil && !errors.Is(err, workspace.ErrNotFoundInWorkspace) {
		h.send(Toast{Severity: SeverityError, Text: userMessage(err)})
		return
	}

	title := c.Title
	if title == "" {
		title = "prompt"
	}
	_, rendered, err := h.diffs.OpenDiff(path, c.OriginalPrompt, c.OptimizedPrompt, title)
	if err != nil {
		h.send(Toast{Severity: SeverityError, Text: userMessage(err)})
		return
	}

	if !found {
		h.send(Toast{Severity: SeverityWarning, Text: "No workspace file contains this prompt; showing the diff only"})
	}
	h.send(DiffOpened{Path: path, Title: title, Diff: rendered, Found: found})
}

func (h *Host) handleApplyPromptChange(ctx context.Context) {
	path, err := h.diffs.Accept(ctx)
	if err != nil {
		h.send(Toast{Severity: SeverityError, Text: userMessage(err)})
		return
	}
	h.send(ReplaceApplied{Count: 1, Path: path})
	h.send(Toast{Severity: SeverityInfo, Text: "Prompt updated in " + path})
}

func (h *Host) handleBulkReplaceDiff(ctx context.Context, c *BulkReplaceDiffCommand) {
	path, err := h.scanner.FindFirstContaining(ctx, c.SearchText, h.ws.IncludeGlob, h.ws.ExcludeGlob, h.ws.ScanLimit)
	if err != nil {
		if errors.Is(err, workspace.ErrNotFoundInWorkspace) {
			h.send(Toast{Severity: SeverityWarning, Text: "No workspace file contains the search text"})
			return
		}
		h.send(Toast{Severity: SeverityError, Text: userMessage(err)})
		return
	}

	_, rendered, err := h.diffs.OpenDiff(path, c.SearchText, c.ReplacementText, "bulk replace")
	if err != nil {
		h.send(Toast{Severity: SeverityError, Text: userMessage(err)})
		return
	}
	h.send(DiffOpened{Path: path, Title: "bulk replace", Diff: rendered, Found: true})
}

func (h *Host) handleBulkApplyReplace(ctx context.Context, c *BulkApplyReplaceCommand) {
	count, err := h.replacer.BulkReplace(ctx, c.SearchText, c.ReplacementText, h.ws.IncludeGlob, h.ws.ExcludeGlob, h.ws.ScanLimit)
	if err != nil {
		h.send(Toast{Severity: SeverityError, Text: userMessage(err)})
		return
	}
	h.send(ReplaceApplied{Count: count})
	h.send(Toast{Severity: SeverityInfo, Text: fmt.Sprintf("Replaced text in %d file(s)", count)})
}

func (h *Host) handleSubmitFeedback(c *SubmitFeedbackCommand) {
	sessionID := ""
	if s := h.Session(); s != nil {
		sessionID = s.ID
	}

	err := h.diffs.Deny(sessionID, c.Feedback)
	if err != nil {
		if errors.Is(err, workspace.ErrNoActiveDiff) {
			// Nothing to close; still record what the user told us.
			_ = config.AppendFeedback(models.FeedbackRecord{
				SessionID: sessionID,
				Text:      c.Feedback,
				CreatedAt: time.Now().UTC().Format(time.RFC3339),
			})
			h.send(Toast{Severity: SeverityInfo, Text: "Feedback recorded"})
			return
		}
		h.send(Toast{Severity: SeverityError, Text: userMessage(err)})
		return
	}
	h.send(Toast{Severity: SeverityInfo, Text: "Feedback recorded, change discarded"})
}

// ── Providers ────────────────────────────────────────────────────

func (h *Host) handleGetProviders(ctx context.Context) {
	providers, err := h.client.ListProviders(ctx)
	if err != nil {
		h.send(Toast{Severity: SeverityError, Text: userMessage(err)})
		return
	}
	h.send(ProvidersLoaded{Providers: providers})
}

func (h *Host) handleCreateIntegrationToken(ctx context.Context, c *CreateIntegrationTokenCommand) {
	if err := h.client.CreateIntegrationToken(ctx, c.ProviderID, c.Name, c.Token); err != nil {
		h.send(Toast{Severity: SeverityError, Text: userMessage(err)})
		return
	}
	h.send(IntegrationTokenCreated{})
	h.send(Toast{Severity: SeverityInfo, Text: "Provider connected"})
}

func (h *Host) setState(s State) {
	h.mu.Lock()
	h.state = s
	h.mu.Unlock()
}

// userMessage converts a taxonomy error into a toast-ready sentence.
func userMessage(err error) string {
	switch {
	case errors.Is(err, api.ErrUnreachable):
		return "Cannot reach the Handit backend. Check your connection and API URL."
	case errors.Is(err, api.ErrUnauthorized):
		return "Invalid email or password."
	case errors.Is(err, api.ErrConflict):
		return "An account with this email already exists."
	case errors.Is(err, api.ErrBadRequest):
		return "The backend rejected the request."
	case errors.Is(err, api.ErrUnauthenticated):
		return "You need to sign in first."
	case errors.Is(err, api.ErrServerError):
		return "The backend hit an internal error. Try again shortly."
	case errors.Is(err, workspace.ErrNotFoundInWorkspace):
		return "The original text was not found in the workspace."
	case errors.Is(err, workspace.ErrNoActiveDiff):
		return "No diff is currently open."
	case errors.Is(err, workspace.ErrEditApplyFailed):
		return "Could not write the change to disk."
	}
	return err.Error()
}
