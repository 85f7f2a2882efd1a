// Package bridge relays messages between the panel UI and the extension
// host logic. Both directions use a closed, tagged-variant message set
// discriminated on a "command" field, JSON-compatible with the original
// webview protocol.
package bridge

import (
	"encoding/json"
	"fmt"

	"github.com/handit-ai/handit-cli/internal/models"
)

// UI -> host command strings.
const (
	CmdLogin                  = "login"
	CmdSignup                 = "signup"
	CmdDiffPromptInProject    = "diffPromptInProject"
	CmdApplyPromptChange      = "applyPromptChangeInProject"
	CmdBulkReplaceTextDiff    = "bulkReplaceTextDiff"
	CmdBulkApplyTextReplace   = "bulkApplyTextReplace"
	CmdSubmitFeedback         = "submitFeedback"
	CmdGetProviders           = "getProviders"
	CmdCreateIntegrationToken = "createIntegrationToken"
)

// Host -> UI command strings.
const (
	CmdLoginResponse           = "loginResponse"
	CmdSignupResponse          = "signupResponse"
	CmdSessionCreated          = "sessionCreated"
	CmdTraceReceived           = "traceReceived"
	CmdModelLogPreview         = "modelLogPreview"
	CmdProvidersLoaded         = "providersLoaded"
	CmdIntegrationTokenCreated = "integrationTokenCreated"
	CmdDiffOpened              = "diffOpened"
	CmdReplaceApplied          = "replaceApplied"
	CmdSessionUpdated          = "sessionUpdated"
	CmdToast                   = "toast"
)

// UICommand is a message posted by the UI to the host.
type UICommand interface {
	Command() string
}

// HostMessage is a message posted by the host back to the UI.
type HostMessage interface {
	Command() string
}

// ── UI -> host ───────────────────────────────────────────────────

type LoginCommand struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (LoginCommand) Command() string { return CmdLogin }

type SignupCommand struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

func (SignupCommand) Command() string { return CmdSignup }

type DiffPromptCommand struct {
	OriginalPrompt  string `json:"originalPrompt"`
	OptimizedPrompt string `json:"optimizedPrompt"`
	Title           string `json:"title"`
}

func (DiffPromptCommand) Command() string { return CmdDiffPromptInProject }

// ApplyPromptChangeCommand accepts the currently open diff.
type ApplyPromptChangeCommand struct{}

func (ApplyPromptChangeCommand) Command() string { return CmdApplyPromptChange }

type BulkReplaceDiffCommand struct {
	SearchText      string `json:"searchText"`
	ReplacementText string `json:"replacementText"`
}

func (BulkReplaceDiffCommand) Command() string { return CmdBulkReplaceTextDiff }

type BulkApplyReplaceCommand struct {
	SearchText      string `json:"searchText"`
	ReplacementText string `json:"replacementText"`
}

func (BulkApplyReplaceCommand) Command() string { return CmdBulkApplyTextReplace }

// SubmitFeedbackCommand denies the open diff and records why.
type SubmitFeedbackCommand struct {
	Feedback string `json:"feedback"`
}

func (SubmitFeedbackCommand) Command() string { return CmdSubmitFeedback }

type GetProvidersCommand struct{}

func (GetProvidersCommand) Command() string { return CmdGetProviders }

type CreateIntegrationTokenCommand struct {
	ProviderID string `json:"providerId"`
	Name       string `json:"name"`
	Token      string `json:"token"`
}

func (CreateIntegrationTokenCommand) Command() string { return CmdCreateIntegrationToken }

// ── Host -> UI ───────────────────────────────────────────────────

type LoginResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

func (LoginResponse) Command() string { return CmdLoginResponse }

type SignupResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

func (SignupResponse) Command() string { return CmdSignupResponse }

type SessionCreated struct {
	Session models.Session `json:"session"`
}

func (SessionCreated) Command() string { return CmdSessionCreated }

type TraceReceived struct {
	Trace models.TraceEvent `json:"trace"`
	Count int               `json:"count"`
}

func (TraceReceived) Command() string { return CmdTraceReceived }

type ModelLogPreview struct {
	SessionID string `json:"sessionId"`
	Preview   string `json:"preview"`
}

func (ModelLogPreview) Command() string { return CmdModelLogPreview }

type ProvidersLoaded struct {
	Providers []models.Provider `json:"providers"`
}

func (ProvidersLoaded) Command() string { return CmdProvidersLoaded }

type IntegrationTokenCreated struct{}

func (IntegrationTokenCreated) Command() string { return CmdIntegrationTokenCreated }

type DiffOpened struct {
	Path  string `json:"path"`
	Title string `json:"title"`
	Diff  string `json:"diff"`
	Found bool   `json:"found"`
}

func (DiffOpened) Command() string { return CmdDiffOpened }

type ReplaceApplied struct {
	Count int    `json:"count"`
	Path  string `json:"path,omitempty"`
}

func (ReplaceApplied) Command() string { return CmdReplaceApplied }

type SessionUpdated struct {
	Payload json.RawMessage `json:"payload"`
}

func (SessionUpdated) Command() string { return CmdSessionUpdated }

// Toast severities.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Toast mirrors a significant transition to the user. Every failure
// produces exactly one of these.
type Toast struct {
	Severity Severity `json:"severity"`
	Text     string   `json:"text"`
}

func (Toast) Command() string { return CmdToast }

// ── Wire encoding ────────────────────────────────────────────────

// Encode wraps a message in the wire envelope: the message's own fields
// plus the "command" discriminator.
func Encode(command string, msg any) ([]byte, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, err
	}
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	fields["command"] = json.RawMessage(fmt.Sprintf("%q", command))
	return json.Marshal(fields)
}

// EncodeUICommand serializes a UI->host message.
func EncodeUICommand(c UICommand) ([]byte, error) {
	return Encode(c.Command(), c)
}

// EncodeHostMessage serializes a host->UI message.
func EncodeHostMessage(m HostMessage) ([]byte, error) {
	return Encode(m.Command(), m)
}

// DecodeUICommand parses a UI->host message. The set is closed: an unknown
// command is an error, never a silently ignored payload.
func DecodeUICommand(data []byte) (UICommand, error) {
	var probe struct {
		Command string `json:"command"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, err
	}

	var c UICommand
	switch probe.Command {
	case CmdLogin:
		c = &LoginCommand{}
	case CmdSignup:
		c = &SignupCommand{}
	case CmdDiffPromptInProject:
		c = &DiffPromptCommand{}
	case CmdApplyPromptChange:
		c = &ApplyPromptChangeCommand{}
	case CmdBulkReplaceTextDiff:
		c = &BulkReplaceDiffCommand{}
	case CmdBulkApplyTextReplace:
		c = &BulkApplyReplaceCommand{}
	case CmdSubmitFeedback:
		c = &SubmitFeedbackCommand{}
	case CmdGetProviders:
		c = &GetProvidersCommand{}
	case CmdCreateIntegrationToken:
		c = &CreateIntegrationTokenCommand{}
	default:
		return nil, fmt.Errorf("unknown command %q", probe.Command)
	}
	if err := json.Unmarshal(data, c); err != nil {
		return nil, err
	}
	return c, nil
}
