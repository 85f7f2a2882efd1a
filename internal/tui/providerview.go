package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/handit-ai/handit-cli/internal/models"
)

type providerPhase int

const (
	provLoading providerPhase = iota
	provList
	provToken
	provSubmitting
)

// ProviderView connects an AI provider: pick one from the backend's list,
// paste an API key, and store it as an integration token. The whole step
// is skippable.
type ProviderView struct {
	phase      providerPhase
	providers  []models.Provider
	cursor     int
	tokenInput textinput.Model
}

// NewProviderView creates the view in its loading phase.
func NewProviderView() *ProviderView {
	ti := textinput.New()
	ti.Placeholder = "paste your provider API key"
	ti.CharLimit = 256
	ti.Width = 48
	ti.EchoMode = textinput.EchoPassword

	return &ProviderView{tokenInput: ti}
}

// SetProviders moves from loading to the selection list.
func (v *ProviderView) SetProviders(providers []models.Provider) {
	v.providers = providers
	v.cursor = 0
	v.phase = provList
}

// Loading reports whether the provider list is still being fetched.
func (v *ProviderView) Loading() bool { return v.phase == provLoading }

// EnteringToken reports whether the key input is active.
func (v *ProviderView) EnteringToken() bool { return v.phase == provToken }

func (v *ProviderView) MoveUp() {
	if v.phase == provList && v.cursor > 0 {
		v.cursor--
	}
}

func (v *ProviderView) MoveDown() {
	if v.phase == provList && v.cursor < len(v.providers)-1 {
		v.cursor++
	}
}

// Select advances from the list to the token input.
func (v *ProviderView) Select() bool {
	if v.phase != provList || len(v.providers) == 0 {
		return false
	}
	v.phase = provToken
	v.tokenInput.Focus()
	return true
}

// Back returns from the token input to the list.
func (v *ProviderView) Back() {
	if v.phase == provToken {
		v.phase = provList
		v.tokenInput.Blur()
	}
}

// Selected returns the provider under the cursor.
func (v *ProviderView) Selected() *models.Provider {
	if len(v.providers) == 0 || v.cursor >= len(v.providers) {
		return nil
	}
	return &v.providers[v.cursor]
}

// Token returns the entered API key.
func (v *ProviderView) Token() string { return strings.TrimSpace(v.tokenInput.Value()) }

// HandleInput forwards a key to the token input.
func (v *ProviderView) HandleInput(msg tea.KeyMsg) {
	if v.phase == provToken {
		v.tokenInput, _ = v.tokenInput.Update(msg)
	}
}

// SetSubmitting marks the awaiting-host-response substate.
func (v *ProviderView) SetSubmitting() { v.phase = provSubmitting }

// ResetAfterError returns to the token input after a failed submission.
func (v *ProviderView) ResetAfterError() {
	if v.phase == provSubmitting {
		v.phase = provToken
		v.tokenInput.Focus()
	}
}

// View renders the provider-connect step.
func (v *ProviderView) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Connect your AI provider"))
	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render("s skips this step"))
	b.WriteString("\n\n")

	switch v.phase {
	case provLoading:
		b.WriteString(subtitleStyle.Render("Loading providers..."))

	case provList:
		if len(v.providers) == 0 {
			b.WriteString(subtitleStyle.Render("No providers available"))
			break
		}
		for i, p := range v.providers {
			line := fmt.Sprintf("  %s", p.Name)
			if i == v.cursor {
				line = selectedItemStyle.Render("> " + p.Name)
			}
			b.WriteString(line)
			b.WriteString("\n")
		}

	case provToken, provSubmitting:
		if p := v.Selected(); p != nil {
			b.WriteString(labelStyle.Render("Provider"))
			b.WriteString(p.Name)
			b.WriteString("\n")
		}
		b.WriteString(labelStyle.Render("API key"))
		b.WriteString(v.tokenInput.View())
		b.WriteString("\n\n")
		if v.phase == provSubmitting {
			b.WriteString(subtitleStyle.Render("Storing token..."))
		} else {
			b.WriteString(hintStyle.Render("Enter stores the key, Esc goes back"))
		}
	}

	return panelStyle.Render(lipgloss.NewStyle().Width(58).Render(b.String()))
}
