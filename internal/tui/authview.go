package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type authMode int

const (
	modeLogin authMode = iota
	modeSignup
)

// Auth field indices.
const (
	fieldEmail = iota
	fieldPassword
	fieldFirstName
	fieldLastName
)

// AuthView is the authentication form: idle -> validating -> submitting ->
// success | error. Inline field errors clear as soon as the field is
// edited.
type AuthView struct {
	mode       authMode
	inputs     []textinput.Model
	focus      int
	fieldErrs  map[int]string
	banner     string
	submitting bool
	width      int
}

// NewAuthView creates the form, optionally pre-filling the email.
func NewAuthView(prefillEmail string) *AuthView {
	labels := []string{"you@company.com", "password", "first name", "last name"}
	inputs := make([]textinput.Model, 4)
	for i := range inputs {
		ti := textinput.New()
		ti.Placeholder = labels[i]
		ti.CharLimit = 128
		ti.Width = 36
		inputs[i] = ti
	}
	inputs[fieldEmail].SetValue(prefillEmail)
	inputs[fieldPassword].EchoMode = textinput.EchoPassword
	inputs[fieldEmail].Focus()

	return &AuthView{
		inputs:    inputs,
		fieldErrs: make(map[int]string),
	}
}

func (v *AuthView) SetWidth(w int) { v.width = w }

// Mode reports whether the form is in login or signup mode.
func (v *AuthView) IsSignup() bool { return v.mode == modeSignup }

// ToggleMode switches between login and signup, keeping entered values.
func (v *AuthView) ToggleMode() {
	if v.submitting {
		return
	}
	if v.mode == modeLogin {
		v.mode = modeSignup
	} else {
		v.mode = modeLogin
		if v.focus >= v.fieldCount() {
			v.setFocus(0)
		}
	}
	v.banner = ""
}

func (v *AuthView) fieldCount() int {
	if v.mode == modeSignup {
		return 4
	}
	return 2
}

func (v *AuthView) setFocus(i int) {
	v.inputs[v.focus].Blur()
	v.focus = i
	v.inputs[v.focus].Focus()
}

// FocusNext moves to the next field, wrapping.
func (v *AuthView) FocusNext() {
	v.setFocus((v.focus + 1) % v.fieldCount())
}

// FocusPrev moves to the previous field, wrapping.
func (v *AuthView) FocusPrev() {
	v.setFocus((v.focus + v.fieldCount() - 1) % v.fieldCount())
}

// HandleInput forwards a key to the focused field and clears its inline
// error on edit.
func (v *AuthView) HandleInput(msg tea.KeyMsg) {
	if v.submitting {
		return
	}
	before := v.inputs[v.focus].Value()
	v.inputs[v.focus], _ = v.inputs[v.focus].Update(msg)
	if v.inputs[v.focus].Value() != before {
		delete(v.fieldErrs, v.focus)
		v.banner = ""
	}
}

// Validate runs the client-side rules and records inline errors.
// Returns true when the form may be submitted.
func (v *AuthView) Validate() bool {
	v.fieldErrs = make(map[int]string)
	if msg := validateEmail(v.Email()); msg != "" {
		v.fieldErrs[fieldEmail] = msg
	}
	if msg := validatePassword(v.Password()); msg != "" {
		v.fieldErrs[fieldPassword] = msg
	}
	if v.mode == modeSignup {
		if msg := validateName(v.FirstName(), "First name"); msg != "" {
			v.fieldErrs[fieldFirstName] = msg
		}
		if msg := validateName(v.LastName(), "Last name"); msg != "" {
			v.fieldErrs[fieldLastName] = msg
		}
	}
	return len(v.fieldErrs) == 0
}

func (v *AuthView) Email() string     { return strings.TrimSpace(v.inputs[fieldEmail].Value()) }
func (v *AuthView) Password() string  { return v.inputs[fieldPassword].Value() }
func (v *AuthView) FirstName() string { return strings.TrimSpace(v.inputs[fieldFirstName].Value()) }
func (v *AuthView) LastName() string  { return strings.TrimSpace(v.inputs[fieldLastName].Value()) }

// SetSubmitting marks the awaiting-host-response substate.
func (v *AuthView) SetSubmitting(s bool) { v.submitting = s }

// Submitting reports whether a submission is in flight.
func (v *AuthView) Submitting() bool { return v.submitting }

// SetBanner shows a form-level error returned by the host.
func (v *AuthView) SetBanner(msg string) {
	v.banner = msg
	v.submitting = false
}

// View renders the form.
func (v *AuthView) View() string {
	var b strings.Builder

	if v.mode == modeLogin {
		b.WriteString(titleStyle.Render("Sign in to Handit"))
	} else {
		b.WriteString(titleStyle.Render("Create your Handit account"))
	}
	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render("Ctrl+t switches between sign in and sign up"))
	b.WriteString("\n\n")

	labels := []string{"Email", "Password", "First name", "Last name"}
	for i := 0; i < v.fieldCount(); i++ {
		b.WriteString(labelStyle.Render(labels[i]))
		b.WriteString(v.inputs[i].View())
		b.WriteString("\n")
		if msg, ok := v.fieldErrs[i]; ok {
			b.WriteString(labelStyle.Render(""))
			b.WriteString(fieldErrorStyle.Render("✗ " + msg))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	switch {
	case v.submitting:
		b.WriteString(subtitleStyle.Render("Submitting..."))
	case v.banner != "":
		b.WriteString(toastErrorStyle.Render(v.banner))
	default:
		b.WriteString(hintStyle.Render("Enter submits"))
	}

	return panelStyle.Render(lipgloss.NewStyle().Width(54).Render(b.String()))
}
