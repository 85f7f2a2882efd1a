package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/handit-ai/handit-cli/internal/bridge"
)

// renderStatusBar draws the bottom bar: active toast on the left, key
// hints on the right.
func (m Model) renderStatusBar() string {
	left := ""
	if m.status != "" {
		switch m.statusSeverity {
		case bridge.SeverityError:
			left = toastErrorStyle.Render(m.status)
		case bridge.SeverityWarning:
			left = toastWarnStyle.Render(m.status)
		default:
			left = toastInfoStyle.Render(m.status)
		}
	}

	right := m.keyHints()

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}

	return statusBarStyle.Width(m.width).Render(
		left + strings.Repeat(" ", gap) + right,
	)
}

func (m Model) keyHints() string {
	var hints []string

	switch m.view {
	case viewAuth:
		hints = append(hints,
			hint(authKeys.Toggle),
			hint(authKeys.Next),
			hint(authKeys.Submit),
		)
	case viewProvider:
		if m.provider.EnteringToken() {
			hints = append(hints, hint(providerKeys.Select), hint(providerKeys.Back))
		} else {
			hints = append(hints,
				hint(providerKeys.Up),
				hint(providerKeys.Select),
				hint(providerKeys.Skip),
			)
		}
	case viewPanel:
		switch {
		case m.panel.DenyPrompting():
			hints = append(hints, hint(panelKeys.Continue))
		case m.panel.DiffOpen():
			hints = append(hints, hint(panelKeys.Apply), hint(panelKeys.Deny))
		case m.panel.FixEnabled():
			hints = append(hints, hint(panelKeys.Fix), hint(panelKeys.Logs))
		case m.panel.ActionsEnabled():
			hints = append(hints, hint(panelKeys.Copy), hint(panelKeys.Diff), hint(panelKeys.Apply))
		default:
			hints = append(hints, hint(panelKeys.Continue), hint(panelKeys.Logs))
		}
	}

	hints = append(hints, hint(globalKeys.Quit))
	return strings.Join(hints, "  ")
}

func hint(b key.Binding) string {
	h := b.Help()
	return keyStyle.Render(h.Key) + hintStyle.Render(" "+h.Desc)
}
