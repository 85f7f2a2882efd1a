package tui

import "github.com/charmbracelet/lipgloss"

// Colors using AdaptiveColor for light/dark terminal support.
var (
	colorWhite  = lipgloss.AdaptiveColor{Light: "0", Dark: "15"}
	colorDim    = lipgloss.AdaptiveColor{Light: "242", Dark: "240"}
	colorGreen  = lipgloss.AdaptiveColor{Light: "28", Dark: "40"}
	colorRed    = lipgloss.AdaptiveColor{Light: "160", Dark: "196"}
	colorYellow = lipgloss.AdaptiveColor{Light: "136", Dark: "220"}
	colorOrange = lipgloss.AdaptiveColor{Light: "166", Dark: "208"}
	colorCyan   = lipgloss.AdaptiveColor{Light: "30", Dark: "45"}
)

// Layout styles.
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorCyan)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorDim).
			Padding(1, 2)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(colorWhite).
			Background(lipgloss.AdaptiveColor{Light: "235", Dark: "236"})
)

// Form styles.
var (
	labelStyle = lipgloss.NewStyle().
			Width(12).
			Foreground(colorDim)

	fieldErrorStyle = lipgloss.NewStyle().
			Foreground(colorRed)

	selectedItemStyle = lipgloss.NewStyle().
				Background(lipgloss.AdaptiveColor{Light: "254", Dark: "237"})
)

// Wizard step styles.
var (
	stepActiveStyle = lipgloss.NewStyle().
			Bold(true).
			Underline(true).
			Foreground(colorWhite)

	stepInactiveStyle = lipgloss.NewStyle().
				Foreground(colorDim)

	stepDoneStyle = lipgloss.NewStyle().
			Foreground(colorGreen)
)

// Content styles.
var (
	problemStyle  = lipgloss.NewStyle().Foreground(colorOrange)
	solutionStyle = lipgloss.NewStyle().Foreground(colorGreen)
	counterStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorYellow)
	promptStyle   = lipgloss.NewStyle().Foreground(colorWhite)

	diffAddStyle = lipgloss.NewStyle().Foreground(colorGreen)
	diffDelStyle = lipgloss.NewStyle().Foreground(colorRed)
	diffHdrStyle = lipgloss.NewStyle().Foreground(colorCyan)
)

// Toast styles by severity.
var (
	toastInfoStyle = lipgloss.NewStyle().
			Foreground(colorGreen)

	toastWarnStyle = lipgloss.NewStyle().
			Background(colorYellow).
			Foreground(lipgloss.AdaptiveColor{Light: "0", Dark: "0"}).
			Padding(0, 1)

	toastErrorStyle = lipgloss.NewStyle().
			Background(colorRed).
			Foreground(colorWhite).
			Padding(0, 1)
)

// Key hint styles for status bar.
var (
	keyStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorWhite)
	hintStyle = lipgloss.NewStyle().Foreground(colorDim)
)
