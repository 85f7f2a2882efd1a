package tui

import (
	"context"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/handit-ai/handit-cli/internal/api"
	"github.com/handit-ai/handit-cli/internal/bridge"
	"github.com/handit-ai/handit-cli/internal/config"
)

// Animation cadence. The reveal advances one character per tick; the
// counter one unit per tick.
const (
	revealInterval  = 30 * time.Millisecond
	counterInterval = 60 * time.Millisecond
	spinnerInterval = 80 * time.Millisecond

	// evalDelay is the fixed pause between the first received trace and
	// the start of evaluation.
	evalDelay = 3 * time.Second

	statusTimeout = 5 * time.Second
)

// dispatchCmd forwards one UI command to the host. Results come back
// asynchronously as HostMsg via the program reference.
func dispatchCmd(host *bridge.Host, cmd bridge.UICommand) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 45*time.Second)
		defer cancel()
		host.Handle(ctx, cmd)
		return nil
	}
}

// resumeSessionCmd re-establishes a session from cached credentials.
func resumeSessionCmd(host *bridge.Host) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 45*time.Second)
		defer cancel()
		host.ResumeSession(ctx)
		return nil
	}
}

func fetchInsightsCmd(client *api.Client, sessionID string, gen int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		res, err := client.FetchInsights(ctx, sessionID)
		if err != nil {
			return ErrorMsg{Err: err}
		}
		return InsightsLoadedMsg{Result: res, gen: gen}
	}
}

func applyInsightsCmd(client *api.Client, sessionID string, gen int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()

		opts, err := client.ApplyInsights(ctx, sessionID)
		if err != nil {
			return ErrorMsg{Err: err}
		}
		return OptimizationsLoadedMsg{Optimizations: opts, gen: gen}
	}
}

func copyPromptCmd(text string) tea.Cmd {
	return func() tea.Msg {
		return CopiedMsg{Err: clipboard.WriteAll(text)}
	}
}

func loadLogPreviewCmd(sessionID string) tea.Cmd {
	return func() tea.Msg {
		entry, content, err := config.ReadTraceLog(sessionID)
		if err != nil {
			return ErrorMsg{Err: err}
		}
		return LogPreviewLoadedMsg{Entry: entry, Content: content}
	}
}

func evalDelayCmd(gen int) tea.Cmd {
	return tea.Tick(evalDelay, func(_ time.Time) tea.Msg {
		return evalDelayMsg{gen: gen}
	})
}

func counterTick(gen int) tea.Cmd {
	return tea.Tick(counterInterval, func(_ time.Time) tea.Msg {
		return counterTickMsg{gen: gen}
	})
}

func revealTick(gen int) tea.Cmd {
	return tea.Tick(revealInterval, func(_ time.Time) tea.Msg {
		return revealTickMsg{gen: gen}
	})
}

func spinnerTick(gen int) tea.Cmd {
	return tea.Tick(spinnerInterval, func(_ time.Time) tea.Msg {
		return spinnerTickMsg{gen: gen}
	})
}

func clearStatusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(_ time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}
