// Package tui implements the interactive Handit panel.
package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/handit-ai/handit-cli/internal/api"
	"github.com/handit-ai/handit-cli/internal/bridge"
	"github.com/handit-ai/handit-cli/internal/config"
	"github.com/handit-ai/handit-cli/internal/models"
	"github.com/handit-ai/handit-cli/internal/workspace"
)

// programRef is a shared reference to the tea.Program for goroutine sends.
// It's set after tea.NewProgram but before p.Run().
type programRef struct {
	mu sync.Mutex
	p  *tea.Program
}

func (r *programRef) Set(p *tea.Program) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.p = p
}

func (r *programRef) Send(msg tea.Msg) {
	r.mu.Lock()
	p := r.p
	r.mu.Unlock()
	if p != nil {
		p.Send(msg)
	}
}

// Clear nils out the program reference, preventing post-exit sends.
func (r *programRef) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.p = nil
}

// Options configures a panel run.
type Options struct {
	Settings      *models.Settings
	Credentials   *models.Credentials // nil when not logged in via CLI
	WorkspaceRoot string
}

// Run launches the panel TUI.
func Run(opts Options) error {
	settings := opts.Settings
	if settings == nil {
		settings = models.NewSettings()
	}

	client := api.NewClient(settings.APIBaseURL)
	if opts.Credentials != nil {
		client.SetToken(opts.Credentials.Token)
	}
	channel := api.NewChannel(config.WebSocketURL(settings), client.Token)

	scanner := workspace.NewScanner(opts.WorkspaceRoot)
	replacer := workspace.NewReplacer(scanner)
	diffs := workspace.NewDiffManager(scanner, replacer, config.AppendFeedback)

	ref := &programRef{}
	host := bridge.NewHost(client, channel, scanner, replacer, diffs, settings.Workspace, config.AppendTrace, func(m bridge.HostMessage) {
		ref.Send(HostMsg{Msg: m})
	})
	host.Resolve()

	model := NewModel(host, client, opts.Credentials)

	p := tea.NewProgram(model, tea.WithAltScreen())
	ref.Set(p)

	_, err := p.Run()
	ref.Clear()
	host.Dispose()
	return err
}
