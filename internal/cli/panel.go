package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/handit-ai/handit-cli/internal/config"
	"github.com/handit-ai/handit-cli/internal/tui"
)

var panelWorkspace string

var panelCmd = &cobra.Command{
	Use:   "panel",
	Short: "Open the interactive control panel",
	Long: `Open the interactive control panel.

Sign in (or reuse cached credentials), connect an AI provider, and walk
through the fix-my-AI flow: send traces, review the detected issues, and
apply the optimized prompts to files in your workspace.`,
	RunE: runPanel,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&panelWorkspace, "workspace", "w", "", "workspace root to scan (default: current directory)")
}

func runPanel(cmd *cobra.Command, args []string) error {
	settings, err := config.LoadSettings()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	// Missing credentials are fine; the panel starts on its auth view.
	creds, err := config.LoadCredentials()
	if err != nil {
		return fmt.Errorf("failed to load credentials: %w", err)
	}

	root := panelWorkspace
	if root == "" {
		root, err = os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to resolve working directory: %w", err)
		}
	}
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return fmt.Errorf("workspace root %q is not a directory", root)
	}

	return tui.Run(tui.Options{
		Settings:      settings,
		Credentials:   creds,
		WorkspaceRoot: root,
	})
}
