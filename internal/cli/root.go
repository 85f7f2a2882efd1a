// Package cli implements the handit CLI commands.
package cli

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "handit",
	Short: "Find and fix the prompts your AI agent is failing on",
	Long: `Handit connects your agent's traces to prompt evaluation and
optimization. Run the panel, point your agent's tracer at the session,
and review, diff, and apply the optimized prompts in your project.`,
	RunE: runPanel,
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Add subcommands (alphabetical)
	rootCmd.AddCommand(configureCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(panelCmd)
	rootCmd.AddCommand(versionCmd)
}
