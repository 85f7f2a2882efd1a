package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/handit-ai/handit-cli/internal/config"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove cached credentials",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.DeleteCredentials(); err != nil {
			return fmt.Errorf("failed to remove credentials: %w", err)
		}
		fmt.Println(styleSuccess.Render("Signed out."))
		return nil
	},
}
