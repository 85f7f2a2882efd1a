package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/handit-ai/handit-cli/internal/api"
	"github.com/handit-ai/handit-cli/internal/config"
	"github.com/handit-ai/handit-cli/internal/models"
)

var loginEmail string

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and cache credentials",
	Long: `Sign in to Handit and cache the bearer token under ~/.handit.

Subsequent panel runs skip the interactive auth step and resume a
session with the cached token.`,
	RunE: runLogin,
}

func init() {
	loginCmd.Flags().StringVarP(&loginEmail, "email", "e", "", "account email (prompted when omitted)")
}

func runLogin(cmd *cobra.Command, args []string) error {
	email := strings.TrimSpace(loginEmail)
	if email == "" {
		fmt.Print("Email: ")
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read email: %w", err)
		}
		email = strings.TrimSpace(line)
	}
	if email == "" {
		return fmt.Errorf("email is required")
	}

	fmt.Print("Password: ")
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}
	password := string(raw)
	if password == "" {
		return fmt.Errorf("password is required")
	}

	settings, err := config.LoadSettings()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	client := api.NewClient(settings.APIBaseURL)
	res, err := client.Login(ctx, email, password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	if err := config.SaveCredentials(&models.Credentials{Email: email, Token: res.Token}); err != nil {
		return fmt.Errorf("failed to save credentials: %w", err)
	}

	fmt.Println(styleSuccess.Render("Signed in as " + email))
	fmt.Println(styleHint.Render("Run " + styleCommand.Render("handit panel") + styleHint.Render(" to open the control panel.")))
	return nil
}
