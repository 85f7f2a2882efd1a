package cli

import (
	"bufio"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/handit-ai/handit-cli/internal/config"
)

var configureCmd = &cobra.Command{
	Use:     "configure",
	Aliases: []string{"config"},
	Short:   "Configure global settings",
	Long: `Configure global settings interactively.

This allows you to modify:
  - API base URL
  - Push-notification (WebSocket) URL
  - Workspace scan globs and file limit
  - Developer mode

Press Enter to keep the current value for any setting.`,
	RunE: runConfigure,
}

func runConfigure(cmd *cobra.Command, args []string) error {
	settings, err := config.LoadSettings()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	reader := bufio.NewReader(os.Stdin)
	changed := false

	// API base URL
	fmt.Printf("API base URL [%s]: ", settings.APIBaseURL)
	apiURL, _ := reader.ReadString('\n')
	apiURL = strings.TrimSpace(apiURL)
	if apiURL != "" {
		if !isValidHTTPURL(apiURL) {
			return fmt.Errorf("invalid API URL: %s (expected http:// or https://)", apiURL)
		}
		if apiURL != settings.APIBaseURL {
			settings.APIBaseURL = apiURL
			changed = true
		}
	}

	// WebSocket URL (empty means derive from the API URL)
	fmt.Printf("WebSocket URL (empty = derived) [%s]: ", settings.WSURL)
	wsURL, _ := reader.ReadString('\n')
	wsURL = strings.TrimSpace(wsURL)
	if wsURL != "" && wsURL != settings.WSURL {
		settings.WSURL = wsURL
		changed = true
	}

	// Workspace scan settings
	fmt.Println("\nWorkspace scan settings:")

	fmt.Printf("  Include glob [%s]: ", settings.Workspace.IncludeGlob)
	include, _ := reader.ReadString('\n')
	include = strings.TrimSpace(include)
	if include != "" && include != settings.Workspace.IncludeGlob {
		settings.Workspace.IncludeGlob = include
		changed = true
	}

	fmt.Printf("  Exclude glob [%s]: ", settings.Workspace.ExcludeGlob)
	exclude, _ := reader.ReadString('\n')
	exclude = strings.TrimSpace(exclude)
	if exclude != "" && exclude != settings.Workspace.ExcludeGlob {
		settings.Workspace.ExcludeGlob = exclude
		changed = true
	}

	fmt.Printf("  Scan file limit [%d]: ", settings.Workspace.ScanLimit)
	limitStr, _ := reader.ReadString('\n')
	limitStr = strings.TrimSpace(limitStr)
	if limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 1 {
			return fmt.Errorf("invalid scan limit: %s (expected a positive integer)", limitStr)
		}
		if limit != settings.Workspace.ScanLimit {
			settings.Workspace.ScanLimit = limit
			changed = true
		}
	}

	newDevMode := promptYesNoWithCurrent(reader, "Developer mode?", settings.DevMode)
	if newDevMode != settings.DevMode {
		settings.DevMode = newDevMode
		changed = true
	}

	if !changed {
		fmt.Println("\nNo changes made.")
		return nil
	}

	if err := config.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	fmt.Println("\nSettings updated.")
	return nil
}

// promptYesNoWithCurrent prompts for a yes/no value showing the current value.
func promptYesNoWithCurrent(reader *bufio.Reader, prompt string, current bool) bool {
	currentStr := "no"
	if current {
		currentStr = "yes"
	}

	fmt.Printf("  %s [%s]: ", prompt, currentStr)
	response, _ := reader.ReadString('\n')
	response = strings.TrimSpace(strings.ToLower(response))

	if response == "" {
		return current
	}
	return response == "y" || response == "yes"
}

// isValidHTTPURL validates an http(s) URL.
func isValidHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
