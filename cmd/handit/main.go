// Package main is the entry point for the handit CLI/TUI.
package main

import (
	"os"

	"github.com/handit-ai/handit-cli/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
