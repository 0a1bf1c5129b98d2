// Package main provides the main entry point for the retint CLI.
package main

import (
	"fmt"
	"os"

	"github.com/bnema/retint/internal/cli"
	"github.com/bnema/retint/internal/config"
)

// Build information set via ldflags
var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	if err := config.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize configuration: %v\n", err)
		os.Exit(1)
	}

	rootCmd := cli.NewRootCmd(version, commit, buildDate)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
