package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "lumen",
		Short: "Fine-grained reactive state core for Go",
		Long: `Lumen is a fine-grained reactive state core for Go.

Signals, computed values, and effects with automatic dependency
tracking, batched updates, and loop guards.

This CLI bundles development tooling:

  • bench    - propagation benchmarks over synthetic graphs
  • inspect  - serve the live graph inspector
  • version  - print version information`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		benchCmd(),
		inspectCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
