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
		Use:   "lattice",
		Short: "Server-driven component trees over WebSocket",
		Long: `Lattice renders component trees on the server and streams
serialized updates to a thin client over WebSocket.

Components hold state in hooks, re-render when that state changes,
and the reconciler ships only the submodel of the instance that
changed.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		serveCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
