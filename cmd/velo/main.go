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
		Use:   "velo",
		Short: "Flag-driven virtual tree reconciler",
		Long: `Velo is a bit-flag virtual tree reconciler with a streaming server.

The reconciler patches a render target from compiler-produced hints:
per-node patch flags scope the diff to what can actually change, and
block dynamic lists skip static subtrees entirely. The serve command
streams recorded op batches to WebSocket clients; archived sessions
can be replayed later.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		serveCmd(),
		explainCmd(),
		replayCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
