package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "macroctl",
	Short: "Offline-first macro tracking CLI",
	Long: "macroctl logs meals, entries, weight and water against the macro\n" +
		"tracker backend. When the backend is unreachable, mutations apply to\n" +
		"the local cache and queue for replay on the next sync.",
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
