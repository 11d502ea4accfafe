// Package cmd wires the booklingua commands: the event server, a one-shot
// translation run, order exports, and a database health check.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "booklingua",
	Short: "Book translation order pipeline",
	Long: `booklingua runs the translation pipeline for paid book orders:
it accepts translation events, drives the per-language translation and
editorial passes, stores the results, and notifies the customer.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
