package cmd

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var translateCmd = &cobra.Command{
	Use:   "translate <order-id>",
	Short: "Run the translation job for one order synchronously",
	Long: `Runs the full translation workflow for the given order in the
foreground. Steps already recorded by a previous run are skipped, so this
is also the way to resume a crashed or partially failed job.`,
	Args: cobra.ExactArgs(1),
	RunE: runTranslate,
}

func init() {
	rootCmd.AddCommand(translateCmd)
}

func runTranslate(cmd *cobra.Command, args []string) error {
	orderID, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid order id %q: %w", args[0], err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := buildApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.job.Run(ctx, orderID); err != nil {
		return fmt.Errorf("translate order %s: %w", orderID, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "order %s translated\n", orderID)
	return nil
}
