package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var dbHealthCmd = &cobra.Command{
	Use:   "dbhealth",
	Short: "Check database connectivity",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := buildApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		if err := a.db.HealthCheck(cmd.Context(), 5*time.Second); err != nil {
			return fmt.Errorf("database unhealthy: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "database OK")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(dbHealthCmd)
}
