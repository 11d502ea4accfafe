package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/booklingua/booklingua/internal/export"
)

var (
	exportFrom string
	exportTo   string
	exportOut  string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export orders to an XLSX workbook",
	Long: `Exports orders to an XLSX file for bookkeeping. With --from and
--to the export is limited to orders created in that window (inclusive);
with only --from the window ends today.`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportFrom, "from", "", "start date (YYYY-MM-DD)")
	exportCmd.Flags().StringVar(&exportTo, "to", "", "end date (YYYY-MM-DD)")
	exportCmd.Flags().StringVarP(&exportOut, "output", "o", "orders.xlsx", "output file path")
	rootCmd.AddCommand(exportCmd)
}

func parseDateFlag(name, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, fmt.Errorf("invalid --%s date %q, want YYYY-MM-DD", name, value)
	}
	return &t, nil
}

func runExport(cmd *cobra.Command, _ []string) error {
	from, err := parseDateFlag("from", exportFrom)
	if err != nil {
		return err
	}
	to, err := parseDateFlag("to", exportTo)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	a, err := buildApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	svc := export.NewService(a.orders, a.log)
	data, err := svc.ExportOrdersXLSX(ctx, from, to)
	if err != nil {
		return err
	}
	if err := os.WriteFile(exportOut, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", exportOut, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes)\n", exportOut, len(data))
	return nil
}
