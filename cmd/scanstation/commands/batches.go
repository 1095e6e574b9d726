package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"scanstation/frontend/batches"
	"scanstation/frontend/labels"
)

func batchesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batches",
		Short: "Inspect the local submission journal",
	}
	cmd.AddCommand(batchesListCmd(), batchesSheetCmd())
	return cmd
}

func batchesListCmd() *cobra.Command {
	var filter batches.ListFilter
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List journaled submissions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := app.DB(cmd.Context())
			if err != nil {
				return err
			}
			rows, err := batches.ListBatches(cmd.Context(), db, filter)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tWHEN\tKIND\tCOUNT\tOUTCOME\tMESSAGE")
			for _, b := range rows {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\n", b.ID, b.CreatedAt.Local().Format(time.DateTime), b.Kind, b.BarcodeCount, b.Outcome, b.Message)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&filter.Kind, "kind", "", "stock_in or stock_out")
	cmd.Flags().StringVar(&filter.Outcome, "outcome", "", "success or failure")
	cmd.Flags().IntVar(&filter.Limit, "limit", 0, "maximum rows (default 100)")
	return cmd
}

func batchesSheetCmd() *cobra.Command {
	var outDir string
	cmd := &cobra.Command{
		Use:   "sheet <batch-id>",
		Short: "Write the PDF batch sheet of a stock-in batch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := app.DB(cmd.Context())
			if err != nil {
				return err
			}
			batch, err := batches.LoadBatch(cmd.Context(), db, args[0])
			if err != nil {
				return err
			}
			pdf, err := labels.RenderBatchSheetPDF(labels.SheetFromBatch(batch), time.Now())
			if err != nil {
				return err
			}
			path := filepath.Join(outDir, labels.SheetFilename(batch.ID))
			if err := os.WriteFile(path, pdf, 0o644); err != nil {
				return fmt.Errorf("write sheet: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "output directory")
	return cmd
}
