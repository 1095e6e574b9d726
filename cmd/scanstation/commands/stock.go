package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"scanstation/frontend/reports"
	"scanstation/infrastructure/inventory"
)

func stockCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stock",
		Short: "Inspect inventory and download reports",
	}
	cmd.AddCommand(stockListCmd(), stockActivatedCmd(), stockSummaryCmd(), stockReportCmd())
	return cmd
}

func stockListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List batteries in stock",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := app.Inventory(cmd.Context())
			if err != nil {
				return err
			}
			rows, err := reports.LoadStock(cmd.Context(), client)
			if err != nil {
				return err
			}
			return printStockRows(cmd.OutOrStdout(), rows)
		},
	}
}

func stockActivatedCmd() *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "activated",
		Short: "List activated batteries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := app.Inventory(cmd.Context())
			if err != nil {
				return err
			}
			rows, err := reports.LoadActivated(cmd.Context(), client, date)
			if err != nil {
				return err
			}
			return printStockRows(cmd.OutOrStdout(), rows)
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "activation date (YYYY-MM-DD)")
	return cmd
}

func stockSummaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Count batteries in stock per model",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := app.Inventory(cmd.Context())
			if err != nil {
				return err
			}
			rows, total, err := reports.LoadSummary(cmd.Context(), client)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "MODEL\tIN STOCK")
			for _, r := range rows {
				fmt.Fprintf(tw, "%s\t%d\n", r.Model, r.BatteryCount)
			}
			fmt.Fprintf(tw, "TOTAL\t%d\n", total)
			return tw.Flush()
		},
	}
}

func stockReportCmd() *cobra.Command {
	var (
		status string
		date   string
		format string
		outDir string
	)
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Download a stock report as CSV or XLSX (admin station)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := app.Inventory(cmd.Context())
			if err != nil {
				return err
			}
			name, body, err := reports.Download(cmd.Context(), client, status, date, format)
			if err != nil {
				return err
			}
			path := filepath.Join(outDir, filepath.Base(name))
			if err := os.WriteFile(path, body, 0o644); err != nil {
				return fmt.Errorf("write report: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	cmd.Flags().StringVar(&status, "status", inventory.StatusInStock, `battery status ("In Stock" or "Activated")`)
	cmd.Flags().StringVar(&date, "date", "", "activation date filter (YYYY-MM-DD)")
	cmd.Flags().StringVar(&format, "format", reports.FormatCSV, "csv or xlsx")
	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "output directory")
	return cmd
}

func printStockRows(w io.Writer, rows []inventory.StockRow) error {
	headers, records := reports.StockRecords(rows)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for i, h := range headers {
		if i > 0 {
			fmt.Fprint(tw, "\t")
		}
		fmt.Fprint(tw, h)
	}
	fmt.Fprintln(tw)
	for _, rec := range records {
		for i, v := range rec {
			if i > 0 {
				fmt.Fprint(tw, "\t")
			}
			fmt.Fprint(tw, v)
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}
