package commands

import (
	"github.com/spf13/cobra"

	stockin "scanstation/frontend/stockIn"
)

// stock-in: every scanned line is queued; the submit command sends the batch.
func stockInCmd() *cobra.Command {
	var submitCommand string
	cmd := &cobra.Command{
		Use:   "stock-in",
		Short: "Scan a batch of batteries and add them to stock",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			client, err := app.Inventory(ctx)
			if err != nil {
				return err
			}
			journal, err := app.Journal(ctx)
			if err != nil {
				return err
			}
			return stockin.RunConsole(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), stockin.ConsoleOptions{
				SubmitCommand: submitCommand,
				NewSession: func(view stockin.ListView, page stockin.Page) *stockin.Session {
					return stockin.NewSession(stockin.Options{
						Submitter: client,
						View:      view,
						Page:      page,
						Recorder:  journal,
					})
				},
			})
		},
	}
	cmd.Flags().StringVar(&submitCommand, "submit-command", stockin.DefaultSubmitCommand, "line that submits the batch")
	return cmd
}
