package commands

import (
	"github.com/spf13/cobra"

	stockout "scanstation/frontend/stockOut"
)

func stockOutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stock-out",
		Short: "Activate batteries, one scan per press of Enter",
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
			return stockout.RunConsole(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), client, journal)
		},
	}
}
