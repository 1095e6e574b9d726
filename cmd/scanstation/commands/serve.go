package commands

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	httpserver "scanstation/infrastructure/http"
)

func serveCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the kiosk web front-end",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if addr == "" {
				addr = app.cfg.Addr
			}
			client, err := app.Inventory(ctx)
			if err != nil {
				return err
			}
			db, err := app.DB(ctx)
			if err != nil {
				return err
			}
			journal, err := app.Journal(ctx)
			if err != nil {
				return err
			}

			server := httpserver.NewServer(addr, db, client, journal, app.audit, app.cfg.Role)
			if err := server.Start(); err != nil {
				return err
			}

			sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			<-sigCtx.Done()

			if err := server.Stop(); err != nil {
				slog.Error("graceful shutdown error", slog.Any("err", err))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	return cmd
}
