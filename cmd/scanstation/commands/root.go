package commands

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"scanstation/infrastructure/config"
)

var (
	configPath string
	verbose    bool

	serverURL string
	username  string
	password  string
	journal   string
	operator  string
	role      string

	app *station
)

func Execute() error {
	root := &cobra.Command{
		Use:           "scanstation",
		Short:         "Battery receiving station for the inventory server",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			applyFlags(cmd, &cfg)
			if err := cfg.Validate(); err != nil {
				return err
			}
			app = newStation(cfg)
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if app == nil {
				return nil
			}
			return app.Close()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&configPath, "config", "c", "", "YAML config file")
	pf.BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	pf.StringVar(&serverURL, "server", "", "inventory server base URL")
	pf.StringVarP(&username, "username", "u", "", "station account username")
	pf.StringVarP(&password, "password", "p", "", "station account password")
	pf.StringVar(&journal, "journal", "", "journal database path")
	pf.StringVar(&operator, "operator", "", "operator name written to the journal")
	pf.StringVar(&role, "role", "", "station account role (admin or executive)")

	root.AddCommand(serveCmd(), stockInCmd(), stockOutCmd(), stockCmd(), usersCmd(), batchesCmd(), migrateCmd())
	return root.Execute()
}

// applyFlags lets explicitly set flags win over file and environment.
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	set := func(name string, dst *string, v string) {
		if flags.Changed(name) {
			*dst = v
		}
	}
	set("server", &cfg.ServerURL, serverURL)
	set("username", &cfg.Username, username)
	set("password", &cfg.Password, password)
	set("journal", &cfg.Journal, journal)
	set("operator", &cfg.Operator, operator)
	set("role", &cfg.Role, role)
}
