package commands

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	adminusers "scanstation/frontend/adminUsers"
	"scanstation/infrastructure/inventory"
)

func usersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage inventory server accounts (admin station)",
	}
	cmd.AddCommand(usersListCmd(), usersAddCmd(), usersDeleteCmd(), usersPasswdCmd())
	return cmd
}

func usersListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := app.Inventory(cmd.Context())
			if err != nil {
				return err
			}
			data, err := adminusers.LoadUsersPageData(cmd.Context(), client)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tUSERNAME\tROLE")
			for _, u := range data.Users {
				fmt.Fprintf(tw, "%d\t%s\t%s\n", u.ID, u.Username, u.Role)
			}
			return tw.Flush()
		},
	}
}

func usersAddCmd() *cobra.Command {
	var newRole string
	cmd := &cobra.Command{
		Use:   "add <username> <password>",
		Short: "Create an account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := app.Inventory(cmd.Context())
			if err != nil {
				return err
			}
			msg, err := adminusers.CreateUser(cmd.Context(), client, args[0], args[1], newRole)
			if err != nil {
				return fmt.Errorf("%s", adminusers.ErrorMessage(err))
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		},
	}
	cmd.Flags().StringVar(&newRole, "as", inventory.RoleExecutive, "role of the new account (admin or executive)")
	return cmd
}

func usersDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			client, err := app.Inventory(cmd.Context())
			if err != nil {
				return err
			}
			msg, err := adminusers.DeleteUser(cmd.Context(), client, id)
			if err != nil {
				return fmt.Errorf("%s", adminusers.ErrorMessage(err))
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		},
	}
}

func usersPasswdCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "passwd <id> <new-password>",
		Short: "Change an account password",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			client, err := app.Inventory(cmd.Context())
			if err != nil {
				return err
			}
			msg, err := adminusers.ChangePassword(cmd.Context(), client, id, args[1])
			if err != nil {
				return fmt.Errorf("%s", adminusers.ErrorMessage(err))
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		},
	}
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}
