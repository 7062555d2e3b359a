package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"apexdrive/internal/client/api"
	"apexdrive/internal/client/session"
)

func newApplicationsCmd(serverURL *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "applications",
		Aliases: []string{"apps"},
		Short:   "Loan application workflow",
	}
	cmd.AddCommand(newApplicationsListCmd(serverURL))
	cmd.AddCommand(newApplicationsProcessCmd(serverURL))
	cmd.AddCommand(newApplicationsCancelCmd(serverURL))
	cmd.AddCommand(newApplicationsDeleteCmd(serverURL))
	return cmd
}

func newApplicationsListCmd(serverURL *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List loan applications, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := resumeSession(nil)
			if err != nil {
				return err
			}
			apps, err := apiClient(serverURL, mgr).Applications(cmd.Context())
			if err != nil {
				return sessionAwareErr(mgr, err)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tSTATUS\tNAME\tAMOUNT\tTYPE\tCREATED")
			for _, a := range apps {
				fmt.Fprintf(w, "%d\t%s\t%s\t%.2f\t%s\t%s\n",
					a.ID, a.Status, a.Name, a.Amount, a.LoanType, a.CreatedAt.Format("2006-01-02 15:04"))
			}
			return w.Flush()
		},
	}
}

func newApplicationsProcessCmd(serverURL *string) *cobra.Command {
	return &cobra.Command{
		Use:   "process <id>",
		Short: "Mark an application processed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return transition(cmd, serverURL, args[0], "processed",
				func(c *api.Client, id uint) (*api.Application, error) {
					return c.MarkProcessed(cmd.Context(), id)
				})
		},
	}
}

func newApplicationsCancelCmd(serverURL *string) *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <id>",
		Short: "Cancel an application",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return transition(cmd, serverURL, args[0], "cancelled",
				func(c *api.Client, id uint) (*api.Application, error) {
					return c.Cancel(cmd.Context(), id)
				})
		},
	}
}

func newApplicationsDeleteCmd(serverURL *string) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an application permanently",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseAppID(args[0])
			if err != nil {
				return err
			}
			mgr, err := resumeSession(nil)
			if err != nil {
				return err
			}
			if err := apiClient(serverURL, mgr).Delete(cmd.Context(), id); err != nil {
				return sessionAwareErr(mgr, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Application %d deleted\n", id)
			return nil
		},
	}
}

func transition(cmd *cobra.Command, serverURL *string, rawID, verb string,
	op func(*api.Client, uint) (*api.Application, error)) error {
	id, err := parseAppID(rawID)
	if err != nil {
		return err
	}
	mgr, err := resumeSession(nil)
	if err != nil {
		return err
	}
	app, err := op(apiClient(serverURL, mgr), id)
	if err != nil {
		if errors.Is(err, api.ErrConflict) {
			return fmt.Errorf("application %d is already finalised with the opposite status", id)
		}
		return sessionAwareErr(mgr, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Application %d (%s) is now %s\n", app.ID, app.Reference, verb)
	return nil
}

func parseAppID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid application id %q", raw)
	}
	return uint(id), nil
}

// sessionAwareErr ends the session on auth failures and tells the
// operator to log in again. Requests themselves never auto-logout;
// this is the caller-side handling of a rejected token.
func sessionAwareErr(mgr *session.Manager, err error) error {
	if errors.Is(err, api.ErrUnauthorized) || errors.Is(err, api.ErrForbidden) {
		_ = mgr.Logout()
		return fmt.Errorf("%v\nsession is no longer valid, run: backoffice login", err)
	}
	return err
}
