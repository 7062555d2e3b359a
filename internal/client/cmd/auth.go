package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"apexdrive/internal/client/api"
	"apexdrive/internal/client/session"
)

func newLoginCmd(serverURL *string) *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Login as admin and store the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			reader := bufio.NewReader(os.Stdin)
			fmt.Fprint(cmd.OutOrStdout(), "Email: ")
			email, _ := reader.ReadString('\n')
			email = strings.TrimSpace(email)
			password, err := promptPassword(cmd, "Password: ")
			if err != nil {
				return err
			}

			client := api.NewClient(*serverURL, nil)
			result, err := client.AdminLogin(cmd.Context(), email, string(password))
			if err != nil {
				return err
			}

			mgr, err := newManager(nil)
			if err != nil {
				return err
			}
			if err := mgr.Login(result.User, result.AccessToken); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (%s), session valid until %s\n",
				result.User.Name, result.User.Email, result.ExpiresAt.Local().Format("15:04"))
			return nil
		},
	}
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := session.DefaultPath()
			if err != nil {
				return err
			}
			// Clearing the file is all a fresh process needs; a second
			// logout with nothing stored is fine.
			if err := session.NewStore(path).Clear(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in identity",
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := resumeSession(nil)
			if err != nil {
				return err
			}
			id := mgr.Identity()
			fmt.Fprintf(cmd.OutOrStdout(), "%s <%s> role=%s\n", id.Name, id.Email, id.Role)
			return nil
		},
	}
}

func promptPassword(cmd *cobra.Command, prompt string) ([]byte, error) {
	fmt.Fprint(cmd.OutOrStdout(), prompt)
	pass, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(cmd.OutOrStdout())
	return pass, err
}
