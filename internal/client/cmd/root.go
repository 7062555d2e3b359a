// Package cmd is the back-office CLI command tree.
package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"apexdrive/internal/client/api"
	"apexdrive/internal/client/session"
)

func NewRootCmd(version string) *cobra.Command {
	var serverURL string
	root := &cobra.Command{
		Use:           "backoffice",
		Short:         "ApexDrive back-office CLI",
		Long:          "Admin console for the ApexDrive dealership backend: sessions, loan application workflow and new-application alerts.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&serverURL, "server", defaultServerURL(), "Server base URL")

	root.AddCommand(newLoginCmd(&serverURL))
	root.AddCommand(newLogoutCmd())
	root.AddCommand(newWhoamiCmd())
	root.AddCommand(newApplicationsCmd(&serverURL))
	root.AddCommand(newWatchCmd(&serverURL))
	return root
}

func defaultServerURL() string {
	if v := os.Getenv("APEXDRIVE_SERVER_URL"); v != "" {
		return v
	}
	return "http://localhost:3000"
}

func idleTimeout() time.Duration {
	return time.Duration(envInt("IDLE_TIMEOUT_MINUTES", 120)) * time.Minute
}

func idleWarning() time.Duration {
	return time.Duration(envInt("IDLE_WARNING_SECONDS", 60)) * time.Second
}

func pollInterval() time.Duration {
	return time.Duration(envInt("POLL_INTERVAL_SECONDS", 5)) * time.Second
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func newManager(onWarning func()) (*session.Manager, error) {
	path, err := session.DefaultPath()
	if err != nil {
		return nil, err
	}
	return session.NewManager(session.NewStore(path), idleTimeout(), idleWarning(), onWarning), nil
}

// resumeSession restores the stored session or tells the operator to log in.
func resumeSession(onWarning func()) (*session.Manager, error) {
	mgr, err := newManager(onWarning)
	if err != nil {
		return nil, err
	}
	if _, err := mgr.Resume(); err != nil {
		switch {
		case errors.Is(err, session.ErrNoSession):
			return nil, fmt.Errorf("not logged in, run: backoffice login")
		case errors.Is(err, session.ErrSessionExpired):
			return nil, fmt.Errorf("session expired, run: backoffice login")
		default:
			return nil, err
		}
	}
	return mgr, nil
}

func apiClient(serverURL *string, mgr *session.Manager) *api.Client {
	return api.NewClient(*serverURL, mgr)
}
