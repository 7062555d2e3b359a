package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"apexdrive/internal/client/api"
	"apexdrive/internal/client/poller"
)

func newWatchCmd(serverURL *string) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Watch for new loan applications until interrupted",
		Long:  "Polls the server and prints one line per polling round that found new applications. The inactivity watchdog stays armed; an idle session logs itself out and ends the watch.",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			mgr, err := resumeSession(func() {
				fmt.Fprintf(out, "⚠️ Session idle, logging out in %s\n", idleWarning())
			})
			if err != nil {
				return err
			}

			// Poll traffic is machine traffic: it must not rearm the
			// inactivity watchdog, or the watch could never idle out.
			client := api.NewClient(*serverURL, mgr.Background())
			p := poller.New(pollInterval(), client.ApplicationIDs, func(count int) {
				if count == 1 {
					fmt.Fprintln(out, "🔔 1 new loan application")
					return
				}
				fmt.Fprintf(out, "🔔 %d new loan applications\n", count)
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			fmt.Fprintf(out, "Watching %s every %s (Ctrl+C to stop)\n", *serverURL, pollInterval())
			p.Run(ctx, mgr.Done())

			select {
			case <-mgr.Done():
				fmt.Fprintln(out, "Session ended")
			default:
			}
			return nil
		},
	}
}
