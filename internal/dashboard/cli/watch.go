package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	contract "coldchain/contracts/session"
)

func newWatchCommand(o *rootOptions) *cobra.Command {
	var retry time.Duration
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Keep the session fresh and print every change until interrupted",
		Long: `watch keeps the access token refreshed and prints the session each time it
changes: after a refresh, a membership change or a sign-out from elsewhere.
Stop it with Ctrl-C.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			sess, err := o.app.RequireSession(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if err := printSession(out, sess); err != nil {
				return err
			}

			updates := make(chan *contract.Session, 8)
			cancel := o.app.Store.Watch(updates)
			defer cancel()

			done := make(chan struct{})
			go func() {
				defer close(done)
				o.app.Provider.AutoRefresh(ctx, retry)
			}()
			defer func() { <-done }()

			for {
				select {
				case <-ctx.Done():
					return nil
				case sess := <-updates:
					fmt.Fprintf(out, "--- %s\n", time.Now().Format(time.RFC3339))
					if sess == nil {
						fmt.Fprintln(out, "Signed out.")
						continue
					}
					if err := printSession(out, sess); err != nil {
						return err
					}
				}
			}
		},
	}
	cmd.Flags().DurationVar(&retry, "retry", 30*time.Second, "wait before retrying a failed token refresh")
	return cmd
}
