package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"qotd/internal/app"
)

func newOnceCommand(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "once",
		Short: "Run a single cycle now and exit",
		Long: "Loads state, fetches and reconciles the question list and, if the\n" +
			"current minute is the post time, delivers one question.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			opts := flags.options()
			opts.WatchConfig = false
			a, err := app.NewApp(opts)
			if err != nil {
				return err
			}
			res, runErr := a.RunOnce(ctx)
			if err := a.Stop(context.Background(), app.StopDone); err != nil && runErr == nil {
				runErr = err
			}
			if runErr != nil {
				return runErr
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "questions: %d (added %d, updated %d)\n",
				res.Total, len(res.Reconcile.Added), len(res.Reconcile.Updated))
			if res.Due {
				fmt.Fprintf(out, "posted %s, %d unanswered left\n", res.Delivery.ID, res.Delivery.Remaining)
			} else {
				fmt.Fprintln(out, "nothing posted")
			}
			return nil
		},
	}
}
