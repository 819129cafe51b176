package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"qotd/internal/app"
	"qotd/internal/config"
)

type rootFlags struct {
	configPath string
	watch      bool
}

func (f *rootFlags) options() app.Options {
	return app.Options{
		ConfigPath: f.configPath,
		// The default path may be absent when the environment carries the config.
		AllowMissingConfig: f.configPath == config.DefaultPath,
		WatchConfig:        f.watch,
	}
}

func newRootCommand() *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:           "qotd",
		Short:         "Post one question of the day from a shared list",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDaemon(cmd.Context(), flags)
		},
	}
	rootCmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", config.DefaultPath, "path to config yaml/json")
	rootCmd.Flags().BoolVar(&flags.watch, "watch", true, "reload logging settings when the config file changes")

	rootCmd.AddCommand(newOnceCommand(flags))
	rootCmd.AddCommand(newConfigCommand(flags))
	return rootCmd
}

// runDaemon runs the cycle loop until a stop signal or a failed cycle.
func runDaemon(parent context.Context, flags *rootFlags) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	a, err := app.NewApp(flags.options())
	if err != nil {
		return err
	}
	if err := a.Start(ctx); err != nil {
		_ = a.Stop(context.Background(), app.StopFatalError)
		return err
	}

	reason := app.StopSignal
	select {
	case <-ctx.Done():
	case <-a.Done():
		if a.Err() != nil {
			reason = app.StopFatalError
		}
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), time.Minute)
	defer stopCancel()
	return a.Stop(stopCtx, reason)
}
