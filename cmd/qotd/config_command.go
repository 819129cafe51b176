package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"qotd/internal/config"
)

func newConfigCommand(flags *rootFlags) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}
	configCmd.AddCommand(newConfigValidateCommand(flags))
	return configCmd
}

func newConfigValidateCommand(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the configuration, environment overrides included",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m := config.NewConfigManager(flags.configPath, os.LookupEnv)
			m.AllowMissing = flags.configPath == config.DefaultPath
			cfg, err := m.Parse()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "config ok: %s\n", flags.configPath)
			fmt.Fprintf(out, "  source:   %s\n", cfg.Source.Driver)
			fmt.Fprintf(out, "  notifier: %s\n", cfg.Notifier.Driver)
			fmt.Fprintf(out, "  storage:  %s (%s)\n", cfg.Storage.Driver, cfg.Storage.Path)
			fmt.Fprintf(out, "  post_at:  %s %s\n", cfg.Schedule.PostAt, cfg.Schedule.Location())
			fmt.Fprintf(out, "  tick:     %s\n", cfg.Schedule.Tick)
			return nil
		},
	}
}
