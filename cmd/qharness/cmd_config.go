package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect qharness configuration",
		Long: `Inspect the effective qharness configuration.

Settings come from built-in defaults, then the file named by --config, then
QHARNESS_LOG_LEVEL, QHARNESS_WORKERS and QHARNESS_SEED, then flags.

Examples:
  qharness config show
  qharness config show --config qharness.yaml --workers 4`,
	}

	cmd.AddCommand(newConfigShowCmd())

	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [tests] [shots]",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadSettings(cmd)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			applyPositional(cfg, args)
			if err := cfg.Validate(); err != nil {
				return err
			}

			out, err := cfg.YAML()
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}
}
