package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var version = "0.1.0-dev"

func main() {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	notifySignals(sigCh)
	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-ctx.Done():
		}
	}()

	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	cancel()
	os.Exit(code)
}

// run executes one invocation and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	rootCmd := newRootCmd()
	rootCmd.SetArgs(normalizeModeArgs(args))
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		color.New(color.FgRed).Fprintf(stderr, "qharness: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "qharness [--general | --rotation | --testrng | --analyse] [tests] [shots]",
		Short: "Statistical experiment harness for binary-outcome circuits",
		Long: `qharness repeats single-shot circuit executions many times, tallies the
outcomes, and writes one CSV artifact per configuration. The analyse pass
reduces a directory of artifacts into one summary table.

tests defaults to 20 repetitions per configuration and shots to 1000000
executions per repetition; malformed values fall back to those defaults.`,
		Args:               cobra.ArbitraryArgs,
		SilenceUsage:       true,
		SilenceErrors:      true,
		FParseErrWhitelist: cobra.FParseErrWhitelist{UnknownFlags: true},
		RunE: func(cmd *cobra.Command, args []string) error {
			mode := selectMode(cmd)
			if mode == "" {
				printUsage(cmd.OutOrStdout())
				return nil
			}
			return runMode(cmd, mode, args)
		},
	}

	// Global flags
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "Path to a YAML configuration file")
	pf.String("output", "", "Root directory for experiment output (default: working directory)")
	pf.Int64("seed", 0, "Base seed for the reference engine (0 derives one from the clock)")
	pf.String("stepping", "", "Sweep stepping: accumulate or indexed")
	pf.Int("workers", 0, "Configurations to run in parallel (default: number of CPUs)")
	pf.Int("repetition-workers", 0, "Repetitions of one configuration to run in parallel")
	pf.String("log-level", "", "Log level: info, debug, trace, warn or error")
	pf.String("metrics-file", "", "Write Prometheus metrics to this file (or directory) after the run")
	pf.Bool("sort", true, "Sort summary rows by parameter value")

	// Legacy mode switches
	for _, m := range modes {
		rootCmd.Flags().BoolP(m.flag, m.short, false, m.help)
	}

	defaultHelp := rootCmd.HelpFunc()
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		if cmd.HasParent() {
			defaultHelp(cmd, args)
			return
		}
		printUsage(cmd.OutOrStdout())
	})

	rootCmd.AddCommand(
		newFamilyCmd(modeGeneral, "Run the general test on a fixed set of gates"),
		newFamilyCmd(modeRotation, "Sweep the rotation gate across three axes"),
		newFamilyCmd(modeTestRNG, "Sweep a y-axis rotation as a random number source"),
		newAnalyseCmd(),
		newConfigCmd(),
		newVersionCmd(),
	)

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "qharness version %s\n", version)
		},
	}
}
