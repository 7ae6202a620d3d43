package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/nvandessel/qharness/internal/config"
	"github.com/nvandessel/qharness/internal/engine"
	"github.com/nvandessel/qharness/internal/experiment"
	"github.com/nvandessel/qharness/internal/logging"
	"github.com/nvandessel/qharness/internal/metrics"
	"github.com/nvandessel/qharness/internal/results"
	"github.com/nvandessel/qharness/internal/sweep"
	"github.com/spf13/cobra"
)

func newFamilyCmd(name, short string) *cobra.Command {
	return &cobra.Command{
		Use:   name + " [tests] [shots]",
		Short: short,
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMode(cmd, name, args)
		},
	}
}

func newAnalyseCmd() *cobra.Command {
	return &cobra.Command{
		Use:     modeAnalyse,
		Aliases: []string{"analyze"},
		Short:   "Reduce RNG/ artifacts into RNGResults.csv",
		Long: `Reduce every RNG/Angle<angle>.csv artifact under the output root into
one summary file, RNGResults.csv, with one row per artifact. Entries that do
not match the naming scheme are skipped; artifacts with malformed rows are
reported and left out.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMode(cmd, modeAnalyse, nil)
		},
	}
}

// loadSettings builds the effective configuration: defaults, then the
// --config file, then environment, then explicitly set flags.
func loadSettings(cmd *cobra.Command) (*config.HarnessConfig, error) {
	flags := cmd.Flags()
	path, _ := flags.GetString("config")

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	if flags.Changed("output") {
		cfg.OutputRoot, _ = flags.GetString("output")
	}
	if flags.Changed("seed") {
		cfg.Seed, _ = flags.GetInt64("seed")
	}
	if flags.Changed("stepping") {
		cfg.Stepping, _ = flags.GetString("stepping")
	}
	if flags.Changed("workers") {
		cfg.Workers, _ = flags.GetInt("workers")
	}
	if flags.Changed("repetition-workers") {
		cfg.RepetitionWorkers, _ = flags.GetInt("repetition-workers")
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level, _ = flags.GetString("log-level")
	}
	if flags.Changed("metrics-file") {
		cfg.Metrics.Textfile, _ = flags.GetString("metrics-file")
	}
	if flags.Changed("sort") {
		cfg.SortSummary, _ = flags.GetBool("sort")
	}
	return cfg, nil
}

func runMode(cmd *cobra.Command, mode string, args []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	applyPositional(cfg, args)
	if err := cfg.Validate(); err != nil {
		return err
	}
	stepping, err := sweep.ParseStepping(cfg.Stepping)
	if err != nil {
		return err
	}

	runID := uuid.NewString()
	logger := logging.ForRun(logging.NewLogger(cfg.Logging.Level, cmd.ErrOrStderr()), runID, mode)
	collector := metrics.New(runID)
	h := experiment.New(engine.Reference{}, cfg, logger, collector)

	out := cmd.OutOrStdout()
	var runErr error
	if mode == modeAnalyse {
		runErr = analyse(out, h)
	} else {
		runErr = runFamily(cmd.Context(), out, h, mode, stepping, cfg.IdentifierWidth)
	}

	if cfg.Metrics.Textfile != "" {
		if err := collector.WriteTextfile(metricsPath(cfg.Metrics.Textfile, runID)); err != nil {
			logger.Warn("metrics export failed", "error", err)
		}
	}
	return runErr
}

func runFamily(ctx context.Context, out io.Writer, h *experiment.Harness, name string, stepping sweep.Stepping, width int) error {
	fam, err := experiment.ByName(name, stepping, width)
	if err != nil {
		return err
	}

	report, err := h.RunFamily(ctx, fam)
	if report != nil {
		printReport(out, report)
	}
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("interrupted: %w", err)
	}
	return err
}

func printReport(out io.Writer, report *experiment.Report) {
	fmt.Fprintf(out, "Wrote %d artifacts to %s\n", len(report.Written), report.Dir)
	if len(report.Failed) == 0 {
		return
	}
	warn := color.New(color.FgYellow)
	warn.Fprintf(out, "%d configurations failed:\n", len(report.Failed))
	for _, err := range report.Failed {
		warn.Fprintf(out, "  %v\n", err)
	}
}

func analyse(out io.Writer, h *experiment.Harness) error {
	red, err := h.AnalyseRNG()
	if red != nil {
		printSummary(out, red)
	}
	return err
}

func printSummary(out io.Writer, red *results.Reduction) {
	color.New(color.Bold).Fprintf(out, "%-10s %12s %12s %12s %12s\n", "Angle", "Zeros", "Ones", "Sims", "Probability")
	for _, row := range red.Rows {
		fmt.Fprintf(out, "%-10s %12d %12d %12d %12s\n",
			results.FormatFloat(row.Parameter), row.Zeros, row.Ones, row.Sims, results.FormatFloat(row.Probability))
	}
	fmt.Fprintf(out, "%d artifacts summarized, %d entries skipped\n", len(red.Rows), len(red.Skipped))
	if len(red.Failures) > 0 {
		warn := color.New(color.FgYellow)
		warn.Fprintf(out, "%d artifacts left out:\n", len(red.Failures))
		for _, err := range red.Failures {
			warn.Fprintf(out, "  %v\n", err)
		}
	}
}

// metricsPath resolves the textfile path. An existing directory gets a
// per-run file name.
func metricsPath(textfile, runID string) string {
	if info, err := os.Stat(textfile); err == nil && info.IsDir() {
		return filepath.Join(textfile, "qharness-"+runID+".prom")
	}
	return textfile
}
