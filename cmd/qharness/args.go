package main

import (
	"strconv"
	"strings"

	"github.com/nvandessel/qharness/internal/config"
	"github.com/nvandessel/qharness/internal/constants"
	"github.com/nvandessel/qharness/internal/experiment"
	"github.com/spf13/cobra"
)

const (
	modeGeneral  = experiment.FamilyGeneral
	modeRotation = experiment.FamilyRotation
	modeTestRNG  = experiment.FamilyRNG
	modeAnalyse  = "analyse"
)

type mode struct {
	name  string
	flag  string
	short string
	help  string
}

// modes lists the legacy switches in precedence order: when several are
// given, the first one here wins.
var modes = []mode{
	{modeGeneral, "general", "g", "Run a general test on a few gates and print them to a file"},
	{modeRotation, "rotation", "r", "Run a test on the rotation gate R"},
	{modeTestRNG, "testrng", "t", "Sweep a rotation angle to test the gate as a random number source"},
	{modeAnalyse, "analyse", "a", "Reduce the RNG artifacts into one summary file"},
}

// normalizeModeArgs lowercases mode switches so that --GENERAL or -G select
// a mode the same way --general does. Other arguments pass through.
func normalizeModeArgs(args []string) []string {
	out := make([]string, len(args))
	for i, arg := range args {
		out[i] = arg
		if arg == "--" {
			copy(out[i:], args[i:])
			break
		}
		lower := strings.ToLower(arg)
		if lower == "--analyze" {
			out[i] = "--analyse"
			continue
		}
		if lower == "-h" || lower == "--help" {
			out[i] = lower
			continue
		}
		for _, m := range modes {
			if lower == "--"+m.flag || lower == "-"+m.short {
				out[i] = lower
				break
			}
		}
	}
	return out
}

// selectMode returns the mode chosen by the legacy switches, or "" when none
// was given.
func selectMode(cmd *cobra.Command) string {
	for _, m := range modes {
		if on, _ := cmd.Flags().GetBool(m.flag); on {
			return m.name
		}
	}
	return ""
}

// applyPositional overrides the repetition and shot counts from the
// positional arguments. A malformed or non-positive value falls back to the
// documented default rather than failing.
func applyPositional(cfg *config.HarnessConfig, args []string) {
	if len(args) > 0 {
		cfg.Tests = positiveOr(args[0], constants.DefaultTests)
	}
	if len(args) > 1 {
		cfg.Shots = positiveOr(args[1], constants.DefaultShots)
	}
}

func positiveOr(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return def
	}
	return n
}
