package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

func printUsage(w io.Writer) {
	printIntro(w)
	printOption(w, "h", "help", "Prints this help option")
	for _, m := range modes {
		printOption(w, m.short, m.flag, m.help)
	}
	fmt.Fprintln(w, "Subcommands: general, rotation, testrng, analyse, config show, version")
	fmt.Fprintln(w, "Run 'qharness <subcommand> --help' for flags.")
}

func printIntro(w io.Writer) {
	color.New(color.FgCyan, color.Bold).Fprint(w, "\nQuantum Testing Harness\n\n")
	fmt.Fprintln(w, `Argument format: qharness "--option" "numTests" "numSteps"`)
	fmt.Fprintln(w)
}

func printOption(w io.Writer, short, name, info string) {
	fmt.Fprintf(w, "(-%s),(--%s), %s\n\n", short, name, info)
}
