//go:build !windows

package main

import (
	"os"
	"os/signal"
	"syscall"
)

// notifySignals routes interrupt signals to ch so a run can stop between
// repetitions.
// On Unix systems, this includes both SIGINT and SIGTERM.
func notifySignals(ch chan<- os.Signal) {
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
}
