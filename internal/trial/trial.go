// Package trial runs repetitions of a configuration against an engine and
// aggregates their outcomes into rows.
package trial

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nvandessel/qharness/internal/circuit"
	"github.com/nvandessel/qharness/internal/engine"
	"github.com/nvandessel/qharness/internal/logging"
	"github.com/nvandessel/qharness/internal/outcome"
)

// AggregateRow is the persisted statistics of one repetition.
// Total is Zeros+Ones; indeterminate shots are tracked but excluded.
type AggregateRow struct {
	Repetition    int
	Zeros         uint64
	Ones          uint64
	Total         uint64
	Probability   float64
	Indeterminate uint64
}

// NewRow builds the row for repetition index from a tally.
func NewRow(index int, t outcome.Tally) AggregateRow {
	return AggregateRow{
		Repetition:    index,
		Zeros:         t.Zeros,
		Ones:          t.Ones,
		Total:         t.Decided(),
		Probability:   t.Probability(),
		Indeterminate: t.Indeterminate,
	}
}

// Shots is the number of shots the row accounts for.
func (r AggregateRow) Shots() uint64 { return r.Total + r.Indeterminate }

// RunRepetition prepares a fresh program for cfg and runs shots single-shot
// executions against it. It never fails: a program that cannot be prepared
// yields a row where every shot is indeterminate, and a shot that fails or
// panics is counted as indeterminate while the rest continue.
func RunRepetition(eng engine.Engine, cfg circuit.Configuration, shots int, seed int64, logger *slog.Logger) outcome.Tally {
	var tally outcome.Tally
	if shots <= 0 {
		return tally
	}

	prog, err := prepare(eng, cfg, seed)
	if err != nil {
		if logger != nil {
			logger.Debug("program could not be prepared", "configuration", cfg.Name(), "error", err)
		}
		tally.Indeterminate = uint64(shots)
		return tally
	}

	var first *engine.Result
	done := 0
	for done < shots {
		n, panicked := runUntilPanic(prog, shots-done, &tally, &first)
		done += n
		if panicked {
			tally.Add(outcome.Indeterminate)
			done++
			if first == nil {
				r := engine.Failed(engine.FailurePanic, nil)
				first = &r
			}
		}
	}

	if first != nil && logger != nil {
		logger.Log(context.Background(), logging.LevelTrace, "indeterminate shots",
			"configuration", cfg.Name(),
			"count", tally.Indeterminate,
			"first", first.String())
	}
	return tally
}

func prepare(eng engine.Engine, cfg circuit.Configuration, seed int64) (prog engine.Program, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			prog, err = nil, fmt.Errorf("engine panicked while preparing: %v", rec)
		}
	}()
	prog, err = eng.Prepare(cfg, seed)
	if err == nil && prog == nil {
		err = fmt.Errorf("engine returned no program")
	}
	return prog, err
}

// runUntilPanic runs up to n shots. It returns early, with panicked set,
// when a shot panics; the panicking shot is not counted in completed.
func runUntilPanic(p engine.Program, n int, tally *outcome.Tally, first **engine.Result) (completed int, panicked bool) {
	defer func() {
		if rec := recover(); rec != nil {
			panicked = true
		}
	}()
	for completed < n {
		r := p.Run()
		o := outcome.Classify(r)
		if o == outcome.Indeterminate && *first == nil {
			*first = &r
		}
		tally.Add(o)
		completed++
	}
	return completed, false
}
