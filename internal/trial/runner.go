package trial

import (
	"context"
	"log/slog"
	"time"

	"github.com/nvandessel/qharness/internal/circuit"
	"github.com/nvandessel/qharness/internal/engine"
	"golang.org/x/sync/errgroup"
)

// Observer is notified after every completed repetition.
// Implementations must be safe for concurrent use.
type Observer interface {
	ObserveRepetition(cfg circuit.Configuration, row AggregateRow, elapsed time.Duration)
}

// Runner runs the repetitions of one configuration.
type Runner struct {
	Engine engine.Engine

	// Shots is the number of single-shot executions per repetition.
	Shots int

	// Workers bounds how many repetitions run at once. Values below 2 run
	// repetitions sequentially.
	Workers int

	// Seed is mixed with the configuration key and the repetition index to
	// seed each program.
	Seed int64

	Logger   *slog.Logger
	Observer Observer
}

// RunRepetition runs repetition index (1-based) of cfg. key identifies the
// configuration for seed derivation, normally its artifact identifier.
func (r *Runner) RunRepetition(cfg circuit.Configuration, key string, index int) AggregateRow {
	start := time.Now()
	seed := engine.DeriveSeed(r.Seed, key, index)
	tally := RunRepetition(r.Engine, cfg, r.Shots, seed, r.Logger)
	row := NewRow(index, tally)
	if r.Observer != nil {
		r.Observer.ObserveRepetition(cfg, row, time.Since(start))
	}
	return row
}

// Run executes repetitions 1..tests of cfg and passes each row to emit in
// repetition order. emit is always called from the calling goroutine, so it
// may write to a non-thread-safe sink.
//
// Cancellation is checked between repetitions, never inside one. Run returns
// ctx's error if it was cancelled before every repetition started, or the
// first error returned by emit.
func (r *Runner) Run(ctx context.Context, cfg circuit.Configuration, key string, tests int, emit func(AggregateRow) error) error {
	if r.Workers < 2 || tests < 2 {
		return r.runSequential(ctx, cfg, key, tests, emit)
	}
	return r.runParallel(ctx, cfg, key, tests, emit)
}

func (r *Runner) runSequential(ctx context.Context, cfg circuit.Configuration, key string, tests int, emit func(AggregateRow) error) error {
	for i := 1; i <= tests; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		r.logStart(cfg, key, i, tests)
		if err := emit(r.RunRepetition(cfg, key, i)); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) runParallel(ctx context.Context, cfg circuit.Configuration, key string, tests int, emit func(AggregateRow) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.Workers)

	rows := make(chan AggregateRow, r.Workers)
	var waitErr error
	go func() {
		defer close(rows)
		for i := 1; i <= tests; i++ {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				r.logStart(cfg, key, i, tests)
				rows <- r.RunRepetition(cfg, key, i)
				return nil
			})
		}
		waitErr = g.Wait()
	}()

	// Rows arrive in completion order; emit them in repetition order.
	pending := make(map[int]AggregateRow)
	next := 1
	var emitErr error
	for row := range rows {
		if emitErr != nil {
			continue
		}
		pending[row.Repetition] = row
		for {
			nr, ok := pending[next]
			if !ok {
				break
			}
			delete(pending, next)
			next++
			if err := emit(nr); err != nil {
				emitErr = err
				cancel()
				break
			}
		}
	}

	if emitErr != nil {
		return emitErr
	}
	return waitErr
}

func (r *Runner) logStart(cfg circuit.Configuration, key string, index, tests int) {
	if r.Logger == nil {
		return
	}
	r.Logger.Info("running repetition",
		"repetition", index,
		"of", tests,
		"configuration", cfg.Name(),
		"artifact", key)
}
