// Package engine defines the contract between the harness and the execution
// engine that actually runs a circuit. The harness depends only on Engine and
// Program; the engine's internals stay opaque.
//
// A Program is one fresh execution context. Callers must not share a Program
// between goroutines, and must Prepare a new one for every repetition so that
// each repetition starts from the canonical initial state.
package engine

import (
	"fmt"

	"github.com/nvandessel/qharness/internal/circuit"
)

// FailureReason classifies why a shot produced no measurement.
type FailureReason string

const (
	FailureNone      FailureReason = ""
	FailureExecution FailureReason = "execution"
	FailurePrepare   FailureReason = "prepare"
	FailurePanic     FailureReason = "panic"
)

// Result is the raw outcome of a single shot: either a measured value or a
// failure reason. A measured value outside {0, 1} is still a measurement;
// classification decides what it means.
type Result struct {
	Value   int
	Failure FailureReason
	Err     error
}

// Measured returns a successful result carrying v.
func Measured(v int) Result {
	return Result{Value: v}
}

// Failed returns a failed result. err may be nil.
func Failed(reason FailureReason, err error) Result {
	if reason == FailureNone {
		reason = FailureExecution
	}
	return Result{Value: -1, Failure: reason, Err: err}
}

// OK reports whether the shot produced a measurement.
func (r Result) OK() bool { return r.Failure == FailureNone }

func (r Result) String() string {
	if r.OK() {
		return fmt.Sprintf("measured(%d)", r.Value)
	}
	if r.Err != nil {
		return fmt.Sprintf("failed(%s: %v)", r.Failure, r.Err)
	}
	return fmt.Sprintf("failed(%s)", r.Failure)
}

// Program is a configuration built into a runnable circuit bound to its own
// execution context.
type Program interface {
	// Run executes one shot from the canonical initial state.
	Run() Result
}

// Engine builds programs. seed is a hint for engines that sample; engines
// without randomness ignore it.
type Engine interface {
	Prepare(cfg circuit.Configuration, seed int64) (Program, error)
}

// Func adapts an ordinary function to the Engine interface.
type Func func(cfg circuit.Configuration, seed int64) (Program, error)

// Prepare calls f(cfg, seed).
func (f Func) Prepare(cfg circuit.Configuration, seed int64) (Program, error) {
	return f(cfg, seed)
}

// ProgramFunc adapts an ordinary function to the Program interface.
type ProgramFunc func() Result

// Run calls f().
func (f ProgramFunc) Run() Result { return f() }
