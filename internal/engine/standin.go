package engine

import (
	"errors"

	"github.com/nvandessel/qharness/internal/circuit"
)

// ErrStandInFailure is the error carried by results from Failing.
var ErrStandInFailure = errors.New("stand-in engine failure")

// Constant returns an engine whose programs always measure v.
func Constant(v int) Engine {
	return Func(func(circuit.Configuration, int64) (Program, error) {
		return ProgramFunc(func() Result { return Measured(v) }), nil
	})
}

// Failing returns an engine whose programs fail on every shot.
func Failing() Engine {
	return Func(func(circuit.Configuration, int64) (Program, error) {
		return ProgramFunc(func() Result { return Failed(FailureExecution, ErrStandInFailure) }), nil
	})
}

// Unpreparable returns an engine that cannot build any program.
func Unpreparable(err error) Engine {
	return Func(func(circuit.Configuration, int64) (Program, error) {
		return nil, err
	})
}

// Panicking returns an engine whose programs panic on every shot.
func Panicking(msg string) Engine {
	return Func(func(circuit.Configuration, int64) (Program, error) {
		return ProgramFunc(func() Result { panic(msg) }), nil
	})
}

// Scripted returns an engine whose programs replay results in order,
// wrapping around at the end. Each Prepare starts the script from the
// beginning, so state never leaks between programs.
func Scripted(results ...Result) Engine {
	script := append([]Result(nil), results...)
	return Func(func(circuit.Configuration, int64) (Program, error) {
		if len(script) == 0 {
			return nil, errors.New("empty script")
		}
		i := 0
		return ProgramFunc(func() Result {
			r := script[i%len(script)]
			i++
			return r
		}), nil
	})
}
