package engine

import (
	"errors"
	"fmt"
	"math"

	"github.com/nvandessel/qharness/internal/circuit"
)

// ErrUnknownOperation is returned by Reference.Prepare for operation names it
// has no outcome model for.
var ErrUnknownOperation = errors.New("unknown operation")

// ErrInvalidTargets is reported at run time for operations whose target
// indices conflict, e.g. a toffoli whose controls and target coincide.
var ErrInvalidTargets = errors.New("operation targets are not distinct")

// Reference is a stand-in engine for running the CLI without an external
// simulator. Each operation is reduced to the closed-form probability of
// reading 1 after applying it to the canonical 0 state, and operations are
// composed as independent bit flips. That is exact for single-operation
// configurations and only an approximation beyond them.
type Reference struct{}

// Prepare implements Engine.
func (Reference) Prepare(cfg circuit.Configuration, seed int64) (Program, error) {
	if cfg.Len() == 0 {
		return nil, circuit.ErrEmptyConfiguration
	}
	steps := make([]flipStep, 0, cfg.Len())
	for _, op := range cfg.Operations() {
		st, err := stepFor(op)
		if err != nil {
			return nil, fmt.Errorf("preparing %s: %w", cfg.Name(), err)
		}
		steps = append(steps, st)
	}
	return &referenceProgram{steps: steps, rng: NewFastRNG(seed)}, nil
}

type flipStep struct {
	p   float64
	err error
}

func stepFor(op circuit.Operation) (flipStep, error) {
	switch op.Name() {
	case circuit.OpHadamard, circuit.OpFourier:
		return flipStep{p: 0.5}, nil
	case circuit.OpIdentity, circuit.OpPauliZ, circuit.OpProbabilities:
		return flipStep{p: 0}, nil
	case circuit.OpPauliX, circuit.OpPauliY:
		return flipStep{p: 1}, nil
	case circuit.OpToffoli:
		if !distinct(op.Targets()) {
			return flipStep{err: fmt.Errorf("%s: %w", op, ErrInvalidTargets)}, nil
		}
		// Controls start at 0, so the target is never flipped.
		return flipStep{p: 0}, nil
	case circuit.OpRotation:
		angle, _ := op.Param(0)
		axis, _ := circuit.RotationAxis(op)
		if axis == circuit.AxisZ {
			return flipStep{p: 0}, nil
		}
		s := math.Sin(angle / 2)
		return flipStep{p: s * s}, nil
	}
	return flipStep{}, fmt.Errorf("%q: %w", op.Name(), ErrUnknownOperation)
}

func distinct(xs []int) bool {
	seen := make(map[int]struct{}, len(xs))
	for _, x := range xs {
		if _, ok := seen[x]; ok {
			return false
		}
		seen[x] = struct{}{}
	}
	return true
}

type referenceProgram struct {
	steps []flipStep
	rng   *FastRNG
}

func (p *referenceProgram) Run() Result {
	bit := 0
	for _, st := range p.steps {
		if st.err != nil {
			return Failed(FailureExecution, st.err)
		}
		switch {
		case st.p >= 1:
			bit ^= 1
		case st.p <= 0:
		default:
			if p.rng.Float64() < st.p {
				bit ^= 1
			}
		}
	}
	return Measured(bit)
}
