package engine

import (
	"errors"
	"math"
	"testing"

	"github.com/nvandessel/qharness/internal/circuit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runN(t *testing.T, p Program, n int) (zeros, ones, failed int) {
	t.Helper()
	for i := 0; i < n; i++ {
		r := p.Run()
		switch {
		case !r.OK():
			failed++
		case r.Value == 0:
			zeros++
		case r.Value == 1:
			ones++
		}
	}
	return zeros, ones, failed
}

func TestReference_DeterministicOperations(t *testing.T) {
	tests := []struct {
		name     string
		op       circuit.Operation
		wantOnes bool
	}{
		{"identity", circuit.Identity(0), false},
		{"pauliX", circuit.PauliX(0), true},
		{"pauliY", circuit.PauliY(0), true},
		{"pauliZ", circuit.PauliZ(0), false},
		{"probabilities", circuit.Probabilities(0), false},
		{"rotation z", circuit.Rotation(circuit.AxisZ, math.Pi, 0), false},
		{"rotation x by pi", circuit.Rotation(circuit.AxisX, math.Pi, 0), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Reference{}.Prepare(circuit.MustConfiguration(tt.name, tt.op), 1)
			require.NoError(t, err)

			zeros, ones, failed := runN(t, p, 200)
			assert.Zero(t, failed)
			if tt.wantOnes {
				assert.Equal(t, 200, ones)
			} else {
				assert.Equal(t, 200, zeros)
			}
		})
	}
}

func TestReference_HadamardIsBalanced(t *testing.T) {
	p, err := Reference{}.Prepare(circuit.MustConfiguration("h", circuit.Hadamard(0)), 42)
	require.NoError(t, err)

	_, ones, failed := runN(t, p, 20000)
	assert.Zero(t, failed)
	assert.InDelta(t, 0.5, float64(ones)/20000, 0.03)
}

func TestReference_ToffoliSameTargetsFails(t *testing.T) {
	p, err := Reference{}.Prepare(circuit.MustConfiguration("t", circuit.Toffoli(0, 0, 0)), 1)
	require.NoError(t, err)

	r := p.Run()
	assert.False(t, r.OK())
	assert.Equal(t, FailureExecution, r.Failure)
	assert.True(t, errors.Is(r.Err, ErrInvalidTargets))
}

func TestReference_UnknownOperation(t *testing.T) {
	cfg := circuit.MustConfiguration("u", circuit.NewOperation("swap", []int{0, 1}))
	_, err := Reference{}.Prepare(cfg, 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownOperation))
}

func TestReference_SameSeedSameStream(t *testing.T) {
	cfg := circuit.MustConfiguration("h", circuit.Hadamard(0))
	a, err := Reference{}.Prepare(cfg, 7)
	require.NoError(t, err)
	b, err := Reference{}.Prepare(cfg, 7)
	require.NoError(t, err)

	for i := 0; i < 100; i++ {
		require.Equal(t, a.Run(), b.Run(), "shot %d", i)
	}
}

func TestScripted_RestartsPerProgram(t *testing.T) {
	eng := Scripted(Measured(1), Measured(0))
	cfg := circuit.MustConfiguration("s", circuit.Identity(0))

	p1, err := eng.Prepare(cfg, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, p1.Run().Value)
	assert.Equal(t, 0, p1.Run().Value)
	assert.Equal(t, 1, p1.Run().Value)

	p2, err := eng.Prepare(cfg, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, p2.Run().Value)
}

func TestFailed_DefaultsReason(t *testing.T) {
	r := Failed(FailureNone, nil)
	assert.False(t, r.OK())
	assert.Equal(t, FailureExecution, r.Failure)
	assert.Equal(t, "failed(execution)", r.String())
	assert.Equal(t, "measured(1)", Measured(1).String())
}

func TestFastRNG_Range(t *testing.T) {
	rng := NewFastRNG(3)
	for i := 0; i < 1000; i++ {
		f := rng.Float64()
		require.GreaterOrEqual(t, f, 0.0)
		require.Less(t, f, 1.0)
	}
}

func TestDeriveSeed(t *testing.T) {
	assert.Equal(t, DeriveSeed(1, "a.csv", 3), DeriveSeed(1, "a.csv", 3))
	assert.NotEqual(t, DeriveSeed(1, "a.csv", 3), DeriveSeed(1, "a.csv", 4))
	assert.NotEqual(t, DeriveSeed(1, "a.csv", 3), DeriveSeed(1, "b.csv", 3))
	assert.NotEqual(t, DeriveSeed(1, "a.csv", 3), DeriveSeed(2, "a.csv", 3))
}
