package circuit

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfiguration_Empty(t *testing.T) {
	_, err := NewConfiguration("empty")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEmptyConfiguration))
}

func TestConfiguration_PreservesOrder(t *testing.T) {
	cfg, err := NewConfiguration("seq", Hadamard(0), PauliX(0), PauliZ(0))
	require.NoError(t, err)

	ops := cfg.Operations()
	require.Len(t, ops, 3)
	assert.Equal(t, OpHadamard, ops[0].Name())
	assert.Equal(t, OpPauliX, ops[1].Name())
	assert.Equal(t, OpPauliZ, ops[2].Name())
}

func TestConfiguration_OperationsIsCopy(t *testing.T) {
	cfg := MustConfiguration("h", Hadamard(0))
	ops := cfg.Operations()
	ops[0] = PauliX(0)

	assert.Equal(t, OpHadamard, cfg.Operations()[0].Name())
}

func TestOperation_ParamsAreCopied(t *testing.T) {
	params := []float64{1.5, 2}
	op := NewOperation("custom", []int{0}, params...)
	params[0] = 99

	v, ok := op.Param(0)
	require.True(t, ok)
	assert.Equal(t, 1.5, v)

	_, ok = op.Param(5)
	assert.False(t, ok)
}

func TestConfiguration_Qubits(t *testing.T) {
	tests := []struct {
		name string
		cfg  Configuration
		want int
	}{
		{"single", MustConfiguration("h", Hadamard(0)), 1},
		{"toffoli", MustConfiguration("t", Toffoli(0, 1, 2)), 3},
		{"fourier span", MustConfiguration("f", Fourier(0, 3)), 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.Qubits())
		})
	}
}

func TestRotationAxis(t *testing.T) {
	for _, axis := range Axes {
		op := Rotation(axis, 0.5, 0)
		got, ok := RotationAxis(op)
		require.True(t, ok)
		assert.Equal(t, axis, got)

		angle, ok := op.Param(0)
		require.True(t, ok)
		assert.Equal(t, 0.5, angle)
	}

	_, ok := RotationAxis(Hadamard(0))
	assert.False(t, ok)
}

func TestParseAxis(t *testing.T) {
	a, err := ParseAxis("Y")
	require.NoError(t, err)
	assert.Equal(t, AxisY, a)
	assert.Equal(t, "Y", a.Tag())

	_, err = ParseAxis("w")
	assert.Error(t, err)
}

func TestOperation_String(t *testing.T) {
	assert.Equal(t, "rotation(0; 0.5,1)", Rotation(AxisY, 0.5, 0).String())
	assert.Equal(t, "hadamard(0)", Hadamard(0).String())
}
