package circuit

import (
	"fmt"
	"strings"
)

// Operation names understood by the reference engine.
const (
	OpHadamard      = "hadamard"
	OpIdentity      = "identity"
	OpPauliX        = "pauliX"
	OpPauliY        = "pauliY"
	OpPauliZ        = "pauliZ"
	OpFourier       = "fourier"
	OpProbabilities = "probabilities"
	OpToffoli       = "toffoli"
	OpRotation      = "rotation"
)

// Axis selects the rotation axis of a rotation operation.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// Axes lists every rotation axis in sweep order.
var Axes = []Axis{AxisX, AxisY, AxisZ}

// Tag returns the single-letter tag used in artifact identifiers.
func (a Axis) Tag() string {
	switch a {
	case AxisX:
		return "X"
	case AxisY:
		return "Y"
	case AxisZ:
		return "Z"
	default:
		return fmt.Sprintf("axis%d", int(a))
	}
}

func (a Axis) String() string { return strings.ToLower(a.Tag()) }

// ParseAxis maps "x", "y" or "z" (any case) to an Axis.
func ParseAxis(s string) (Axis, error) {
	switch strings.ToLower(s) {
	case "x":
		return AxisX, nil
	case "y":
		return AxisY, nil
	case "z":
		return AxisZ, nil
	}
	return 0, fmt.Errorf("unknown axis %q", s)
}

func Hadamard(target int) Operation { return NewOperation(OpHadamard, []int{target}) }
func Identity(target int) Operation { return NewOperation(OpIdentity, []int{target}) }
func PauliX(target int) Operation   { return NewOperation(OpPauliX, []int{target}) }
func PauliY(target int) Operation   { return NewOperation(OpPauliY, []int{target}) }
func PauliZ(target int) Operation   { return NewOperation(OpPauliZ, []int{target}) }

// Fourier is a Fourier transform over the span [first, last].
func Fourier(first, last int) Operation {
	return NewOperation(OpFourier, []int{first, last})
}

// Probabilities is a read-only probe; it leaves the state unchanged.
func Probabilities(target int) Operation {
	return NewOperation(OpProbabilities, []int{target})
}

// Toffoli is a doubly controlled NOT. Engines reject it when the three
// indices are not distinct.
func Toffoli(control1, control2, target int) Operation {
	return NewOperation(OpToffoli, []int{target, control1, control2})
}

// Rotation rotates the target by angle radians about axis. The axis is
// stored as the second parameter.
func Rotation(axis Axis, angle float64, target int) Operation {
	return NewOperation(OpRotation, []int{target}, angle, float64(axis))
}

// RotationAxis extracts the axis of a rotation operation.
func RotationAxis(op Operation) (Axis, bool) {
	if op.Name() != OpRotation {
		return 0, false
	}
	v, ok := op.Param(1)
	if !ok {
		return AxisX, true
	}
	return Axis(int(v)), true
}
