// Package experiment defines the experiment families qharness runs and the
// harness that drives them from configuration to written artifacts.
package experiment

import (
	"fmt"
	"math"
	"strings"

	"github.com/nvandessel/qharness/internal/circuit"
	"github.com/nvandessel/qharness/internal/constants"
	"github.com/nvandessel/qharness/internal/sweep"
)

// Family names accepted by ByName.
const (
	FamilyGeneral  = "general"
	FamilyRotation = "rotation"
	FamilyRNG      = "testrng"
)

// Sweep bounds for the parameterized families.
var (
	RotationRange = sweep.Range{Start: 0, Stop: 6.3, Step: 0.1}
	RNGRange      = sweep.Range{Start: 0, Stop: 4 * math.Pi, Step: math.Pi / 50}
)

// Family is a named set of configurations written to one directory under the
// output root.
type Family struct {
	Name      string
	Dir       string
	Generator sweep.Generator
}

// General is the fixed family of eight single-operation configurations.
func General() Family {
	point := func(id string, op circuit.Operation) sweep.Point {
		return sweep.Point{
			Config: circuit.MustConfiguration(strings.TrimSuffix(id, constants.ArtifactExt), op),
			ID:     id,
			Label:  op.Name(),
		}
	}
	return Family{
		Name: FamilyGeneral,
		Dir:  constants.GeneralDir,
		Generator: sweep.Fixed{
			point("hadamard.csv", circuit.Hadamard(0)),
			point("identity.csv", circuit.Identity(0)),
			point("pauliX.csv", circuit.PauliX(0)),
			point("pauliY.csv", circuit.PauliY(0)),
			point("pauliZ.csv", circuit.PauliZ(0)),
			point("fourier.csv", circuit.Fourier(0, 0)),
			point("probabilitiesGate.csv", circuit.Probabilities(0)),
			point("toffoli.csv", circuit.Toffoli(0, 0, 0)),
		},
	}
}

// Rotation sweeps a single rotation over RotationRange about each axis.
// Artifacts are named Rotation<angle><axis tag>.csv.
func Rotation(stepping sweep.Stepping, width int) Family {
	r := RotationRange
	r.Stepping = stepping
	return Family{
		Name: FamilyRotation,
		Dir:  constants.RotationDir,
		Generator: sweep.AxisSweep{
			Axes:   circuit.Axes,
			Range:  r,
			Prefix: constants.RotationPrefix,
			Ext:    constants.ArtifactExt,
			Width:  width,
			Build: func(axis circuit.Axis, angle float64) circuit.Configuration {
				return circuit.MustConfiguration(fmt.Sprintf("rotation-%s", axis), circuit.Rotation(axis, angle, 0))
			},
		},
	}
}

// RNGNaming is the naming scheme of the RNG family's artifacts, shared with
// the analysis pass.
func RNGNaming(width int) sweep.Naming {
	return sweep.Naming{Prefix: constants.AnglePrefix, Suffix: constants.ArtifactExt, Width: width}
}

// RNG sweeps a y-axis rotation over RNGRange. Artifacts are named
// Angle<angle>.csv.
func RNG(stepping sweep.Stepping, width int) Family {
	r := RNGRange
	r.Stepping = stepping
	return Family{
		Name: FamilyRNG,
		Dir:  constants.RNGDir,
		Generator: sweep.Single{
			Range:  r,
			Naming: RNGNaming(width),
			Build: func(angle float64) circuit.Configuration {
				return circuit.MustConfiguration("rng", circuit.Rotation(circuit.AxisY, angle, 0))
			},
		},
	}
}

// ByName returns the family called name.
func ByName(name string, stepping sweep.Stepping, width int) (Family, error) {
	switch strings.ToLower(name) {
	case FamilyGeneral:
		return General(), nil
	case FamilyRotation:
		return Rotation(stepping, width), nil
	case FamilyRNG, "rng":
		return RNG(stepping, width), nil
	}
	return Family{}, fmt.Errorf("unknown experiment family %q", name)
}
