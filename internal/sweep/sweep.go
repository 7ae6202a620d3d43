// Package sweep enumerates families of configurations by varying numeric
// parameters, and names the artifact each configuration is written to.
//
// Generators are lazy and restartable: every call to Points walks the family
// from the beginning and builds configurations on demand.
package sweep

import (
	"errors"
	"fmt"
	"iter"

	"github.com/nvandessel/qharness/internal/circuit"
)

// ErrIdentifierCollision is returned when two points of a family map to the
// same artifact identifier.
var ErrIdentifierCollision = errors.New("artifact identifier collision")

// Point is one configuration of a family together with its artifact
// identifier. Value holds the full-precision parameter used to build Config.
type Point struct {
	Config circuit.Configuration
	ID     string
	Value  float64
	Label  string
}

// Generator produces the points of a family.
type Generator interface {
	Points() iter.Seq[Point]
}

// Fixed is a generator over a predetermined list of points.
type Fixed []Point

// Points implements Generator.
func (f Fixed) Points() iter.Seq[Point] {
	return func(yield func(Point) bool) {
		for _, p := range f {
			if !yield(p) {
				return
			}
		}
	}
}

// Single sweeps one parameter over Range.
type Single struct {
	Range  Range
	Naming Naming
	Build  func(value float64) circuit.Configuration
}

// Points implements Generator.
func (s Single) Points() iter.Seq[Point] {
	return func(yield func(Point) bool) {
		for v := range s.Range.Values() {
			p := Point{
				Config: s.Build(v),
				ID:     s.Naming.Format(v),
				Value:  v,
				Label:  fmt.Sprint(v),
			}
			if !yield(p) {
				return
			}
		}
	}
}

// AxisSweep sweeps an angle over Range for each axis in Axes, outer loop
// over axes. Identifiers are Prefix + angle text + axis tag + Ext.
type AxisSweep struct {
	Axes   []circuit.Axis
	Range  Range
	Prefix string
	Ext    string
	Width  int
	Build  func(axis circuit.Axis, angle float64) circuit.Configuration
}

// NamingFor returns the naming scheme used for axis.
func (a AxisSweep) NamingFor(axis circuit.Axis) Naming {
	return Naming{Prefix: a.Prefix, Suffix: axis.Tag() + a.Ext, Width: a.Width}
}

// Points implements Generator.
func (a AxisSweep) Points() iter.Seq[Point] {
	return func(yield func(Point) bool) {
		for _, axis := range a.Axes {
			naming := a.NamingFor(axis)
			for v := range a.Range.Values() {
				p := Point{
					Config: a.Build(axis, v),
					ID:     naming.Format(v),
					Value:  v,
					Label:  fmt.Sprintf("%v axis %s", v, axis),
				}
				if !yield(p) {
					return
				}
			}
		}
	}
}

// Identifiers lists the identifiers a generator produces, in order, and
// reports the first collision.
func Identifiers(g Generator) ([]string, error) {
	var ids []string
	seen := make(map[string]float64)
	for p := range g.Points() {
		if prev, ok := seen[p.ID]; ok {
			return ids, fmt.Errorf("%w: %q produced by %v and %v", ErrIdentifierCollision, p.ID, prev, p.Value)
		}
		seen[p.ID] = p.Value
		ids = append(ids, p.ID)
	}
	return ids, nil
}
