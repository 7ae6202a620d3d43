// Package circuit defines the operations and configurations handed to an
// execution engine. Values in this package are immutable once constructed.
package circuit

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyConfiguration is returned when a configuration has no operations.
var ErrEmptyConfiguration = errors.New("configuration has no operations")

// Operation is a named, parameterized unit of work applied to the system
// under test. Target selects the subsystem the operation acts on.
type Operation struct {
	name    string
	targets []int
	params  []float64
}

// NewOperation creates an operation acting on the given target indices.
// The first target is the primary one reported by Target.
func NewOperation(name string, targets []int, params ...float64) Operation {
	return Operation{
		name:    name,
		targets: append([]int(nil), targets...),
		params:  append([]float64(nil), params...),
	}
}

// Name returns the operation name.
func (o Operation) Name() string { return o.name }

// Target returns the primary target index, or 0 if none was given.
func (o Operation) Target() int {
	if len(o.targets) == 0 {
		return 0
	}
	return o.targets[0]
}

// Targets returns a copy of all target indices.
func (o Operation) Targets() []int {
	return append([]int(nil), o.targets...)
}

// Param returns the i-th numeric parameter and whether it exists.
func (o Operation) Param(i int) (float64, bool) {
	if i < 0 || i >= len(o.params) {
		return 0, false
	}
	return o.params[i], true
}

// Params returns a copy of the numeric parameters.
func (o Operation) Params() []float64 {
	return append([]float64(nil), o.params...)
}

// String renders the operation as name(targets; params).
func (o Operation) String() string {
	var b strings.Builder
	b.WriteString(o.name)
	b.WriteByte('(')
	for i, t := range o.targets {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "%d", t)
	}
	if len(o.params) > 0 {
		b.WriteString("; ")
		for i, p := range o.params {
			if i > 0 {
				b.WriteByte(',')
			}
			fmt.Fprintf(&b, "%g", p)
		}
	}
	b.WriteByte(')')
	return b.String()
}

// Configuration is an ordered, non-empty sequence of operations applied
// within one trial.
type Configuration struct {
	name string
	ops  []Operation
}

// NewConfiguration builds a configuration from ops in application order.
func NewConfiguration(name string, ops ...Operation) (Configuration, error) {
	if len(ops) == 0 {
		return Configuration{}, fmt.Errorf("configuration %q: %w", name, ErrEmptyConfiguration)
	}
	return Configuration{name: name, ops: append([]Operation(nil), ops...)}, nil
}

// MustConfiguration is like NewConfiguration but panics on error. It is
// intended for fixed configurations known to be valid.
func MustConfiguration(name string, ops ...Operation) Configuration {
	c, err := NewConfiguration(name, ops...)
	if err != nil {
		panic(err)
	}
	return c
}

// Name returns the configuration name used in logs.
func (c Configuration) Name() string { return c.name }

// Operations returns a copy of the operations in application order.
func (c Configuration) Operations() []Operation {
	return append([]Operation(nil), c.ops...)
}

// Len returns the number of operations.
func (c Configuration) Len() int { return len(c.ops) }

// Qubits returns the number of subsystems touched, i.e. the highest target
// index plus one.
func (c Configuration) Qubits() int {
	n := 1
	for _, op := range c.ops {
		for _, t := range op.targets {
			if t+1 > n {
				n = t + 1
			}
		}
	}
	return n
}

func (c Configuration) String() string {
	parts := make([]string, len(c.ops))
	for i, op := range c.ops {
		parts[i] = op.String()
	}
	return c.name + "[" + strings.Join(parts, " ") + "]"
}
