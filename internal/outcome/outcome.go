// Package outcome classifies raw shot results and tallies them.
package outcome

import (
	"math"

	"github.com/nvandessel/qharness/internal/engine"
)

// Outcome is the classified result of one shot.
type Outcome int

const (
	Zero Outcome = iota
	One
	Indeterminate
)

func (o Outcome) String() string {
	switch o {
	case Zero:
		return "zero"
	case One:
		return "one"
	default:
		return "indeterminate"
	}
}

// Classify maps a raw result to an Outcome. Failures and measured values
// other than 0 and 1 are Indeterminate.
func Classify(r engine.Result) Outcome {
	if !r.OK() {
		return Indeterminate
	}
	switch r.Value {
	case 0:
		return Zero
	case 1:
		return One
	default:
		return Indeterminate
	}
}

// Tally counts classified outcomes. The zero value is ready to use.
type Tally struct {
	Zeros         uint64
	Ones          uint64
	Indeterminate uint64
}

// Add records one outcome.
func (t *Tally) Add(o Outcome) {
	switch o {
	case Zero:
		t.Zeros++
	case One:
		t.Ones++
	default:
		t.Indeterminate++
	}
}

// Merge adds the counts of other into t.
func (t *Tally) Merge(other Tally) {
	t.Zeros += other.Zeros
	t.Ones += other.Ones
	t.Indeterminate += other.Indeterminate
}

// Decided is the number of shots that measured 0 or 1.
func (t Tally) Decided() uint64 { return t.Zeros + t.Ones }

// Shots is the number of shots recorded, including indeterminate ones.
func (t Tally) Shots() uint64 { return t.Zeros + t.Ones + t.Indeterminate }

// Probability estimates P(1) as Ones / (Zeros + Ones). It is NaN when no
// shot was decided.
func (t Tally) Probability() float64 {
	d := t.Decided()
	if d == 0 {
		return math.NaN()
	}
	return float64(t.Ones) / float64(d)
}
