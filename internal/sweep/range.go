package sweep

import (
	"errors"
	"fmt"
	"iter"
	"math"
	"strings"
)

// ErrInvalidRange is returned for ranges that cannot be enumerated.
var ErrInvalidRange = errors.New("invalid sweep range")

// indexTolerance absorbs representation error in (stop-start)/step so that
// e.g. [0, 0.3) step 0.1 counts 3 points rather than 4.
const indexTolerance = 1e-9

// Stepping selects how range values are produced.
type Stepping int

const (
	// Accumulate adds Step to the previous value until it reaches Stop.
	// Drift can add or drop a point at the boundary; this matches output
	// sets produced by earlier versions of the tool.
	Accumulate Stepping = iota

	// Indexed computes Start + i*Step for a precomputed count, which gives
	// a predictable number of points.
	Indexed
)

func (s Stepping) String() string {
	if s == Indexed {
		return "indexed"
	}
	return "accumulate"
}

// ParseStepping maps "accumulate" or "indexed" to a Stepping. The empty
// string selects Accumulate.
func ParseStepping(s string) (Stepping, error) {
	switch strings.ToLower(s) {
	case "", "accumulate":
		return Accumulate, nil
	case "indexed":
		return Indexed, nil
	}
	return Accumulate, fmt.Errorf("unknown stepping %q (valid: accumulate, indexed)", s)
}

// Range is the half-open interval [Start, Stop) walked by Step.
type Range struct {
	Start    float64
	Stop     float64
	Step     float64
	Stepping Stepping
}

// Validate checks that the range is finite and walks forward.
func (r Range) Validate() error {
	for _, v := range []float64{r.Start, r.Stop, r.Step} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: non-finite bound in %+v", ErrInvalidRange, r)
		}
	}
	if r.Step <= 0 {
		return fmt.Errorf("%w: step must be positive, got %v", ErrInvalidRange, r.Step)
	}
	if r.Stop < r.Start {
		return fmt.Errorf("%w: stop %v is before start %v", ErrInvalidRange, r.Stop, r.Start)
	}
	return nil
}

// Values yields the range's values lazily. Each call restarts from Start.
// An invalid range yields nothing.
func (r Range) Values() iter.Seq[float64] {
	return func(yield func(float64) bool) {
		if r.Validate() != nil {
			return
		}
		if r.Stepping == Indexed {
			n := r.indexedCount()
			for i := 0; i < n; i++ {
				if !yield(r.Start + float64(i)*r.Step) {
					return
				}
			}
			return
		}
		for v := r.Start; v < r.Stop; {
			if !yield(v) {
				return
			}
			next := v + r.Step
			if next <= v {
				// Step is below the resolution of v.
				return
			}
			v = next
		}
	}
}

// Count returns the number of values Values yields.
func (r Range) Count() int {
	if r.Validate() != nil {
		return 0
	}
	if r.Stepping == Indexed {
		return r.indexedCount()
	}
	n := 0
	for range r.Values() {
		n++
	}
	return n
}

func (r Range) indexedCount() int {
	n := math.Ceil((r.Stop-r.Start)/r.Step - indexTolerance)
	if n < 0 {
		return 0
	}
	return int(n)
}
