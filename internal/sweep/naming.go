package sweep

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrNameMismatch is returned by Naming.Parse for names outside the scheme.
var ErrNameMismatch = errors.New("name does not match naming scheme")

// Naming is the artifact identifier scheme shared by writers and readers:
// Prefix + truncated value text + Suffix.
//
// The value text is the shortest decimal form of the value cut (not rounded)
// to Width characters. Distinct values may therefore share an identifier;
// generators reject such sweeps up front. Width <= 0 disables truncation.
type Naming struct {
	Prefix string
	Suffix string
	Width  int
}

// ValueText returns the value's decimal text truncated to Width characters.
// Text shorter than Width is returned unchanged.
func (n Naming) ValueText(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if n.Width > 0 && len(s) > n.Width {
		s = s[:n.Width]
	}
	return s
}

// Format returns the identifier for v.
func (n Naming) Format(v float64) string {
	return n.Prefix + n.ValueText(v) + n.Suffix
}

// Parse recovers the value embedded in name by Format. The result equals the
// truncated text parsed as a float, not the original full-precision value.
func (n Naming) Parse(name string) (float64, error) {
	if !strings.HasPrefix(name, n.Prefix) || !strings.HasSuffix(name, n.Suffix) ||
		len(name) < len(n.Prefix)+len(n.Suffix) {
		return 0, fmt.Errorf("%q: %w", name, ErrNameMismatch)
	}
	text := name[len(n.Prefix) : len(name)-len(n.Suffix)]
	if text == "" {
		return 0, fmt.Errorf("%q: empty value: %w", name, ErrNameMismatch)
	}
	// Format only ever emits plain decimal digits, so exponents, hex floats
	// and NaN or Inf spellings cannot come from this scheme.
	if strings.Trim(text, "0123456789.-") != "" {
		return 0, fmt.Errorf("%q: not a decimal value: %w", name, ErrNameMismatch)
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, fmt.Errorf("%q: %w: %v", name, ErrNameMismatch, err)
	}
	return v, nil
}

// Matches reports whether Parse would accept name.
func (n Naming) Matches(name string) bool {
	_, err := n.Parse(name)
	return err == nil
}
