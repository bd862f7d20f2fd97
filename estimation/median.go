package estimation

import (
	"cmp"
	"slices"

	"github.com/oqtopus-team/oqtopus-engine/shadowapp/core"
)

// Median sorts a copy of values by real part, then imaginary part, and
// returns the middle value. For an even count it returns the mean of the two
// middle values.
func Median(values []complex128) (complex128, error) {
	if len(values) == 0 {
		return 0, core.NewConfigError("values", "median of no values")
	}
	sorted := slices.Clone(values)
	slices.SortFunc(sorted, compareComplex)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid], nil
	}
	return (sorted[mid-1] + sorted[mid]) / 2, nil
}

func compareComplex(a, b complex128) int {
	if c := cmp.Compare(real(a), real(b)); c != 0 {
		return c
	}
	return cmp.Compare(imag(a), imag(b))
}
