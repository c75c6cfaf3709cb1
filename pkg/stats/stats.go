package stats

import (
	"errors"
	"math"
	"slices"
)

// ErrEmpty is returned by [Quantile] for an empty sample.
var ErrEmpty = errors.New("quantile of empty sample")

// ErrQuantileRange is returned by [Quantile] when q lies outside [0, 1].
var ErrQuantileRange = errors.New("quantile outside [0, 1]")

// Quantile returns the q-quantile of values using linear interpolation
// between order statistics. values is not modified.
func Quantile(values []float64, q float64) (float64, error) {
	if len(values) == 0 {
		return 0, ErrEmpty
	}
	if math.IsNaN(q) || q < 0 || q > 1 {
		return 0, ErrQuantileRange
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)

	h := float64(len(sorted)-1) * q
	lo := int(math.Floor(h))
	if lo >= len(sorted)-1 {
		return sorted[len(sorted)-1], nil
	}
	frac := h - float64(lo)
	a, b := sorted[lo], sorted[lo+1]
	if frac == 0 || a == b {
		return a, nil
	}
	return a + frac*(b-a), nil
}

// Max returns the largest value, or 0 for an empty slice.
func Max(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return slices.Max(values)
}

// Normalize divides every value by the maximum so the largest becomes 1.
// When the maximum is not positive every result is 0.
func Normalize(values []float64) []float64 {
	out := make([]float64, len(values))
	m := Max(values)
	if m <= 0 {
		return out
	}
	for i, v := range values {
		out[i] = v / m
	}
	return out
}
