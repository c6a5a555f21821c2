// Package gini computes the Gini index of a count distribution. Calculation is
// based on https://en.wikipedia.org/wiki/Gini_coefficient
package gini

import "sort"

// Index returns the Gini index of values: 0 for a perfectly uniform
// distribution, approaching 1 as the mass concentrates in one value. values
// must hold at least 2 entries; with fewer the result is undefined (NaN or
// an infinity).
//
// values is not modified.
func Index(values []float64) float64 {
	xs := make([]float64, len(values))
	copy(xs, values)
	sort.Float64s(xs)

	n := float64(len(xs))

	rankSum, total := 0.0, 0.0
	for i, x := range xs {
		rankSum += float64(i+1) * x
		total += x
	}

	// An all-zero distribution yields a defined (if degenerate) score
	if total == 0 {
		total = 1
	}

	return 1.0 - 2.0*(n-rankSum/total)/(n-1)
}
