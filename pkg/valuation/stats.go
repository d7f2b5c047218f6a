package valuation

import (
	"math"
	"slices"
)

// Percentile returns the p-th percentile (0-100) of values using linear
// interpolation between closest ranks.
func Percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)

	idx := p / 100 * float64(len(sorted)-1)
	lower, upper := int(math.Floor(idx)), int(math.Ceil(idx))
	if lower == upper {
		return sorted[lower]
	}
	w := idx - float64(lower)
	return sorted[lower]*(1-w) + sorted[upper]*w
}

// Median returns the median of values, averaging the middle pair for even
// lengths.
func Median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

// FilterOutliers drops values outside [Q1 - 1.5*IQR, Q3 + 1.5*IQR] and
// returns the survivors in ascending order.
func FilterOutliers(values []float64) []float64 {
	if len(values) == 0 {
		return nil
	}
	q1, q3 := Percentile(values, 25), Percentile(values, 75)
	iqr := q3 - q1
	lo, hi := q1-1.5*iqr, q3+1.5*iqr

	kept := make([]float64, 0, len(values))
	for _, v := range values {
		if v >= lo && v <= hi {
			kept = append(kept, v)
		}
	}
	slices.Sort(kept)
	return kept
}

// AdjustForYear moves a price observed for a rowYear bike to targetYear at
// the given annual depreciation rate, capped at maxYears in either
// direction.
func AdjustForYear(price float64, rowYear, targetYear int, rate float64, maxYears int) float64 {
	diff := min(max(targetYear-rowYear, -maxYears), maxYears)
	if diff == 0 {
		return price
	}
	return price * math.Pow(1-rate, -float64(diff))
}
