// Package nanstat provides NaN-aware reductions: means that exclude
// not-a-number entries from both the sum and the count, matching the
// semantics the sentinel-based missingness encoding relies on. Infinities
// are not excluded; they must propagate through the averages.
package nanstat

import "math"

// Mean returns the arithmetic mean of the non-NaN elements of xs.
// It returns NaN when no element survives.
func Mean(xs []float64) float64 {
	sum := 0.0
	count := 0
	for _, x := range xs {
		if math.IsNaN(x) {
			continue
		}
		sum += x
		count++
	}
	if count == 0 {
		return math.NaN()
	}
	return sum / float64(count)
}

// ColumnMeans returns the elementwise mean across rows, NaN-aware per
// position: a position where every row holds NaN yields NaN. All rows
// must have length width.
func ColumnMeans(rows [][]float64, width int) []float64 {
	sums := make([]float64, width)
	counts := make([]int, width)
	for _, row := range rows {
		for p := 0; p < width; p++ {
			if math.IsNaN(row[p]) {
				continue
			}
			sums[p] += row[p]
			counts[p]++
		}
	}
	means := make([]float64, width)
	for p := 0; p < width; p++ {
		if counts[p] == 0 {
			means[p] = math.NaN()
			continue
		}
		means[p] = sums[p] / float64(counts[p])
	}
	return means
}
