// Package wasserstein implements the distance-and-estimation strategy for
// nearest-neighbor completion of distribution-valued matrices: pairwise
// dissimilarities built from averaged squared 2-Wasserstein distances
// between empirical one-dimensional distributions, neighborhood-averaged
// estimates under partial missingness, and the matching error aggregate.
package wasserstein

import (
	"math"

	"wassnn/internal/nanstat"
)

// SquaredW2 returns the squared 2-Wasserstein distance between two
// empirical one-dimensional distributions represented as equal-length,
// ascending-sorted sample vectors: the mean of squared elementwise
// differences. Positions where either sample is NaN drop out of the mean,
// and the result is NaN when no position survives. The closed form is only
// valid for sorted inputs; sortedness is the caller's responsibility and
// is not checked.
func SquaredW2(yi, yj []float64) float64 {
	sum := 0.0
	count := 0
	for s := range yi {
		d := yi[s] - yj[s]
		if math.IsNaN(d) {
			continue
		}
		sum += d * d
		count++
	}
	if count == 0 {
		return math.NaN()
	}
	return sum / float64(count)
}

// AvgSquaredW2 returns the average squared 2-Wasserstein distance over a
// batch of sample-vector pairs: the per-pair SquaredW2, averaged NaN-aware
// across the batch. A pair with no jointly non-NaN position is NaN and
// drops out of the outer mean; the result is NaN when every pair drops
// out.
func AvgSquaredW2(yi, yj [][]float64) float64 {
	dists := make([]float64, len(yi))
	for p := range yi {
		dists[p] = SquaredW2(yi[p], yj[p])
	}
	return nanstat.Mean(dists)
}
