package wasserstein

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"wassnn/internal/nanstat"
	"wassnn/pkg/imputation"
	"wassnn/pkg/tensor"
)

// Estimator is the Wasserstein nearest-neighbor strategy. Its only
// configuration is the neighbor mode, fixed at construction; instances are
// stateless and safe for concurrent use.
//
// The estimator is only well-defined for tensors with Dims == 1. The
// imputation framework validates that at its boundary; the estimator
// assumes it.
type Estimator struct {
	mode imputation.NeighborMode
}

var _ imputation.Strategy = (*Estimator)(nil)

// New returns an estimator using the given neighbor mode
func New(mode imputation.NeighborMode) *Estimator {
	return &Estimator{mode: mode}
}

// Mode reports which axis neighbors are drawn from
func (e *Estimator) Mode() imputation.NeighborMode {
	return e.mode
}

// Distances computes the pairwise dissimilarity matrix between columns
// (ItemItem) or rows (UserUser) of z under the mask. For each pair, the
// squared 2-Wasserstein distance of the two cells' samples is taken at
// every index along the orthogonal axis, and the NaN-aware mean of those
// per-index distances is the pair's entry. Cells whose mask code is not
// Observed contribute nothing. The averaging order (samples first, then
// the orthogonal axis) is part of the contract and must not be
// reassociated.
//
// The returned matrix is symmetric with a +Inf diagonal, and finite
// off-diagonal entries are non-negative. A pair with no jointly observed
// orthogonal index is NaN; NaN fails every eta comparison, so such a pair
// is silently never a neighbor.
//
// Parameters:
//   - z: measurement tensor of shape (rows, cols, samples, 1)
//   - m: observation mask of shape (rows, cols)
//
// Returns:
//   - a (cols, cols) matrix under ItemItem, (rows, rows) under UserUser
func (e *Estimator) Distances(z *tensor.Tensor, m *tensor.Mask) *mat.Dense {
	dim, ortho := z.Cols, z.Rows
	if e.mode == imputation.UserUser {
		dim, ortho = z.Rows, z.Cols
	}

	dists := mat.NewDense(dim, dim, nil)
	perOrtho := make([]float64, ortho)
	for a := 0; a < dim; a++ {
		for b := a + 1; b < dim; b++ {
			for k := 0; k < ortho; k++ {
				perOrtho[k] = e.cellDistance(z, m, a, b, k)
			}
			d := nanstat.Mean(perOrtho)
			if d < 0 {
				d = 0 // the distance is itself estimated; negatives are artifacts
			}
			dists.Set(a, b, d)
			dists.Set(b, a, d)
		}
		dists.Set(a, a, math.Inf(1))
	}
	return dists
}

// cellDistance returns the squared W2 distance between the pair's samples
// at orthogonal index k, NaN when either cell is unobserved
func (e *Estimator) cellDistance(z *tensor.Tensor, m *tensor.Mask, a, b, k int) float64 {
	if e.mode == imputation.ItemItem {
		if !m.IsObserved(k, a) || !m.IsObserved(k, b) {
			return math.NaN()
		}
		return SquaredW2(z.Sample(k, a), z.Sample(k, b))
	}
	if !m.IsObserved(a, k) || !m.IsObserved(b, k) {
		return math.NaN()
	}
	return SquaredW2(z.Sample(a, k), z.Sample(b, k))
}

// Estimate produces one neighborhood estimate per requested index.
//
// For a target (i, j) under ItemItem, the candidates are the other columns
// t with dists[j, t] <= eta; under UserUser, the other rows s with
// dists[i, s] <= eta. The target's own index never qualifies, not even at
// eta = +Inf. Candidates survive only where the mask observes them along
// the orthogonal axis (m[i, t], respectively m[s, j]); the survivors'
// sample vectors are averaged elementwise, NaN-aware, into the estimate,
// and their indices become the neighbor list. A target with no survivor
// yields the invalid estimate, never an error.
//
// Indices may mix rows and columns freely; each is estimated
// independently of the others.
//
// Parameters:
//   - z: measurement tensor of shape (rows, cols, samples, 1)
//   - m: observation mask of shape (rows, cols)
//   - eta: neighborhood threshold, compared non-strictly
//   - inds: the cells to estimate
//   - dists: the matrix returned by Distances under the same mode and mask
//
// Returns:
//   - one CellEstimate per requested index, in input order
func (e *Estimator) Estimate(z *tensor.Tensor, m *tensor.Mask, eta float64, inds []tensor.Index, dists *mat.Dense) []imputation.CellEstimate {
	n := z.SampleCount * z.Dims
	ests := make([]imputation.CellEstimate, len(inds))
	for x, idx := range inds {
		i, j := idx.Row, idx.Col
		axis := j
		if e.mode == imputation.UserUser {
			axis = i
		}
		drow := dists.RawRowView(axis)

		var neighbors []int
		var gathered [][]float64
		for t, d := range drow {
			if t == axis || !(d <= eta) {
				continue // self is never a neighbor; NaN fails the compare
			}
			if e.mode == imputation.ItemItem {
				if !m.IsObserved(i, t) {
					continue
				}
				gathered = append(gathered, z.Sample(i, t))
			} else {
				if !m.IsObserved(t, j) {
					continue
				}
				gathered = append(gathered, z.Sample(t, j))
			}
			neighbors = append(neighbors, t)
		}

		est := imputation.CellEstimate{Row: i, Col: j}
		if len(gathered) > 0 {
			est.Values = nanstat.ColumnMeans(gathered, n)
			est.NeighborCount = len(neighbors)
			est.Neighbors = neighbors
		}
		ests[x] = est
	}
	return ests
}

// AvgError returns the average squared 2-Wasserstein error between
// estimated and true sample vectors: per pair the NaN-aware mean of
// squared differences, then the NaN-aware mean over pairs. A sentinel
// estimate drives its pair, and with it the aggregate, to +Inf.
//
// inds is reserved for index-conditional weighting and is deliberately
// ignored; every pair currently weighs the same.
func (e *Estimator) AvgError(ests, truth [][]float64, inds []tensor.Index) float64 {
	return AvgSquaredW2(ests, truth)
}
