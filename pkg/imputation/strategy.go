// Package imputation implements the nearest-neighbor imputation framework:
// it owns the cross-validation loop, the neighborhood-threshold search, and
// the public fit/impute API, delegating every metric-specific computation to
// a pluggable Strategy.
package imputation

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"wassnn/pkg/tensor"
)

// NeighborMode selects which tensor axis neighbors are drawn from
type NeighborMode int

const (
	// ItemItem finds neighbors by comparing columns ("ii")
	ItemItem NeighborMode = iota

	// UserUser finds neighbors by comparing rows ("uu")
	UserUser
)

// String returns the conventional short code for the mode
func (m NeighborMode) String() string {
	switch m {
	case ItemItem:
		return "ii"
	case UserUser:
		return "uu"
	}
	return fmt.Sprintf("NeighborMode(%d)", int(m))
}

// ParseNeighborMode converts the short codes "ii" and "uu" into a mode
func ParseNeighborMode(s string) (NeighborMode, error) {
	switch s {
	case "ii":
		return ItemItem, nil
	case "uu":
		return UserUser, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// CellEstimate holds the outcome of a neighborhood estimate for one cell.
// It is a tagged value: an empty neighborhood is represented by nil Values,
// not by a numeric sentinel. The sentinel encoding is produced only by
// ValuesOrSentinel, at the boundary to numeric error aggregation.
type CellEstimate struct {
	// Row and Col address the estimated cell
	Row, Col int

	// Values is the neighborhood-averaged sample vector, nil when no
	// neighbor qualified
	Values []float64

	// NeighborCount is the number of cells that contributed to Values
	NeighborCount int

	// Neighbors lists the contributing indices along the search axis in
	// ascending order, nil when no neighbor qualified
	Neighbors []int
}

// Valid reports whether any neighbor contributed to the estimate
func (c CellEstimate) Valid() bool {
	return c.Values != nil
}

// ValuesOrSentinel returns the estimate as a numeric vector of length n,
// substituting a fresh vector of negative infinities when the neighborhood
// was empty. Callers must check Valid before comparing the result against
// real data: the sentinel passes through squared-difference averaging as
// +Inf and will dominate any score it touches.
func (c CellEstimate) ValuesOrSentinel(n int) []float64 {
	if c.Valid() {
		return c.Values
	}
	vals := make([]float64, n)
	for i := range vals {
		vals[i] = math.Inf(-1)
	}
	return vals
}

// Strategy supplies the metric-specific pieces of nearest-neighbor
// imputation: pairwise dissimilarities, neighborhood-averaged estimates,
// and the error aggregate used to score a candidate threshold.
//
// Implementations must be pure: no call may mutate its arguments, and no
// call may depend on the order of prior calls. The framework relies on
// this to cache distance matrices and to evaluate folds concurrently.
type Strategy interface {
	// Mode reports which axis neighbors are drawn from
	Mode() NeighborMode

	// Distances returns the pairwise dissimilarity matrix for the mode:
	// shape (cols, cols) under ItemItem, (rows, rows) under UserUser,
	// symmetric, with a +Inf diagonal
	Distances(z *tensor.Tensor, m *tensor.Mask) *mat.Dense

	// Estimate returns one estimate per requested index, in order, using
	// the eta-neighborhood induced by the given distance matrix
	Estimate(z *tensor.Tensor, m *tensor.Mask, eta float64, inds []tensor.Index, dists *mat.Dense) []CellEstimate

	// AvgError scores estimated sample vectors against elementwise-matched
	// truth vectors; lower is better. The inds parameter is reserved for
	// index-conditional weighting and is currently unused.
	AvgError(ests, truth [][]float64, inds []tensor.Index) float64
}

// ProgressFunc receives coarse progress updates during fitting. The stage
// name identifies the phase; progress runs from 0 to 1 within it.
type ProgressFunc func(stage string, progress float64)
