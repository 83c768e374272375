package imputation

import (
	"sort"

	"golang.org/x/exp/rand"

	"wassnn/pkg/tensor"
)

// fold is one cross-validation fold: a group of observed cells that are
// withheld together. Withholding scattered cells, rather than whole rows
// or columns, keeps every unit connected to the distance matrix, so its
// remaining cells can still vouch for it as a neighbor.
type fold struct {
	// inds are the withheld cells, in row-major order
	inds []tensor.Index
}

// buildFolds partitions the observed cells of m into k folds. k == 0, or
// k at or above the observed-cell count, selects leave-one-out (one cell
// per fold). Cells are shuffled with rng before the round-robin split, so
// a fixed seed reproduces the same folds.
func buildFolds(m *tensor.Mask, k int, rng *rand.Rand) []fold {
	cells := m.ObservedIndices()
	if len(cells) == 0 {
		return nil
	}
	if k <= 0 || k >= len(cells) {
		k = len(cells) // leave-one-out
	}

	folds := make([]fold, k)
	for pos, ci := range rng.Perm(len(cells)) {
		f := &folds[pos%k]
		f.inds = append(f.inds, cells[ci])
	}
	for fi := range folds {
		inds := folds[fi].inds
		sort.Slice(inds, func(a, b int) bool {
			if inds[a].Row != inds[b].Row {
				return inds[a].Row < inds[b].Row
			}
			return inds[a].Col < inds[b].Col
		})
	}
	return folds
}
