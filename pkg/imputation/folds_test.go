package imputation

import (
	"reflect"
	"testing"

	"golang.org/x/exp/rand"

	"wassnn/pkg/tensor"
)

// foldCellCounts tallies how often each cell appears across the folds
func foldCellCounts(folds []fold) map[tensor.Index]int {
	counts := make(map[tensor.Index]int)
	for _, f := range folds {
		for _, idx := range f.inds {
			counts[idx]++
		}
	}
	return counts
}

// TestBuildFoldsPartition verifies that k-fold splitting covers every
// observed cell exactly once with balanced fold sizes
func TestBuildFoldsPartition(t *testing.T) {
	m := tensor.NewMask(4, 4)
	m.Fill(tensor.Observed)
	rng := rand.New(rand.NewSource(3))

	folds := buildFolds(m, 5, rng)
	if len(folds) != 5 {
		t.Fatalf("Expected 5 folds, got %d", len(folds))
	}

	// 16 cells over 5 folds: sizes 4, 3, 3, 3, 3 in some order.
	total := 0
	for fi, f := range folds {
		if len(f.inds) < 3 || len(f.inds) > 4 {
			t.Errorf("Fold %d has %d cells, expected 3 or 4", fi, len(f.inds))
		}
		total += len(f.inds)
	}
	if total != 16 {
		t.Errorf("Expected 16 cells across folds, got %d", total)
	}

	for idx, count := range foldCellCounts(folds) {
		if count != 1 {
			t.Errorf("Cell (%d, %d) appears %d times, expected once", idx.Row, idx.Col, count)
		}
	}
}

// TestBuildFoldsLeaveOneOut verifies that a zero fold count puts each
// observed cell in its own fold
func TestBuildFoldsLeaveOneOut(t *testing.T) {
	m := tensor.NewMask(3, 3)
	m.Set(0, 0, tensor.Observed)
	m.Set(0, 2, tensor.Observed)
	m.Set(1, 1, tensor.Observed)
	m.Set(2, 0, tensor.Observed)
	m.Set(2, 2, tensor.Observed)
	rng := rand.New(rand.NewSource(1))

	folds := buildFolds(m, 0, rng)
	if len(folds) != 5 {
		t.Fatalf("Expected 5 folds, got %d", len(folds))
	}
	for fi, f := range folds {
		if len(f.inds) != 1 {
			t.Errorf("Fold %d has %d cells, expected exactly 1", fi, len(f.inds))
		}
	}
	for idx, count := range foldCellCounts(folds) {
		if count != 1 || !m.IsObserved(idx.Row, idx.Col) {
			t.Errorf("Unexpected fold cell (%d, %d) with count %d", idx.Row, idx.Col, count)
		}
	}
}

// TestBuildFoldsExcessFoldCount verifies that asking for more folds than
// cells degrades to leave-one-out
func TestBuildFoldsExcessFoldCount(t *testing.T) {
	m := tensor.NewMask(2, 2)
	m.Fill(tensor.Observed)
	rng := rand.New(rand.NewSource(1))

	folds := buildFolds(m, 100, rng)
	if len(folds) != 4 {
		t.Errorf("Expected 4 leave-one-out folds, got %d", len(folds))
	}
}

// TestBuildFoldsSkipsUnobserved verifies that unobserved and withheld
// cells never enter a fold
func TestBuildFoldsSkipsUnobserved(t *testing.T) {
	m := tensor.NewMask(2, 3)
	m.Fill(tensor.Observed)
	m.Set(0, 1, tensor.Unobserved)
	m.Set(1, 2, tensor.Withheld)
	rng := rand.New(rand.NewSource(1))

	folds := buildFolds(m, 2, rng)
	counts := foldCellCounts(folds)
	if len(counts) != 4 {
		t.Fatalf("Expected 4 distinct cells across folds, got %d", len(counts))
	}
	for idx := range counts {
		if !m.IsObserved(idx.Row, idx.Col) {
			t.Errorf("Non-observed cell (%d, %d) entered a fold", idx.Row, idx.Col)
		}
	}
}

// TestBuildFoldsOrdered verifies that each fold lists its cells in
// row-major order
func TestBuildFoldsOrdered(t *testing.T) {
	m := tensor.NewMask(5, 5)
	m.Fill(tensor.Observed)
	rng := rand.New(rand.NewSource(11))

	for fi, f := range buildFolds(m, 4, rng) {
		for x := 1; x < len(f.inds); x++ {
			prev, cur := f.inds[x-1], f.inds[x]
			if cur.Row < prev.Row || (cur.Row == prev.Row && cur.Col <= prev.Col) {
				t.Errorf("Fold %d is not in row-major order at position %d", fi, x)
			}
		}
	}
}

// TestBuildFoldsReproducible verifies that the same seed reproduces the
// same split
func TestBuildFoldsReproducible(t *testing.T) {
	m := tensor.NewMask(6, 6)
	m.Fill(tensor.Observed)

	split := func(seed uint64) []fold {
		return buildFolds(m, 3, rand.New(rand.NewSource(seed)))
	}

	if !reflect.DeepEqual(split(21), split(21)) {
		t.Error("Expected identical folds for identical seeds")
	}
}

// TestBuildFoldsEmptyMask verifies that a mask with nothing observed
// yields no folds
func TestBuildFoldsEmptyMask(t *testing.T) {
	m := tensor.NewMask(3, 3)
	rng := rand.New(rand.NewSource(1))

	if folds := buildFolds(m, 4, rng); folds != nil {
		t.Errorf("Expected nil folds for an empty mask, got %d", len(folds))
	}
}
