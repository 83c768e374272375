package search

import (
	"math"

	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/floats"
)

// Optimizer minimizes a scalar objective over a search space within a
// fixed evaluation budget. Objectives may return +Inf or NaN for
// candidates that cannot be scored; implementations must never select a
// NaN candidate as the winner.
type Optimizer interface {
	// Minimize evaluates at most evals candidates and returns the best
	// threshold found together with its score
	Minimize(objective func(eta float64) float64, space Space, evals int, rng *rand.Rand) (bestEta, bestScore float64)
}

// Random draws candidates independently from the space and keeps the
// best one. With a seeded source the sequence of candidates, and hence
// the result, is reproducible.
type Random struct{}

var _ Optimizer = Random{}

// Minimize samples evals candidates from the space and scores each
func (Random) Minimize(objective func(float64) float64, space Space, evals int, rng *rand.Rand) (float64, float64) {
	if evals < 1 {
		evals = 1
	}
	etas := make([]float64, evals)
	scores := make([]float64, evals)
	for i := range etas {
		etas[i] = space.Sample(rng)
		scores[i] = objective(etas[i])
	}
	return pickBest(etas, scores)
}

// Grid evaluates evals evenly spaced candidates across the space bounds,
// endpoints included. The random source is unused.
type Grid struct{}

var _ Optimizer = Grid{}

// Minimize sweeps the bounds with an even grid and scores each point
func (Grid) Minimize(objective func(float64) float64, space Space, evals int, rng *rand.Rand) (float64, float64) {
	min, max := space.Bounds()
	if evals < 2 {
		// A single-point grid degenerates to the lower bound.
		return min, objective(min)
	}
	etas := make([]float64, evals)
	floats.Span(etas, min, max)
	scores := make([]float64, evals)
	for i, eta := range etas {
		scores[i] = objective(eta)
	}
	return pickBest(etas, scores)
}

// pickBest returns the earliest candidate with the lowest score. NaN
// scores are rewritten to +Inf first so they can never win the argmin.
func pickBest(etas, scores []float64) (float64, float64) {
	for i, s := range scores {
		if math.IsNaN(s) {
			scores[i] = math.Inf(1)
		}
	}
	best := floats.MinIdx(scores)
	return etas[best], scores[best]
}
