// Package search provides the hyperparameter-search abstraction used to
// select the neighborhood threshold eta: a continuous space candidates are
// drawn from, and budgeted black-box optimizers that minimize a scoring
// objective over it.
package search

import (
	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/stat/distuv"
)

// Space describes the domain of the neighborhood threshold
type Space interface {
	// Sample draws one candidate threshold using the given source
	Sample(rng *rand.Rand) float64

	// Bounds returns the inclusive lower and upper limits of the space
	Bounds() (min, max float64)
}

// Uniform is a continuous uniform search space over [min, max]
type Uniform struct {
	min, max float64
}

var _ Space = (*Uniform)(nil)

// NewUniform returns a uniform space over [min, max]
func NewUniform(min, max float64) *Uniform {
	return &Uniform{min: min, max: max}
}

// Sample draws one threshold uniformly from the space
func (u *Uniform) Sample(rng *rand.Rand) float64 {
	dist := distuv.Uniform{Min: u.min, Max: u.max, Src: rng}
	return dist.Rand()
}

// Bounds returns the limits of the space
func (u *Uniform) Bounds() (float64, float64) {
	return u.min, u.max
}
