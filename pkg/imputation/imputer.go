package imputation

import (
	"fmt"
	"math"
	"runtime"
	"sync"
	"time"

	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"wassnn/internal/nanstat"
	"wassnn/pkg/search"
	"wassnn/pkg/tensor"
)

// Params configures an Imputer. Strategy is required; every other field
// has a usable zero value.
type Params struct {
	// Strategy supplies the distance metric and neighborhood estimator
	Strategy Strategy

	// Space is the eta search domain; nil selects uniform [0, 1]
	Space search.Space

	// Optimizer drives the eta search; nil selects random search
	Optimizer search.Optimizer

	// MaxEvals is the number of candidate thresholds to score; 0 selects 20
	MaxEvals int

	// EtaAxis selects the axis for axis-wise threshold searches. The
	// block-style cross-validation this imputer performs selects a single
	// global threshold and does not consult it; the field is accepted for
	// interface parity and must still be 0 or 1.
	EtaAxis int

	// Folds is the number of cross-validation folds; 0 selects leave-one-out
	Folds int

	// Seed seeds the random source; 0 uses the current time, which is not
	// reproducible
	Seed int64

	// Workers caps the goroutines evaluating folds in parallel; 0 uses
	// runtime.NumCPU()
	Workers int

	// Progress, when set, receives coarse progress updates during Fit
	Progress ProgressFunc
}

// Imputer owns cross-validation and threshold selection around a Strategy.
// All configuration is immutable after New; the imputer keeps no state
// across calls, so a single instance may be used from multiple goroutines.
type Imputer struct {
	strategy  Strategy
	space     search.Space
	optimizer search.Optimizer
	maxEvals  int
	etaAxis   int
	folds     int
	seed      int64
	workers   int
	progress  ProgressFunc
}

// New creates an imputer from params, applying defaults for unset fields
func New(params *Params) *Imputer {
	imp := &Imputer{}
	if params == nil {
		params = &Params{}
	}

	imp.strategy = params.Strategy
	imp.space = params.Space
	if imp.space == nil {
		imp.space = search.NewUniform(0, 1)
	}
	imp.optimizer = params.Optimizer
	if imp.optimizer == nil {
		imp.optimizer = search.Random{}
	}
	imp.maxEvals = params.MaxEvals
	if imp.maxEvals <= 0 {
		imp.maxEvals = 20
	}
	imp.etaAxis = params.EtaAxis
	imp.folds = params.Folds
	imp.seed = params.Seed
	imp.workers = params.Workers
	if imp.workers <= 0 {
		imp.workers = runtime.NumCPU()
	}
	imp.progress = params.Progress
	return imp
}

// Candidate is one scored threshold from the search
type Candidate struct {
	// Eta is the candidate neighborhood threshold
	Eta float64

	// Score is its cross-validation score (lower is better)
	Score float64
}

// FitResult summarizes a completed threshold search
type FitResult struct {
	// BestEta is the selected neighborhood threshold
	BestEta float64

	// BestScore is the cross-validation score of BestEta
	BestScore float64

	// Evaluations lists every candidate scored, in evaluation order
	Evaluations []Candidate

	// FoldScores holds the per-fold scores at BestEta. A fold containing
	// a cell with an empty neighborhood scores +Inf; a fold where every
	// comparison dropped out is NaN.
	FoldScores []float64

	// ScoreMean and ScoreStdDev summarize the finite fold scores at
	// BestEta; both are NaN when no finite fold score exists
	ScoreMean   float64
	ScoreStdDev float64

	// Folds is the number of cross-validation folds used
	Folds int

	// Elapsed is the wall-clock duration of the fit
	Elapsed time.Duration
}

// foldWork is the per-fold state reused across every candidate threshold:
// the mask with the fold's cells withheld, and the distance matrix under
// that mask. The matrix does not depend on eta, so it is computed once.
type foldWork struct {
	mask  *tensor.Mask
	dists *mat.Dense
}

// Fit selects the neighborhood threshold by cross-validation: it withholds
// each fold's cells, estimates them from the remaining data at each
// candidate eta proposed by the optimizer, and keeps the eta with the
// lowest average error across folds.
//
// Parameters:
//   - z: measurement tensor of shape (rows, cols, samples, 1)
//   - m: observation mask; only Observed cells participate
//
// Returns:
//   - the search summary, or an error when the inputs fail validation
func (imp *Imputer) Fit(z *tensor.Tensor, m *tensor.Mask) (*FitResult, error) {
	if err := imp.validate(z, m); err != nil {
		return nil, err
	}
	start := time.Now()

	seed := imp.seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(uint64(seed)))

	folds := buildFolds(m, imp.folds, rng)

	// Withhold each fold's cells and precompute its distance matrix.
	imp.reportProgress("cross-validation setup", 0)
	work := make([]foldWork, len(folds))
	imp.runParallel(len(folds), func(fi int) {
		work[fi] = imp.prepareFold(z, m, folds[fi])
	})
	imp.reportProgress("cross-validation setup", 1)

	var evals []Candidate
	objective := func(eta float64) float64 {
		score := nanstat.Mean(imp.foldScores(z, folds, work, eta))
		evals = append(evals, Candidate{Eta: eta, Score: score})
		imp.reportProgress("eta search", float64(len(evals))/float64(imp.maxEvals))
		return score
	}
	bestEta, bestScore := imp.optimizer.Minimize(objective, imp.space, imp.maxEvals, rng)

	foldScores := imp.foldScores(z, folds, work, bestEta)
	finite := make([]float64, 0, len(foldScores))
	for _, s := range foldScores {
		if !math.IsNaN(s) && !math.IsInf(s, 0) {
			finite = append(finite, s)
		}
	}
	scoreMean, scoreStdDev := math.NaN(), math.NaN()
	if len(finite) > 0 {
		scoreMean = stat.Mean(finite, nil)
		scoreStdDev = stat.StdDev(finite, nil)
	}

	return &FitResult{
		BestEta:     bestEta,
		BestScore:   bestScore,
		Evaluations: evals,
		FoldScores:  foldScores,
		ScoreMean:   scoreMean,
		ScoreStdDev: scoreStdDev,
		Folds:       len(folds),
		Elapsed:     time.Since(start),
	}, nil
}

// Impute estimates every cell not observed under m at threshold eta.
// Estimates come back in row-major cell order; cells without a qualifying
// neighbor come back invalid (see CellEstimate.Valid).
func (imp *Imputer) Impute(z *tensor.Tensor, m *tensor.Mask, eta float64) ([]CellEstimate, error) {
	if err := imp.validate(z, m); err != nil {
		return nil, err
	}
	dists := imp.strategy.Distances(z, m)
	return imp.strategy.Estimate(z, m, eta, m.UnobservedIndices(), dists), nil
}

// Complete returns a copy of z with every non-observed cell replaced by
// its estimate at threshold eta. Observed cells keep their samples; cells
// without a qualifying neighbor are filled with the negative-infinity
// sentinel vector.
func (imp *Imputer) Complete(z *tensor.Tensor, m *tensor.Mask, eta float64) (*tensor.Tensor, error) {
	ests, err := imp.Impute(z, m, eta)
	if err != nil {
		return nil, err
	}
	out := z.Clone()
	n := z.SampleCount * z.Dims
	for _, est := range ests {
		out.SetSample(est.Row, est.Col, est.ValuesOrSentinel(n))
	}
	return out, nil
}

// validate fails fast on inputs the strategy assumes are well-formed.
// Shape checking lives here at the framework boundary; the strategy never
// re-validates.
func (imp *Imputer) validate(z *tensor.Tensor, m *tensor.Mask) error {
	if imp.strategy == nil {
		return ErrNoStrategy
	}
	if z.Dims != 1 {
		return fmt.Errorf("%w: got %d", ErrMeasurementDim, z.Dims)
	}
	if m.Rows != z.Rows || m.Cols != z.Cols {
		return fmt.Errorf("%w: tensor is %dx%d, mask is %dx%d",
			ErrShapeMismatch, z.Rows, z.Cols, m.Rows, m.Cols)
	}
	if m.CountObserved() == 0 {
		return ErrNoObserved
	}
	if imp.etaAxis != 0 && imp.etaAxis != 1 {
		return fmt.Errorf("imputation: eta axis must be 0 or 1, got %d", imp.etaAxis)
	}
	return nil
}

// prepareFold withholds the fold's cells from a copy of the mask and
// computes the distance matrix under that masked view
func (imp *Imputer) prepareFold(z *tensor.Tensor, m *tensor.Mask, f fold) foldWork {
	withheld := m.Clone()
	for _, idx := range f.inds {
		withheld.Set(idx.Row, idx.Col, tensor.Withheld)
	}
	return foldWork{mask: withheld, dists: imp.strategy.Distances(z, withheld)}
}

// foldScores scores one candidate threshold on every fold in parallel
func (imp *Imputer) foldScores(z *tensor.Tensor, folds []fold, work []foldWork, eta float64) []float64 {
	scores := make([]float64, len(folds))
	imp.runParallel(len(folds), func(fi int) {
		scores[fi] = imp.scoreFold(z, folds[fi], work[fi], eta)
	})
	return scores
}

// scoreFold estimates the fold's withheld cells at eta and scores them
// against the raw tensor. The sentinel conversion happens here, at the
// boundary between tagged estimates and numeric error aggregation.
func (imp *Imputer) scoreFold(z *tensor.Tensor, f fold, w foldWork, eta float64) float64 {
	ests := imp.strategy.Estimate(z, w.mask, eta, f.inds, w.dists)
	n := z.SampleCount * z.Dims
	estVals := make([][]float64, len(ests))
	truth := make([][]float64, len(f.inds))
	for i := range ests {
		estVals[i] = ests[i].ValuesOrSentinel(n)
		truth[i] = z.Sample(f.inds[i].Row, f.inds[i].Col)
	}
	return imp.strategy.AvgError(estVals, truth, f.inds)
}

// runParallel invokes fn(i) for every i in [0, n) across the worker pool
func (imp *Imputer) runParallel(n int, fn func(int)) {
	workers := imp.workers
	if workers > n {
		workers = n
	}
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				fn(i)
			}
		}()
	}
	for i := 0; i < n; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
}

// reportProgress forwards a progress update to the callback, if any
func (imp *Imputer) reportProgress(stage string, progress float64) {
	if imp.progress != nil {
		imp.progress(stage, progress)
	}
}
