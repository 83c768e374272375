package wasserstein

import (
	"fmt"

	"wassnn/pkg/config"
	"wassnn/pkg/imputation"
	"wassnn/pkg/search"
)

// FromConfig assembles a ready-to-use imputer from a configuration: the
// estimator mode, search space and driver, fold count, seed, and worker
// budget all come from cfg.
func FromConfig(cfg *config.Config) (*imputation.Imputer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	mode, err := imputation.ParseNeighborMode(cfg.Estimator.NeighborMode)
	if err != nil {
		return nil, err
	}

	var optimizer search.Optimizer
	switch cfg.Search.Algorithm {
	case "grid":
		optimizer = search.Grid{}
	default:
		optimizer = search.Random{}
	}

	return imputation.New(&imputation.Params{
		Strategy:  New(mode),
		Space:     search.NewUniform(cfg.Search.EtaMin, cfg.Search.EtaMax),
		Optimizer: optimizer,
		MaxEvals:  cfg.Search.MaxEvals,
		EtaAxis:   cfg.Estimator.EtaAxis,
		Folds:     cfg.CrossValidation.Folds,
		Seed:      cfg.Search.Seed,
		Workers:   cfg.Runtime.Workers,
	}), nil
}
