package imputation

import "errors"

// Sentinel errors returned by the framework's boundary validation. The
// core strategy itself never signals errors; everything it cannot compute
// is encoded as a NaN or sentinel value, so shape and configuration
// problems are caught here, before any estimation starts.
var (
	// ErrNoStrategy reports an imputer constructed without a strategy
	ErrNoStrategy = errors.New("imputation: no strategy configured")

	// ErrMeasurementDim reports a tensor whose per-draw dimension is not 1
	ErrMeasurementDim = errors.New("imputation: measurement dimension must be 1")

	// ErrShapeMismatch reports a mask whose shape differs from the tensor's
	ErrShapeMismatch = errors.New("imputation: mask shape does not match tensor")

	// ErrNoObserved reports a mask without a single observed cell
	ErrNoObserved = errors.New("imputation: mask contains no observed cells")

	// ErrUnknownMode reports an unrecognized neighbor mode code
	ErrUnknownMode = errors.New("imputation: unknown neighbor mode")
)
