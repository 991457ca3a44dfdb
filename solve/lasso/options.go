package lasso

import (
	"gonum.org/v1/gonum/floats"

	"github.com/cwbudde/algo-inverse/dataset"
)

// Config defines single-fit parameters.
type Config struct {
	// Lambda is the L1 regularization strength.
	Lambda float64
	// MaxIterations caps the solver iterations.
	MaxIterations int
	// Tolerance is the solver convergence tolerance.
	Tolerance float64
	// NonNegative constrains the solution to f >= 0.
	NonNegative bool
	// InverseAxis, when set, tags the feature dimension of solutions
	// returned as dataset containers.
	InverseAxis *dataset.Axis
}

// Option mutates a Config.
type Option func(*Config)

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Lambda:        1e-3,
		MaxIterations: 1000,
		Tolerance:     1e-5,
		NonNegative:   true,
	}
}

// WithLambda sets the regularization strength.
func WithLambda(lambda float64) Option {
	return func(cfg *Config) {
		cfg.Lambda = lambda
	}
}

// WithMaxIterations sets the solver iteration cap.
func WithMaxIterations(n int) Option {
	return func(cfg *Config) {
		cfg.MaxIterations = n
	}
}

// WithTolerance sets the solver convergence tolerance.
func WithTolerance(tol float64) Option {
	return func(cfg *Config) {
		cfg.Tolerance = tol
	}
}

// WithNonNegative toggles the non-negativity constraint.
func WithNonNegative(nonNegative bool) Option {
	return func(cfg *Config) {
		cfg.NonNegative = nonNegative
	}
}

// WithInverseAxis sets the metadata attached to the feature dimension of
// container solutions.
func WithInverseAxis(axis dataset.Axis) Option {
	return func(cfg *Config) {
		cfg.InverseAxis = &axis
	}
}

// ApplyOptions applies zero or more options to the default config.
func ApplyOptions(opts ...Option) Config {
	cfg := DefaultConfig()

	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return cfg
}

// CVConfig defines cross-validated fit parameters.
type CVConfig struct {
	// Solver carries the per-fit parameters; its Lambda is ignored, the
	// cross-validation selects it.
	Solver Config
	// Lambdas is the candidate grid.
	Lambdas []float64
	// Folds is the fold count k.
	Folds int
	// Sigma is the known noise standard deviation of the signal, in the
	// caller's units.
	Sigma float64
	// Randomize shuffles samples before folds are cut.
	Randomize bool
	// Repeats re-draws the fold assignment to reduce estimate variance.
	Repeats int
	// Workers sizes the cross-validation worker pool.
	Workers int
	// Seed seeds the randomized shuffle.
	Seed int64
}

// CVOption mutates a CVConfig.
type CVOption func(*CVConfig)

// DefaultCVConfig returns sensible defaults.
func DefaultCVConfig() CVConfig {
	solver := DefaultConfig()
	solver.MaxIterations = 10000

	return CVConfig{
		Solver:  solver,
		Lambdas: DefaultLambdas(),
		Folds:   10,
		Repeats: 2,
		Workers: 1,
	}
}

// DefaultLambdas returns the default candidate grid: ten log-spaced values
// from 1e-4 down to 1e-9.
func DefaultLambdas() []float64 {
	grid := make([]float64, 10)
	floats.LogSpan(grid, 1e-4, 1e-9)

	return grid
}

// WithLambdas sets the candidate grid.
func WithLambdas(lambdas []float64) CVOption {
	return func(cfg *CVConfig) {
		cfg.Lambdas = append([]float64(nil), lambdas...)
	}
}

// WithFolds sets the fold count.
func WithFolds(folds int) CVOption {
	return func(cfg *CVConfig) {
		cfg.Folds = folds
	}
}

// WithSigma sets the known noise standard deviation, in the same units as
// the fitted signal. Fit normalizes the signal by its Euclidean norm before
// cross-validating, so sigma is divided by that same norm and the noise-floor
// correction |MSE - sigma^2| is applied in normalized units.
func WithSigma(sigma float64) CVOption {
	return func(cfg *CVConfig) {
		cfg.Sigma = sigma
	}
}

// WithRandomize enables shuffled fold assignment.
func WithRandomize() CVOption {
	return func(cfg *CVConfig) {
		cfg.Randomize = true
	}
}

// WithRepeats sets how many independent fold assignments to draw.
func WithRepeats(times int) CVOption {
	return func(cfg *CVConfig) {
		cfg.Repeats = times
	}
}

// WithWorkers sets the cross-validation worker pool size.
func WithWorkers(workers int) CVOption {
	return func(cfg *CVConfig) {
		cfg.Workers = workers
	}
}

// WithSeed seeds the randomized shuffle for reproducible partitions.
func WithSeed(seed int64) CVOption {
	return func(cfg *CVConfig) {
		cfg.Seed = seed
	}
}

// WithSolverOptions applies single-fit options to the embedded solver
// configuration.
func WithSolverOptions(opts ...Option) CVOption {
	return func(cfg *CVConfig) {
		for _, opt := range opts {
			if opt != nil {
				opt(&cfg.Solver)
			}
		}
	}
}

// ApplyCVOptions applies zero or more options to the default config.
func ApplyCVOptions(opts ...CVOption) CVConfig {
	cfg := DefaultCVConfig()

	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return cfg
}
