package fista

// Config defines solver parameters.
type Config struct {
	// MaxIterations caps the number of proximal-gradient iterations.
	MaxIterations int
	// Tolerance is the relative objective change below which the solver
	// reports convergence.
	Tolerance float64
	// NonNegative constrains the solution to f >= 0.
	NonNegative bool
	// Lipschitz, when positive, is a precomputed gradient Lipschitz
	// constant (the squared largest singular value of the kernel). Zero
	// means compute it from the kernel.
	Lipschitz float64
}

// Option mutates a Config.
type Option func(*Config)

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		MaxIterations: 1000,
		Tolerance:     1e-5,
		NonNegative:   true,
	}
}

// WithMaxIterations sets the iteration cap.
func WithMaxIterations(n int) Option {
	return func(cfg *Config) {
		cfg.MaxIterations = n
	}
}

// WithTolerance sets the convergence tolerance.
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

// WithLipschitz supplies a precomputed Lipschitz constant, skipping the
// per-call SVD.
func WithLipschitz(l float64) Option {
	return func(cfg *Config) {
		if l > 0 {
			cfg.Lipschitz = l
		}
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
