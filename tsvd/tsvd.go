// Package tsvd reduces an inversion problem by truncated singular value
// decomposition before solving.
//
// Given a kernel K (m samples x n features) and a signal s (m x c), the
// compression keeps the top-t singular directions whose cumulative squared
// singular-value energy reaches a retention threshold and projects both
// inputs into that basis:
//
//	K' = diag(sigma_1..t) * V_t^T   (t x n)
//	s' = U_t^T * s                  (t x c)
//
// A solution of the compressed system K'f = s' has the same shape (n x c)
// as a solution of the raw system, so the downstream solvers accept either
// form interchangeably.
package tsvd

import (
	"errors"

	"gonum.org/v1/gonum/mat"
)

var (
	ErrDimensionMismatch = errors.New("tsvd: kernel and signal row counts differ")
	ErrDegenerateKernel  = errors.New("tsvd: kernel has no significant singular values")
	ErrInvalidThreshold  = errors.New("tsvd: retention threshold must be in (0, 1]")
)

// Config defines compression parameters.
type Config struct {
	// Threshold is the fraction of squared singular-value energy that the
	// retained directions must reach, in (0, 1].
	Threshold float64
}

// Option mutates a Config.
type Option func(*Config)

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{Threshold: 0.999}
}

// WithThreshold sets the retained energy fraction.
func WithThreshold(threshold float64) Option {
	return func(cfg *Config) {
		cfg.Threshold = threshold
	}
}

// Compression holds the projected problem and truncation diagnostics.
type Compression struct {
	// K is the compressed kernel, t x n.
	K *mat.Dense
	// S is the compressed signal, t x c.
	S *mat.Dense
	// TruncationIndex is t, the number of retained singular directions.
	TruncationIndex int
	// SingularValues is the full singular spectrum of the input kernel.
	SingularValues []float64
}

// Compress computes the thin SVD of K and projects K and s onto the retained
// singular directions. It fails with ErrDegenerateKernel when the kernel has
// no singular value above numerical tolerance.
func Compress(K, s *mat.Dense, opts ...Option) (*Compression, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if cfg.Threshold <= 0 || cfg.Threshold > 1 {
		return nil, ErrInvalidThreshold
	}

	m, n := K.Dims()
	sm, _ := s.Dims()
	if sm != m {
		return nil, ErrDimensionMismatch
	}

	var svd mat.SVD
	if !svd.Factorize(K, mat.SVDThin) {
		return nil, ErrDegenerateKernel
	}

	values := svd.Values(nil)
	tol := float64(max(m, n)) * values[0] * epsilon
	if values[0] <= 0 || values[0] < minSingular {
		return nil, ErrDegenerateKernel
	}

	var total float64
	for _, v := range values {
		total += v * v
	}

	// Smallest t whose cumulative energy reaches the threshold, counting
	// only values above numerical tolerance.
	t := 0
	var energy float64
	for _, v := range values {
		if v <= tol {
			break
		}
		t++
		energy += v * v
		if energy >= cfg.Threshold*total {
			break
		}
	}
	if t == 0 {
		return nil, ErrDegenerateKernel
	}

	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)

	// K' rows are sigma_i * V[:,i]^T.
	ck := mat.NewDense(t, n, nil)
	for i := 0; i < t; i++ {
		for j := 0; j < n; j++ {
			ck.Set(i, j, values[i]*v.At(j, i))
		}
	}

	// s' = U_t^T s.
	ut := u.Slice(0, m, 0, t)
	var cs mat.Dense
	cs.Mul(ut.T(), s)

	return &Compression{
		K:               ck,
		S:               &cs,
		TruncationIndex: t,
		SingularValues:  values,
	}, nil
}

const (
	epsilon     = 2.220446049250313e-16
	minSingular = 1e-300
)
