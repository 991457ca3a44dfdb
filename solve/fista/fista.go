package fista

import (
	"errors"
	"math"
	"time"

	"github.com/cwbudde/algo-vecmath"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

var (
	ErrDimensionMismatch    = errors.New("fista: kernel and signal row counts differ")
	ErrDegenerateKernel     = errors.New("fista: kernel Lipschitz constant is zero")
	ErrNegativeLambda       = errors.New("fista: regularization strength must be non-negative")
	ErrInvalidMaxIterations = errors.New("fista: iteration cap must be positive")
	ErrInvalidTolerance     = errors.New("fista: tolerance must be positive")
)

// Result holds the solution and per-run diagnostics.
type Result struct {
	// F is the recovered coefficient matrix, n x c.
	F *mat.Dense
	// Objective is the accepted objective value after each iteration.
	Objective []float64
	// Iterations is the number of iterations performed.
	Iterations int
	// Converged reports whether an accepted iteration improved the
	// objective by less than the tolerance before the iteration cap.
	Converged bool
	// Elapsed is the wall time of the solve.
	Elapsed time.Duration
}

// Lipschitz returns the gradient Lipschitz constant of the least-squares
// term, the squared largest singular value of K.
func Lipschitz(K *mat.Dense) (float64, error) {
	var svd mat.SVD
	if !svd.Factorize(K, mat.SVDNone) {
		return 0, ErrDegenerateKernel
	}

	sigma := svd.Values(nil)[0]
	l := sigma * sigma
	if l == 0 || math.IsNaN(l) || math.IsInf(l, 0) {
		return 0, ErrDegenerateKernel
	}

	return l, nil
}

// Solve minimizes 0.5*||K*f - s||^2 + lambda*||f||_1, optionally subject to
// f >= 0, using monotone accelerated proximal gradient descent. All columns
// of s are solved jointly. The solver is deterministic and does not mutate
// its inputs.
func Solve(K, s *mat.Dense, lambda float64, opts ...Option) (*Result, error) {
	cfg := ApplyOptions(opts...)

	switch {
	case lambda < 0:
		return nil, ErrNegativeLambda
	case cfg.MaxIterations <= 0:
		return nil, ErrInvalidMaxIterations
	case cfg.Tolerance <= 0:
		return nil, ErrInvalidTolerance
	}

	m, n := K.Dims()
	sm, c := s.Dims()
	if sm != m {
		return nil, ErrDimensionMismatch
	}

	start := time.Now()

	l := cfg.Lipschitz
	if l == 0 {
		var err error
		if l, err = Lipschitz(K); err != nil {
			return nil, err
		}
	}
	if l <= 0 || math.IsNaN(l) || math.IsInf(l, 0) {
		return nil, ErrDegenerateKernel
	}

	step := 1 / l
	threshold := lambda * step

	var (
		x     = mat.NewDense(n, c, nil) // accepted iterate
		xPrev = mat.NewDense(n, c, nil)
		y     = mat.NewDense(n, c, nil) // extrapolated point
		z     = mat.NewDense(n, c, nil) // proximal candidate
		g     = mat.NewDense(n, c, nil) // gradient workspace
		r     = mat.NewDense(m, c, nil) // residual workspace
	)

	xd := x.RawMatrix().Data
	xpd := xPrev.RawMatrix().Data
	yd := y.RawMatrix().Data
	zd := z.RawMatrix().Data
	gd := g.RawMatrix().Data

	objX := objective(K, s, x, lambda, r)
	history := make([]float64, 0, cfg.MaxIterations)
	tk := 1.0
	converged := false
	iterations := 0

	for k := 0; k < cfg.MaxIterations; k++ {
		iterations = k + 1

		// Gradient of the smooth term at the extrapolated point.
		r.Mul(K, y)
		r.Sub(r, s)
		g.Mul(K.T(), r)

		// Proximal candidate z = prox(y - step*g).
		vecmath.ScaleBlock(zd, gd, -step)
		vecmath.AddBlockInPlace(zd, yd)
		shrink(zd, threshold, cfg.NonNegative)

		objZ := objective(K, s, z, lambda, r)

		// Monotone acceptance: keep the previous iterate when the
		// candidate does not improve the objective.
		accepted := objZ <= objX
		copy(xpd, xd)
		objNew := objX
		if accepted {
			copy(xd, zd)
			objNew = objZ
		}

		tNext := 0.5 * (1 + math.Sqrt(1+4*tk*tk))
		a := tk / tNext
		b := (tk - 1) / tNext
		for i := range yd {
			yd[i] = xd[i] + a*(zd[i]-xd[i]) + b*(xd[i]-xpd[i])
		}
		tk = tNext

		history = append(history, objNew)

		// A rejected candidate leaves the accepted objective unchanged,
		// which must not count as convergence: the momentum sequence is
		// still moving. Only an accepted improvement below the tolerance
		// stops the iteration.
		if accepted && relChange(objX, objNew) <= cfg.Tolerance {
			objX = objNew
			converged = true
			break
		}
		objX = objNew
	}

	return &Result{
		F:          x,
		Objective:  history,
		Iterations: iterations,
		Converged:  converged,
		Elapsed:    time.Since(start),
	}, nil
}

// objective evaluates 0.5*||K*f - s||^2 + lambda*||f||_1 using r as an
// m x c workspace.
func objective(K, s, f *mat.Dense, lambda float64, r *mat.Dense) float64 {
	r.Mul(K, f)
	r.Sub(r, s)

	nrm := mat.Norm(r, 2)
	obj := 0.5 * nrm * nrm
	if lambda > 0 {
		obj += lambda * floats.Norm(f.RawMatrix().Data, 1)
	}

	return obj
}

// shrink applies the proximal operator of lambda*||.||_1 in place:
// soft-thresholding, with the negative branch clipped to the zero floor
// under the non-negativity constraint.
func shrink(f []float64, threshold float64, nonNegative bool) {
	if nonNegative {
		for i, v := range f {
			if v > threshold {
				f[i] = v - threshold
			} else {
				f[i] = 0
			}
		}
		return
	}

	for i, v := range f {
		switch {
		case v > threshold:
			f[i] = v - threshold
		case v < -threshold:
			f[i] = v + threshold
		default:
			f[i] = 0
		}
	}
}

// relChange returns the change between consecutive objective values
// relative to their magnitude.
func relChange(prev, cur float64) float64 {
	diff := math.Abs(prev - cur)
	scale := math.Max(math.Abs(prev), math.Abs(cur))
	if scale == 0 {
		return 0
	}

	return diff / scale
}
