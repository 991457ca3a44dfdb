package lasso

import (
	"errors"

	"gonum.org/v1/gonum/mat"

	"github.com/cwbudde/algo-inverse/dataset"
	"github.com/cwbudde/algo-inverse/solve/fista"
)

var (
	ErrNotFitted         = errors.New("lasso: model has not been fitted")
	ErrDimensionMismatch = errors.New("lasso: kernel and signal row counts differ")
)

// Fista fits a sparse inversion at a fixed regularization strength. Each
// call to Fit fully recomputes and replaces the stored solution.
type Fista struct {
	cfg Config

	f          *mat.Dense
	scale      float64
	diag       *fista.Result
	signalAxes []dataset.Axis
}

// NewFista returns a model with the given options applied over defaults.
func NewFista(opts ...Option) *Fista {
	return &Fista{cfg: ApplyOptions(opts...)}
}

// Lambda returns the configured regularization strength.
func (l *Fista) Lambda() float64 {
	return l.cfg.Lambda
}

// Fit solves for the coefficient distribution of s = K*f. The signal is
// normalized by its overall L2 norm before solving; the stored solution is
// scaled back to the caller's units.
func (l *Fista) Fit(K, s *mat.Dense) error {
	f, scale, diag, err := fitScaled(K, s, l.cfg.Lambda, solverOptions(l.cfg)...)
	if err != nil {
		return err
	}

	l.f, l.scale, l.diag = f, scale, diag
	l.signalAxes = nil

	return nil
}

// FitContainer fits on the container's values and remembers its axes so
// that container-valued results can be tagged.
func (l *Fista) FitContainer(K *mat.Dense, s *dataset.Container) error {
	if err := l.Fit(K, s.Values()); err != nil {
		return err
	}
	l.signalAxes = s.Axes()

	return nil
}

// Solution returns the fitted coefficient matrix (n x c) in the caller's
// units, or nil before a successful Fit.
func (l *Fista) Solution() *mat.Dense {
	return l.f
}

// SolutionContainer wraps the solution with the configured inverse axis and
// any trailing signal axis recorded by FitContainer.
func (l *Fista) SolutionContainer() (*dataset.Container, error) {
	if l.f == nil {
		return nil, ErrNotFitted
	}

	var axes []dataset.Axis
	if l.cfg.InverseAxis != nil {
		axes = append(axes, *l.cfg.InverseAxis)
	} else {
		axes = append(axes, dataset.Axis{})
	}
	if len(l.signalAxes) > 1 {
		axes = append(axes, l.signalAxes[1])
	}

	return dataset.New(l.f, axes...)
}

// Diagnostics returns the solver diagnostics of the last Fit, or nil before
// a successful Fit.
func (l *Fista) Diagnostics() *fista.Result {
	return l.diag
}

// Predict returns K*f for the fitted solution.
func (l *Fista) Predict(K *mat.Dense) (*mat.Dense, error) {
	if l.f == nil {
		return nil, ErrNotFitted
	}

	var p mat.Dense
	p.Mul(K, l.f)

	return &p, nil
}

// Residuals returns s - K*f for the fitted solution.
func (l *Fista) Residuals(K, s *mat.Dense) (*mat.Dense, error) {
	p, err := l.Predict(K)
	if err != nil {
		return nil, err
	}

	pr, pc := p.Dims()
	sr, sc := s.Dims()
	if sr != pr || sc != pc {
		return nil, ErrDimensionMismatch
	}

	var r mat.Dense
	r.Sub(s, p)

	return &r, nil
}

// ResidualsContainer returns the residuals wrapped with the signal
// container's own axes.
func (l *Fista) ResidualsContainer(K *mat.Dense, s *dataset.Container) (*dataset.Container, error) {
	r, err := l.Residuals(K, s.Values())
	if err != nil {
		return nil, err
	}

	return s.WithValues(r)
}

// fitScaled normalizes s by its L2 norm, solves, and rescales the solution.
// A zero-norm signal is passed through unscaled.
func fitScaled(K, s *mat.Dense, lambda float64, opts ...fista.Option) (*mat.Dense, float64, *fista.Result, error) {
	m, _ := K.Dims()
	sm, _ := s.Dims()
	if sm != m {
		return nil, 0, nil, ErrDimensionMismatch
	}

	scale := mat.Norm(s, 2)
	if scale == 0 {
		scale = 1
	}

	var norm mat.Dense
	norm.Scale(1/scale, s)

	res, err := fista.Solve(K, &norm, lambda, opts...)
	if err != nil {
		return nil, 0, nil, err
	}

	var f mat.Dense
	f.Scale(scale, res.F)

	return &f, scale, res, nil
}

// solverOptions translates an orchestrator config into solver options.
func solverOptions(cfg Config) []fista.Option {
	return []fista.Option{
		fista.WithMaxIterations(cfg.MaxIterations),
		fista.WithTolerance(cfg.Tolerance),
		fista.WithNonNegative(cfg.NonNegative),
	}
}
