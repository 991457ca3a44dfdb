package lasso

import (
	"gonum.org/v1/gonum/mat"

	"github.com/cwbudde/algo-inverse/crossval"
	"github.com/cwbudde/algo-inverse/dataset"
	"github.com/cwbudde/algo-inverse/solve/fista"
)

// FistaCV selects the regularization strength by k-fold cross-validation
// over a candidate grid and refits on the full data at the selected value.
type FistaCV struct {
	cfg CVConfig

	opt   *Fista
	curve *crossval.Result
}

// NewFistaCV returns a model with the given options applied over defaults.
func NewFistaCV(opts ...CVOption) *FistaCV {
	return &FistaCV{cfg: ApplyCVOptions(opts...)}
}

// Fit runs the cross-validation scan and refits at the selected strength.
// Each call fully recomputes and replaces the stored solution and error
// surface.
func (cv *FistaCV) Fit(K, s *mat.Dense) error {
	m, _ := K.Dims()
	sm, _ := s.Dims()
	if sm != m {
		return ErrDimensionMismatch
	}

	// The driver sees the normalized signal, so the noise floor must be
	// expressed in the same units.
	scale := mat.Norm(s, 2)
	if scale == 0 {
		scale = 1
	}

	var norm mat.Dense
	norm.Scale(1/scale, s)

	splitOpts := []crossval.SplitOption{crossval.WithRepeats(cv.cfg.Repeats)}
	if cv.cfg.Randomize {
		splitOpts = append(splitOpts, crossval.WithRandomize())
	}
	if cv.cfg.Seed != 0 {
		splitOpts = append(splitOpts, crossval.WithSeed(cv.cfg.Seed))
	}

	part, err := crossval.Split(m, cv.cfg.Folds, splitOpts...)
	if err != nil {
		return err
	}

	solver := fista.Config{
		MaxIterations: cv.cfg.Solver.MaxIterations,
		Tolerance:     cv.cfg.Solver.Tolerance,
		NonNegative:   cv.cfg.Solver.NonNegative,
	}

	curve, err := crossval.Validate(K, &norm, cv.cfg.Lambdas, part,
		crossval.WithSolverConfig(solver),
		crossval.WithSigma(cv.cfg.Sigma/scale),
		crossval.WithWorkers(cv.cfg.Workers),
	)
	if err != nil {
		return err
	}

	// Refit on the complete, unsplit data at the selected strength.
	refit := cv.cfg.Solver
	refit.Lambda = curve.BestLambda

	opt := &Fista{cfg: refit}
	if err := opt.Fit(K, s); err != nil {
		return err
	}

	cv.opt, cv.curve = opt, curve

	return nil
}

// FitContainer fits on the container's values and remembers its axes for
// container-valued results.
func (cv *FistaCV) FitContainer(K *mat.Dense, s *dataset.Container) error {
	if err := cv.Fit(K, s.Values()); err != nil {
		return err
	}
	cv.opt.signalAxes = s.Axes()

	return nil
}

// Lambda returns the selected regularization strength, or zero before a
// successful Fit.
func (cv *FistaCV) Lambda() float64 {
	if cv.opt == nil {
		return 0
	}

	return cv.opt.Lambda()
}

// Curve returns the cross-validation error surface, one entry per candidate,
// in normalized-signal units. Nil before a successful Fit.
func (cv *FistaCV) Curve() *crossval.Result {
	return cv.curve
}

// Solution returns the refit coefficient matrix in the caller's units, or
// nil before a successful Fit.
func (cv *FistaCV) Solution() *mat.Dense {
	if cv.opt == nil {
		return nil
	}

	return cv.opt.Solution()
}

// SolutionContainer wraps the solution with axis metadata; see
// Fista.SolutionContainer.
func (cv *FistaCV) SolutionContainer() (*dataset.Container, error) {
	if cv.opt == nil {
		return nil, ErrNotFitted
	}

	return cv.opt.SolutionContainer()
}

// Diagnostics returns the refit solver diagnostics, or nil before a
// successful Fit.
func (cv *FistaCV) Diagnostics() *fista.Result {
	if cv.opt == nil {
		return nil
	}

	return cv.opt.Diagnostics()
}

// Predict returns K*f for the refit solution.
func (cv *FistaCV) Predict(K *mat.Dense) (*mat.Dense, error) {
	if cv.opt == nil {
		return nil, ErrNotFitted
	}

	return cv.opt.Predict(K)
}

// Residuals returns s - K*f for the refit solution.
func (cv *FistaCV) Residuals(K, s *mat.Dense) (*mat.Dense, error) {
	if cv.opt == nil {
		return nil, ErrNotFitted
	}

	return cv.opt.Residuals(K, s)
}

// ResidualsContainer returns residuals wrapped with the signal container's
// axes.
func (cv *FistaCV) ResidualsContainer(K *mat.Dense, s *dataset.Container) (*dataset.Container, error) {
	if cv.opt == nil {
		return nil, ErrNotFitted
	}

	return cv.opt.ResidualsContainer(K, s)
}
