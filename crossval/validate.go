package crossval

import (
	"errors"
	"math"
	"sync"

	"gonum.org/v1/gonum/mat"

	"github.com/cwbudde/algo-inverse/solve/fista"
)

var (
	ErrEmptyGrid         = errors.New("crossval: lambda grid is empty")
	ErrDimensionMismatch = errors.New("crossval: kernel, signal and partition sample counts differ")
)

// Config defines cross-validation driver parameters.
type Config struct {
	// Solver configures the per-fold FISTA fits. The Lipschitz field is
	// ignored; the driver computes one constant from the full kernel and
	// shares it across all fits.
	Solver fista.Config
	// Sigma is the known noise standard deviation. Its square is
	// subtracted from the aggregated error to correct for the expected
	// noise floor.
	Sigma float64
	// Workers sizes the pool executing (lambda, fold) tasks.
	Workers int
}

// Option mutates a Config.
type Option func(*Config)

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	solver := fista.DefaultConfig()
	solver.MaxIterations = 10000

	return Config{
		Solver:  solver,
		Workers: 1,
	}
}

// WithSolverConfig sets the solver parameters used for every fold fit.
func WithSolverConfig(solver fista.Config) Option {
	return func(cfg *Config) {
		cfg.Solver = solver
	}
}

// WithSigma sets the known noise standard deviation.
func WithSigma(sigma float64) Option {
	return func(cfg *Config) {
		cfg.Sigma = sigma
	}
}

// WithWorkers sets the worker pool size.
func WithWorkers(workers int) Option {
	return func(cfg *Config) {
		if workers > 0 {
			cfg.Workers = workers
		}
	}
}

// Result is the cross-validation error surface and the selected candidate.
type Result struct {
	// Lambdas is the candidate grid, in input order.
	Lambdas []float64
	// Errors holds one aggregated prediction error per candidate.
	Errors []float64
	// Best indexes the candidate with the minimum aggregated error. This
	// is a hard-minimum selection; see the package documentation.
	Best int
	// BestLambda is Lambdas[Best].
	BestLambda float64
}

// Validate fits the solver for every (lambda, fold) pair of the grid and
// partition, scores each fit on its held-out rows, and aggregates a mean
// squared prediction error per lambda. Tasks run on a pool of Workers
// goroutines; each task reads only shared immutable inputs and writes its
// own result cell.
func Validate(K, s *mat.Dense, lambdas []float64, part *Partition, opts ...Option) (*Result, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if len(lambdas) == 0 {
		return nil, ErrEmptyGrid
	}
	for _, l := range lambdas {
		if l < 0 {
			return nil, fista.ErrNegativeLambda
		}
	}

	m, _ := K.Dims()
	sm, c := s.Dims()
	if sm != m || part == nil || part.Samples != m {
		return nil, ErrDimensionMismatch
	}

	lip, err := fista.Lipschitz(K)
	if err != nil {
		return nil, err
	}

	// Row gathers are done once per fold, not once per task.
	type foldSet struct {
		trainK, trainS *mat.Dense
		testK, testS   *mat.Dense
	}

	sets := make([]foldSet, len(part.Folds))
	testValues := 0
	for i, fold := range part.Folds {
		sets[i] = foldSet{
			trainK: rowSubset(K, fold.Train),
			trainS: rowSubset(s, fold.Train),
			testK:  rowSubset(K, fold.Test),
			testS:  rowSubset(s, fold.Test),
		}
		testValues += len(fold.Test) * c
	}

	solverOpts := []fista.Option{
		fista.WithMaxIterations(cfg.Solver.MaxIterations),
		fista.WithTolerance(cfg.Solver.Tolerance),
		fista.WithNonNegative(cfg.Solver.NonNegative),
		fista.WithLipschitz(lip),
	}

	nf := len(part.Folds)
	tasks := len(lambdas) * nf
	sqErr := make([]float64, tasks)
	taskErr := make([]error, tasks)

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				li, fi := idx/nf, idx%nf
				set := sets[fi]

				res, err := fista.Solve(set.trainK, set.trainS, lambdas[li], solverOpts...)
				if err != nil {
					taskErr[idx] = err
					continue
				}

				var pred mat.Dense
				pred.Mul(set.testK, res.F)
				pred.Sub(&pred, set.testS)

				nrm := mat.Norm(&pred, 2)
				sqErr[idx] = nrm * nrm
			}
		}()
	}

	for idx := 0; idx < tasks; idx++ {
		jobs <- idx
	}
	close(jobs)
	wg.Wait()

	for _, err := range taskErr {
		if err != nil {
			return nil, err
		}
	}

	// Reduce to one error per lambda, correct for the noise floor, select
	// the hard minimum.
	result := &Result{
		Lambdas: append([]float64(nil), lambdas...),
		Errors:  make([]float64, len(lambdas)),
	}

	for li := range lambdas {
		var sum float64
		for fi := 0; fi < nf; fi++ {
			sum += sqErr[li*nf+fi]
		}
		mse := sum / float64(testValues)
		result.Errors[li] = math.Abs(mse - cfg.Sigma*cfg.Sigma)
	}

	result.Best = 0
	for li, e := range result.Errors {
		if e < result.Errors[result.Best] {
			result.Best = li
		}
	}
	result.BestLambda = result.Lambdas[result.Best]

	return result, nil
}

// rowSubset gathers the given rows of src into a new dense matrix.
func rowSubset(src *mat.Dense, rows []int) *mat.Dense {
	_, c := src.Dims()
	dst := mat.NewDense(len(rows), c, nil)
	for i, r := range rows {
		dst.SetRow(i, src.RawRowView(r))
	}

	return dst
}
