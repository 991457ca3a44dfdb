// Command invfit runs the sparse inversion pipeline on a synthetic
// spectroscopy-style problem and reports the result.
//
// It builds a Gaussian line-shape kernel, draws a sparse non-negative
// ground truth, synthesizes a (optionally noisy) signal, optionally
// compresses the problem by truncated SVD, and cross-validates the
// regularization strength before the final fit.
//
// Usage:
//
//	invfit [flags]
//
// Examples:
//
//	invfit
//	invfit -m 128 -n 96 -noise 0.01 -workers 4
//	invfit -compress 0.999 -folds 5 -grid 8 -lmin 1e-9 -lmax 1e-3
//	invfit -plot out -seed 7
package main

import (
	"flag"
	"fmt"
	"math"
	"math/rand"
	"os"
	"text/tabwriter"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/cwbudde/algo-inverse/solve/lasso"
	"github.com/cwbudde/algo-inverse/tsvd"
)

func main() {
	var (
		m         = flag.Int("m", 100, "sample count (kernel rows)")
		n         = flag.Int("n", 80, "feature count (kernel columns)")
		peaks     = flag.Int("peaks", 3, "non-zero coefficients in the ground truth")
		noise     = flag.Float64("noise", 0.0, "noise standard deviation added to the signal")
		folds     = flag.Int("folds", 10, "cross-validation fold count")
		repeats   = flag.Int("repeats", 2, "fold assignment repeats")
		randomize = flag.Bool("randomize", false, "shuffle samples before folding")
		grid      = flag.Int("grid", 10, "lambda grid size")
		lmin      = flag.Float64("lmin", 1e-9, "smallest lambda candidate")
		lmax      = flag.Float64("lmax", 1e-4, "largest lambda candidate")
		compress  = flag.Float64("compress", 0, "TSVD energy retention threshold, 0 disables compression")
		workers   = flag.Int("workers", 1, "cross-validation worker count")
		seed      = flag.Int64("seed", 1, "random seed for truth, noise and folds")
		plotDir   = flag.String("plot", "", "directory for CV-curve and solution plots, empty disables plotting")
	)
	flag.Parse()

	rng := rand.New(rand.NewSource(*seed))

	K := gaussianKernel(*m, *n)
	truth := sparseTruth(*n, *peaks, rng)

	s := mat.NewDense(*m, 1, nil)
	s.Mul(K, truth)
	for i := 0; i < *m; i++ {
		s.Set(i, 0, s.At(i, 0)+*noise*rng.NormFloat64())
	}

	fitK, fitS := K, s
	truncation := 0
	if *compress > 0 {
		comp, err := tsvd.Compress(K, s, tsvd.WithThreshold(*compress))
		if err != nil {
			fatal(err)
		}
		fitK, fitS = comp.K, comp.S
		truncation = comp.TruncationIndex
	}

	lambdas := make([]float64, *grid)
	floats.LogSpan(lambdas, *lmax, *lmin)

	opts := []lasso.CVOption{
		lasso.WithLambdas(lambdas),
		lasso.WithFolds(*folds),
		lasso.WithRepeats(*repeats),
		lasso.WithWorkers(*workers),
		lasso.WithSigma(*noise),
		lasso.WithSeed(*seed),
	}
	if *randomize {
		opts = append(opts, lasso.WithRandomize())
	}

	model := lasso.NewFistaCV(opts...)
	if err := model.Fit(fitK, fitS); err != nil {
		fatal(err)
	}

	f := model.Solution()
	residuals, err := model.Residuals(fitK, fitS)
	if err != nil {
		fatal(err)
	}
	diag := model.Diagnostics()

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "problem\t%d x %d, %d peaks, noise %g\n", *m, *n, *peaks, *noise)
	if truncation > 0 {
		fmt.Fprintf(tw, "compressed to\t%d x %d (t=%d)\n", truncation, *n, truncation)
	}
	fmt.Fprintf(tw, "selected lambda\t%.3e\n", model.Lambda())
	fmt.Fprintf(tw, "refit iterations\t%d (converged=%v, %s)\n",
		diag.Iterations, diag.Converged, diag.Elapsed.Round(0))
	fmt.Fprintf(tw, "solution sparsity\t%d / %d non-zero\n", nonZero(f), *n)
	fmt.Fprintf(tw, "residual norm\t%.3e\n", mat.Norm(residuals, 2))
	fmt.Fprintf(tw, "truth error\t%.3e\n", matDistance(f, truth))
	tw.Flush()

	if *plotDir != "" {
		if err := os.MkdirAll(*plotDir, 0o755); err != nil {
			fatal(err)
		}
		if err := plotCurve(*plotDir, model.Curve().Lambdas, model.Curve().Errors); err != nil {
			fatal(err)
		}
		if err := plotSolution(*plotDir, f, truth); err != nil {
			fatal(err)
		}
	}
}

// gaussianKernel fills K[i,j] with a Gaussian line shape centered at
// feature j, evaluated at sample i, both on the unit interval.
func gaussianKernel(m, n int) *mat.Dense {
	K := mat.NewDense(m, n, nil)
	width := 2.0 / float64(n)
	for i := 0; i < m; i++ {
		x := float64(i) / float64(m-1)
		for j := 0; j < n; j++ {
			c := float64(j) / float64(n-1)
			d := (x - c) / width
			K.Set(i, j, math.Exp(-0.5*d*d))
		}
	}

	return K
}

// sparseTruth places peaks random positive spikes on an otherwise zero
// coefficient vector.
func sparseTruth(n, peaks int, rng *rand.Rand) *mat.Dense {
	f := mat.NewDense(n, 1, nil)
	for p := 0; p < peaks; p++ {
		f.Set(rng.Intn(n), 0, 0.5+rng.Float64())
	}

	return f
}

func nonZero(f *mat.Dense) int {
	count := 0
	for _, v := range f.RawMatrix().Data {
		if math.Abs(v) > 1e-8 {
			count++
		}
	}

	return count
}

func matDistance(a, b *mat.Dense) float64 {
	var d mat.Dense
	d.Sub(a, b)

	return mat.Norm(&d, 2)
}

// plotToFile creates a plot with the given title and axis labels using the
// provided draw function, then saves it as a PNG under dir.
func plotToFile(dir, name, xTitle, yTitle string, draw func(*plot.Plot) error) error {
	p := plot.New()
	p.Title.Text = name
	p.X.Label.Text = xTitle
	p.Y.Label.Text = yTitle
	if err := draw(p); err != nil {
		return fmt.Errorf("could not draw plot contents: %w", err)
	}
	if err := p.Save(15*vg.Centimeter, 10*vg.Centimeter, dir+"/"+name+".png"); err != nil {
		return fmt.Errorf("could not save plot: %w", err)
	}

	return nil
}

func plotCurve(dir string, lambdas, errors []float64) error {
	return plotToFile(dir, "cv-curve", "log10(lambda)", "log10(test error)", func(p *plot.Plot) error {
		xy := make(plotter.XYs, len(lambdas))
		for i := range lambdas {
			xy[i].X = math.Log10(lambdas[i])
			xy[i].Y = math.Log10(errors[i])
		}
		line, err := plotter.NewLine(xy)
		if err != nil {
			return err
		}
		p.Add(line)

		return nil
	})
}

func plotSolution(dir string, f, truth *mat.Dense) error {
	return plotToFile(dir, "solution", "feature index", "coefficient", func(p *plot.Plot) error {
		n, _ := f.Dims()
		fit := make(plotter.XYs, n)
		want := make(plotter.XYs, n)
		for i := 0; i < n; i++ {
			fit[i] = plotter.XY{X: float64(i), Y: f.At(i, 0)}
			want[i] = plotter.XY{X: float64(i), Y: truth.At(i, 0)}
		}

		fitLine, err := plotter.NewLine(fit)
		if err != nil {
			return err
		}
		wantPts, err := plotter.NewScatter(want)
		if err != nil {
			return err
		}
		p.Add(fitLine, wantPts)
		p.Legend.Add("fit", fitLine)
		p.Legend.Add("truth", wantPts)

		return nil
	})
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "invfit:", err)
	os.Exit(1)
}
