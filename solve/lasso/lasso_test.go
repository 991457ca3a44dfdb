package lasso

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/cwbudde/algo-inverse/dataset"
)

func identityKernel() *mat.Dense {
	return mat.NewDense(4, 3, []float64{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
		0, 0, 0,
	})
}

func spikeSignal() *mat.Dense {
	return mat.NewDense(4, 1, []float64{1, 0, 0, 0})
}

func TestFistaFitPredictResiduals(t *testing.T) {
	K := identityKernel()
	s := spikeSignal()

	model := NewFista(WithLambda(0))
	if err := model.Fit(K, s); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f := model.Solution()
	want := []float64{1, 0, 0}
	for i, w := range want {
		if math.Abs(f.At(i, 0)-w) > 1e-9 {
			t.Fatalf("f[%d] mismatch: got %v want %v", i, f.At(i, 0), w)
		}
	}

	pred, err := model.Predict(K)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var direct mat.Dense
	direct.Mul(K, f)
	if !mat.EqualApprox(pred, &direct, 1e-14) {
		t.Fatalf("predict does not reproduce K*f")
	}

	res, err := model.Residuals(K, s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 4; i++ {
		if math.Abs(res.At(i, 0)) > 1e-9 {
			t.Fatalf("residual[%d] mismatch: got %v want ~0", i, res.At(i, 0))
		}
	}
}

func TestFistaResidualsAreDeterministic(t *testing.T) {
	K := identityKernel()
	s := spikeSignal()

	model := NewFista(WithLambda(1e-3))
	if err := model.Fit(K, s); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	first, err := model.Residuals(K, s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := model.Residuals(K, s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !mat.Equal(first, second) {
		t.Fatalf("repeated residuals differ bit-for-bit")
	}
}

func TestFistaFullShrinkage(t *testing.T) {
	model := NewFista(WithLambda(10))
	if err := model.Fit(identityKernel(), spikeSignal()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f := model.Solution()
	for i := 0; i < 3; i++ {
		if f.At(i, 0) != 0 {
			t.Fatalf("f[%d] mismatch: got %v want exactly 0", i, f.At(i, 0))
		}
	}
}

func TestFistaSolutionScalesWithSignal(t *testing.T) {
	K := identityKernel()
	s := spikeSignal()

	scaled := mat.NewDense(4, 1, nil)
	scaled.Scale(10, s)

	base := NewFista(WithLambda(1e-3))
	if err := base.Fit(K, s); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	big := NewFista(WithLambda(1e-3))
	if err := big.Fit(K, scaled); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := 0; i < 3; i++ {
		want := 10 * base.Solution().At(i, 0)
		if math.Abs(big.Solution().At(i, 0)-want) > 1e-9 {
			t.Fatalf("f[%d] mismatch: got %v want %v", i, big.Solution().At(i, 0), want)
		}
	}
}

func TestFistaRefitReplacesSolution(t *testing.T) {
	K := identityKernel()

	model := NewFista(WithLambda(0))
	if err := model.Fit(K, spikeSignal()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	first := model.Solution()

	other := mat.NewDense(4, 1, []float64{0, 2, 0, 0})
	if err := model.Fit(K, other); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if model.Solution() == first {
		t.Fatalf("refit did not replace the stored solution")
	}
	if math.Abs(model.Solution().At(1, 0)-2) > 1e-9 {
		t.Fatalf("refit solution mismatch: got %v want 2", model.Solution().At(1, 0))
	}
}

func TestFistaNotFitted(t *testing.T) {
	model := NewFista()

	if _, err := model.Predict(identityKernel()); !errors.Is(err, ErrNotFitted) {
		t.Fatalf("predict error mismatch: got %v want %v", err, ErrNotFitted)
	}
	if _, err := model.Residuals(identityKernel(), spikeSignal()); !errors.Is(err, ErrNotFitted) {
		t.Fatalf("residuals error mismatch: got %v want %v", err, ErrNotFitted)
	}
	if _, err := model.SolutionContainer(); !errors.Is(err, ErrNotFitted) {
		t.Fatalf("solution container error mismatch: got %v want %v", err, ErrNotFitted)
	}
	if model.Solution() != nil {
		t.Fatalf("expected nil solution before fit")
	}
}

func TestFistaDimensionMismatch(t *testing.T) {
	model := NewFista()
	short := mat.NewDense(3, 1, []float64{1, 0, 0})

	if err := model.Fit(identityKernel(), short); !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("fit error mismatch: got %v want %v", err, ErrDimensionMismatch)
	}
}

func TestFistaContainerRoundTrip(t *testing.T) {
	K := identityKernel()

	signal, err := dataset.New(spikeSignal(),
		dataset.Axis{Label: "time", Unit: "s", Coords: []float64{0, 1, 2, 3}},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	model := NewFista(
		WithLambda(0),
		WithInverseAxis(dataset.Axis{Label: "T2", Unit: "s", Coords: []float64{0.1, 0.2, 0.3}}),
	)
	if err := model.FitContainer(K, signal); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sol, err := model.SolutionContainer()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := sol.Axes()[0].Label; got != "T2" {
		t.Fatalf("inverse axis label mismatch: got %q want %q", got, "T2")
	}

	res, err := model.ResidualsContainer(K, signal)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := res.Axes()[0].Label; got != "time" {
		t.Fatalf("residual axis label mismatch: got %q want %q", got, "time")
	}
}
