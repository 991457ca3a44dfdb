package lasso_test

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/cwbudde/algo-inverse/solve/lasso"
)

func ExampleFista() {
	K := mat.NewDense(4, 3, []float64{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
		0, 0, 0,
	})
	s := mat.NewDense(4, 1, []float64{1, 0, 0, 0})

	model := lasso.NewFista(lasso.WithLambda(0))
	if err := model.Fit(K, s); err != nil {
		panic(err)
	}

	f := model.Solution()
	res, _ := model.Residuals(K, s)

	fmt.Printf("f = [%.2f %.2f %.2f]\n", f.At(0, 0), f.At(1, 0), f.At(2, 0))
	fmt.Printf("residual norm = %.2f\n", mat.Norm(res, 2))
	// Output:
	// f = [1.00 0.00 0.00]
	// residual norm = 0.00
}
