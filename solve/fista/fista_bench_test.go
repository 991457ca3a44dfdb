package fista

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func benchProblem(m, n int) (*mat.Dense, *mat.Dense) {
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

	s := mat.NewDense(m, 1, nil)
	for i := 0; i < m; i++ {
		s.Set(i, 0, math.Abs(math.Sin(float64(i))))
	}

	return K, s
}

func BenchmarkSolve(b *testing.B) {
	K, s := benchProblem(64, 48)
	l, err := Lipschitz(K)
	if err != nil {
		b.Fatalf("unexpected error: %v", err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Solve(K, s, 1e-3, WithLipschitz(l), WithMaxIterations(200)); err != nil {
			b.Fatalf("unexpected error: %v", err)
		}
	}
}

func BenchmarkLipschitz(b *testing.B) {
	K, _ := benchProblem(64, 48)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Lipschitz(K); err != nil {
			b.Fatalf("unexpected error: %v", err)
		}
	}
}
