// Package fista solves L1-regularized least-squares problems with an
// accelerated proximal-gradient method.
//
// Given a kernel K (m x n), a signal s (m x c) and a regularization
// strength lambda, Solve minimizes
//
//	0.5*||K*f - s||^2 + lambda*||f||_1
//
// optionally subject to f >= 0, and returns the coefficient matrix f
// (n x c) together with per-iteration diagnostics.
//
// The step size is 1/L where L is the squared largest singular value of K.
// L is computed once per kernel via SVD; callers sweeping many lambda
// values over the same kernel should compute it once with Lipschitz and
// pass it through WithLipschitz. The iteration is the monotone FISTA
// variant: each accepted iterate is the better of the proximal candidate
// and the previous iterate, so the reported objective never increases.
//
// # Usage
//
//	res, err := fista.Solve(K, s, 1e-3,
//	    fista.WithMaxIterations(2000),
//	    fista.WithTolerance(1e-7),
//	)
//	if err != nil {
//	    // invalid input, not a failed convergence
//	}
//	f := res.F
//	if !res.Converged {
//	    // iteration cap reached; res.Objective holds the full history
//	}
//
// Reaching the iteration cap is a normal, reported outcome, not an error.
package fista
