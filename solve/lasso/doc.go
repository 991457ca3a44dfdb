// Package lasso fits sparse, optionally non-negative linear inversions
// s = K*f and exposes predict/residual operations on the result.
//
// Fista fits at a fixed regularization strength; FistaCV selects the
// strength from a candidate grid by k-fold cross-validation and refits on
// the full data. Both normalize the signal by its overall L2 norm before
// solving and scale the solution back, so Predict and Residuals operate in
// the caller's original units.
//
// # Usage
//
//	model := lasso.NewFista(lasso.WithLambda(1e-3))
//	if err := model.Fit(K, s); err != nil {
//	    ...
//	}
//	res, _ := model.Residuals(K, s)
//
// Cross-validated:
//
//	model := lasso.NewFistaCV(
//	    lasso.WithFolds(10),
//	    lasso.WithRepeats(2),
//	    lasso.WithWorkers(4),
//	)
//	if err := model.Fit(K, s); err != nil {
//	    ...
//	}
//	best := model.Lambda()
//	curve := model.Curve()
package lasso
