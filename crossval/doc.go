// Package crossval selects the regularization strength of a sparse
// inversion by k-fold cross-validation.
//
// Split partitions the sample indices into k (optionally repeated and
// randomized) train/test folds. Validate then fits the FISTA solver for
// every (lambda, fold) pair on a worker pool, scores each fit on the
// held-out rows, and aggregates a mean-squared prediction error per lambda.
// The lambda with the minimum aggregated error is selected.
//
// Selection is the hard minimum of the error surface. A one-standard-error
// rule is a common, more conservative alternative; callers preferring it can
// apply their own rule to the returned surface, which always carries exactly
// one error value per candidate lambda.
//
// # Usage
//
//	part, err := crossval.Split(m, 10, crossval.WithRepeats(2))
//	...
//	res, err := crossval.Validate(K, s, lambdas, part,
//	    crossval.WithWorkers(4),
//	    crossval.WithSigma(noiseStd),
//	)
//	best := res.BestLambda
package crossval
