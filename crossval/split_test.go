package crossval

import (
	"errors"
	"reflect"
	"testing"
)

// checkCoverage verifies the fold invariant: train and test are disjoint
// and together cover every sample exactly once.
func checkCoverage(t *testing.T, fold Fold, samples int) {
	t.Helper()

	seen := make([]int, samples)
	for _, i := range fold.Train {
		seen[i]++
	}
	for _, i := range fold.Test {
		seen[i]++
	}
	for i, count := range seen {
		if count != 1 {
			t.Fatalf("sample %d appears %d times in fold (train %v test %v)",
				i, count, fold.Train, fold.Test)
		}
	}
	if len(fold.Test) == 0 {
		t.Fatalf("empty test fold")
	}
}

func TestSplitCoverageExhaustive(t *testing.T) {
	for samples := 5; samples <= 40; samples++ {
		for k := 2; k <= 10 && k <= samples; k++ {
			for repeats := 1; repeats <= 3; repeats++ {
				for _, randomize := range []bool{false, true} {
					opts := []SplitOption{WithRepeats(repeats), WithSeed(42)}
					if randomize {
						opts = append(opts, WithRandomize())
					}

					part, err := Split(samples, k, opts...)
					if err != nil {
						t.Fatalf("m=%d k=%d repeats=%d randomize=%v: unexpected error: %v",
							samples, k, repeats, randomize, err)
					}

					if got := len(part.Folds); got != k*repeats {
						t.Fatalf("m=%d k=%d repeats=%d: fold count mismatch: got %d want %d",
							samples, k, repeats, got, k*repeats)
					}
					for _, fold := range part.Folds {
						checkCoverage(t, fold, samples)
					}
				}
			}
		}
	}
}

func TestSplitStridedIsDeterministic(t *testing.T) {
	part, err := Split(7, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantTest := [][]int{{0, 3, 6}, {1, 4}, {2, 5}}
	wantTrain := [][]int{{1, 2, 4, 5}, {0, 2, 3, 5, 6}, {0, 1, 3, 4, 6}}
	for i, fold := range part.Folds {
		if !reflect.DeepEqual(fold.Test, wantTest[i]) {
			t.Fatalf("fold %d test mismatch: got %v want %v", i, fold.Test, wantTest[i])
		}
		if !reflect.DeepEqual(fold.Train, wantTrain[i]) {
			t.Fatalf("fold %d train mismatch: got %v want %v", i, fold.Train, wantTrain[i])
		}
	}
}

func TestSplitRandomizedSpreadsRemainder(t *testing.T) {
	// 10 samples over 4 folds: the 2 remainder samples go one each to the
	// first 2 folds.
	part, err := Split(10, 4, WithRandomize(), WithSeed(1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantSizes := []int{3, 3, 2, 2}
	for i, fold := range part.Folds {
		if len(fold.Test) != wantSizes[i] {
			t.Fatalf("fold %d test size mismatch: got %d want %d", i, len(fold.Test), wantSizes[i])
		}
	}
}

func TestSplitSeedReproducible(t *testing.T) {
	first, err := Split(17, 5, WithRandomize(), WithRepeats(2), WithSeed(99))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := Split(17, 5, WithRandomize(), WithRepeats(2), WithSeed(99))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("same seed produced different partitions")
	}
}

func TestSplitRepeatsAreIndependent(t *testing.T) {
	part, err := Split(12, 3, WithRandomize(), WithRepeats(2), WithSeed(7))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	same := true
	for i := 0; i < 3; i++ {
		if !reflect.DeepEqual(part.Folds[i].Test, part.Folds[3+i].Test) {
			same = false
			break
		}
	}
	if same {
		t.Fatalf("second repeat reproduced the first fold assignment")
	}
}

func TestSplitInputValidation(t *testing.T) {
	cases := []struct {
		name    string
		samples int
		k       int
		opts    []SplitOption
		want    error
	}{
		{"one fold", 10, 1, nil, ErrInvalidFoldCount},
		{"folds exceed samples", 5, 6, nil, ErrFoldCountExceedsSamples},
		{"zero repeats", 10, 2, []SplitOption{WithRepeats(0)}, ErrInvalidRepeats},
	}

	for _, tc := range cases {
		if _, err := Split(tc.samples, tc.k, tc.opts...); !errors.Is(err, tc.want) {
			t.Fatalf("%s: got %v want %v", tc.name, err, tc.want)
		}
	}
}
