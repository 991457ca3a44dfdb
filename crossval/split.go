package crossval

import (
	"errors"
	"math/rand"
)

var (
	ErrInvalidFoldCount        = errors.New("crossval: fold count must be at least 2")
	ErrFoldCountExceedsSamples = errors.New("crossval: fold count exceeds sample count")
	ErrInvalidRepeats          = errors.New("crossval: repeat count must be positive")
)

// Fold is one train/test partition of the sample indices. Within a fold,
// Train and Test are disjoint and their union covers every sample exactly
// once.
type Fold struct {
	Train []int
	Test  []int
}

// Partition holds the folds of all repeats, repeat-major: folds of repeat j
// occupy Folds[j*k : (j+1)*k]. Repeats are independent partitions of the
// same samples.
type Partition struct {
	Folds   []Fold
	Samples int
	K       int
	Repeats int
}

// SplitConfig defines fold generation parameters.
type SplitConfig struct {
	// Randomize shuffles the sample order once per repeat before folds are
	// cut. Off by default, which gives reproducible strided folds.
	Randomize bool
	// Repeats re-draws the fold assignment this many times to reduce the
	// variance of the cross-validation estimate.
	Repeats int
	// Seed seeds the shuffle when Randomize is on.
	Seed int64
}

// SplitOption mutates a SplitConfig.
type SplitOption func(*SplitConfig)

// DefaultSplitConfig returns sensible defaults.
func DefaultSplitConfig() SplitConfig {
	return SplitConfig{Repeats: 1}
}

// WithRandomize enables per-repeat shuffling of the sample order.
func WithRandomize() SplitOption {
	return func(cfg *SplitConfig) {
		cfg.Randomize = true
	}
}

// WithRepeats sets how many independent fold assignments to draw.
func WithRepeats(times int) SplitOption {
	return func(cfg *SplitConfig) {
		cfg.Repeats = times
	}
}

// WithSeed seeds the randomized shuffle for reproducible partitions.
func WithSeed(seed int64) SplitOption {
	return func(cfg *SplitConfig) {
		cfg.Seed = seed
	}
}

// Split partitions samples indices into folds*repeats train/test folds.
//
// Non-randomized folds stride the index set: sample i lands in the test set
// of fold i mod folds. Randomized folds shuffle the indices once per repeat
// and cut contiguous blocks, with the remainder samples distributed one each
// to the first samples mod folds blocks.
func Split(samples, folds int, opts ...SplitOption) (*Partition, error) {
	cfg := DefaultSplitConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	switch {
	case folds < 2:
		return nil, ErrInvalidFoldCount
	case folds > samples:
		return nil, ErrFoldCountExceedsSamples
	case cfg.Repeats < 1:
		return nil, ErrInvalidRepeats
	}

	part := &Partition{
		Folds:   make([]Fold, 0, folds*cfg.Repeats),
		Samples: samples,
		K:       folds,
		Repeats: cfg.Repeats,
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Int63()
	}
	rng := rand.New(rand.NewSource(seed))
	index := make([]int, samples)
	for i := range index {
		index[i] = i
	}

	rem := samples % folds
	base := samples / folds

	for j := 0; j < cfg.Repeats; j++ {
		if cfg.Randomize {
			rng.Shuffle(len(index), func(a, b int) {
				index[a], index[b] = index[b], index[a]
			})
		}

		offset := 0
		for i := 0; i < folds; i++ {
			var test []int
			if cfg.Randomize {
				size := base
				if i < rem {
					size++
				}
				test = append([]int(nil), index[offset:offset+size]...)
				offset += size
			} else {
				for t := i; t < samples; t += folds {
					test = append(test, t)
				}
			}

			part.Folds = append(part.Folds, Fold{
				Train: complement(index, test, samples),
				Test:  test,
			})
		}
	}

	return part, nil
}

// complement returns the members of index that are not in test, preserving
// the order of index.
func complement(index, test []int, samples int) []int {
	inTest := make([]bool, samples)
	for _, t := range test {
		inTest[t] = true
	}

	train := make([]int, 0, samples-len(test))
	for _, i := range index {
		if !inTest[i] {
			train = append(train, i)
		}
	}

	return train
}
