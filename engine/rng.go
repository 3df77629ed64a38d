package engine

import "math/rand"

// RNG wraps math/rand.Rand with deterministic position tracking.
// Position counts the values drawn from the underlying source, enabling
// save/restore.
type RNG struct {
	seed int64
	src  *rand.Rand
	draw *countingSource
}

// countingSource counts Int63 calls. It must not implement rand.Source64:
// without it, rand.Rand draws everything through Int63.
type countingSource struct {
	src   rand.Source
	draws int64
}

func (s *countingSource) Int63() int64 {
	s.draws++
	return s.src.Int63()
}

func (s *countingSource) Seed(seed int64) {
	s.src.Seed(seed)
	s.draws = 0
}

// NewRNG creates a new deterministic RNG from a seed.
func NewRNG(seed int64) *RNG {
	draw := &countingSource{src: rand.NewSource(seed)}
	return &RNG{
		seed: seed,
		src:  rand.New(draw),
		draw: draw,
	}
}

// Roll returns a random integer in [1, sides].
func (r *RNG) Roll(sides int) int {
	return r.src.Intn(sides) + 1
}

// Pick returns a random index in [0, n).
func (r *RNG) Pick(n int) int {
	return r.Roll(n) - 1
}

// Chance reports true with probability 1 in odds. Non-positive odds never
// succeed and do not consume a roll.
func (r *RNG) Chance(odds int) bool {
	if odds <= 0 {
		return false
	}
	return r.Roll(odds) == 1
}

// WeightedSelect returns an index chosen by weighted random selection.
// weights must be non-empty with all positive values.
func (r *RNG) WeightedSelect(weights []int) int {
	total := 0
	for _, w := range weights {
		total += w
	}
	roll := r.src.Intn(total)
	cumulative := 0
	for i, w := range weights {
		cumulative += w
		if roll < cumulative {
			return i
		}
	}
	return len(weights) - 1
}

// Seed returns the seed the RNG was created with.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Position returns the number of values drawn from the source since
// creation. A roll usually draws one value; rejection sampling may draw more.
func (r *RNG) Position() int64 {
	return r.draw.draws
}

// RestoreRNG creates an RNG and advances it to the given position.
// This reproduces the exact RNG state for save/load.
func RestoreRNG(seed int64, position int64) *RNG {
	rng := NewRNG(seed)
	for i := int64(0); i < position; i++ {
		rng.draw.Int63()
	}
	return rng
}
