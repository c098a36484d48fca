package sim

import (
	"math"
	"math/rand"
)

// TimingSource turns a configured mean into an interval or duration.
// In deterministic mode it returns the mean unchanged; in stochastic mode it
// draws from an exponential distribution with that mean.
type TimingSource struct {
	rng        *rand.Rand
	stochastic bool
}

// NewTimingSource creates a TimingSource. rng may be nil when stochastic is false.
func NewTimingSource(rng *rand.Rand, stochastic bool) *TimingSource {
	return &TimingSource{rng: rng, stochastic: stochastic}
}

// Sample returns the next duration for the given mean.
func (ts *TimingSource) Sample(mean float64) float64 {
	if !ts.stochastic {
		return mean
	}
	return ExponentialSample(ts.rng, mean)
}

// ExponentialSample returns -mean*ln(u) with u uniform on (0,1).
// u = 0 is redrawn, so the result is finite and strictly positive for mean > 0.
func ExponentialSample(rng *rand.Rand, mean float64) float64 {
	u := rng.Float64()
	for u == 0 {
		u = rng.Float64()
	}
	return -mean * math.Log(u)
}
