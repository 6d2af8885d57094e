package nn

import (
	"math/rand"
)

// NoiseFunc corrupts a training input.
//
// The corrupted sample is only fed forward; the expected output stays the
// clean target, which is what denoising autoencoders train on.
// Implementations must not modify sample.
type NoiseFunc func(sample []float64) []float64

// GaussianNoise adds N(0, stddev²) noise to every value.
func GaussianNoise(stddev float64, rng *rand.Rand) NoiseFunc {
	if rng == nil {
		rng = newRand()
	}
	return func(sample []float64) []float64 {
		out := make([]float64, len(sample))
		for i, v := range sample {
			out[i] = v + rng.NormFloat64()*stddev
		}
		return out
	}
}

// MaskingNoise zeroes every value independently with probability p.
func MaskingNoise(p float64, rng *rand.Rand) NoiseFunc {
	if rng == nil {
		rng = newRand()
	}
	return func(sample []float64) []float64 {
		out := make([]float64, len(sample))
		for i, v := range sample {
			if rng.Float64() >= p {
				out[i] = v
			}
		}
		return out
	}
}

// NoiseByName returns the noise function registered under kind.
//
// Known kinds: "gaussian" (amount is the standard deviation) and "masking"
// (amount is the drop probability).
func NoiseByName(kind string, amount float64, rng *rand.Rand) (NoiseFunc, bool) {
	switch kind {
	case "gaussian":
		return GaussianNoise(amount, rng), true
	case "masking":
		return MaskingNoise(amount, rng), true
	default:
		return nil, false
	}
}
