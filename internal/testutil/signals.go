package testutil

import (
	"math"
	"math/rand"
)

// Sine generates a unit-amplitude sine wave at freqHz.
func Sine(freqHz, sampleRate float64, n int) []float64 {
	out := make([]float64, n)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = math.Sin(step * float64(i))
	}
	return out
}

// Noise generates seeded white noise in [-1, 1] for reproducible tests.
func Noise(seed int64, n int) []float64 {
	out := make([]float64, n)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = rng.Float64()*2 - 1
	}
	return out
}

// RMS returns the root-mean-square level of buf, 0 for an empty buffer.
func RMS(buf []float64) float64 {
	if len(buf) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range buf {
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(buf)))
}
