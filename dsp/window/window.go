// Package window provides the analysis windows used by the spectrum
// helpers.
package window

import "math"

// Hann returns symmetric Hann coefficients of length n.
func Hann(n int) []float64 {
	out := make([]float64, n)
	if n == 1 {
		out[0] = 1
		return out
	}
	for i := range out {
		out[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(n-1))
	}
	return out
}

// Apply multiplies signal by the window coefficients in place. Lengths
// beyond the shorter slice are left untouched.
func Apply(signal, coeffs []float64) {
	n := min(len(signal), len(coeffs))
	for i := 0; i < n; i++ {
		signal[i] *= coeffs[i]
	}
}
