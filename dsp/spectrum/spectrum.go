// Package spectrum provides the frequency-domain helpers used by the
// procedural music synthesizer and its tests: magnitude spectra,
// dominant-peak detection, and brick-wall band-limiting of noise.
package spectrum

import (
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-ambient/dsp/window"
)

// Magnitude returns |X[k]| for each complex spectrum bin.
// SIMD-optimized implementations are used when available.
func Magnitude(in []complex128) []float64 {
	if len(in) == 0 {
		return nil
	}

	n := len(in)
	scratch := make([]float64, 2*n)
	re, im := scratch[:n], scratch[n:]
	for i, c := range in {
		re[i] = real(c)
		im[i] = imag(c)
	}

	out := make([]float64, n)
	vecmath.Magnitude(out, re, im)
	return out
}

// AnalyzeSignal applies a Hann window to signal, performs an FFT of the
// given size (next power of two of the signal length when fftSize <= 0),
// and returns the magnitudes of the non-redundant bins (fftSize/2 + 1).
func AnalyzeSignal(signal []float64, fftSize int) ([]float64, error) {
	if len(signal) == 0 {
		return nil, fmt.Errorf("spectrum: empty signal")
	}
	if fftSize <= 0 {
		fftSize = nextPowerOf2(len(signal))
	}
	if fftSize&(fftSize-1) != 0 {
		return nil, fmt.Errorf("spectrum: fft size must be a power of two: %d", fftSize)
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("spectrum: failed to create FFT plan: %w", err)
	}

	n := len(signal)
	if n > fftSize {
		n = fftSize
	}
	coeffs := window.Hann(n)
	padded := make([]complex128, fftSize)
	for i := 0; i < n; i++ {
		padded[i] = complex(signal[i]*coeffs[i], 0)
	}

	freq := make([]complex128, fftSize)
	if err := plan.Forward(freq, padded); err != nil {
		return nil, fmt.Errorf("spectrum: forward FFT failed: %w", err)
	}

	return Magnitude(freq[:fftSize/2+1]), nil
}

// DominantFrequency returns the frequency of the strongest bin of the
// signal's magnitude spectrum, excluding DC.
func DominantFrequency(signal []float64, sampleRate float64, fftSize int) (float64, error) {
	if sampleRate <= 0 {
		return 0, fmt.Errorf("spectrum: sample rate must be > 0: %f", sampleRate)
	}

	mags, err := AnalyzeSignal(signal, fftSize)
	if err != nil {
		return 0, err
	}
	if fftSize <= 0 {
		fftSize = (len(mags) - 1) * 2
	}

	peakBin := 1
	for i := 2; i < len(mags); i++ {
		if mags[i] > mags[peakBin] {
			peakBin = i
		}
	}
	return float64(peakBin) * sampleRate / float64(fftSize), nil
}

// BandLimit returns a copy of signal with all energy outside
// [lowHz, highHz] removed by zeroing FFT bins. The output has the same
// length as the input.
func BandLimit(signal []float64, sampleRate, lowHz, highHz float64) ([]float64, error) {
	if len(signal) == 0 {
		return nil, fmt.Errorf("spectrum: empty signal")
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("spectrum: sample rate must be > 0: %f", sampleRate)
	}
	if lowHz > highHz {
		lowHz, highHz = highHz, lowHz
	}

	fftSize := nextPowerOf2(len(signal))
	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("spectrum: failed to create FFT plan: %w", err)
	}

	padded := make([]complex128, fftSize)
	for i, v := range signal {
		padded[i] = complex(v, 0)
	}

	freq := make([]complex128, fftSize)
	if err := plan.Forward(freq, padded); err != nil {
		return nil, fmt.Errorf("spectrum: forward FFT failed: %w", err)
	}

	binHz := sampleRate / float64(fftSize)
	for k := 0; k <= fftSize/2; k++ {
		f := float64(k) * binHz
		if f >= lowHz && f <= highHz {
			continue
		}
		freq[k] = 0
		if k > 0 && k < fftSize/2 {
			freq[fftSize-k] = 0
		}
	}

	if err := plan.Inverse(padded, freq); err != nil {
		return nil, fmt.Errorf("spectrum: inverse FFT failed: %w", err)
	}

	out := make([]float64, len(signal))
	for i := range out {
		out[i] = real(padded[i])
	}
	return out, nil
}

func nextPowerOf2(n int) int {
	size := 1
	for size < n {
		size <<= 1
	}
	return size
}
