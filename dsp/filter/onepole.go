// Package filter provides small time-domain IIR sections used by the
// procedural music synthesizer.
package filter

import (
	"math"

	"github.com/cwbudde/algo-ambient/dsp/core"
)

const minCutoffHz = 1.0

// OnePole is a first-order IIR section in low-pass or high-pass form.
// The zero value is not usable; construct with NewLowPass or NewHighPass.
type OnePole struct {
	highpass bool
	coeff    float64
	state    float64
}

// NewLowPass returns a one-pole low-pass section.
// The cutoff is clamped to [1 Hz, 0.49 * sampleRate].
func NewLowPass(sampleRate, cutoffHz float64) *OnePole {
	return &OnePole{coeff: poleCoeff(sampleRate, cutoffHz)}
}

// NewHighPass returns a one-pole high-pass section, implemented as the
// input minus its low-passed copy.
func NewHighPass(sampleRate, cutoffHz float64) *OnePole {
	return &OnePole{highpass: true, coeff: poleCoeff(sampleRate, cutoffHz)}
}

func poleCoeff(sampleRate, cutoffHz float64) float64 {
	if sampleRate <= 0 {
		sampleRate = 44100
	}
	cutoffHz = core.Clamp(cutoffHz, minCutoffHz, sampleRate*0.49)
	return 1 - math.Exp(-2*math.Pi*cutoffHz/sampleRate)
}

// ProcessSample filters a single sample.
func (f *OnePole) ProcessSample(x float64) float64 {
	f.state += f.coeff * (x - f.state)
	if f.highpass {
		return x - f.state
	}
	return f.state
}

// ProcessBlock filters buf in place.
func (f *OnePole) ProcessBlock(buf []float64) {
	for i, x := range buf {
		buf[i] = f.ProcessSample(x)
	}
}

// Reset clears the filter state.
func (f *OnePole) Reset() {
	f.state = 0
}
