package synth

import (
	"github.com/cwbudde/algo-ambient/dsp/core"
	"github.com/cwbudde/algo-ambient/dsp/filter"
)

// Arpeggio voicing: eighth-note steps cycling root→fifth→octave→fifth
// one octave above the pad, high-passed so the line sits above the
// bass/pad spectrum.
const (
	arpCutoffHz = 500.0
	arpAttack   = 0.003
	arpDetune   = 1.003
)

var arpCycle = [4]float64{0, fifthSemitones, 12, fifthSemitones}

// generateArp steps through the chord table on eighth notes. Tier 1 adds
// a detuned double voice, tier 2 an upper-octave echo on every fourth step.
func generateArp(p Params) []float64 {
	sr := p.SampleRate
	total := int(p.Duration * sr)
	if total < 1 {
		total = 1
	}
	mix := make([]float64, total)

	beat := p.beatSeconds()
	stepSamples := int(beat / 2 * sr)
	if stepSamples < 1 {
		stepSamples = 1
	}
	steps := (total + stepSamples - 1) / stepSamples
	stepDur := beat / 2
	decayRate := 8 / stepDur

	for s := 0; s < steps; s++ {
		chordRoot := chordRootHz(p.RootHz, p.Progression, s/8) * 2
		freq := chordRoot * core.SemitonesToRatio(arpCycle[s%4])
		start := s * stepSamples

		addTone(mix, sr, freq, 1.0, arpAttack, decayRate, start, stepSamples)
		if p.Tier >= 1 {
			addTone(mix, sr, freq*arpDetune, 0.5, arpAttack, decayRate, start, stepSamples)
		}
		if p.Tier >= 2 && s%4 == 0 {
			addTone(mix, sr, freq*2, 0.4, arpAttack, decayRate, start, stepSamples)
		}
	}

	hp := filter.NewHighPass(sr, arpCutoffHz)
	hp.ProcessBlock(mix)
	return mix
}
