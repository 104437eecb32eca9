package synth

import (
	"github.com/cwbudde/algo-ambient/dsp/core"
	"github.com/cwbudde/algo-ambient/dsp/filter"
)

// Bass voicing constants. The layer plays one octave below the chord
// root and is darkened by a one-pole low-pass plus tanh saturation.
const (
	bassCutoffHz   = 220.0
	bassSatDrive   = 1.6
	bassAttack     = 0.008
	fifthSemitones = 7.0
)

// generateBass renders one note per beat. Tier 0 alternates root and
// fifth pulses, tier 1 adds an off-beat "and" note at the half-beat,
// tier 2 adds two sixteenth-note passing tones per beat and an
// octave-jump accent on every fourth beat.
func generateBass(p Params) []float64 {
	sr := p.SampleRate
	total := int(p.Duration * sr)
	if total < 1 {
		total = 1
	}
	mix := make([]float64, total)

	beat := p.beatSeconds()
	beatSamples := int(beat * sr)
	if beatSamples < 1 {
		beatSamples = 1
	}
	beats := (total + beatSamples - 1) / beatSamples

	fifth := core.SemitonesToRatio(fifthSemitones)

	for k := 0; k < beats; k++ {
		chordRoot := chordRootHz(p.RootHz, p.Progression, k/4) / 2
		start := k * beatSamples

		freq := chordRoot
		if k%2 == 1 {
			freq = chordRoot * fifth
		}
		if p.Tier >= 2 && k%4 == 3 {
			// Octave-jump accent.
			freq = chordRoot * 2
		}
		bassNote(mix, sr, freq, 1.0, beat, start, beatSamples)

		if p.Tier >= 1 {
			// Off-beat "and" note.
			bassNote(mix, sr, chordRoot, 0.7, beat/2, start+beatSamples/2, beatSamples/2)
		}
		if p.Tier >= 2 {
			// Sixteenth-note passing tones walking toward the next beat.
			bassNote(mix, sr, chordRoot*core.SemitonesToRatio(2), 0.45, beat/4,
				start+beatSamples/4, beatSamples/4)
			bassNote(mix, sr, chordRoot*core.SemitonesToRatio(5), 0.45, beat/4,
				start+3*beatSamples/4, beatSamples/4)
		}
	}

	lp := filter.NewLowPass(sr, bassCutoffHz)
	lp.ProcessBlock(mix)
	for i, v := range mix {
		mix[i] = softSaturate(v, bassSatDrive)
	}
	return mix
}

func bassNote(mix []float64, sr, freq, amp, noteDur float64, start, durSamples int) {
	decayRate := 4 / noteDur
	addTone(mix, sr, freq, amp, bassAttack, decayRate, start, durSamples)
	// Thin second harmonic for definition above the low-pass.
	addTone(mix, sr, freq*2, amp*0.3, bassAttack, decayRate, start, durSamples)
}
