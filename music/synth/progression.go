package synth

import "github.com/cwbudde/algo-ambient/dsp/core"

// Base chord root offsets in semitones relative to the root: a i–v–iii–vii
// style four-chord loop that stays ambient in any transposition.
var baseProgression = [4]float64{0, -5, -9, -2}

// Transposition window in semitones. The stored progression index is
// unbounded; only its pitch effect is clamped.
const (
	progressionSemitoneStep = 2.0
	maxTranspositionShift   = 6.0
)

// ChordProgressionVariant returns the four chord root offsets, in
// semitones, for a progression index. The index shifts the base table
// by clamp(2*index, −6, +6) semitones, so indexes past ±3 are silent
// no-ops on pitch.
func ChordProgressionVariant(index int) [4]float64 {
	shift := core.Clamp(float64(index)*progressionSemitoneStep,
		-maxTranspositionShift, maxTranspositionShift)

	var out [4]float64
	for i, base := range baseProgression {
		out[i] = base + shift
	}
	return out
}

// chordRootHz returns the root frequency of the chord active at the
// given 4-beat segment for a progression index.
func chordRootHz(rootHz float64, index, segment int) float64 {
	offsets := ChordProgressionVariant(index)
	if segment < 0 {
		segment = 0
	}
	return rootHz * core.SemitonesToRatio(offsets[segment%len(offsets)])
}
