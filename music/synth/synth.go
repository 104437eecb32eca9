// Package synth deterministically generates the PCM buffers of the
// procedural ambient music layers. Generation is a pure function of
// Params: identical parameters always yield bit-identical buffers, so
// the output can be cached by key and shared read-only.
//
// Out-of-range parameters (negative duration, zero tempo, tiers outside
// 0–2) are clamped to documented bounds rather than reported as errors;
// generation is total and best-effort.
package synth

// Generate renders the buffer described by p. It is safe to call
// concurrently: no shared mutable state exists between calls.
func Generate(p Params) *Buffer {
	n := p.normalized()

	var mix []float64
	switch n.Layer {
	case LayerPad:
		mix = generatePad(n)
	case LayerBass:
		mix = generateBass(n)
	case LayerDrums:
		mix = generateDrums(n)
	case LayerArp:
		mix = generateArp(n)
	case LayerStingerRise:
		mix = generateStingerRise(n)
	case LayerStingerHit:
		mix = generateStingerHit(n)
	case LayerFill:
		mix = generateFill(n)
	default:
		mix = make([]float64, int(n.Duration*n.SampleRate))
	}

	return normalizeMix(mix, n.SampleRate)
}
