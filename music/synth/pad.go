package synth

import (
	"math"

	"github.com/cwbudde/algo-ambient/dsp/core"
	"github.com/cwbudde/algo-ambient/dsp/spectrum"
	"github.com/cwbudde/algo-vecmath"
)

// padPartial is one sine component of the pad stack. Partials with a
// higher minimum tier layer strictly on top of the lower tiers, so tier 0
// output equals the full stack evaluated at tier 0.
type padPartial struct {
	semitones float64
	amp       float64
	minTier   int
}

var padPartials = []padPartial{
	{0, 1.0, 0},      // root
	{7.02, 0.55, 0},  // fifth-ish third partial, slightly sharp
	{12, 0.4, 0},     // octave
	{14, 0.25, 1},    // 9th extension
	{17, 0.18, 2},    // 11th extension
}

// Band and level of the tier-2 filtered noise "air".
const (
	padAirLowHz  = 2000.0
	padAirHighHz = 8000.0
	padAirAmp    = 0.06
)

// generatePad renders chord segments of four beats each. Every segment
// sums the tier-gated partial stack over the chord root selected by the
// progression table and is shaped by the shared trapezoidal envelope.
func generatePad(p Params) []float64 {
	sr := p.SampleRate
	total := int(p.Duration * sr)
	if total < 1 {
		total = 1
	}
	mix := make([]float64, total)

	segSamples := int(4 * p.beatSeconds() * sr)
	if segSamples < 1 {
		segSamples = 1
	}

	rng := newLayerRNG(p)
	scratch := make([]float64, segSamples)

	for seg := 0; seg*segSamples < total; seg++ {
		start := seg * segSamples
		end := start + segSamples
		if end > total {
			end = total
		}
		segMix := mix[start:end]
		n := len(segMix)

		rootHz := chordRootHz(p.RootHz, p.Progression, seg)
		for _, partial := range padPartials {
			if p.Tier < partial.minTier {
				continue
			}
			freq := rootHz * core.SemitonesToRatio(partial.semitones)
			step := 2 * math.Pi * freq / sr
			tone := scratch[:n]
			for i := range tone {
				tone[i] = partial.amp * math.Sin(step*float64(i))
			}
			vecmath.AddBlockInPlace(segMix, tone)
		}

		if p.Tier >= 2 {
			air, err := spectrum.BandLimit(whiteNoise(rng, n), sr, padAirLowHz, padAirHighHz)
			if err == nil {
				vecmath.ScaleBlock(air, air, padAirAmp)
				vecmath.AddBlockInPlace(segMix, air)
			}
		}

		applySegmentEnvelope(segMix)
	}

	return mix
}
