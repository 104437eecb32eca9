package synth

import (
	"math"

	"github.com/cwbudde/algo-ambient/dsp/core"
	"github.com/cwbudde/algo-ambient/dsp/spectrum"
)

// One-shot accent layers: the "rise" and "hit" stingers and the
// percussive fill. None of them loop.

// generateStingerRise sweeps upward over two octaves with a shimmer
// partial, under a rounded attack and an exponential tail.
func generateStingerRise(p Params) []float64 {
	sr := p.SampleRate
	total := int(p.Duration * sr)
	if total < 1 {
		total = 1
	}
	out := make([]float64, total)

	startHz := p.RootHz * 2
	endHz := p.RootHz * 8
	phase := 0.0
	shimmerPhase := 0.0
	for i := range out {
		u := float64(i) / float64(total)
		freq := startHz * math.Pow(endHz/startHz, u)
		phase += 2 * math.Pi * freq / sr
		shimmerPhase += 2 * math.Pi * freq * 3.01 / sr

		env := core.Smoothstep(u/0.25) * math.Exp(-u*3)
		out[i] = env * (math.Sin(phase) + 0.25*math.Sin(shimmerPhase))
	}
	return out
}

// generateStingerHit blends a fast downward sweep with band-limited
// noise under a fast exponential decay.
func generateStingerHit(p Params) []float64 {
	sr := p.SampleRate
	total := int(p.Duration * sr)
	if total < 1 {
		total = 1
	}
	out := make([]float64, total)

	noise, err := spectrum.BandLimit(whiteNoise(newLayerRNG(p), total), sr, 150, 6000)
	if err != nil {
		noise = make([]float64, total)
	}

	startHz := p.RootHz * 6
	endHz := p.RootHz / 2
	phase := 0.0
	for i := range out {
		u := float64(i) / float64(total)
		freq := startHz * math.Pow(endHz/startHz, u)
		phase += 2 * math.Pi * freq / sr

		env := math.Exp(-u * 9)
		out[i] = env * (math.Sin(phase) + 0.6*noise[i])
	}
	return out
}

// generateFill is a quick kick pickup, a six-hit staggered snare roll,
// and sprinkled hats.
func generateFill(p Params) []float64 {
	sr := p.SampleRate
	total := int(p.Duration * sr)
	if total < 1 {
		total = 1
	}
	mix := make([]float64, total)

	rng := newLayerRNG(p)
	kick := kickTemplate(sr)
	snare := snareTemplate(sr, rng)
	hat := hatTemplate(sr, rng)

	addTemplate(mix, kick, 0, 1.0)

	// Snare roll over the first 60% of the fill, each hit quieter.
	rollSpan := int(0.6 * float64(total))
	for i := 0; i < 6; i++ {
		start := i * rollSpan / 6
		addTemplate(mix, snare, start, 0.9*math.Pow(0.82, float64(i)))
	}

	for i := 0; i < 4; i++ {
		start := int(float64(total) * (0.1 + 0.2*float64(i)))
		addTemplate(mix, hat, start, 0.3)
	}

	return mix
}
