package synth

import (
	"math"
	"math/rand"

	"github.com/cwbudde/algo-ambient/dsp/core"
	"github.com/cwbudde/algo-vecmath"
)

// Peak ceiling applied to every generated buffer.
const normalizeTarget = 0.9

// Trapezoidal envelope shape shared by the sustained layers: the attack
// ease covers the first 15% of a segment, the release ease the final 25%,
// and the two take the minimum.
const (
	trapezoidAttack  = 0.15
	trapezoidRelease = 0.25
)

// newLayerRNG returns the deterministic random source for a layer. The
// per-layer offset keeps different layers of the same seed decorrelated.
func newLayerRNG(p Params) *rand.Rand {
	return rand.New(rand.NewSource(p.Seed + layerSeedOffset[p.Layer]))
}

// whiteNoise fills a fresh slice with rng samples in [-1, 1].
func whiteNoise(rng *rand.Rand, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = rng.Float64()*2 - 1
	}
	return out
}

// trapezoidEnvelope evaluates the shared segment envelope at normalized
// position u in [0, 1].
func trapezoidEnvelope(u float64) float64 {
	attack := core.Smoothstep(u / trapezoidAttack)
	release := core.Smoothstep((1 - u) / trapezoidRelease)
	return math.Min(attack, release)
}

// softSaturate applies tanh waveshaping normalized so that a full-scale
// input still peaks near full scale.
func softSaturate(x, drive float64) float64 {
	if drive <= 0 {
		return x
	}
	return math.Tanh(x*drive) / math.Tanh(drive)
}

// addTone mixes a decaying sine note into mix starting at startSample.
// attack is the smoothstep onset time and decayRate the exponential
// falloff, both in seconds.
func addTone(mix []float64, sampleRate, freqHz, amp, attack, decayRate float64, startSample, durSamples int) {
	if startSample >= len(mix) {
		return
	}
	end := startSample + durSamples
	if end > len(mix) {
		end = len(mix)
	}
	step := 2 * math.Pi * freqHz / sampleRate
	for i := startSample; i < end; i++ {
		t := float64(i-startSample) / sampleRate
		env := core.Smoothstep(t/math.Max(attack, 1e-4)) * math.Exp(-t*decayRate)
		mix[i] += amp * env * math.Sin(step*float64(i-startSample))
	}
}

// addTemplate mixes a pre-rendered one-shot into mix at startSample.
func addTemplate(mix, template []float64, startSample int, amp float64) {
	for i, v := range template {
		idx := startSample + i
		if idx < 0 {
			continue
		}
		if idx >= len(mix) {
			break
		}
		mix[idx] += v * amp
	}
}

// applySegmentEnvelope multiplies seg by the trapezoidal envelope.
func applySegmentEnvelope(seg []float64) {
	n := len(seg)
	if n == 0 {
		return
	}
	env := make([]float64, n)
	for i := range env {
		env[i] = trapezoidEnvelope(float64(i) / float64(n))
	}
	vecmath.MulBlockInPlace(seg, env)
}

// normalizeMix scales mix so its peak sits at the target ceiling and
// converts it to a shareable Buffer. A silent mix stays silent.
func normalizeMix(mix []float64, sampleRate float64) *Buffer {
	maxAbs := 0.0
	for _, v := range mix {
		av := math.Abs(v)
		if av > maxAbs {
			maxAbs = av
		}
	}
	if maxAbs > 0 {
		vecmath.ScaleBlock(mix, mix, normalizeTarget/maxAbs)
	}
	return newBuffer(mix, sampleRate)
}
