package synth

import (
	"math"
	"math/rand"

	"github.com/cwbudde/algo-ambient/dsp/filter"
	"github.com/cwbudde/algo-ambient/dsp/spectrum"
)

// Drum template timings in seconds.
const (
	kickDur  = 0.25
	snareDur = 0.2
	hatDur   = 0.06
)

// kickTemplate renders a sine sweep from 80 Hz down to 40 Hz with a
// decaying body and a short transient click.
func kickTemplate(sr float64) []float64 {
	n := int(kickDur * sr)
	if n < 1 {
		n = 1
	}
	out := make([]float64, n)
	phase := 0.0
	for i := range out {
		t := float64(i) / sr
		freq := 40 + 40*math.Exp(-t*18)
		phase += 2 * math.Pi * freq / sr
		body := math.Sin(phase) * math.Exp(-t*9)
		click := math.Sin(2*math.Pi*1800*t) * math.Exp(-t*150) * 0.2
		out[i] = body + click
	}
	return out
}

// snareTemplate blends a band-limited noise burst with a low tonal body,
// both under exponential decay.
func snareTemplate(sr float64, rng *rand.Rand) []float64 {
	n := int(snareDur * sr)
	if n < 1 {
		n = 1
	}
	noise, err := spectrum.BandLimit(whiteNoise(rng, n), sr, 180, 4500)
	if err != nil {
		noise = make([]float64, n)
	}
	out := make([]float64, n)
	for i := range out {
		t := float64(i) / sr
		out[i] = noise[i]*math.Exp(-t*22) + 0.3*math.Sin(2*math.Pi*190*t)*math.Exp(-t*25)
	}
	return out
}

// hatTemplate is a high-passed noise tick with a decay faster than the snare.
func hatTemplate(sr float64, rng *rand.Rand) []float64 {
	n := int(hatDur * sr)
	if n < 1 {
		n = 1
	}
	out := whiteNoise(rng, n)
	hp := filter.NewHighPass(sr, 6000)
	hp.ProcessBlock(out)
	for i := range out {
		t := float64(i) / sr
		out[i] *= math.Exp(-t * 80)
	}
	return out
}

// drumHit is one pattern event at a beat offset within a 4-beat bar.
type drumHit struct {
	beat    float64
	amp     float64
	minTier int
}

// The fixed 4-beat pattern. Tier 1 layers a ghost snare and the 16th-note
// hat offbeats on top of tier 0; tier 2 adds off-beat kicks.
var (
	kickPattern = []drumHit{
		{0, 1.0, 0}, {2, 1.0, 0},
		{1.5, 0.7, 2}, {3.5, 0.7, 2},
	}
	snarePattern = []drumHit{
		{2, 0.9, 0},
		{1.75, 0.25, 1}, // ghost hit
	}
)

// generateDrums places deterministic kick/snare/hat templates on the
// fixed pattern grid. Every 8 beats, tier 2 closes the bar with a rapid
// hat fill.
func generateDrums(p Params) []float64 {
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

	beat := p.beatSeconds()
	barSamples := int(4 * beat * sr)
	if barSamples < 1 {
		barSamples = 1
	}
	bars := (total + barSamples - 1) / barSamples
	at := func(bar int, beatOffset float64) int {
		return bar*barSamples + int(beatOffset*beat*sr)
	}

	for bar := 0; bar < bars; bar++ {
		for _, h := range kickPattern {
			if p.Tier >= h.minTier {
				addTemplate(mix, kick, at(bar, h.beat), h.amp)
			}
		}
		for _, h := range snarePattern {
			if p.Tier >= h.minTier {
				addTemplate(mix, snare, at(bar, h.beat), h.amp)
			}
		}

		// Hats: eighth notes at tier 0, plus the sixteenth offbeats at tier 1+.
		hatStep := 0.5
		if p.Tier >= 1 {
			hatStep = 0.25
		}
		for pos := 0.0; pos < 4; pos += hatStep {
			amp := 0.5
			if math.Mod(pos, 0.5) != 0 {
				amp = 0.35
			}
			addTemplate(mix, hat, at(bar, pos), amp)
		}

		// Rapid hat fill over the last beat of every second bar.
		if p.Tier >= 2 && bar%2 == 1 {
			for i := 0; i < 8; i++ {
				pos := 3.0 + float64(i)*0.125
				addTemplate(mix, hat, at(bar, pos), 0.3+0.05*float64(i))
			}
		}
	}

	return mix
}
