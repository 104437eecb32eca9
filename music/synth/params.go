package synth

import (
	"fmt"

	"github.com/cwbudde/algo-ambient/dsp/core"
)

// LayerType identifies one of the generated instrument layers.
type LayerType int

const (
	LayerPad LayerType = iota
	LayerBass
	LayerDrums
	LayerArp
	LayerStingerRise
	LayerStingerHit
	LayerFill
)

// String returns the stable tag used in cache keys.
func (l LayerType) String() string {
	switch l {
	case LayerPad:
		return "pad"
	case LayerBass:
		return "bass"
	case LayerDrums:
		return "drums"
	case LayerArp:
		return "arp"
	case LayerStingerRise:
		return "rise"
	case LayerStingerHit:
		return "hit"
	case LayerFill:
		return "fill"
	default:
		return "unknown"
	}
}

// Looping reports whether buffers of this layer are meant to loop.
func (l LayerType) Looping() bool {
	switch l {
	case LayerPad, LayerBass, LayerDrums, LayerArp:
		return true
	default:
		return false
	}
}

// Clamp bounds for generation parameters. Out-of-range inputs are
// clamped rather than rejected: generation is best-effort and total.
const (
	minTempoBPM = 20.0
	maxTempoBPM = 300.0
	minDuration = 0.25
	minRootHz   = 20.0
	maxRootHz   = 2000.0
	minTier     = 0
	maxTier     = 2

	defaultTempoBPM   = 90.0
	defaultRootHz     = 110.0
	defaultSampleRate = 44100.0
)

// Per-layer seed offsets keep the noise of different layers of the same
// seed from correlating.
var layerSeedOffset = map[LayerType]int64{
	LayerPad:         0,
	LayerBass:        101,
	LayerDrums:       211,
	LayerArp:         307,
	LayerStingerRise: 401,
	LayerStingerHit:  409,
	LayerFill:        419,
}

// Params fully determines one generated buffer. Identical Params yield
// bit-identical output.
type Params struct {
	Layer LayerType

	// Seed drives all randomized content, offset per layer.
	Seed int64

	// TempoBPM is the musical tempo; zero or negative values fall back
	// to the default and out-of-range values are clamped.
	TempoBPM float64

	// Duration is the buffer length in seconds, clamped to a safe minimum.
	Duration float64

	// SampleRate in Hz; zero or negative selects the default rate.
	SampleRate float64

	// Progression transposes the chord table; its pitch effect is
	// clamped to ±6 semitones while the stored value is unbounded.
	Progression int

	// Tier is the complexity (bass/drums) or richness (pad/arp) level, 0–2.
	Tier int

	// RootHz is the untransposed root frequency of the progression.
	RootHz float64
}

// normalized returns a copy with the documented clamp policy applied.
func (p Params) normalized() Params {
	if p.TempoBPM <= 0 {
		p.TempoBPM = defaultTempoBPM
	}
	p.TempoBPM = core.Clamp(p.TempoBPM, minTempoBPM, maxTempoBPM)

	if p.Duration <= 0 {
		p.Duration = minDuration
	} else if p.Duration < minDuration {
		p.Duration = minDuration
	}

	if p.SampleRate <= 0 {
		p.SampleRate = defaultSampleRate
	}

	if p.RootHz <= 0 {
		p.RootHz = defaultRootHz
	}
	p.RootHz = core.Clamp(p.RootHz, minRootHz, maxRootHz)

	p.Tier = core.ClampInt(p.Tier, minTier, maxTier)
	return p
}

// CacheKey returns the stable lookup key for these parameters after
// clamping. The layout is part of the package contract:
//
//	<layer>|s=<seed>|bpm=<tempo>|d=<duration>|p=<progression>|t=<tier>|r=<root>
//
// Example: "pad|s=12345|bpm=90|d=12.000|p=0|t=1|r=110.00".
func (p Params) CacheKey() string {
	n := p.normalized()
	return fmt.Sprintf("%s|s=%d|bpm=%g|d=%.3f|p=%d|t=%d|r=%.2f",
		n.Layer, n.Seed, n.TempoBPM, n.Duration, n.Progression, n.Tier, n.RootHz)
}

func (p Params) beatSeconds() float64 {
	return 60 / p.TempoBPM
}
