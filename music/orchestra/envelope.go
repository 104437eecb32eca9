package orchestra

import (
	"github.com/cwbudde/algo-ambient/dsp/core"
	"github.com/cwbudde/algo-ambient/music/synth"
)

// crossfade tracks the outgoing buffer of a layer while the incoming
// one ramps up. The incoming buffer already lives in the layer state;
// resolution drops the old reference.
type crossfade struct {
	oldBuf   *synth.Buffer
	oldPos   float64
	elapsed  float64
	duration float64
}

// mix returns the volume shares of the incoming and outgoing buffers
// for a full target volume of 1. The two shares always sum to 1.
func (f *crossfade) mix() (in, out float64) {
	in = core.Smoothstep(f.elapsed / f.duration)
	return in, 1 - in
}

func (f *crossfade) done() bool {
	return f.elapsed >= f.duration
}

type duckPhase int

const (
	duckIdle duckPhase = iota
	duckAttack
	duckHold
	duckRelease
)

// duckEnvelope is the attack/hold/release curve applied to pad and arp
// while an accent plays. Retriggering restarts it from the attack phase
// without stacking.
type duckEnvelope struct {
	phase   duckPhase
	elapsed float64
	shape   DuckSettings
}

func (d *duckEnvelope) trigger(shape DuckSettings) {
	d.shape = shape
	d.elapsed = 0
	if shape.AttackSeconds > 0 {
		d.phase = duckAttack
	} else {
		d.phase = duckHold
	}
}

// advance moves accumulated time through the phases, carrying overflow
// across phase boundaries so coarse ticks stay accurate.
func (d *duckEnvelope) advance(dt float64) {
	d.elapsed += dt
	for {
		switch d.phase {
		case duckAttack:
			if d.elapsed < d.shape.AttackSeconds {
				return
			}
			d.elapsed -= d.shape.AttackSeconds
			d.phase = duckHold
		case duckHold:
			if d.elapsed < d.shape.HoldSeconds {
				return
			}
			d.elapsed -= d.shape.HoldSeconds
			d.phase = duckRelease
		case duckRelease:
			if d.elapsed < d.shape.ReleaseSeconds {
				return
			}
			d.phase = duckIdle
			d.elapsed = 0
			return
		default:
			return
		}
	}
}

// level returns the current duck depth in [0,1]. Attack rises linearly,
// hold pins at 1, release eases back down with the smoothstep curve.
func (d *duckEnvelope) level() float64 {
	switch d.phase {
	case duckAttack:
		return d.elapsed / d.shape.AttackSeconds
	case duckHold:
		return 1
	case duckRelease:
		return 1 - core.Smoothstep(d.elapsed/d.shape.ReleaseSeconds)
	default:
		return 0
	}
}
