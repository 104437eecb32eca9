package synth

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-ambient/dsp/spectrum"
)

// Small render settings keep the tests fast.
func testParams(layer LayerType) Params {
	return Params{
		Layer:      layer,
		Seed:       12345,
		TempoBPM:   120,
		Duration:   2.0,
		SampleRate: 8000,
		RootHz:     110,
	}
}

func TestGenerateDeterministic(t *testing.T) {
	layers := []LayerType{
		LayerPad, LayerBass, LayerDrums, LayerArp,
		LayerStingerRise, LayerStingerHit, LayerFill,
	}
	for _, layer := range layers {
		t.Run(layer.String(), func(t *testing.T) {
			p := testParams(layer)
			a := Generate(p)
			b := Generate(p)
			if a.Len() != b.Len() {
				t.Fatalf("lengths differ: %d vs %d", a.Len(), b.Len())
			}
			as, bs := a.Samples(), b.Samples()
			for i := range as {
				if as[i] != bs[i] {
					t.Fatalf("samples differ at %d: %v vs %v", i, as[i], bs[i])
				}
			}
		})
	}
}

func TestGenerateSeedsDiffer(t *testing.T) {
	p := testParams(LayerDrums)
	a := Generate(p)
	p.Seed = 54321
	b := Generate(p)

	same := true
	for i := range a.Samples() {
		if a.Samples()[i] != b.Samples()[i] {
			same = false
			break
		}
	}
	if same {
		t.Fatal("different seeds should produce different drums")
	}
}

func TestChordProgressionVariantClamp(t *testing.T) {
	tests := []struct {
		index     int
		wantShift float64
	}{
		{0, 0},
		{1, 2},
		{-2, -4},
		{3, 6},
		{5, 6},   // 10 semitones clamps to 6
		{-9, -6}, // -18 semitones clamps to -6
	}
	for _, tt := range tests {
		got := ChordProgressionVariant(tt.index)
		for i, base := range baseProgression {
			want := base + tt.wantShift
			if got[i] != want {
				t.Fatalf("index %d offset %d = %v, want %v", tt.index, i, got[i], want)
			}
		}
	}
}

func TestClampPolicy(t *testing.T) {
	p := Params{
		Layer:      LayerPad,
		Seed:       1,
		TempoBPM:   0,    // falls back to default
		Duration:   -5,   // clamps to minimum
		SampleRate: 8000,
		Tier:       7, // clamps to 2
		RootHz:     -1,
	}
	buf := Generate(p)
	if buf.Len() < 1 {
		t.Fatal("clamped parameters should still produce samples")
	}
	if got := buf.Duration(); math.Abs(got-minDuration) > 0.01 {
		t.Fatalf("duration = %v, want ~%v", got, minDuration)
	}
}

func TestCacheKeyStable(t *testing.T) {
	p := Params{
		Layer:      LayerPad,
		Seed:       12345,
		TempoBPM:   90,
		Duration:   12,
		SampleRate: 44100,
		Tier:       1,
		RootHz:     110,
	}
	want := "pad|s=12345|bpm=90|d=12.000|p=0|t=1|r=110.00"
	if got := p.CacheKey(); got != want {
		t.Fatalf("CacheKey() = %q, want %q", got, want)
	}

	// Clamping happens before key construction, so equivalent requests
	// share an entry.
	a := Params{Layer: LayerBass, Tier: -3}
	b := Params{Layer: LayerBass, Tier: 0}
	if a.CacheKey() != b.CacheKey() {
		t.Fatalf("clamped keys differ: %q vs %q", a.CacheKey(), b.CacheKey())
	}
}

func TestBufferByteSize(t *testing.T) {
	buf := Generate(testParams(LayerArp))
	if got, want := buf.ByteSize(), buf.Len()*4; got != want {
		t.Fatalf("ByteSize() = %d, want %d", got, want)
	}
	if buf.SampleRate() != 8000 {
		t.Fatalf("SampleRate() = %v, want 8000", buf.SampleRate())
	}
}

func TestLooping(t *testing.T) {
	for _, l := range []LayerType{LayerPad, LayerBass, LayerDrums, LayerArp} {
		if !l.Looping() {
			t.Fatalf("%v should loop", l)
		}
	}
	for _, l := range []LayerType{LayerStingerRise, LayerStingerHit, LayerFill} {
		if l.Looping() {
			t.Fatalf("%v should not loop", l)
		}
	}
}

func TestPadDominantFrequencyFollowsProgression(t *testing.T) {
	p := testParams(LayerPad)
	buf := Generate(p)

	// Analyze the first chord segment: its root partial should dominate.
	segSamples := int(4 * p.beatSeconds() * p.SampleRate)
	sig := make([]float64, segSamples)
	for i, v := range buf.Samples()[:segSamples] {
		sig[i] = float64(v)
	}
	got, err := spectrum.DominantFrequency(sig, p.SampleRate, 16384)
	if err != nil {
		t.Fatalf("DominantFrequency() error = %v", err)
	}
	if math.Abs(got-110) > 2 {
		t.Fatalf("pad dominant frequency = %v Hz, want ~110", got)
	}
}

func TestPadTiersLayerStrictly(t *testing.T) {
	p := testParams(LayerPad).normalized()
	energies := make([]float64, 3)
	for tier := 0; tier <= 2; tier++ {
		p.Tier = tier
		mix := generatePad(p)
		for _, v := range mix {
			energies[tier] += v * v
		}
	}
	if !(energies[0] < energies[1] && energies[1] < energies[2]) {
		t.Fatalf("pad tier energies not strictly increasing: %v", energies)
	}
}

func TestDrumsTierAddsActivity(t *testing.T) {
	p := testParams(LayerDrums).normalized()
	active := make([]int, 3)
	for tier := 0; tier <= 2; tier++ {
		p.Tier = tier
		mix := generateDrums(p)
		for _, v := range mix {
			if math.Abs(v) > 1e-6 {
				active[tier]++
			}
		}
	}
	if !(active[0] <= active[1] && active[1] < active[2]) {
		t.Fatalf("drum activity not increasing with tier: %v", active)
	}
}

func TestNormalizePeak(t *testing.T) {
	buf := Generate(testParams(LayerBass))
	peak := 0.0
	for _, v := range buf.Samples() {
		av := math.Abs(float64(v))
		if av > peak {
			peak = av
		}
	}
	if math.Abs(peak-normalizeTarget) > 1e-3 {
		t.Fatalf("peak = %v, want %v", peak, normalizeTarget)
	}
}
