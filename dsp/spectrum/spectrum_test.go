package spectrum

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-ambient/internal/testutil"
)

func TestDominantFrequencySine(t *testing.T) {
	const sr = 44100
	tests := []struct {
		name string
		freq float64
	}{
		{"low", 110},
		{"mid", 440},
		{"high", 3520},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sig := testutil.Sine(tt.freq, sr, 16384)
			got, err := DominantFrequency(sig, sr, 16384)
			if err != nil {
				t.Fatalf("DominantFrequency() error = %v", err)
			}
			binHz := float64(sr) / 16384
			if math.Abs(got-tt.freq) > binHz {
				t.Fatalf("peak = %v Hz, want %v ± %v", got, tt.freq, binHz)
			}
		})
	}
}

func TestAnalyzeSignalErrors(t *testing.T) {
	if _, err := AnalyzeSignal(nil, 0); err == nil {
		t.Fatal("expected error for empty signal")
	}
	if _, err := AnalyzeSignal([]float64{1, 2, 3}, 100); err == nil {
		t.Fatal("expected error for non-power-of-two size")
	}
}

func TestBandLimitRemovesOutOfBand(t *testing.T) {
	const sr = 44100
	n := 8192
	sig := make([]float64, n)
	low := testutil.Sine(100, sr, n)
	high := testutil.Sine(8000, sr, n)
	for i := range sig {
		sig[i] = low[i] + high[i]
	}

	out, err := BandLimit(sig, sr, 4000, 12000)
	if err != nil {
		t.Fatalf("BandLimit() error = %v", err)
	}
	if len(out) != n {
		t.Fatalf("len = %d, want %d", len(out), n)
	}

	peak, err := DominantFrequency(out, sr, 8192)
	if err != nil {
		t.Fatalf("DominantFrequency() error = %v", err)
	}
	if math.Abs(peak-8000) > 2*float64(sr)/8192 {
		t.Fatalf("band-limited peak = %v Hz, want ~8000", peak)
	}
}

func TestBandLimitDeterministic(t *testing.T) {
	sig := testutil.Sine(500, 44100, 4096)
	a, err := BandLimit(sig, 44100, 200, 1000)
	if err != nil {
		t.Fatalf("BandLimit() error = %v", err)
	}
	b, err := BandLimit(sig, 44100, 200, 1000)
	if err != nil {
		t.Fatalf("BandLimit() error = %v", err)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("non-deterministic at index %d", i)
		}
	}
}

func TestMagnitudeEmpty(t *testing.T) {
	if got := Magnitude(nil); got != nil {
		t.Fatalf("Magnitude(nil) = %v, want nil", got)
	}
}
