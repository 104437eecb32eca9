package testutil

import (
	"math"
	"testing"
)

func TestSineAmplitudeAndPeriod(t *testing.T) {
	sig := Sine(100, 1000, 100)
	RequireFinite(t, sig)

	// One full period per 10 samples; quarter period hits the peak.
	if got := sig[0]; got != 0 {
		t.Fatalf("sig[0] = %v, want 0", got)
	}
	if got := sig[25]; math.Abs(math.Abs(got)-1) > 1e-9 {
		t.Fatalf("|sig[25]| = %v, want 1", math.Abs(got))
	}
}

func TestNoiseDeterministic(t *testing.T) {
	a := Noise(7, 256)
	b := Noise(7, 256)
	RequireSliceNearlyEqual(t, a, b, 0)

	diff, err := MaxAbsDiff(a, Noise(8, 256))
	if err != nil {
		t.Fatalf("MaxAbsDiff() error = %v", err)
	}
	if diff == 0 {
		t.Fatal("different seeds produced identical noise")
	}
}

func TestRMS(t *testing.T) {
	if got := RMS(nil); got != 0 {
		t.Fatalf("RMS(nil) = %v, want 0", got)
	}
	sig := Sine(100, 10000, 10000)
	if got := RMS(sig); math.Abs(got-1/math.Sqrt2) > 1e-3 {
		t.Fatalf("sine RMS = %v, want %v", got, 1/math.Sqrt2)
	}
}

func TestMaxAbsDiffLengthMismatch(t *testing.T) {
	if _, err := MaxAbsDiff(make([]float64, 3), make([]float64, 4)); err == nil {
		t.Fatal("expected length mismatch error")
	}
}
