package orchestra

import (
	"testing"

	"github.com/cwbudde/algo-ambient/music/clip"
)

func BenchmarkAdvance(b *testing.B) {
	s := DefaultSettings()
	s.Seed = 42
	s.LoopSeconds = 2
	s.AutoProgression = false
	o := New(clip.New(0, 0), WithSettings(s), WithSampleRate(44100))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		o.Advance(1.0 / 60)
	}
}

func BenchmarkMixBlock(b *testing.B) {
	s := DefaultSettings()
	s.Seed = 42
	s.LoopSeconds = 2
	s.AutoProgression = false
	o := New(clip.New(0, 0), WithSettings(s), WithSampleRate(44100))
	block := make([]float32, 1024)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		o.MixBlock(block)
	}
}
