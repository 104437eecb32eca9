package synth

// Buffer is an immutable mono PCM clip at a fixed sample rate.
// Once generated it is shared read-only between the cache and any
// number of playback voices; callers must not mutate Samples().
type Buffer struct {
	samples    []float32
	sampleRate float64
}

// newBuffer converts a float64 working mix into a shareable Buffer.
func newBuffer(mix []float64, sampleRate float64) *Buffer {
	samples := make([]float32, len(mix))
	for i, v := range mix {
		samples[i] = float32(v)
	}
	return &Buffer{samples: samples, sampleRate: sampleRate}
}

// Samples returns the underlying sample slice. Treat it as read-only.
func (b *Buffer) Samples() []float32 {
	return b.samples
}

// Len returns the number of samples.
func (b *Buffer) Len() int {
	return len(b.samples)
}

// SampleRate returns the buffer's sample rate in Hz.
func (b *Buffer) SampleRate() float64 {
	return b.sampleRate
}

// Duration returns the buffer length in seconds.
func (b *Buffer) Duration() float64 {
	if b.sampleRate <= 0 {
		return 0
	}
	return float64(len(b.samples)) / b.sampleRate
}

// ByteSize returns the approximate in-memory size of the sample data:
// samples × 1 channel × 4 bytes.
func (b *Buffer) ByteSize() int {
	return len(b.samples) * 4
}
