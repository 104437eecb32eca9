package core

// RenderConfig defines common synthesis and processing settings.
type RenderConfig struct {
	SampleRate float64
	BlockSize  int
}

// RenderOption mutates a RenderConfig.
type RenderOption func(*RenderConfig)

// DefaultRenderConfig returns defaults suited to game audio output.
func DefaultRenderConfig() RenderConfig {
	return RenderConfig{
		SampleRate: 44100,
		BlockSize:  1024,
	}
}

// WithSampleRate sets the rendering sample rate.
func WithSampleRate(sampleRate float64) RenderOption {
	return func(cfg *RenderConfig) {
		if sampleRate > 0 {
			cfg.SampleRate = sampleRate
		}
	}
}

// WithBlockSize sets the block size used by streaming consumers.
func WithBlockSize(blockSize int) RenderOption {
	return func(cfg *RenderConfig) {
		if blockSize > 0 {
			cfg.BlockSize = blockSize
		}
	}
}

// ApplyRenderOptions applies zero or more options to the default config.
func ApplyRenderOptions(opts ...RenderOption) RenderConfig {
	cfg := DefaultRenderConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
