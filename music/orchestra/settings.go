package orchestra

import (
	"encoding/json"
	"fmt"

	"github.com/cwbudde/algo-ambient/dsp/core"
	"github.com/cwbudde/algo-ambient/music/clip"
	"github.com/cwbudde/algo-ambient/music/synth"
)

// TierUnlocked disables a layer's lock override so intensity thresholds
// drive the tier again.
const TierUnlocked = -1

const (
	minProgressionInterval = 5.0
	minCrossfadeSeconds    = 0.05
	maxCrossfadeSeconds    = 30.0
)

// LayerSettings configures one looping layer.
type LayerSettings struct {
	// MediumThreshold and HighThreshold split the intensity range into
	// tiers 0, 1 and 2.
	MediumThreshold float64 `json:"medium_threshold"`
	HighThreshold   float64 `json:"high_threshold"`

	// LockTier forces the tier regardless of intensity. TierUnlocked
	// restores threshold evaluation.
	LockTier int `json:"lock_tier"`

	CrossfadeSeconds float64 `json:"crossfade_seconds"`

	Trim float64 `json:"trim"`
	Mute bool    `json:"mute"`
	Solo bool    `json:"solo"`

	// DuckAmount scales how strongly the duck envelope attenuates the
	// layer. Zero leaves the layer unaffected by accents.
	DuckAmount float64 `json:"duck_amount"`
}

// DuckSettings shapes the attack/hold/release envelope applied when an
// accent is triggered.
type DuckSettings struct {
	AttackSeconds  float64 `json:"attack_seconds"`
	HoldSeconds    float64 `json:"hold_seconds"`
	ReleaseSeconds float64 `json:"release_seconds"`
}

// Settings is the full configurable state of an Orchestrator. It is a
// plain value suitable for JSON serialization by an external
// persistence layer; the orchestrator itself performs no file I/O.
type Settings struct {
	Seed        int64   `json:"seed"`
	Intensity   float64 `json:"intensity"`
	TempoBPM    float64 `json:"tempo_bpm"`
	LoopSeconds float64 `json:"loop_seconds"`
	RootHz      float64 `json:"root_hz"`

	AutoProgression            bool    `json:"auto_progression"`
	ProgressionIntervalSeconds float64 `json:"progression_interval_seconds"`
	ProgressionJitterSeconds   float64 `json:"progression_jitter_seconds"`
	ProgressionStep            int     `json:"progression_step"`
	AlignToBeat                bool    `json:"align_to_beat"`
	BeatsPerChord              int     `json:"beats_per_chord"`
	LinkBassProgression        bool    `json:"link_bass_progression"`
	FillOnAdvance              bool    `json:"fill_on_advance"`

	Pad   LayerSettings `json:"pad"`
	Bass  LayerSettings `json:"bass"`
	Drums LayerSettings `json:"drums"`
	Arp   LayerSettings `json:"arp"`

	Duck DuckSettings `json:"duck"`

	CacheMaxBytes int `json:"cache_max_bytes"`
	CacheMaxCount int `json:"cache_max_count"`
}

// DefaultSettings returns the settings an Orchestrator starts from.
func DefaultSettings() Settings {
	layer := LayerSettings{
		MediumThreshold:  0.35,
		HighThreshold:    0.7,
		LockTier:         TierUnlocked,
		CrossfadeSeconds: 2.0,
		Trim:             1.0,
	}

	s := Settings{
		Seed:        1,
		Intensity:   0.5,
		TempoBPM:    90,
		LoopSeconds: 12,
		RootHz:      110,

		AutoProgression:            true,
		ProgressionIntervalSeconds: 25,
		ProgressionJitterSeconds:   6,
		ProgressionStep:            1,
		AlignToBeat:                true,
		BeatsPerChord:              4,
		LinkBassProgression:        true,

		Pad:   layer,
		Bass:  layer,
		Drums: layer,
		Arp:   layer,

		Duck: DuckSettings{
			AttackSeconds:  0.02,
			HoldSeconds:    0.08,
			ReleaseSeconds: 0.35,
		},

		CacheMaxBytes: clip.DefaultMaxBytes,
		CacheMaxCount: clip.DefaultMaxCount,
	}
	s.Pad.DuckAmount = 0.6
	s.Arp.DuckAmount = 0.8
	s.Drums.CrossfadeSeconds = 1.0
	return s
}

// normalized clamps every field to its valid range. Out-of-range values
// degrade gracefully rather than erroring.
func (s Settings) normalized() Settings {
	s.Intensity = core.Clamp(s.Intensity, 0, 1)
	if s.TempoBPM <= 0 {
		s.TempoBPM = DefaultSettings().TempoBPM
	}
	if s.LoopSeconds <= 0 {
		s.LoopSeconds = DefaultSettings().LoopSeconds
	}
	if s.RootHz <= 0 {
		s.RootHz = DefaultSettings().RootHz
	}
	if s.ProgressionIntervalSeconds < minProgressionInterval {
		s.ProgressionIntervalSeconds = minProgressionInterval
	}
	if s.ProgressionJitterSeconds < 0 {
		s.ProgressionJitterSeconds = 0
	}
	if s.BeatsPerChord < 1 {
		s.BeatsPerChord = 1
	}
	s.Pad = s.Pad.normalized()
	s.Bass = s.Bass.normalized()
	s.Drums = s.Drums.normalized()
	s.Arp = s.Arp.normalized()
	s.Duck = s.Duck.normalized()
	return s
}

func (l LayerSettings) normalized() LayerSettings {
	l.MediumThreshold = core.Clamp(l.MediumThreshold, 0, 1)
	l.HighThreshold = core.Clamp(l.HighThreshold, l.MediumThreshold, 1)
	if l.LockTier != TierUnlocked {
		l.LockTier = core.ClampInt(l.LockTier, 0, 2)
	}
	l.CrossfadeSeconds = core.Clamp(l.CrossfadeSeconds, minCrossfadeSeconds, maxCrossfadeSeconds)
	l.Trim = core.Clamp(l.Trim, 0, 2)
	l.DuckAmount = core.Clamp(l.DuckAmount, 0, 1)
	return l
}

func (d DuckSettings) normalized() DuckSettings {
	if d.AttackSeconds < 0 {
		d.AttackSeconds = 0
	}
	if d.HoldSeconds < 0 {
		d.HoldSeconds = 0
	}
	if d.ReleaseSeconds <= 0 {
		d.ReleaseSeconds = 0.01
	}
	return d
}

func (s Settings) layer(layer synth.LayerType) LayerSettings {
	switch layer {
	case synth.LayerBass:
		return s.Bass
	case synth.LayerDrums:
		return s.Drums
	case synth.LayerArp:
		return s.Arp
	default:
		return s.Pad
	}
}

// Snapshot returns a copy of the active settings.
func (o *Orchestrator) Snapshot() Settings {
	return o.settings
}

// ApplySettings replaces the active settings after clamping them to
// valid ranges. Changes to structural parameters (seed, tempo, loop
// length, root frequency) rebuild the layer buffers; everything else
// takes effect on the next Advance.
func (o *Orchestrator) ApplySettings(s Settings) {
	s = s.normalized()
	rebuild := s.Seed != o.settings.Seed ||
		s.TempoBPM != o.settings.TempoBPM ||
		s.LoopSeconds != o.settings.LoopSeconds ||
		s.RootHz != o.settings.RootHz

	o.settings = s
	o.cache.SetLimits(s.CacheMaxBytes, s.CacheMaxCount)

	if rebuild {
		for _, layer := range loopingLayers {
			ls := o.layers[layer]
			ls.fade = nil
			ls.buf = o.layerBuffer(layer, ls.tier)
			ls.pos = 0
		}
	}
}

// ApplySettingsJSON decodes a JSON settings document and applies it.
// Absent fields keep their current values. On malformed input the
// document is rejected and the active settings stay untouched.
func (o *Orchestrator) ApplySettingsJSON(data []byte) error {
	next := o.settings
	if err := json.Unmarshal(data, &next); err != nil {
		return fmt.Errorf("orchestra: decode settings: %w", err)
	}
	o.ApplySettings(next)
	return nil
}
