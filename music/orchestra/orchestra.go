// Package orchestra drives the adaptive playback state machine on top
// of the synthesizer and clip cache. A host calls Advance once per
// frame with the elapsed time; all crossfades, progression scheduling
// and ducking are derived synchronously from accumulated time inside
// that call. There are no background goroutines and no global state;
// independent orchestrators never share anything but the cache they
// were handed.
package orchestra

import (
	"math"
	"math/rand"

	"github.com/cwbudde/algo-ambient/dsp/core"
	"github.com/cwbudde/algo-ambient/music/clip"
	"github.com/cwbudde/algo-ambient/music/synth"
)

// StingerKind names the one-shot accent variants.
type StingerKind int

const (
	StingerRise StingerKind = iota
	StingerHit
)

// Output receives mixed sample blocks from Advance when attached.
// Returning an error detaches the sink; orchestration itself keeps
// running.
type Output interface {
	WriteBlock(samples []float32) error
}

const (
	progressionRNGOffset = 733

	arpOnsetIntensity = 0.45

	stingerVolume = 0.9
	fillVolume    = 0.8

	riseSeconds = 1.5
	hitSeconds  = 1.2
)

var loopingLayers = []synth.LayerType{
	synth.LayerPad,
	synth.LayerBass,
	synth.LayerDrums,
	synth.LayerArp,
}

// layerState owns the active buffer of one looping layer. tier and buf
// always describe the incoming side; a pending crossfade keeps the
// outgoing buffer alive until it resolves.
type layerState struct {
	buf  *synth.Buffer
	tier int
	pos  float64
	fade *crossfade
}

// voice is a playing one-shot accent.
type voice struct {
	buf    *synth.Buffer
	pos    float64
	volume float64
}

// Orchestrator owns one buffer per looping layer plus any in-flight
// accent voices. It is single-threaded by design: all methods must be
// called from the host's tick goroutine.
type Orchestrator struct {
	settings   Settings
	sampleRate float64

	cache  *clip.Cache
	layers map[synth.LayerType]*layerState
	voices []*voice

	duck duckEnvelope

	progressionIndex int
	nextAdvanceIn    float64
	pendingSteps     int
	jitterRNG        *rand.Rand

	output    Output
	outputErr error
	scratch   []float32
}

// Option configures an Orchestrator at construction time.
type Option func(*Orchestrator)

// WithSettings replaces the default settings.
func WithSettings(s Settings) Option {
	return func(o *Orchestrator) { o.settings = s }
}

// WithSampleRate sets the render sample rate in Hz. Values <= 0 are
// ignored.
func WithSampleRate(sampleRate float64) Option {
	return func(o *Orchestrator) {
		if sampleRate > 0 {
			o.sampleRate = sampleRate
		}
	}
}

// New constructs an Orchestrator over the given cache. A nil cache gets
// replaced by a private one with default limits, so independent
// instances never cross-contaminate.
func New(cache *clip.Cache, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		settings:   DefaultSettings(),
		sampleRate: core.DefaultRenderConfig().SampleRate,
		cache:      cache,
		layers:     make(map[synth.LayerType]*layerState),
	}
	for _, opt := range opts {
		opt(o)
	}
	o.settings = o.settings.normalized()
	if o.cache == nil {
		o.cache = clip.New(o.settings.CacheMaxBytes, o.settings.CacheMaxCount)
	} else {
		o.cache.SetLimits(o.settings.CacheMaxBytes, o.settings.CacheMaxCount)
	}
	o.jitterRNG = rand.New(rand.NewSource(o.settings.Seed + progressionRNGOffset))

	for _, layer := range loopingLayers {
		tier := o.desiredTier(layer)
		o.layers[layer] = &layerState{
			buf:  o.layerBuffer(layer, tier),
			tier: tier,
		}
	}
	o.scheduleNextAdvance()
	return o
}

// SetIntensity updates the intensity signal in [0,1]. Tier transitions
// happen on the next Advance.
func (o *Orchestrator) SetIntensity(v float64) {
	o.settings.Intensity = core.Clamp(v, 0, 1)
}

// Intensity returns the current intensity signal.
func (o *Orchestrator) Intensity() float64 {
	return o.settings.Intensity
}

// Advance moves all orchestration state forward by dt seconds:
// crossfade and duck progress, tier evaluation, progression scheduling,
// accent voice positions and playback positions. When an output is
// attached the corresponding sample block is mixed and written to it.
func (o *Orchestrator) Advance(dt float64) {
	if dt <= 0 {
		return
	}

	for _, layer := range loopingLayers {
		ls := o.layers[layer]
		if ls.fade == nil {
			continue
		}
		ls.fade.elapsed += dt
		if ls.fade.done() {
			ls.fade = nil
		}
	}

	o.duck.advance(dt)

	for _, layer := range loopingLayers {
		if desired := o.desiredTier(layer); desired != o.layers[layer].tier {
			o.startFade(layer, desired, 0)
		}
	}

	o.updateProgression(dt)

	if o.output != nil {
		n := int(math.Round(dt * o.sampleRate))
		if n > 0 {
			if cap(o.scratch) < n {
				o.scratch = make([]float32, n)
			}
			block := o.scratch[:n]
			o.MixBlock(block)
			if err := o.output.WriteBlock(block); err != nil {
				// A failing sink is detached so the host can observe
				// the failure through OutputError and re-attach.
				o.outputErr = err
				o.output = nil
			}
		}
	}

	o.advancePositions(dt)
}

// updateProgression counts down the auto-advance timer and applies a
// pending advance, deferring it to the next chord boundary of the pad
// playhead when beat alignment is enabled.
func (o *Orchestrator) updateProgression(dt float64) {
	if o.settings.AutoProgression && o.pendingSteps == 0 {
		o.nextAdvanceIn -= dt
		if o.nextAdvanceIn <= 0 {
			o.pendingSteps = o.settings.ProgressionStep
			o.scheduleNextAdvance()
		}
	}
	if o.pendingSteps == 0 {
		return
	}
	if o.settings.AlignToBeat && !o.padBoundaryCrossed(dt) {
		return
	}
	steps := o.pendingSteps
	o.pendingSteps = 0
	o.applyProgression(steps)
}

// padBoundaryCrossed reports whether the pad buffer's playback position
// modulo the chord boundary wraps during this tick. The pad loop itself
// restarts on a chord segment, so a loop wrap counts as a boundary. The
// position is read before advancePositions moves it, so the check spans
// exactly this tick.
func (o *Orchestrator) padBoundaryCrossed(dt float64) bool {
	boundary := float64(o.settings.BeatsPerChord) * 60 / o.settings.TempoBPM
	if boundary <= 0 {
		return true
	}
	pad := o.layers[synth.LayerPad]
	before := pad.pos / o.sampleRate
	after := before + dt
	if loop := pad.buf.Duration(); loop > 0 && after >= loop {
		return true
	}
	return int(after/boundary) > int(before/boundary)
}

func (o *Orchestrator) scheduleNextAdvance() {
	jitter := o.settings.ProgressionJitterSeconds
	interval := o.settings.ProgressionIntervalSeconds
	if jitter > 0 {
		interval += (o.jitterRNG.Float64()*2 - 1) * jitter
	}
	o.nextAdvanceIn = math.Max(interval, minProgressionInterval)
}

// AdvanceProgression shifts the progression index by steps immediately,
// crossfading pad, arp and (when linked) bass to the new harmony. The
// stored index is unbounded; only its pitch effect is clamped.
func (o *Orchestrator) AdvanceProgression(steps int) {
	o.applyProgression(steps)
}

func (o *Orchestrator) applyProgression(steps int) {
	o.progressionIndex += steps

	o.startFade(synth.LayerPad, o.layers[synth.LayerPad].tier, 0)
	o.startFade(synth.LayerArp, o.layers[synth.LayerArp].tier, 0)
	if o.settings.LinkBassProgression {
		o.startFade(synth.LayerBass, o.layers[synth.LayerBass].tier, 0)
	}

	if o.settings.FillOnAdvance {
		o.TriggerFill()
	}
}

// ProgressionIndex returns the stored progression index.
func (o *Orchestrator) ProgressionIndex() int {
	return o.progressionIndex
}

// TriggerStinger plays a one-shot accent of the given kind and
// restarts the duck envelope.
func (o *Orchestrator) TriggerStinger(kind StingerKind) {
	layer := synth.LayerStingerRise
	seconds := riseSeconds
	if kind == StingerHit {
		layer = synth.LayerStingerHit
		seconds = hitSeconds
	}
	o.playAccent(layer, seconds, stingerVolume)
}

// TriggerFill plays a short percussive fill and restarts the duck
// envelope.
func (o *Orchestrator) TriggerFill() {
	o.playAccent(synth.LayerFill, 2*60/o.settings.TempoBPM, fillVolume)
}

func (o *Orchestrator) playAccent(layer synth.LayerType, seconds, volume float64) {
	buf := o.accentBuffer(layer, seconds)
	o.voices = append(o.voices, &voice{buf: buf, volume: volume})
	o.duck.trigger(o.settings.Duck)
}

// Tier returns the active tier of a looping layer. During a crossfade
// this is the incoming tier.
func (o *Orchestrator) Tier(layer synth.LayerType) int {
	if ls, ok := o.layers[layer]; ok {
		return ls.tier
	}
	return 0
}

// Voices returns the number of accent one-shots still playing.
func (o *Orchestrator) Voices() int {
	return len(o.voices)
}

// DuckLevel returns the current duck envelope depth in [0,1].
func (o *Orchestrator) DuckLevel() float64 {
	return o.duck.level()
}

// LayerOutput returns a layer's active buffer and the instantaneous
// volume the host should play it at. During a crossfade this is the
// incoming side; the outgoing side is mixed internally by MixBlock.
func (o *Orchestrator) LayerOutput(layer synth.LayerType) (*synth.Buffer, float64) {
	ls, ok := o.layers[layer]
	if !ok {
		return nil, 0
	}
	in, _ := o.layerVolumes(layer)
	return ls.buf, in
}

// AttachOutput registers a sink that Advance feeds with mixed blocks,
// clearing any previous output error. It reports false when no usable
// output was supplied. A sink whose WriteBlock fails is detached; the
// failure stays available through OutputError.
func (o *Orchestrator) AttachOutput(out Output) bool {
	if out == nil {
		return false
	}
	o.output = out
	o.outputErr = nil
	return true
}

// OutputError returns the error that caused the output sink to be
// detached, or nil while one is attached and healthy.
func (o *Orchestrator) OutputError() error {
	return o.outputErr
}

// MixBlock renders len(dst) samples of the current mix into dst,
// reading every layer at its stored position without advancing it.
// Positions move only in Advance, so repeated calls between ticks see
// identical audio.
func (o *Orchestrator) MixBlock(dst []float32) {
	for i := range dst {
		dst[i] = 0
	}
	for _, layer := range loopingLayers {
		ls := o.layers[layer]
		in, out := o.layerVolumes(layer)
		mixLooped(dst, ls.buf, ls.pos, in)
		if ls.fade != nil {
			mixLooped(dst, ls.fade.oldBuf, ls.fade.oldPos, out)
		}
	}
	for _, v := range o.voices {
		mixOneShot(dst, v.buf, v.pos, v.volume)
	}
}

// layerVolumes returns the instantaneous incoming and outgoing volumes
// of a layer. Outside a crossfade the outgoing share is zero; the two
// always sum to the layer's full target volume.
func (o *Orchestrator) layerVolumes(layer synth.LayerType) (in, out float64) {
	target := o.targetVolume(layer)
	ls := o.layers[layer]
	if ls.fade == nil {
		return target, 0
	}
	inShare, outShare := ls.fade.mix()
	return target * inShare, target * outShare
}

// targetVolume maps intensity through the layer's volume curve and
// applies trim, duck and mute/solo overrides.
func (o *Orchestrator) targetVolume(layer synth.LayerType) float64 {
	cfg := o.settings.layer(layer)
	if cfg.Mute {
		return 0
	}
	if o.soloActive() && !cfg.Solo {
		return 0
	}
	vol := volumeCurve(layer, o.settings.Intensity) * cfg.Trim
	if cfg.DuckAmount > 0 {
		vol *= 1 - cfg.DuckAmount*o.duck.level()
	}
	return vol
}

func (o *Orchestrator) soloActive() bool {
	return o.settings.Pad.Solo || o.settings.Bass.Solo ||
		o.settings.Drums.Solo || o.settings.Arp.Solo
}

// volumeCurve maps intensity to a layer's base volume. The pad rises
// mildly, bass follows a smoothed curve, drums rise sub-linearly and
// the arpeggio only appears above an onset intensity.
func volumeCurve(layer synth.LayerType, v float64) float64 {
	switch layer {
	case synth.LayerBass:
		return 0.9 * core.Smoothstep(v)
	case synth.LayerDrums:
		return 0.9 * math.Pow(v, 0.7)
	case synth.LayerArp:
		if v < arpOnsetIntensity {
			return 0
		}
		return 0.7 * (v - arpOnsetIntensity) / (1 - arpOnsetIntensity)
	default:
		return 0.5 + 0.3*v
	}
}

func (o *Orchestrator) desiredTier(layer synth.LayerType) int {
	cfg := o.settings.layer(layer)
	if cfg.LockTier != TierUnlocked {
		return cfg.LockTier
	}
	switch v := o.settings.Intensity; {
	case v >= cfg.HighThreshold:
		return 2
	case v >= cfg.MediumThreshold:
		return 1
	default:
		return 0
	}
}

// startFade swaps in a freshly keyed buffer and keeps the current one
// fading out. An unresolved previous fade is collapsed first so fades
// never stack. All tier buffers of a layer share the same length, so
// the playback position carries over and the beat grid stays aligned.
func (o *Orchestrator) startFade(layer synth.LayerType, tier int, duration float64) {
	ls := o.layers[layer]
	if duration <= 0 {
		duration = o.settings.layer(layer).CrossfadeSeconds
	}
	ls.fade = &crossfade{
		oldBuf:   ls.buf,
		oldPos:   ls.pos,
		duration: duration,
	}
	ls.buf = o.layerBuffer(layer, tier)
	ls.tier = tier
}

func (o *Orchestrator) advancePositions(dt float64) {
	step := dt * o.sampleRate
	for _, layer := range loopingLayers {
		ls := o.layers[layer]
		ls.pos = wrapPos(ls.pos+step, ls.buf.Len())
		if ls.fade != nil {
			ls.fade.oldPos = wrapPos(ls.fade.oldPos+step, ls.fade.oldBuf.Len())
		}
	}

	alive := o.voices[:0]
	for _, v := range o.voices {
		v.pos += step
		if int(v.pos) < v.buf.Len() {
			alive = append(alive, v)
		}
	}
	o.voices = alive
}

func wrapPos(pos float64, n int) float64 {
	if n <= 0 {
		return 0
	}
	return math.Mod(pos, float64(n))
}

func mixLooped(dst []float32, buf *synth.Buffer, pos, volume float64) {
	if buf == nil || volume == 0 {
		return
	}
	samples := buf.Samples()
	n := len(samples)
	if n == 0 {
		return
	}
	base := int(pos)
	for i := range dst {
		dst[i] += float32(volume) * samples[(base+i)%n]
	}
}

func mixOneShot(dst []float32, buf *synth.Buffer, pos, volume float64) {
	if buf == nil || volume == 0 {
		return
	}
	samples := buf.Samples()
	base := int(pos)
	for i := range dst {
		idx := base + i
		if idx >= len(samples) {
			return
		}
		dst[i] += float32(volume) * samples[idx]
	}
}

func (o *Orchestrator) layerBuffer(layer synth.LayerType, tier int) *synth.Buffer {
	p := synth.Params{
		Layer:       layer,
		Seed:        o.settings.Seed,
		TempoBPM:    o.settings.TempoBPM,
		Duration:    o.settings.LoopSeconds,
		SampleRate:  o.sampleRate,
		Progression: o.progressionFor(layer),
		Tier:        tier,
		RootHz:      o.settings.RootHz,
	}
	return o.cache.GetOrGenerate(p.CacheKey(), func() *synth.Buffer {
		return synth.Generate(p)
	})
}

func (o *Orchestrator) accentBuffer(layer synth.LayerType, seconds float64) *synth.Buffer {
	p := synth.Params{
		Layer:      layer,
		Seed:       o.settings.Seed,
		TempoBPM:   o.settings.TempoBPM,
		Duration:   seconds,
		SampleRate: o.sampleRate,
		RootHz:     o.settings.RootHz,
	}
	return o.cache.GetOrGenerate(p.CacheKey(), func() *synth.Buffer {
		return synth.Generate(p)
	})
}

// progressionFor returns the progression index a layer's buffer is
// keyed on. Drums never transpose and bass only follows when linked.
func (o *Orchestrator) progressionFor(layer synth.LayerType) int {
	switch layer {
	case synth.LayerDrums:
		return 0
	case synth.LayerBass:
		if !o.settings.LinkBassProgression {
			return 0
		}
	}
	return o.progressionIndex
}
