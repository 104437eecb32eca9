// Command ambientgen renders a procedurally generated ambient music
// timeline to a WAV file and/or plays it back.
//
// Usage:
//
//	ambientgen [flags]
//
// Examples:
//
//	ambientgen -seed 42 -duration 30 -out ambient.wav
//	ambientgen -seed 7 -intensity 0.8 -bpm 70 -play
//	ambientgen -ramp -duration 60 -hit-at 20 -out sweep.wav
//	ambientgen -settings mysettings.json -out ambient.wav
package main

import (
	"bytes"
	"encoding/binary"
	"flag"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/ebitengine/oto/v3"

	"github.com/cwbudde/algo-ambient/music/clip"
	"github.com/cwbudde/algo-ambient/music/orchestra"
)

const tickSeconds = 1.0 / 60

type sampleCollector struct {
	samples []float32
}

func (c *sampleCollector) WriteBlock(block []float32) error {
	c.samples = append(c.samples, block...)
	return nil
}

func main() {
	seed := flag.Int64("seed", 1, "master seed for all layers")
	bpm := flag.Float64("bpm", 90, "tempo in beats per minute")
	rootHz := flag.Float64("root", 110, "harmonic root frequency in Hz")
	loop := flag.Float64("loop", 12, "loop length per layer in seconds")
	duration := flag.Float64("duration", 30, "total timeline length in seconds")
	intensity := flag.Float64("intensity", 0.5, "intensity in [0,1]")
	ramp := flag.Bool("ramp", false, "sweep intensity from 0 to 1 over the timeline")
	hitAt := flag.Float64("hit-at", 0, "trigger a hit stinger at this time in seconds (0 = never)")
	riseAt := flag.Float64("rise-at", 0, "trigger a rise stinger at this time in seconds (0 = never)")
	rate := flag.Float64("rate", 44100, "sample rate in Hz")
	settingsPath := flag.String("settings", "", "JSON settings file applied on top of the flags")
	out := flag.String("out", "", "write the rendered mix to this WAV file")
	play := flag.Bool("play", false, "play the rendered mix on the default audio device")
	verbose := flag.Bool("v", false, "verbose logging")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: ambientgen [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Renders a seeded ambient music timeline to WAV and/or the audio device.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *verbose {
		log.SetLevel(log.DebugLevel)
	}
	if *out == "" && !*play {
		log.Fatal("nothing to do: pass -out and/or -play")
	}

	settings := orchestra.DefaultSettings()
	settings.Seed = *seed
	settings.TempoBPM = *bpm
	settings.RootHz = *rootHz
	settings.LoopSeconds = *loop
	settings.Intensity = *intensity

	cache := clip.New(clip.DefaultMaxBytes, clip.DefaultMaxCount)
	o := orchestra.New(cache,
		orchestra.WithSettings(settings),
		orchestra.WithSampleRate(*rate))

	if *settingsPath != "" {
		data, err := os.ReadFile(*settingsPath)
		if err != nil {
			log.Fatal("read settings", "path", *settingsPath, "err", err)
		}
		if err := o.ApplySettingsJSON(data); err != nil {
			log.Fatal("apply settings", "path", *settingsPath, "err", err)
		}
		log.Debug("applied settings file", "path", *settingsPath)
	}

	collector := &sampleCollector{}
	if !o.AttachOutput(collector) {
		log.Fatal("could not attach output sink")
	}

	log.Info("rendering",
		"seed", *seed, "bpm", o.Snapshot().TempoBPM,
		"duration", *duration, "rate", *rate)

	start := time.Now()
	hitDone, riseDone := *hitAt <= 0, *riseAt <= 0
	for elapsed := 0.0; elapsed < *duration; elapsed += tickSeconds {
		if *ramp {
			o.SetIntensity(elapsed / *duration)
		}
		if !hitDone && elapsed >= *hitAt {
			o.TriggerStinger(orchestra.StingerHit)
			hitDone = true
			log.Debug("stinger", "kind", "hit", "at", elapsed)
		}
		if !riseDone && elapsed >= *riseAt {
			o.TriggerStinger(orchestra.StingerRise)
			riseDone = true
			log.Debug("stinger", "kind", "rise", "at", elapsed)
		}
		o.Advance(tickSeconds)
	}

	stats := cache.Stats()
	log.Info("rendered",
		"samples", len(collector.samples),
		"took", time.Since(start).Round(time.Millisecond),
		"clips", stats.Count,
		"cached", humanize.Bytes(uint64(stats.Bytes)),
		"hits", stats.Hits, "misses", stats.Misses, "evictions", stats.Evictions)

	if *out != "" {
		if err := writeWAV(*out, collector.samples, int(*rate)); err != nil {
			log.Fatal("write wav", "path", *out, "err", err)
		}
		log.Info("wrote", "path", *out)
	}

	if *play {
		if err := playSamples(collector.samples, int(*rate)); err != nil {
			log.Fatal("playback", "err", err)
		}
	}
}

// writeWAV stores the mix as a mono 16-bit PCM RIFF/WAVE file.
func writeWAV(path string, samples []float32, sampleRate int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create: %w", err)
	}
	defer f.Close()

	dataSize := len(samples) * 2
	header := struct {
		RIFF          [4]byte
		FileSize      uint32
		WAVE          [4]byte
		Fmt           [4]byte
		FmtSize       uint32
		AudioFormat   uint16
		Channels      uint16
		SampleRate    uint32
		ByteRate      uint32
		BlockAlign    uint16
		BitsPerSample uint16
		Data          [4]byte
		DataSize      uint32
	}{
		RIFF:          [4]byte{'R', 'I', 'F', 'F'},
		FileSize:      uint32(36 + dataSize),
		WAVE:          [4]byte{'W', 'A', 'V', 'E'},
		Fmt:           [4]byte{'f', 'm', 't', ' '},
		FmtSize:       16,
		AudioFormat:   1,
		Channels:      1,
		SampleRate:    uint32(sampleRate),
		ByteRate:      uint32(sampleRate * 2),
		BlockAlign:    2,
		BitsPerSample: 16,
		Data:          [4]byte{'d', 'a', 't', 'a'},
		DataSize:      uint32(dataSize),
	}
	if err := binary.Write(f, binary.LittleEndian, header); err != nil {
		return fmt.Errorf("header: %w", err)
	}

	pcm := make([]int16, len(samples))
	for i, v := range samples {
		clamped := math.Max(-1, math.Min(1, float64(v)))
		pcm[i] = int16(clamped * math.MaxInt16)
	}
	if err := binary.Write(f, binary.LittleEndian, pcm); err != nil {
		return fmt.Errorf("data: %w", err)
	}
	return nil
}

// playSamples streams the mix to the default audio device and blocks
// until playback finishes.
func playSamples(samples []float32, sampleRate int) error {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
	}
	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return fmt.Errorf("audio context: %w", err)
	}
	<-ready

	raw := make([]byte, len(samples)*4)
	for i, v := range samples {
		binary.LittleEndian.PutUint32(raw[i*4:], math.Float32bits(v))
	}

	player := ctx.NewPlayer(bytes.NewReader(raw))
	player.Play()
	for player.IsPlaying() {
		time.Sleep(20 * time.Millisecond)
	}
	return player.Close()
}
