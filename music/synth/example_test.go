package synth_test

import (
	"fmt"

	"github.com/cwbudde/algo-ambient/music/synth"
)

func ExampleParams_CacheKey() {
	p := synth.Params{
		Layer:    synth.LayerPad,
		Seed:     12345,
		TempoBPM: 90,
		Duration: 12,
		Tier:     1,
		RootHz:   110,
	}
	fmt.Println(p.CacheKey())

	// Output:
	// pad|s=12345|bpm=90|d=12.000|p=0|t=1|r=110.00
}

func ExampleChordProgressionVariant() {
	// Index 5 would shift by 10 semitones; the effect clamps to +6.
	offsets := synth.ChordProgressionVariant(5)
	fmt.Printf("%.0f %.0f %.0f %.0f\n", offsets[0], offsets[1], offsets[2], offsets[3])

	// Output:
	// 6 1 -3 4
}

func ExampleGenerate() {
	buf := synth.Generate(synth.Params{
		Layer:      synth.LayerDrums,
		Seed:       7,
		TempoBPM:   120,
		Duration:   2,
		SampleRate: 8000,
	})
	fmt.Printf("%d samples, %.1fs, %d bytes\n", buf.Len(), buf.Duration(), buf.ByteSize())

	// Output:
	// 16000 samples, 2.0s, 64000 bytes
}
