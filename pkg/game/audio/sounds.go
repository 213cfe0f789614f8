// Package audio synthesises the game's sound effects.
package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
)

// HumGenerator is the low drone played while the player drains the city.
// It loops forever.
type HumGenerator struct {
	sr  beep.SampleRate
	pos int
}

// NewHumGenerator creates a drain hum generator
func NewHumGenerator(sr beep.SampleRate) *HumGenerator {
	return &HumGenerator{sr: sr}
}

func (g *HumGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)

		// two detuned tones beating slowly, with a gentle tremolo
		trem := 0.75 + 0.25*math.Sin(2*math.Pi*3*t)
		s := 0.5*math.Sin(2*math.Pi*110*t) + 0.5*math.Sin(2*math.Pi*111.5*t)
		s *= 0.2 * trem

		samples[i][0] = s
		samples[i][1] = s
		g.pos++
	}
	return len(samples), true
}

func (g *HumGenerator) Err() error {
	return nil
}

// SweepGenerator plays a sine whose pitch glides from one frequency to
// another over its duration, with a linear fade out.
type SweepGenerator struct {
	sr       beep.SampleRate
	from, to float64
	total    int
	pos      int
	phase    float64
}

// NewSweepGenerator creates a pitch sweep of length d.
func NewSweepGenerator(sr beep.SampleRate, from, to float64, d time.Duration) *SweepGenerator {
	return &SweepGenerator{sr: sr, from: from, to: to, total: sr.N(d)}
}

func (g *SweepGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if g.pos >= g.total {
			return i, i > 0
		}
		frac := float64(g.pos) / float64(g.total)
		freq := g.from + (g.to-g.from)*frac
		s := 0.3 * (1 - frac) * math.Sin(2*math.Pi*g.phase)

		samples[i][0] = s
		samples[i][1] = s

		g.phase += freq / float64(g.sr)
		g.phase -= math.Floor(g.phase)
		g.pos++
	}
	return len(samples), true
}

func (g *SweepGenerator) Err() error {
	return nil
}

// Victory arpeggio: C5 E5 G5 C6.
var chimeNotes = []float64{523.25, 659.25, 783.99, 1046.5}

const chimeNote = 140 * time.Millisecond

// NewJumpSound returns a short rising blip.
func NewJumpSound(sr beep.SampleRate) beep.Streamer {
	return NewSweepGenerator(sr, 300, 600, 90*time.Millisecond)
}

// NewVictorySound returns the rising arpeggio played when a city is drained.
func NewVictorySound(sr beep.SampleRate) beep.Streamer {
	notes := make([]beep.Streamer, 0, len(chimeNotes))
	for _, f := range chimeNotes {
		notes = append(notes, NewSweepGenerator(sr, f, f, chimeNote))
	}
	return beep.Seq(notes...)
}
