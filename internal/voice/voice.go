// Package voice implements the six instrument voices. Each trigger reads the
// emotion and macro snapshot it is handed, decides whether to sound, and
// schedules a self-terminating subgraph on the bus.
package voice

import (
	"math"
	"math/rand"

	"github.com/cbegin/soundscape-go/internal/effects"
	"github.com/cbegin/soundscape-go/internal/graph"
	"github.com/cbegin/soundscape-go/internal/mood"
)

// Random supplies values in [0, 1). *rand.Rand satisfies it.
type Random interface {
	Float64() float64
}

type globalRandom struct{}

func (globalRandom) Float64() float64 { return rand.Float64() }

// DefaultRandom draws from the process-wide math/rand source. It is safe for
// concurrent use and not reproducible between runs.
var DefaultRandom Random = globalRandom{}

// Bus is where voices go once built.
type Bus interface {
	SampleRate() int
	Schedule(v *graph.Voice)
}

// Voice names.
const (
	KickName  = "kick"
	HihatName = "hihat"
	SnareName = "snare"
	BassName  = "bass"
	LeadName  = "lead"
	PadName   = "pad"
)

// Synth builds voices for one bus. A nil Synth or one without a bus
// triggers nothing.
type Synth struct {
	bus Bus
	rng Random
}

func New(bus Bus, rng Random) *Synth {
	if rng == nil {
		rng = DefaultRandom
	}
	return &Synth{bus: bus, rng: rng}
}

// Trigger runs every voice for one step in the fixed order kick, snare,
// hi-hat, bass, lead, pad and returns the voices that fired.
func (s *Synth) Trigger(st mood.State, time float64, step int) []*graph.Voice {
	if !s.ready() {
		return nil
	}
	var fired []*graph.Voice
	for _, fn := range []func(mood.State, float64, int) *graph.Voice{
		s.Kick, s.Snare, s.Hihat, s.Bass, s.Lead, s.Pad,
	} {
		if v := fn(st, time, step); v != nil {
			fired = append(fired, v)
		}
	}
	return fired
}

func (s *Synth) ready() bool {
	return s != nil && s.bus != nil
}

func (s *Synth) sampleRate() int { return s.bus.SampleRate() }

func (s *Synth) r() float64 {
	v := s.rng.Float64()
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v >= 1 {
		return math.Nextafter(1, 0)
	}
	return v
}

// pick returns a random index in [0, n).
func (s *Synth) pick(n int) int {
	return int(s.r() * float64(n))
}

func (s *Synth) schedule(v *graph.Voice) *graph.Voice {
	s.bus.Schedule(v)
	return v
}

// MIDIToFreq converts a (possibly fractional) MIDI note number to Hz.
func MIDIToFreq(note float64) float64 {
	return 440 * math.Pow(2, (note-69)/12)
}

// percussive builds the attack-then-exponential-decay envelope shared by the
// drums and the bass.
func percussive(time, peak, attack, end float64) *effects.Gain {
	env := effects.NewGain(0)
	env.Gain.SetValueAtTime(0, time)
	env.Gain.LinearRampToValueAtTime(peak, time+attack)
	env.Gain.ExponentialRampToValueAtTime(0.001, end)
	return env
}
