package graph

import (
	"math"

	"github.com/cbegin/soundscape-go/internal/param"
)

// Source produces one mono sample per call at absolute time t.
type Source interface {
	Next(t float64) float64
}

// Waveform selects an oscillator shape.
type Waveform int

const (
	Sine Waveform = iota
	Square
	Sawtooth
	Triangle
)

func (w Waveform) String() string {
	switch w {
	case Square:
		return "square"
	case Sawtooth:
		return "sawtooth"
	case Triangle:
		return "triangle"
	default:
		return "sine"
	}
}

// Oscillator is a band-limited periodic source. Frequency is in Hz and
// Detune in cents; both are automatable.
type Oscillator struct {
	wave       Waveform
	sampleRate float64
	phase      float64
	Frequency  *param.Param
	Detune     *param.Param
}

func NewOscillator(wave Waveform, sampleRate int, freq float64) *Oscillator {
	return &Oscillator{
		wave:       wave,
		sampleRate: float64(sampleRate),
		Frequency:  param.New(freq),
		Detune:     param.New(0),
	}
}

// Wave returns the oscillator shape.
func (o *Oscillator) Wave() Waveform { return o.wave }

func (o *Oscillator) Next(t float64) float64 {
	freq := o.Frequency.ValueAt(t)
	if cents := o.Detune.ValueAt(t); cents != 0 {
		freq *= math.Pow(2, cents/1200)
	}
	dt := freq / o.sampleRate
	if math.IsNaN(dt) || math.IsInf(dt, 0) {
		dt = 0
	}
	dt = math.Min(math.Abs(dt), 0.5)

	p := o.phase
	var out float64
	switch o.wave {
	case Square:
		out = -1
		if p < 0.5 {
			out = 1
		}
		out += polyBLEP(p, dt)
		out -= polyBLEP(math.Mod(p+0.5, 1), dt)
	case Sawtooth:
		out = 2*p - 1
		out -= polyBLEP(p, dt)
	case Triangle:
		out = 1 - 4*math.Abs(p-0.5)
	default:
		out = math.Sin(2 * math.Pi * p)
	}

	o.phase += dt
	if o.phase >= 1 {
		o.phase -= 1
	}
	return out
}

// polyBLEP reduces aliasing at waveform discontinuities.
// t is the phase position [0,1), dt is the phase increment per sample.
func polyBLEP(t, dt float64) float64 {
	if dt <= 0 {
		return 0
	}
	if t < dt {
		t /= dt
		return t + t - t*t - 1
	}
	if t > 1-dt {
		t = (t - 1) / dt
		return t*t + t + t + 1
	}
	return 0
}

// NoiseDuration is the length of a one-shot noise buffer in seconds.
const NoiseDuration = 0.25

// Noise plays a buffer of white noise once, then falls silent.
type Noise struct {
	buf []float64
	pos int
}

// NewNoise fills a NoiseDuration buffer from next, which must return values in [0, 1).
func NewNoise(sampleRate int, next func() float64) *Noise {
	n := int(float64(sampleRate) * NoiseDuration)
	buf := make([]float64, n)
	for i := range buf {
		buf[i] = next()*2 - 1
	}
	return &Noise{buf: buf}
}

func (n *Noise) Next(float64) float64 {
	if n.pos >= len(n.buf) {
		return 0
	}
	v := n.buf[n.pos]
	n.pos++
	return v
}

// Len returns the buffer length in samples.
func (n *Noise) Len() int { return len(n.buf) }
