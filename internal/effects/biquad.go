package effects

import (
	"math"

	"github.com/cbegin/soundscape-go/internal/param"
)

// FilterType selects the biquad response.
type FilterType int

const (
	Lowpass FilterType = iota
	Highpass
	Bandpass
)

func (f FilterType) String() string {
	switch f {
	case Highpass:
		return "highpass"
	case Bandpass:
		return "bandpass"
	default:
		return "lowpass"
	}
}

const minQ = 1e-4

// Biquad is a second-order filter with automatable frequency and Q.
// Lowpass and highpass read Q as resonance in dB; bandpass reads it as a
// plain quality factor. Frequency is clamped to (10 Hz, Nyquist).
type Biquad struct {
	kind       FilterType
	sampleRate float64
	Frequency  *param.Param
	Q          *param.Param

	lastFreq, lastQ    float64
	b0, b1, b2, a1, a2 float64
	z1, z2             float64
}

// NewBiquad creates a filter at freq Hz with the given Q.
func NewBiquad(kind FilterType, sampleRate int, freq, q float64) *Biquad {
	return &Biquad{
		kind:       kind,
		sampleRate: float64(sampleRate),
		Frequency:  param.New(freq),
		Q:          param.New(q),
		lastFreq:   math.NaN(),
	}
}

func (b *Biquad) Process(t, x float64) float64 {
	freq := b.Frequency.ValueAt(t)
	q := b.Q.ValueAt(t)
	if freq != b.lastFreq || q != b.lastQ {
		b.design(freq, q)
	}
	// transposed direct form II
	y := b.b0*x + b.z1
	b.z1 = b.b1*x - b.a1*y + b.z2
	b.z2 = b.b2*x - b.a2*y
	return y
}

func (b *Biquad) Reset() {
	b.z1, b.z2 = 0, 0
}

func (b *Biquad) design(freq, q float64) {
	b.lastFreq, b.lastQ = freq, q
	nyquist := b.sampleRate / 2
	f := clamp(freq, 10, nyquist*0.999)
	if math.IsNaN(q) {
		q = 1
	}
	w0 := 2 * math.Pi * f / b.sampleRate
	cosw, sinw := math.Cos(w0), math.Sin(w0)

	var alpha float64
	switch b.kind {
	case Bandpass:
		alpha = sinw / (2 * math.Max(q, minQ))
	default:
		alpha = sinw / (2 * math.Max(math.Pow(10, q/20), minQ))
	}

	var b0, b1, b2 float64
	switch b.kind {
	case Highpass:
		b0 = (1 + cosw) / 2
		b1 = -(1 + cosw)
		b2 = (1 + cosw) / 2
	case Bandpass:
		b0 = alpha
		b1 = 0
		b2 = -alpha
	default:
		b0 = (1 - cosw) / 2
		b1 = 1 - cosw
		b2 = (1 - cosw) / 2
	}
	a0 := 1 + alpha
	b.b0 = b0 / a0
	b.b1 = b1 / a0
	b.b2 = b2 / a0
	b.a1 = -2 * cosw / a0
	b.a2 = (1 - alpha) / a0
}
