package effects

import (
	"math"

	"github.com/cbegin/soundscape-go/internal/param"
)

// Comb and diffusion tunings of the algorithmic reverb.
var (
	CombDelays     = [4]float64{0.0297, 0.0371, 0.0411, 0.0437}
	CombFeedbacks  = [4]float64{0.75, 0.70, 0.68, 0.65}
	DiffuserDelays = [4]float64{0.0051, 0.0077, 0.0100, 0.0126}
)

const (
	combDampingHz = 3500
	diffuserGain  = 0.7
	// DefaultWetness is the wetness the reverb starts with before any macro update.
	DefaultWetness = 0.5
)

// Reverb is a Schroeder-style reverb: four parallel damped combs summed with
// the wet input into a bus, then four series allpass diffusers. It produces
// only the wet tail; the dry signal is routed around it by the graph.
type Reverb struct {
	combs   [4]combFilter
	allpass [4]allpassFilter
	Input   *param.Param
	Wetness *param.Param
}

type combFilter struct {
	buf   []float64
	pos   int
	fb    float64
	alpha float64
	lp    float64
}

type allpassFilter struct {
	buf  []float64
	pos  int
	gain float64
}

// NewReverb creates the reverb with its fixed tunings.
func NewReverb(sampleRate int) *Reverb {
	sr := float64(sampleRate)
	r := &Reverb{
		Input:   param.New(1),
		Wetness: param.New(DefaultWetness),
	}
	alpha := onePoleAlpha(combDampingHz, sr)
	for i := range r.combs {
		r.combs[i] = combFilter{
			buf:   make([]float64, maxInt(int(CombDelays[i]*sr), 1)),
			fb:    CombFeedbacks[i],
			alpha: alpha,
		}
	}
	for i := range r.allpass {
		r.allpass[i] = allpassFilter{
			buf:  make([]float64, maxInt(int(DiffuserDelays[i]*sr), 1)),
			gain: diffuserGain,
		}
	}
	return r
}

func (r *Reverb) Process(t, x float64) float64 {
	wet := x * r.Input.ValueAt(t) * r.Wetness.ValueAt(t)
	bus := wet
	for i := range r.combs {
		bus += r.combs[i].process(wet)
	}
	for i := range r.allpass {
		bus = r.allpass[i].process(bus)
	}
	return bus
}

func (r *Reverb) Reset() {
	for i := range r.combs {
		for j := range r.combs[i].buf {
			r.combs[i].buf[j] = 0
		}
		r.combs[i].pos = 0
		r.combs[i].lp = 0
	}
	for i := range r.allpass {
		for j := range r.allpass[i].buf {
			r.allpass[i].buf[j] = 0
		}
		r.allpass[i].pos = 0
	}
}

func (c *combFilter) process(in float64) float64 {
	out := c.buf[c.pos]
	c.lp += c.alpha * (out - c.lp)
	c.buf[c.pos] = in + c.lp*c.fb
	c.pos++
	if c.pos >= len(c.buf) {
		c.pos = 0
	}
	return out
}

func (a *allpassFilter) process(in float64) float64 {
	bufOut := a.buf[a.pos]
	out := -a.gain*in + bufOut
	a.buf[a.pos] = in + bufOut*a.gain
	a.pos++
	if a.pos >= len(a.buf) {
		a.pos = 0
	}
	return out
}

// onePoleAlpha returns the smoothing coefficient of an RC lowpass at cutoff.
func onePoleAlpha(cutoff, sampleRate float64) float64 {
	rc := 1.0 / (2.0 * math.Pi * cutoff)
	dt := 1.0 / sampleRate
	return dt / (rc + dt)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
