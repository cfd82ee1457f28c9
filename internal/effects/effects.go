package effects

import "github.com/cbegin/soundscape-go/internal/param"

// Effector processes one mono sample at absolute time t (seconds). Time is
// passed in so automated parameters can be evaluated per sample.
type Effector interface {
	Process(t, x float64) float64
	Reset()
}

// Chain applies a sequence of effects in order.
type Chain struct {
	effects []Effector
}

func NewChain(effects ...Effector) *Chain {
	return &Chain{effects: effects}
}

func (c *Chain) Process(t, x float64) float64 {
	for _, e := range c.effects {
		x = e.Process(t, x)
	}
	return x
}

func (c *Chain) Reset() {
	for _, e := range c.effects {
		e.Reset()
	}
}

// Len returns the number of effects in the chain.
func (c *Chain) Len() int { return len(c.effects) }

// Gain multiplies by an automatable factor.
type Gain struct {
	Gain *param.Param
}

// NewGain creates a gain stage resting at value.
func NewGain(value float64) *Gain {
	return &Gain{Gain: param.New(value)}
}

func (g *Gain) Process(t, x float64) float64 {
	return x * g.Gain.ValueAt(t)
}

func (g *Gain) Reset() {}

// clamp maps NaN to lo.
func clamp(v, lo, hi float64) float64 {
	if !(v >= lo) {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
