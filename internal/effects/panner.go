package effects

import (
	"math"

	"github.com/cbegin/soundscape-go/internal/param"
)

// Panner places a mono signal in the stereo field with an equal-power law.
// Pan runs from -1 (hard left) to 1 (hard right).
type Panner struct {
	Pan *param.Param
}

func NewPanner(pan float64) *Panner {
	return &Panner{Pan: param.NewRange(pan, -1, 1)}
}

func (p *Panner) Process(t, x float64) (float64, float64) {
	angle := (p.Pan.ValueAt(t) + 1) / 2 * (math.Pi / 2)
	return x * math.Cos(angle), x * math.Sin(angle)
}
