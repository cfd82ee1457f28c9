package effects

import "math"

// maxCurveLen caps the length of generated shaping curves.
const maxCurveLen = 48000

// MakeDistortionCurve builds a soft-clipping transfer curve. Larger amounts
// bend harder; the curve spans inputs from -1 to 1.
func MakeDistortionCurve(amount float64, sampleRate int) []float64 {
	n := sampleRate
	if n > maxCurveLen {
		n = maxCurveLen
	}
	if n < 2 {
		n = 2
	}
	curve := make([]float64, n)
	deg := math.Pi / 180
	for i := range curve {
		x := float64(i)*2/float64(n) - 1
		curve[i] = ((3 + amount) * x * 20 * deg) / (math.Pi + amount*math.Abs(x))
	}
	return curve
}

// Shaper maps each input through a transfer curve with linear interpolation.
// Inputs outside [-1, 1] take the curve's end values.
type Shaper struct {
	curve []float64
}

func NewShaper(curve []float64) *Shaper {
	return &Shaper{curve: curve}
}

func (s *Shaper) Process(_, x float64) float64 {
	n := len(s.curve)
	if n == 0 {
		return x
	}
	if n == 1 {
		return s.curve[0]
	}
	pos := (x + 1) * 0.5 * float64(n-1)
	if !(pos > 0) {
		return s.curve[0]
	}
	if pos >= float64(n-1) {
		return s.curve[n-1]
	}
	idx := int(pos)
	frac := pos - float64(idx)
	return s.curve[idx]*(1-frac) + s.curve[idx+1]*frac
}

func (s *Shaper) Reset() {}
