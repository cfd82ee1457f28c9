package effects

import "github.com/cbegin/soundscape-go/internal/param"

// Delay is a mono delay line with an automatable delay time. Reads use linear
// interpolation so time changes glide instead of clicking.
//
// Feedback is wired by the caller: Tap the delayed sample, then Push the new
// input plus whatever share of the tap should recirculate.
type Delay struct {
	buf        []float64
	pos        int
	sampleRate float64
	Time       *param.Param
}

// NewDelay creates a delay line holding up to maxSec seconds, initially set
// to delaySec. The time control is clamped to the line's capacity.
func NewDelay(sampleRate int, maxSec, delaySec float64) *Delay {
	samples := int(maxSec*float64(sampleRate)) + 2
	if samples < 4 {
		samples = 4
	}
	return &Delay{
		buf:        make([]float64, samples),
		sampleRate: float64(sampleRate),
		Time:       param.NewRange(delaySec, 0, maxSec),
	}
}

// Tap reads the delayed sample for time t without advancing the line.
func (d *Delay) Tap(t float64) float64 {
	size := len(d.buf)
	// at least one sample, so a feedback loop never reads what it is writing
	delay := clamp(d.Time.ValueAt(t)*d.sampleRate, 1, float64(size-2))
	readPos := float64(d.pos) - delay
	for readPos < 0 {
		readPos += float64(size)
	}
	idx := int(readPos)
	frac := readPos - float64(idx)
	idx2 := idx + 1
	if idx2 >= size {
		idx2 = 0
	}
	return d.buf[idx]*(1-frac) + d.buf[idx2]*frac
}

// Push writes x and advances the line by one sample.
func (d *Delay) Push(x float64) {
	d.buf[d.pos] = x
	d.pos++
	if d.pos >= len(d.buf) {
		d.pos = 0
	}
}

// Process is a plain delay with no feedback.
func (d *Delay) Process(t, x float64) float64 {
	out := d.Tap(t)
	d.Push(x)
	return out
}

func (d *Delay) Reset() {
	for i := range d.buf {
		d.buf[i] = 0
	}
	d.pos = 0
}
