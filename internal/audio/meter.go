package audio

import (
	"math"
	"sync/atomic"

	"github.com/viterin/vek/vek32"
)

// Meter tracks the RMS and peak level of the most recent buffer. Observe
// runs on the render path; Level and Peak may be read from anywhere.
type Meter struct {
	rms  atomic.Uint32
	peak atomic.Uint32
	tmp  []float32
}

// Observe measures buf, an interleaved stereo buffer.
func (m *Meter) Observe(buf []float32) {
	if len(buf) == 0 {
		return
	}
	if cap(m.tmp) < len(buf) {
		m.tmp = make([]float32, len(buf))
	}
	tmp := m.tmp[:len(buf)]
	sq := vek32.Mul_Into(tmp, buf, buf)
	m.rms.Store(math.Float32bits(float32(math.Sqrt(float64(vek32.Mean(sq))))))

	abs := vek32.Abs_Into(tmp, buf)
	m.peak.Store(math.Float32bits(vek32.Max(abs)))
}

// Level returns the RMS of the last observed buffer.
func (m *Meter) Level() float32 { return math.Float32frombits(m.rms.Load()) }

// Peak returns the largest absolute sample of the last observed buffer.
func (m *Meter) Peak() float32 { return math.Float32frombits(m.peak.Load()) }
