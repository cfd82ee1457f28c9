// Package graph renders the engine's audio: a sample clock, the fixed signal
// graph, and the short-lived voices scheduled against that clock.
//
// The context is the only owner of graph state. The output sink pulls
// buffers through Process while the scheduler and parameter updates reach
// the graph through Schedule and Update; all three share one lock.
package graph

import (
	"math"
	"sync"
	"sync/atomic"
)

// Context is the audio clock and render path.
type Context struct {
	mu         sync.Mutex
	sampleRate int
	frames     atomic.Int64
	graph      *SignalGraph
	voices     []*Voice
	tap        func([]float32)
}

// NewContext renders g at sampleRate. The clock starts at zero.
func NewContext(sampleRate int, g *SignalGraph) *Context {
	return &Context{sampleRate: sampleRate, graph: g}
}

// SampleRate returns the render rate in Hz.
func (c *Context) SampleRate() int { return c.sampleRate }

// CurrentTime returns the time of the next sample to be rendered, in seconds.
func (c *Context) CurrentTime() float64 {
	return float64(c.frames.Load()) / float64(c.sampleRate)
}

// SetTap installs a callback that sees every rendered buffer. It runs on
// the render path and must not block.
func (c *Context) SetTap(tap func([]float32)) {
	c.mu.Lock()
	c.tap = tap
	c.mu.Unlock()
}

// Schedule hands v to the render path. Voices that would already have
// finished are discarded.
func (c *Context) Schedule(v *Voice) {
	if v == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if v.Stop <= c.CurrentTime() {
		return
	}
	c.voices = append(c.voices, v)
}

// Update runs fn with the graph locked against rendering. now is the
// current clock time.
func (c *Context) Update(fn func(now float64, g *SignalGraph)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(c.CurrentTime(), c.graph)
}

// ActiveVoices returns the number of voices not yet dropped.
func (c *Context) ActiveVoices() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.voices)
}

// Process renders interleaved stereo float32 frames into dst and advances
// the clock.
func (c *Context) Process(dst []float32) {
	c.mu.Lock()
	defer c.mu.Unlock()

	frames := len(dst) / 2
	base := c.frames.Load()
	sr := float64(c.sampleRate)
	for i := 0; i < frames; i++ {
		t := float64(base+int64(i)) / sr
		var mix float64
		for _, v := range c.voices {
			if v.Sounding(t) {
				// a voice built from bad controls drops out alone
				if y := v.Render(t); !math.IsNaN(y) && !math.IsInf(y, 0) {
					mix += y
				}
			}
		}
		l, r := c.graph.Process(t, mix)
		dst[i*2] = clip(l)
		dst[i*2+1] = clip(r)
	}
	if len(dst)%2 == 1 {
		dst[len(dst)-1] = 0
	}
	c.frames.Add(int64(frames))

	now := c.CurrentTime()
	live := c.voices[:0]
	for _, v := range c.voices {
		if v.Stop > now {
			live = append(live, v)
		}
	}
	for i := len(live); i < len(c.voices); i++ {
		c.voices[i] = nil
	}
	c.voices = live
	c.graph.Prune(now)

	if c.tap != nil {
		c.tap(dst)
	}
}

func clip(v float64) float32 {
	if math.IsNaN(v) {
		return 0
	}
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return float32(v)
}
