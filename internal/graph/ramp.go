package graph

import "github.com/cbegin/soundscape-go/internal/mood"

// Smoothing time constants in seconds.
const (
	RampTau = 0.05 // macro parameter updates
	FadeTau = 0.2  // transport start and stop
)

// RampController moves the graph's continuous controls toward the macro
// parameters with an exponential approach instead of stepping them.
type RampController struct {
	ctx *Context
}

func NewRampController(ctx *Context) *RampController {
	return &RampController{ctx: ctx}
}

// Apply targets every continuous control at p. The master gain aims for
// p.MasterVolume while playing and for silence otherwise.
func (r *RampController) Apply(p mood.MacroParams, playing bool) {
	r.ctx.Update(func(now float64, g *SignalGraph) {
		master := 0.0
		if playing {
			master = p.MasterVolume
		}
		g.MasterGain.SetTargetAtTime(master, now, RampTau)
		g.Panner.Pan.SetTargetAtTime(p.Pan, now, RampTau)
		g.Delay.Time.SetTargetAtTime(p.DelayTime, now, RampTau)
		g.DelayFeedback.SetTargetAtTime(p.DelayFeedback, now, RampTau)
		g.Reverb.Wetness.SetTargetAtTime(p.Reverb, now, RampTau)
	})
}

// Fade drops pending master-gain automation and glides from the current
// level to target.
func (r *RampController) Fade(target float64) {
	r.ctx.Update(func(now float64, g *SignalGraph) {
		g.MasterGain.CancelScheduledValues(now)
		g.MasterGain.SetTargetAtTime(target, now, FadeTau)
	})
}
