package graph

import (
	"math"

	"github.com/cbegin/soundscape-go/internal/effects"
	"github.com/cbegin/soundscape-go/internal/mood"
	"github.com/cbegin/soundscape-go/internal/param"
)

// Node names the persistent stages of the signal graph.
type Node string

const (
	MixBus        Node = "mixBus"
	DelayLine     Node = "delayLine"
	DelayFeedback Node = "delayFeedbackGain"
	DelayWet      Node = "delayWetGain"
	ReverbInput   Node = "reverbInput"
	ReverbOutput  Node = "reverbOutput"
	Panner        Node = "panner"
	MasterGain    Node = "masterGain"
	Output        Node = "output"
)

// Edge is a directed connection between two nodes.
type Edge struct {
	From, To Node
}

// MaxDelay is the capacity of the delay line in seconds.
const MaxDelay = 4.0

// SignalGraph is the fixed processing chain every voice feeds into. It is
// built once and never rewired.
type SignalGraph struct {
	Delay         *effects.Delay
	DelayFeedback *param.Param
	DelayWet      *param.Param
	Reverb        *effects.Reverb
	Panner        *effects.Panner
	MasterGain    *param.Param

	limiter *effects.Compressor
	edges   []Edge
}

// NewSignalGraph wires the graph for p. The master gain starts at zero
// whatever p.MasterVolume says; the transport fades it in.
func NewSignalGraph(sampleRate int, p mood.MacroParams, limit bool) *SignalGraph {
	g := &SignalGraph{
		Delay:         effects.NewDelay(sampleRate, MaxDelay, p.DelayTime),
		DelayFeedback: param.NewRange(p.DelayFeedback, 0, 0.95),
		DelayWet:      param.New(1),
		Reverb:        effects.NewReverb(sampleRate),
		Panner:        effects.NewPanner(p.Pan),
		MasterGain:    param.NewRange(0, 0, 1),
		edges: []Edge{
			{MixBus, DelayLine},
			{DelayLine, DelayFeedback},
			{DelayFeedback, DelayLine},
			{DelayLine, DelayWet},
			{MixBus, ReverbInput},
			{DelayWet, ReverbInput},
			{ReverbInput, ReverbOutput},
			{MixBus, Panner},
			{DelayWet, Panner},
			{ReverbOutput, Panner},
			{Panner, MasterGain},
			{MasterGain, Output},
		},
	}
	g.Reverb.Wetness = param.NewRange(effects.DefaultWetness, 0, 1)
	if limit {
		g.limiter = effects.NewLimiter(sampleRate)
	}
	return g
}

// Edges returns a copy of the connection list.
func (g *SignalGraph) Edges() []Edge {
	return append([]Edge(nil), g.edges...)
}

// Process runs one mix-bus sample through the graph and returns the stereo
// output. A non-finite mix is treated as silence so it never reaches the
// delay and reverb memories.
func (g *SignalGraph) Process(t, mix float64) (float64, float64) {
	if math.IsNaN(mix) || math.IsInf(mix, 0) {
		mix = 0
	}
	tap := g.Delay.Tap(t)
	g.Delay.Push(mix + tap*g.DelayFeedback.ValueAt(t))
	wet := tap * g.DelayWet.ValueAt(t)

	rev := g.Reverb.Process(t, mix+wet)

	l, r := g.Panner.Process(t, mix+wet+rev)
	m := g.MasterGain.ValueAt(t)
	l, r = l*m, r*m
	if g.limiter != nil {
		l, r = g.limiter.ProcessStereo(l, r)
	}
	return l, r
}

// Params lists every automatable control of the graph.
func (g *SignalGraph) Params() []*param.Param {
	return []*param.Param{
		g.Delay.Time,
		g.DelayFeedback,
		g.DelayWet,
		g.Reverb.Input,
		g.Reverb.Wetness,
		g.Panner.Pan,
		g.MasterGain,
	}
}

// Prune folds elapsed automation into each control's resting value.
func (g *SignalGraph) Prune(now float64) {
	for _, p := range g.Params() {
		p.Prune(now)
	}
}
