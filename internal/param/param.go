// Package param implements automatable control values evaluated against an
// absolute timeline in seconds.
//
// A Param holds an anchor (the value in force at some past time) followed by
// a time-ordered list of events. Evaluation walks the events the same way a
// render path would: set events jump, ramps interpolate from the previous
// event, and target events approach their target exponentially until the next
// event starts. A ramp placed directly after a target event steps at its own
// time; callers wanting a smooth curve from a target should cancel first.
package param

import (
	"math"
	"sort"
)

type eventKind int

const (
	eventSet eventKind = iota
	eventLinear
	eventExp
	eventTarget
)

type event struct {
	kind  eventKind
	time  float64
	value float64
	tau   float64
}

// Param is a single automatable value. It is not safe for concurrent use;
// the owning graph serialises access.
type Param struct {
	anchorValue float64
	anchorTime  float64
	events      []event
	min, max    float64
}

// New returns a param resting at value with no range limits. A non-finite
// value rests at zero.
func New(value float64) *Param {
	p := &Param{min: math.Inf(-1), max: math.Inf(1)}
	if finite(value) {
		p.anchorValue = value
	}
	return p
}

// NewRange returns a param whose output is clamped to [min, max].
func NewRange(value, min, max float64) *Param {
	p := &Param{min: min, max: max}
	if finite(value) {
		p.anchorValue = value
	}
	p.anchorValue = p.clamp(p.anchorValue)
	return p
}

// Every setter ignores non-finite values and times, leaving the curve as it
// was.

// SetValue drops all automation and holds v from now on.
func (p *Param) SetValue(v float64) {
	if !finite(v) {
		return
	}
	p.anchorValue = v
	p.anchorTime = 0
	p.events = p.events[:0]
}

// SetValueAtTime jumps to v at time t.
func (p *Param) SetValueAtTime(v, t float64) {
	if !finite(v) || !finite(t) {
		return
	}
	p.insert(event{kind: eventSet, time: t, value: v})
}

// LinearRampToValueAtTime ramps linearly from the previous event to v, arriving at t.
func (p *Param) LinearRampToValueAtTime(v, t float64) {
	if !finite(v) || !finite(t) {
		return
	}
	p.insert(event{kind: eventLinear, time: t, value: v})
}

// ExponentialRampToValueAtTime ramps geometrically from the previous event to
// v, arriving at t. A ramp whose endpoints are zero or differ in sign holds
// the previous value until t.
func (p *Param) ExponentialRampToValueAtTime(v, t float64) {
	if !finite(v) || !finite(t) {
		return
	}
	p.insert(event{kind: eventExp, time: t, value: v})
}

// SetTargetAtTime starts an exponential approach to target at time t with
// time constant tau seconds.
func (p *Param) SetTargetAtTime(target, t, tau float64) {
	if !finite(target) || !finite(t) || math.IsNaN(tau) {
		return
	}
	if tau <= 0 {
		p.SetValueAtTime(target, t)
		return
	}
	p.insert(event{kind: eventTarget, time: t, value: target, tau: tau})
}

// CancelScheduledValues removes every event at or after t. The curve up to t
// is left intact, so a following target starts from wherever the value sits.
func (p *Param) CancelScheduledValues(t float64) {
	i := sort.Search(len(p.events), func(i int) bool { return p.events[i].time >= t })
	p.events = p.events[:i]
}

// Pending reports the number of scheduled events not yet folded into the anchor.
func (p *Param) Pending() int { return len(p.events) }

func (p *Param) insert(e event) {
	i := sort.Search(len(p.events), func(i int) bool { return p.events[i].time > e.time })
	p.events = append(p.events, event{})
	copy(p.events[i+1:], p.events[i:])
	p.events[i] = e
}

// ValueAt evaluates the param at time t.
func (p *Param) ValueAt(t float64) float64 {
	return p.clamp(p.eval(t))
}

func (p *Param) eval(t float64) float64 {
	v, start := p.anchorValue, p.anchorTime
	for i, e := range p.events {
		switch e.kind {
		case eventLinear, eventExp:
			if t < e.time {
				return ramp(e.kind, v, e.value, start, e.time, t)
			}
			v, start = e.value, e.time
		case eventSet:
			if t < e.time {
				return v
			}
			v, start = e.value, e.time
		case eventTarget:
			if t < e.time {
				return v
			}
			next := math.Inf(1)
			if i+1 < len(p.events) {
				next = p.events[i+1].time
			}
			if t < next {
				return approach(v, e, t)
			}
			v, start = approach(v, e, next), next
		}
	}
	return v
}

// Prune folds events that can no longer influence values at or after now
// into the anchor. Render paths call it once per buffer.
func (p *Param) Prune(now float64) {
	n := 0
	v, start := p.anchorValue, p.anchorTime
	for n < len(p.events) {
		e := p.events[n]
		if e.kind == eventTarget {
			if n+1 >= len(p.events) || p.events[n+1].time > now {
				break
			}
			next := p.events[n+1].time
			v, start = approach(v, e, next), next
		} else {
			if e.time > now {
				break
			}
			v, start = e.value, e.time
		}
		n++
	}
	if n == 0 {
		return
	}
	p.anchorValue, p.anchorTime = v, start
	p.events = append(p.events[:0], p.events[n:]...)
}

func (p *Param) clamp(v float64) float64 {
	if math.IsNaN(v) {
		v = 0
	}
	if v < p.min {
		return p.min
	}
	if v > p.max {
		return p.max
	}
	return v
}

func ramp(kind eventKind, v0, v1, t0, t1, t float64) float64 {
	if t1 <= t0 {
		return v1
	}
	frac := (t - t0) / (t1 - t0)
	if frac < 0 {
		frac = 0
	}
	if kind == eventLinear {
		return v0 + (v1-v0)*frac
	}
	if v0 == 0 || v1 == 0 || (v0 < 0) != (v1 < 0) {
		return v0
	}
	return v0 * math.Pow(v1/v0, frac)
}

func approach(from float64, e event, t float64) float64 {
	return e.value + (from-e.value)*math.Exp(-(t-e.time)/e.tau)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
