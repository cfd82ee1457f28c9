// Package sequencer drives the 16-step pattern with a look-ahead scheduler.
//
// A coarse wall-clock ticker wakes the scheduler; on each tick it schedules
// every step whose start time falls inside the look-ahead window of the
// audio clock. The ticker only has to run more often than the window is
// long, not with sample accuracy.
package sequencer

import (
	"sync"
	"time"
)

const (
	// Steps is the pattern length in sixteenth notes.
	Steps = 16
	// LeadIn is the gap between starting the transport and the first step.
	LeadIn = 0.1
	// LookAhead is how far past the clock steps are scheduled, in seconds.
	LookAhead = 0.15
	// DefaultTickPeriod is the wall-clock interval between scheduler wakeups.
	DefaultTickPeriod = 40 * time.Millisecond

	fallbackStep = 0.125
	// minStep bounds how many steps one tick can fire.
	minStep = 0.01
)

// Clock reports the audio time in seconds.
type Clock interface {
	CurrentTime() float64
}

// TriggerFunc sounds one step at an absolute audio time.
type TriggerFunc func(at float64, step int)

// Scheduler owns the transport position. Tick may be driven directly or
// from the ticker goroutine started by Start.
type Scheduler struct {
	clock      Clock
	stepLength func() float64
	trigger    TriggerFunc
	period     time.Duration

	mu   sync.Mutex
	step int
	next float64
	stop chan struct{}
	done chan struct{}
}

// NewScheduler returns a stopped scheduler. stepLength is read before every
// step so tempo changes land on the next sixteenth.
func NewScheduler(clock Clock, stepLength func() float64, trigger TriggerFunc, period time.Duration) *Scheduler {
	if period <= 0 {
		period = DefaultTickPeriod
	}
	return &Scheduler{
		clock:      clock,
		stepLength: stepLength,
		trigger:    trigger,
		period:     period,
	}
}

// Reset rewinds to step 0 with the first step LeadIn after now.
func (s *Scheduler) Reset(now float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.step = 0
	s.next = now + LeadIn
}

// Tick schedules every step starting before now+LookAhead and returns how
// many fired.
func (s *Scheduler) Tick(now float64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for s.next < now+LookAhead {
		s.trigger(s.next, s.step)
		dt := s.stepLength()
		if !(dt > 0) {
			dt = fallbackStep
		}
		dt = max(dt, minStep)
		s.next += dt
		s.step = (s.step + 1) % Steps
		n++
	}
	return n
}

// Position returns the next step and its start time.
func (s *Scheduler) Position() (step int, next float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.step, s.next
}

// Start rewinds and begins ticking. A running scheduler is restarted from
// step 0.
func (s *Scheduler) Start() {
	s.Stop()
	s.Reset(s.clock.CurrentTime())

	stop := make(chan struct{})
	done := make(chan struct{})
	s.mu.Lock()
	s.stop, s.done = stop, done
	s.mu.Unlock()
	go s.run(stop, done)
}

// Stop halts the ticker and waits for an in-flight tick to finish. Steps
// already handed to the trigger are left alone.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	stop, done := s.stop, s.done
	s.stop, s.done = nil, nil
	s.mu.Unlock()
	if stop == nil {
		return
	}
	close(stop)
	<-done
}

// Running reports whether the ticker goroutine is active.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stop != nil
}

func (s *Scheduler) run(stop, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(s.period)
	defer ticker.Stop()

	s.Tick(s.clock.CurrentTime())
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			select {
			case <-stop:
				return
			default:
			}
			s.Tick(s.clock.CurrentTime())
		}
	}
}
