package sequencer

import (
	"math"
	"sync"
	"testing"
	"time"
)

type manualClock struct {
	mu  sync.Mutex
	now float64
}

func (c *manualClock) CurrentTime() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) Set(t float64) {
	c.mu.Lock()
	c.now = t
	c.mu.Unlock()
}

type hit struct {
	at   float64
	step int
}

type recorder struct {
	mu   sync.Mutex
	hits []hit
}

func (r *recorder) trigger(at float64, step int) {
	r.mu.Lock()
	r.hits = append(r.hits, hit{at, step})
	r.mu.Unlock()
}

func (r *recorder) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.hits)
}

func fixedStep(tempo float64) func() float64 {
	return func() float64 { return 60 / tempo / 4 }
}

func TestTickSchedulesInsideWindow(t *testing.T) {
	rec := &recorder{}
	s := NewScheduler(&manualClock{}, fixedStep(120), rec.trigger, 0)
	s.Reset(0)

	if n := s.Tick(0); n != 1 {
		t.Fatalf("first tick fired %d steps, want 1", n)
	}
	if rec.hits[0] != (hit{0.1, 0}) {
		t.Fatalf("first step %+v, want lead-in at 0.1", rec.hits[0])
	}
	if n := s.Tick(0.1); n != 1 {
		t.Fatalf("second tick fired %d steps, want 1", n)
	}
	if h := rec.hits[1]; h.step != 1 || math.Abs(h.at-0.225) > 1e-12 {
		t.Fatalf("second step %+v", h)
	}
	if n := s.Tick(0.1); n != 0 {
		t.Fatalf("repeat tick fired %d steps", n)
	}
}

func TestWindowStaysFilledAcrossTempos(t *testing.T) {
	for tempo := 80.0; tempo <= 160; tempo += 10 {
		rec := &recorder{}
		s := NewScheduler(&manualClock{}, fixedStep(tempo), rec.trigger, 0)
		s.Reset(0)
		for now := 0.0; now < 8; now += 0.04 {
			s.Tick(now)
			if _, next := s.Position(); next < now+LookAhead {
				t.Fatalf("tempo %v: window not filled at %f (next %f)", tempo, now, next)
			}
		}
		want := 60 / tempo / 4
		for i := 1; i < len(rec.hits); i++ {
			gap := rec.hits[i].at - rec.hits[i-1].at
			if math.Abs(gap-want) > 1e-9 {
				t.Fatalf("tempo %v: gap %f, want %f", tempo, gap, want)
			}
			if rec.hits[i].step != (rec.hits[i-1].step+1)%Steps {
				t.Fatalf("tempo %v: step %d followed %d", tempo, rec.hits[i].step, rec.hits[i-1].step)
			}
		}
	}
}

func TestTempoChangeAppliesToNextStep(t *testing.T) {
	rec := &recorder{}
	length := 0.125
	s := NewScheduler(&manualClock{}, func() float64 { return length }, rec.trigger, 0)
	s.Reset(0)
	s.Tick(0)
	length = 0.1
	s.Tick(0.2)
	if len(rec.hits) < 3 {
		t.Fatalf("got %d hits", len(rec.hits))
	}
	// the gap after the first step was measured before the change
	if gap := rec.hits[1].at - rec.hits[0].at; math.Abs(gap-0.125) > 1e-12 {
		t.Errorf("first gap %f", gap)
	}
	if gap := rec.hits[2].at - rec.hits[1].at; math.Abs(gap-0.1) > 1e-12 {
		t.Errorf("gap after tempo change %f, want 0.1", gap)
	}
}

func TestBadStepLengthStillAdvances(t *testing.T) {
	rec := &recorder{}
	s := NewScheduler(&manualClock{}, func() float64 { return math.NaN() }, rec.trigger, 0)
	s.Reset(0)
	if n := s.Tick(1); n == 0 || n > 20 {
		t.Fatalf("fired %d steps", n)
	}
}

func TestTinyStepLengthIsBounded(t *testing.T) {
	rec := &recorder{}
	s := NewScheduler(&manualClock{}, func() float64 { return 60 / 1e9 / 4 }, rec.trigger, 0)
	s.Reset(0)
	if n := s.Tick(0); n == 0 || n > 5 {
		t.Fatalf("first tick fired %d steps", n)
	}
	if n := s.Tick(1); n > 110 {
		t.Fatalf("one second of ticks fired %d steps", n)
	}
	for i := 1; i < len(rec.hits); i++ {
		if gap := rec.hits[i].at - rec.hits[i-1].at; gap < minStep-1e-12 {
			t.Fatalf("gap %g below the floor", gap)
		}
	}
}

func TestResetRewindsWithFreshLeadIn(t *testing.T) {
	rec := &recorder{}
	s := NewScheduler(&manualClock{}, fixedStep(120), rec.trigger, 0)
	s.Reset(0)
	s.Tick(1)
	if step, _ := s.Position(); step == 0 {
		t.Fatalf("expected the pattern to have advanced")
	}
	s.Reset(5)
	step, next := s.Position()
	if step != 0 || math.Abs(next-5.1) > 1e-12 {
		t.Fatalf("after reset step=%d next=%f", step, next)
	}
}

func TestStartStopRunsTicker(t *testing.T) {
	clock := &manualClock{}
	rec := &recorder{}
	s := NewScheduler(clock, fixedStep(120), rec.trigger, time.Millisecond)

	clock.Set(2)
	s.Start()
	if !s.Running() {
		t.Fatal("scheduler not running after Start")
	}
	deadline := time.Now().Add(2 * time.Second)
	for rec.len() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("ticker never fired")
		}
		time.Sleep(time.Millisecond)
	}
	rec.mu.Lock()
	first := rec.hits[0]
	rec.mu.Unlock()
	if first.step != 0 || math.Abs(first.at-2.1) > 1e-12 {
		t.Fatalf("first step %+v, want step 0 at 2.1", first)
	}

	s.Stop()
	if s.Running() {
		t.Fatal("scheduler still running after Stop")
	}
	n := rec.len()
	clock.Set(10)
	time.Sleep(20 * time.Millisecond)
	if rec.len() != n {
		t.Fatalf("steps fired after Stop")
	}
	s.Stop()
}

func TestRestartBeginsAtStepZero(t *testing.T) {
	clock := &manualClock{}
	rec := &recorder{}
	s := NewScheduler(clock, fixedStep(160), rec.trigger, time.Millisecond)
	s.Start()
	clock.Set(1)
	deadline := time.Now().Add(2 * time.Second)
	for {
		if step, _ := s.Position(); step != 0 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("pattern never advanced")
		}
		time.Sleep(time.Millisecond)
	}
	s.Stop()

	clock.Set(3)
	s.Start()
	defer s.Stop()
	deadline = time.Now().Add(2 * time.Second)
	for {
		rec.mu.Lock()
		var last hit
		found := false
		for _, h := range rec.hits {
			if h.at >= 3 {
				last, found = h, true
				break
			}
		}
		rec.mu.Unlock()
		if found {
			if last.step != 0 || math.Abs(last.at-3.1) > 1e-12 {
				t.Fatalf("restart resumed at %+v", last)
			}
			return
		}
		if time.Now().After(deadline) {
			t.Fatal("restart never fired")
		}
		time.Sleep(time.Millisecond)
	}
}
