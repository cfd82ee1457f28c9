package voice

import (
	"math"
	"testing"

	"github.com/cbegin/soundscape-go/internal/graph"
	"github.com/cbegin/soundscape-go/internal/mood"
)

const sr = 48000

type recordingBus struct {
	voices []*graph.Voice
}

func (b *recordingBus) SampleRate() int { return sr }

func (b *recordingBus) Schedule(v *graph.Voice) { b.voices = append(b.voices, v) }

type fixedRandom float64

func (f fixedRandom) Float64() float64 { return float64(f) }

func neutral() mood.State {
	return mood.State{Params: mood.DefaultParams()}
}

func TestKickFiresOnQuarterNotes(t *testing.T) {
	bus := &recordingBus{}
	s := New(bus, fixedRandom(0.5))
	for step := 0; step < 16; step++ {
		fired := s.Kick(neutral(), 1, step) != nil
		if fired != (step%4 == 0) {
			t.Errorf("step %d: fired=%v", step, fired)
		}
	}
	if len(bus.voices) != 4 {
		t.Fatalf("scheduled %d kicks, want 4", len(bus.voices))
	}
}

func TestSnareFiresOnBackbeat(t *testing.T) {
	s := New(&recordingBus{}, fixedRandom(0.5))
	for step := 0; step < 16; step++ {
		fired := s.Snare(neutral(), 1, step) != nil
		if fired != (step%8 == 4) {
			t.Errorf("step %d: fired=%v", step, fired)
		}
	}
}

func TestPadAlwaysFiresOnZeroAndEight(t *testing.T) {
	for _, r := range []float64{0, 0.5, 0.999} {
		s := New(&recordingBus{}, fixedRandom(r))
		for _, step := range []int{0, 8} {
			if s.Pad(neutral(), 1, step) == nil {
				t.Errorf("random %v: pad skipped step %d", r, step)
			}
		}
	}
	s := New(&recordingBus{}, fixedRandom(0.999))
	for step := 0; step < 16; step++ {
		if step == 0 || step == 8 {
			continue
		}
		if s.Pad(neutral(), 1, step) != nil {
			t.Errorf("step %d: pad fired although the gate failed", step)
		}
	}
}

func TestHihatDensityFollowsArousal(t *testing.T) {
	cases := []struct {
		arousal float64
		want    int
	}{
		{0, 8},
		{0.5, 8},
		{0.8, 16},
	}
	for _, c := range cases {
		s := New(&recordingBus{}, fixedRandom(0.5))
		st := neutral()
		st.Emotion.Arousal = c.arousal
		n := 0
		for step := 0; step < 16; step++ {
			if s.Hihat(st, 1, step) != nil {
				n++
			}
		}
		if n != c.want {
			t.Errorf("arousal %v: %d hats, want %d", c.arousal, n, c.want)
		}
	}
}

func TestHihatOpensOnThirdSixteenth(t *testing.T) {
	s := New(&recordingBus{}, fixedRandom(0.5))
	closed := s.Hihat(neutral(), 1, 0)
	open := s.Hihat(neutral(), 1, 2)
	if got := closed.Stop - closed.Start; math.Abs(got-0.08) > 1e-9 {
		t.Errorf("closed hat lasts %f, want 0.08", got)
	}
	if got := open.Stop - open.Start; math.Abs(got-0.2) > 1e-9 {
		t.Errorf("open hat lasts %f, want 0.2", got)
	}
}

func TestBassMajorPatternAtStepTwo(t *testing.T) {
	st := neutral()
	st.Emotion.Valence = 0.8
	st.Params.BassFilterCutoff = 500
	if got := BassNote(st.Emotion, 2); got != 43 {
		t.Fatalf("bass note %d, want 43", got)
	}
	if BassMajor[2] != 7 {
		t.Fatalf("major degree at step 2 is %d", BassMajor[2])
	}

	s := New(&recordingBus{}, fixedRandom(0))
	v := s.Bass(st, 2, 2)
	if v == nil {
		t.Fatal("bass skipped an even step")
	}
	osc, ok := v.Branches()[0].Sources[0].(*graph.Oscillator)
	if !ok {
		t.Fatalf("bass source is %T", v.Branches()[0].Sources[0])
	}
	want := 440 * math.Pow(2, (43.0-69)/12)
	if got := osc.Frequency.ValueAt(2); math.Abs(got-want) > 1e-9 {
		t.Fatalf("bass frequency %f, want %f", got, want)
	}
	if osc.Wave() != graph.Sawtooth {
		t.Errorf("neutral arousal should play sawtooth, got %s", osc.Wave())
	}
}

func TestBassMinorBelowNeutralValence(t *testing.T) {
	e := mood.Emotion{Valence: -0.5}
	for step := 0; step < 16; step++ {
		if got, want := BassNote(e, step), 33+BassMinor[step]; got != want {
			t.Fatalf("step %d: %d, want %d", step, got, want)
		}
	}
}

func TestBassSkipsOffBeatsAtRandom(t *testing.T) {
	st := neutral()
	st.Emotion.Arousal = -1
	s := New(&recordingBus{}, fixedRandom(0.99))
	if s.Bass(st, 1, 1) != nil {
		t.Errorf("odd step should be skipped")
	}
	if s.Bass(st, 1, 2) == nil {
		t.Errorf("even steps never skip")
	}
}

func TestLeadGateAndSlot(t *testing.T) {
	s := New(&recordingBus{}, fixedRandom(0))
	for step := 0; step < 16; step++ {
		fired := s.Lead(neutral(), 1, step) != nil
		if fired != (step == 0) {
			t.Errorf("step %d: fired=%v", step, fired)
		}
	}
	s = New(&recordingBus{}, fixedRandom(0.99))
	for step := 0; step < 16; step++ {
		if s.Lead(neutral(), 1, step) != nil {
			t.Errorf("step %d: lead passed a failed gate", step)
		}
	}
}

func TestLeadWaveformFollowsArousal(t *testing.T) {
	cases := []struct {
		arousal float64
		want    graph.Waveform
	}{
		{1, graph.Sawtooth},
		{0, graph.Triangle},
		{-1, graph.Sine},
	}
	for _, c := range cases {
		st := neutral()
		st.Emotion.Arousal = c.arousal
		v := New(&recordingBus{}, fixedRandom(0)).Lead(st, 1, 0)
		if v == nil {
			t.Fatalf("arousal %v: lead did not fire", c.arousal)
		}
		osc := v.Branches()[0].Sources[0].(*graph.Oscillator)
		if osc.Wave() != c.want {
			t.Errorf("arousal %v: wave %s, want %s", c.arousal, osc.Wave(), c.want)
		}
	}
}

func TestKickReadsKickGain(t *testing.T) {
	st := neutral()
	st.Params.KickGain = 0
	v := New(&recordingBus{}, fixedRandom(0.5)).Kick(st, 0, 0)
	for i := 0; float64(i)/sr < v.Stop; i++ {
		if y := v.Render(float64(i) / sr); y != 0 {
			t.Fatalf("muted kick produced %f at sample %d", y, i)
		}
	}
}

func TestVoicesRenderAndEnd(t *testing.T) {
	st := neutral()
	st.Emotion = mood.Emotion{Valence: 0.3, Arousal: 0.7}
	s := New(&recordingBus{}, fixedRandom(0))
	voices := []*graph.Voice{
		s.Kick(st, 0, 0),
		s.Hihat(st, 0, 2),
		s.Snare(st, 0, 4),
		s.Bass(st, 0, 0),
		s.Lead(st, 0, 0),
		s.Pad(st, 0, 0),
	}
	for _, v := range voices {
		if v == nil {
			t.Fatal("expected every voice to fire")
		}
		t.Run(v.Name, func(t *testing.T) {
			if !(v.Stop > v.Start) {
				t.Fatalf("stop %f not after start %f", v.Stop, v.Start)
			}
			var energy, tail float64
			n := int(v.Stop * sr)
			for i := 0; i < n; i++ {
				y := v.Render(float64(i) / sr)
				if math.IsNaN(y) || math.IsInf(y, 0) {
					t.Fatalf("sample %d not finite", i)
				}
				energy += y * y
				if i >= n-int(0.01*sr) {
					tail = math.Max(tail, math.Abs(y))
				}
			}
			if energy == 0 {
				t.Errorf("voice was silent")
			}
			if tail > 0.05 {
				t.Errorf("voice still loud at its stop time: %f", tail)
			}
		})
	}
}

func TestTriggerOrderAndScheduling(t *testing.T) {
	bus := &recordingBus{}
	fired := New(bus, fixedRandom(0)).Trigger(neutral(), 1, 0)
	want := []string{KickName, HihatName, BassName, LeadName, PadName}
	if len(fired) != len(want) {
		t.Fatalf("fired %d voices, want %d", len(fired), len(want))
	}
	for i, v := range fired {
		if v.Name != want[i] {
			t.Errorf("voice %d is %s, want %s", i, v.Name, want[i])
		}
	}
	if len(bus.voices) != len(want) {
		t.Errorf("bus received %d voices", len(bus.voices))
	}
}

func TestUninitialisedSynthIsSilent(t *testing.T) {
	var nilSynth *Synth
	if v := nilSynth.Trigger(neutral(), 0, 0); v != nil {
		t.Fatalf("nil synth fired %v", v)
	}
	if v := New(nil, nil).Kick(neutral(), 0, 0); v != nil {
		t.Fatalf("synth without a bus fired")
	}
}

func TestRandomAtUpperBoundDoesNotPanic(t *testing.T) {
	s := New(&recordingBus{}, fixedRandom(1))
	for step := 0; step < 16; step++ {
		s.Trigger(neutral(), 1, step)
	}
}

func newLiveContext() *graph.Context {
	ctx := graph.NewContext(sr, graph.NewSignalGraph(sr, mood.DefaultParams(), false))
	graph.NewRampController(ctx).Fade(0.7)
	return ctx
}

func renderCheck(t *testing.T, ctx *graph.Context, seconds float64) float64 {
	t.Helper()
	buf := make([]float32, 2*int(seconds*sr))
	ctx.Process(buf)
	var energy float64
	for i, s := range buf {
		if s != s {
			t.Fatalf("sample %d is NaN", i)
		}
		energy += float64(s) * float64(s)
	}
	return energy
}

func TestMalformedKickGainDoesNotSilenceLaterKicks(t *testing.T) {
	ctx := newLiveContext()
	s := New(ctx, fixedRandom(0.5))

	bad := neutral()
	bad.Params.KickGain = math.NaN()
	s.Kick(bad, 0, 0)
	renderCheck(t, ctx, 0.5)

	for i := 0; i < 6; i++ {
		s.Kick(neutral(), 0.5+float64(i)*0.5, 0)
	}
	if energy := renderCheck(t, ctx, 3); energy < 1 {
		t.Fatalf("healthy kicks inaudible after a bad one, energy %f", energy)
	}
}

func TestNonFiniteEmotionIsTolerated(t *testing.T) {
	ctx := newLiveContext()
	s := New(ctx, fixedRandom(0.5))
	for _, e := range []mood.Emotion{
		{Valence: math.NaN(), Arousal: 0},
		{Valence: 0, Arousal: math.NaN()},
		{Valence: math.Inf(1), Arousal: math.Inf(-1)},
	} {
		st := neutral()
		st.Emotion = e
		for step := 0; step < 16; step++ {
			s.Trigger(st, ctx.CurrentTime()+0.01+float64(step)*0.125, step)
		}
		renderCheck(t, ctx, 2)
	}

	for step := 0; step < 16; step++ {
		s.Trigger(neutral(), ctx.CurrentTime()+0.01+float64(step)*0.125, step)
	}
	if energy := renderCheck(t, ctx, 2.5); energy < 1 {
		t.Fatalf("engine silent after recovery, energy %f", energy)
	}
}
