package voice

import (
	"math"

	"github.com/cbegin/soundscape-go/internal/effects"
	"github.com/cbegin/soundscape-go/internal/graph"
	"github.com/cbegin/soundscape-go/internal/mood"
)

// Kick fires on every quarter note: a sine drop through a wave shaper.
func (s *Synth) Kick(st mood.State, time float64, step int) *graph.Voice {
	if !s.ready() || step%4 != 0 {
		return nil
	}
	sr := s.sampleRate()
	a := st.Emotion.Arousal

	shaper := effects.NewShaper(effects.MakeDistortionCurve(20+a*35+s.r()*8, sr))
	pitch := 60 - (1-st.Emotion.ValenceNorm())*20 + s.r()*1.5 - 0.75
	osc := graph.NewOscillator(graph.Sine, sr, pitch)
	osc.Frequency.SetValueAtTime(pitch, time)
	osc.Frequency.ExponentialRampToValueAtTime(math.Max(20, pitch*0.4), time+0.12)

	env := percussive(time, (1.8+a*0.7)*st.Params.KickGain, 0.005, time+0.2+a*0.1)

	v := graph.NewVoice(KickName, time, time+0.25+a*0.1).
		Add(effects.NewChain(shaper, env), osc)
	return s.schedule(v)
}

// Hihat fires on eighth notes, and on sixteenths when arousal runs high.
// The third sixteenth of each beat is open; high arousal opens some
// off-beats at random.
func (s *Synth) Hihat(st mood.State, time float64, step int) *graph.Voice {
	if !s.ready() {
		return nil
	}
	a, v := st.Emotion.Arousal, st.Emotion.Valence
	if step%2 != 0 && !(a > 0.5) {
		return nil
	}
	sr := s.sampleRate()

	open := step%4 == 2 || (a > 0.6 && step%2 != 0 && s.r() > 0.3)
	decay := 0.03 + math.Abs(v)*0.015
	level := 0.4 + a*0.2
	if open {
		decay = (0.1 + math.Abs(v)*0.1 + a*0.1) * (1.5 + a*0.8)
		level = 0.5 + a*0.3
	}
	cutoff := 7000 + a*2000 - (1-v)*1000 + s.r()*400

	noise := graph.NewNoise(sr, s.r)
	filter := effects.NewBiquad(effects.Highpass, sr, cutoff, 8+a*4)
	env := percussive(time, level, 0.005, time+decay)

	hat := graph.NewVoice(HihatName, time, time+decay+0.05).
		Add(effects.NewChain(filter, env), noise)
	return s.schedule(hat)
}

// Snare fires on the backbeat: band-passed noise over a short falling sine.
func (s *Synth) Snare(st mood.State, time float64, step int) *graph.Voice {
	if !s.ready() || step%8 != 4 {
		return nil
	}
	sr := s.sampleRate()
	a, v := st.Emotion.Arousal, st.Emotion.Valence

	noise := graph.NewNoise(sr, s.r)
	band := effects.NewBiquad(effects.Bandpass, sr, 1500+a*1000+(s.r()-0.5)*500, 3+a*3+v*2)
	noiseEnv := percussive(time, 0.8+a*0.2, 0.005, time+0.15+v*0.1+a*0.05)

	base := 180 + a*50 + v*20
	body := graph.NewOscillator(graph.Sine, sr, base)
	body.Frequency.SetValueAtTime(base+(s.r()-0.5)*10, time)
	body.Frequency.ExponentialRampToValueAtTime(base*0.7, time+0.08)
	bodyEnv := percussive(time, 0.6+v*0.4, 0.01, time+0.1)

	snare := graph.NewVoice(SnareName, time, time+graph.NoiseDuration).
		Add(effects.NewChain(band, noiseEnv), noise).
		Add(effects.NewChain(bodyEnv), body)
	return s.schedule(snare)
}
