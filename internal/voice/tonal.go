package voice

import (
	"math"

	"github.com/cbegin/soundscape-go/internal/effects"
	"github.com/cbegin/soundscape-go/internal/graph"
	"github.com/cbegin/soundscape-go/internal/mood"
)

// Bass patterns, in semitones above the root, one entry per step.
var (
	BassMajor = [16]int{0, 0, 7, 0, 5, 0, 3, 0, 0, 7, 0, 5, 0, 8, 0, 7}
	BassMinor = [16]int{0, 0, 7, 0, 5, 0, 8, 0, 0, 5, 0, 7, 0, 3, 0, 5}
)

const (
	bassRootMajor = 36
	bassRootMinor = 33
)

var (
	pentatonicMajor = []int{0, 2, 4, 7, 9}
	pentatonicMinor = []int{0, 3, 5, 7, 10}

	chordMaj7 = []int{0, 4, 7, 11}
	chordMin6 = []int{0, 3, 7, 9}
	chordMin7 = []int{0, 3, 7, 10}
)

// BassNote returns the MIDI note the bass plays at step for emotion e.
// Bright valence selects the major pattern and its higher root.
func BassNote(e mood.Emotion, step int) int {
	step = ((step % 16) + 16) % 16
	if e.ValenceNorm() > 0.5 {
		return bassRootMajor + BassMajor[step]
	}
	return bassRootMinor + BassMinor[step]
}

// Bass follows a fixed pattern. Off-beats drop out at random, more often
// when arousal is low.
func (s *Synth) Bass(st mood.State, time float64, step int) *graph.Voice {
	if !s.ready() {
		return nil
	}
	aN, vN := st.Emotion.ArousalNorm(), st.Emotion.ValenceNorm()
	if s.r() > 0.75+aN*0.15-0.1*s.r() && step%2 != 0 {
		return nil
	}
	sr := s.sampleRate()

	wave := graph.Sawtooth
	if aN > 0.6 {
		wave = graph.Square
	}
	osc := graph.NewOscillator(wave, sr, MIDIToFreq(float64(BassNote(st.Emotion, step))))
	cutoff := st.Params.BassFilterCutoff + aN*800 - (1-vN)*200 + s.r()*150
	filter := effects.NewBiquad(effects.Lowpass, sr, cutoff, 4+vN*8+aN*4+s.r()*1.5)
	env := percussive(time, 0.4+aN*0.1, 0.01, time+0.12+s.r()*0.03+aN*0.05)
	stop := time + 0.15 + s.r()*0.03 + aN*0.05

	bass := graph.NewVoice(BassName, time, stop).
		Add(effects.NewChain(filter, env), osc)
	return s.schedule(bass)
}

// Lead plays at most one pentatonic note per bar, in a random slot, with a
// probability that rises with arousal.
func (s *Synth) Lead(st mood.State, time float64, step int) *graph.Voice {
	if !s.ready() {
		return nil
	}
	a, v := st.Emotion.Arousal, st.Emotion.Valence
	aN, vN := st.Emotion.ArousalNorm(), st.Emotion.ValenceNorm()
	if s.r() > 0.1+aN*0.2 {
		return nil
	}
	if step%16 != s.pick(4)*4+s.pick(3) {
		return nil
	}
	sr := s.sampleRate()

	var scale []int
	switch {
	case vN > 0.6:
		scale = pentatonicMajor
	case vN < 0.4:
		scale = pentatonicMinor
	case s.r() > 0.5:
		scale = pentatonicMajor
	default:
		scale = pentatonicMinor
	}
	note := scale[s.pick(len(scale))]
	octave := 0
	switch {
	case aN > 0.5:
		octave = 12
	case a < -0.3:
		octave = -12
	}
	base := 58
	if vN > 0.5 {
		base = 60
	}
	freq := MIDIToFreq(float64(base+note+octave)) + (s.r()-0.5)*(3+aN*5)

	wave := graph.Triangle
	switch {
	case aN > 0.6:
		wave = graph.Sawtooth
	case a < -0.4:
		wave = graph.Sine
	}
	osc := graph.NewOscillator(wave, sr, freq)
	osc.Frequency.SetValueAtTime(freq, time)
	osc.Detune.SetValueAtTime((s.r()-0.5)*(100+aN*200), time)

	kind := effects.Bandpass
	if aN > 0.3 {
		kind = effects.Lowpass
	}
	filter := effects.NewBiquad(kind, sr,
		600+aN*3000+vN*1000+s.r()*200,
		0.5+aN*10+vN*5+s.r()*2)

	release := 0.15 + (1-aN)*0.25 + s.r()*0.08 + math.Abs(v)*0.1
	plateau := time + 0.08 + aN*0.05
	env := effects.NewGain(0)
	env.Gain.SetValueAtTime(0, time)
	env.Gain.LinearRampToValueAtTime(0.3+aN*0.1, time+0.005+aN*0.01)
	env.Gain.LinearRampToValueAtTime(0.2+vN*0.2+s.r()*0.05, plateau)
	env.Gain.LinearRampToValueAtTime(0, plateau+release)

	lead := graph.NewVoice(LeadName, time, time+0.1+aN*0.05+release).
		Add(effects.NewChain(filter, env), osc)
	return s.schedule(lead)
}

// Pad always sounds on the downbeat and halfway through the bar; elsewhere
// it fires now and then, more often when valence is high. Two detuned
// oscillators play one note of a chord chosen by valence.
func (s *Synth) Pad(st mood.State, time float64, step int) *graph.Voice {
	if !s.ready() {
		return nil
	}
	v := st.Emotion.Valence
	aN, vN := st.Emotion.ArousalNorm(), st.Emotion.ValenceNorm()
	if step%16 != 0 && step%16 != 8 && s.r() > 0.15+v*0.1 {
		return nil
	}
	sr := s.sampleRate()

	chord := chordMin7
	switch {
	case vN > 0.6:
		chord = chordMaj7
	case vN < 0.4:
		chord = chordMin6
	}
	base := 48 - (1-vN)*5
	voicing := make([]float64, len(chord))
	for i, interval := range chord {
		voicing[i] = base + float64(interval) + float64(s.pick(3)-1)*12
	}
	freq1 := MIDIToFreq(voicing[s.pick(len(voicing))])
	freq2 := freq1 * (1.003 + aN*0.004 + (s.r()-0.5)*0.0015)

	osc1 := graph.NewOscillator(graph.Sawtooth, sr, freq1)
	osc2 := graph.NewOscillator(graph.Triangle, sr, freq2)
	osc1.Detune.SetValue((s.r() - 0.5) * (10 + aN*15))
	osc2.Detune.SetValue((s.r() - 0.5) * (10 + aN*15))

	filter := effects.NewBiquad(effects.Lowpass, sr,
		150+aN*1500+vN*500+s.r()*80,
		1.5+aN*3+vN*2+s.r()*0.5)

	attack := 0.8 + (1-aN)*0.8 + s.r()*0.3
	decay := 0.6 + vN*0.4
	sustain := 0.3 + vN*0.3 + aN*0.1 + s.r()*0.05
	release := 1.5 + (1-vN)*1.5 + (1-aN)*1.0 + s.r()*0.8
	peak := 0.25 + aN*0.05

	env := effects.NewGain(0)
	env.Gain.SetValueAtTime(0, time)
	env.Gain.LinearRampToValueAtTime(peak, time+attack)
	env.Gain.LinearRampToValueAtTime(peak*sustain, time+attack+decay)
	env.Gain.LinearRampToValueAtTime(0.0001, time+attack+decay+release)

	pad := graph.NewVoice(PadName, time, time+attack+decay+release+0.2).
		Add(effects.NewChain(env, filter), osc1, osc2)
	return s.schedule(pad)
}
