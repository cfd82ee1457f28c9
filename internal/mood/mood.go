// Package mood holds the two control snapshots that steer the engine: the
// emotion coordinate and the macro parameters set from the dials.
package mood

// Emotion is a point on the valence/arousal plane. Both axes span [-1, 1].
type Emotion struct {
	Valence float64 `yaml:"valence"`
	Arousal float64 `yaml:"arousal"`
}

// ValenceNorm maps valence onto [0, 1].
func (e Emotion) ValenceNorm() float64 { return (e.Valence + 1) / 2 }

// ArousalNorm maps arousal onto [0, 1].
func (e Emotion) ArousalNorm() float64 { return (e.Arousal + 1) / 2 }

// MacroParams are the user-facing dial values. Ranges are enforced by the
// control surface; consumers tolerate values outside them.
type MacroParams struct {
	MasterVolume     float64 `yaml:"masterVolume"`     // 0..1
	Pan              float64 `yaml:"pan"`              // -1..1
	Tempo            float64 `yaml:"tempo"`            // 80..160 BPM
	Reverb           float64 `yaml:"reverb"`           // 0..1
	DelayFeedback    float64 `yaml:"delayFeedback"`    // 0..0.9
	DelayTime        float64 `yaml:"delayTime"`        // 0.1..2.0 s
	KickGain         float64 `yaml:"kickGain"`         // 0..2
	BassFilterCutoff float64 `yaml:"bassFilterCutoff"` // 50..1000 Hz
}

// Range is the declared span of one macro parameter.
type Range struct {
	Min, Max float64
}

// Ranges lists the declared span of every macro parameter, keyed by its YAML name.
var Ranges = map[string]Range{
	"masterVolume":     {0, 1},
	"pan":              {-1, 1},
	"tempo":            {80, 160},
	"reverb":           {0, 1},
	"delayFeedback":    {0, 0.9},
	"delayTime":        {0.1, 2.0},
	"kickGain":         {0, 2},
	"bassFilterCutoff": {50, 1000},
}

// DefaultParams returns the initial dial positions.
func DefaultParams() MacroParams {
	return MacroParams{
		MasterVolume:     0.7,
		Pan:              0,
		Tempo:            120,
		Reverb:           0.5,
		DelayFeedback:    0.4,
		DelayTime:        0.5,
		KickGain:         1.0,
		BassFilterCutoff: 500,
	}
}

// MaxTempo caps the tempo SecondsPerSixteenth honours.
const MaxTempo = 1000

// SecondsPerSixteenth returns the length of one step at the current tempo.
// Non-positive tempos fall back to 120 BPM so the scheduler always advances;
// tempos above MaxTempo are capped.
func (p MacroParams) SecondsPerSixteenth() float64 {
	tempo := p.Tempo
	if !(tempo > 0) {
		tempo = 120
	}
	tempo = min(tempo, MaxTempo)
	return 60.0 / tempo / 4
}

// State is the snapshot a voice reads at trigger time.
type State struct {
	Emotion Emotion
	Params  MacroParams
}
