package soundscape

import (
	"context"
	"log/slog"
	"time"

	"github.com/cbegin/soundscape-go/internal/audio"
	"github.com/cbegin/soundscape-go/internal/mood"
	"github.com/cbegin/soundscape-go/internal/sequencer"
	"github.com/cbegin/soundscape-go/internal/voice"
)

// Emotion is a point on the valence/arousal plane, both axes in [-1, 1].
type Emotion = mood.Emotion

// MacroParams are the dial values that shape the mix and the voices.
type MacroParams = mood.MacroParams

// Random supplies values in [0, 1) to the voices.
type Random = voice.Random

// Backend names an audio output.
type Backend = audio.Backend

const (
	BackendEbiten   = audio.BackendEbiten
	BackendOto      = audio.BackendOto
	BackendHeadless = audio.BackendHeadless
	BackendNone     = audio.BackendNone
)

const (
	DefaultSampleRate  = 48000
	DefaultInitTimeout = 5 * time.Second
)

// DefaultParams returns the initial dial positions.
func DefaultParams() MacroParams { return mood.DefaultParams() }

// ParseBackend accepts ebiten, oto, headless or none in any case.
func ParseBackend(name string) (Backend, error) { return audio.ParseBackend(name) }

type opener func(ctx context.Context, backend audio.Backend, sampleRate int, src audio.SampleSource) (audio.Sink, error)

type Option func(*engineConfig)

type engineConfig struct {
	sampleRate  int
	backend     Backend
	rng         Random
	logger      *slog.Logger
	tickPeriod  time.Duration
	initTimeout time.Duration
	params      MacroParams
	emotion     Emotion
	limiter     bool
	sampleTap   func([]float32)
	open        opener
}

func defaultEngineConfig() engineConfig {
	return engineConfig{
		sampleRate:  DefaultSampleRate,
		backend:     BackendEbiten,
		rng:         voice.DefaultRandom,
		logger:      slog.New(slog.DiscardHandler),
		tickPeriod:  sequencer.DefaultTickPeriod,
		initTimeout: DefaultInitTimeout,
		params:      mood.DefaultParams(),
		open:        audio.Open,
	}
}

func WithSampleRate(sampleRate int) Option {
	return func(cfg *engineConfig) {
		cfg.sampleRate = sampleRate
	}
}

func WithBackend(backend Backend) Option {
	return func(cfg *engineConfig) {
		cfg.backend = backend
	}
}

// WithRandom replaces the source of every random musical choice. A seeded
// *rand.Rand makes offline renders repeatable.
func WithRandom(rng Random) Option {
	return func(cfg *engineConfig) {
		if rng != nil {
			cfg.rng = rng
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(cfg *engineConfig) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// WithTickPeriod sets how often the scheduler wakes. It must stay well
// under the 150 ms look-ahead window.
func WithTickPeriod(period time.Duration) Option {
	return func(cfg *engineConfig) {
		if period > 0 {
			cfg.tickPeriod = period
		}
	}
}

// WithInitTimeout bounds how long TogglePlay waits for the device when it
// has to initialize first.
func WithInitTimeout(timeout time.Duration) Option {
	return func(cfg *engineConfig) {
		if timeout > 0 {
			cfg.initTimeout = timeout
		}
	}
}

func WithInitialParams(p MacroParams) Option {
	return func(cfg *engineConfig) {
		cfg.params = p
	}
}

func WithInitialEmotion(e Emotion) Option {
	return func(cfg *engineConfig) {
		cfg.emotion = e
	}
}

// WithLimiter places a fast limiter after the master gain.
func WithLimiter(enabled bool) Option {
	return func(cfg *engineConfig) {
		cfg.limiter = enabled
	}
}

// WithSampleTap installs a callback invoked with each rendered stereo buffer.
// The callback runs on the audio thread; keep work brief and non-blocking.
func WithSampleTap(tap func([]float32)) Option {
	return func(cfg *engineConfig) {
		cfg.sampleTap = tap
	}
}
