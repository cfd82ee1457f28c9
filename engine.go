// Package soundscape is a generative techno engine steered by an emotion
// coordinate. Valence and arousal shape six procedural voices on a 16-step
// pattern; a handful of macro dials shape the mix.
//
// An Engine starts uninitialized. Initialize opens the audio output and
// builds the signal graph; TogglePlay starts and stops the transport with a
// short fade. SetEmotion and SetParams may be called at any rate from any
// goroutine: the latest values win and are read by the next note.
package soundscape

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/cbegin/soundscape-go/internal/audio"
	"github.com/cbegin/soundscape-go/internal/graph"
	"github.com/cbegin/soundscape-go/internal/mood"
	"github.com/cbegin/soundscape-go/internal/sequencer"
	"github.com/cbegin/soundscape-go/internal/voice"
)

// core is everything Initialize builds. It is published once, complete.
type core struct {
	ctx    *graph.Context
	ramp   *graph.RampController
	synth  *voice.Synth
	sched  *sequencer.Scheduler
	sink   audio.Sink
	manual bool
	chunk  int // frames per scheduler tick when rendering manually
}

// Engine is the emotion-driven techno engine. Its methods are safe for
// concurrent use.
type Engine struct {
	cfg    engineConfig
	logger *slog.Logger

	emotion atomic.Pointer[mood.Emotion]
	params  atomic.Pointer[mood.MacroParams]

	initMu sync.Mutex // serialises Initialize and Close
	tmu    sync.Mutex // serialises transport changes and ramps
	core   atomic.Pointer[core]
	play   atomic.Bool
	closed atomic.Bool
	meter  audio.Meter

	// observe, when set, sees every step the scheduler triggers.
	observe func(at float64, step int, st mood.State, fired []*graph.Voice)
}

// NewEngine returns an uninitialized engine configured by opts.
func NewEngine(opts ...Option) (*Engine, error) {
	cfg := defaultEngineConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.sampleRate <= 0 {
		return nil, errors.New("sampleRate must be positive")
	}
	if _, err := audio.ParseBackend(string(cfg.backend)); err != nil {
		return nil, err
	}
	e := &Engine{cfg: cfg, logger: cfg.logger}
	emotion, params := cfg.emotion, cfg.params
	e.emotion.Store(&emotion)
	e.params.Store(&params)
	return e, nil
}

// Initialize opens the output and builds the signal graph. It is a no-op
// once it has succeeded. On failure it returns an *EngineInitError and the
// engine stays uninitialized, so the call may be retried.
func (e *Engine) Initialize(ctx context.Context) error {
	e.initMu.Lock()
	defer e.initMu.Unlock()
	if e.closed.Load() {
		return ErrClosed
	}
	if e.core.Load() != nil {
		return nil
	}

	sr := e.cfg.sampleRate
	params := *e.params.Load()
	gctx := graph.NewContext(sr, graph.NewSignalGraph(sr, params, e.cfg.limiter))
	gctx.SetTap(e.tap)

	sink, err := e.cfg.open(ctx, e.cfg.backend, sr, gctx)
	if err != nil {
		e.logger.Error("audio init failed", "backend", string(e.cfg.backend), "err", err)
		return &EngineInitError{Backend: string(e.cfg.backend), Err: err}
	}

	c := &core{
		ctx:    gctx,
		ramp:   graph.NewRampController(gctx),
		synth:  voice.New(gctx, e.cfg.rng),
		sink:   sink,
		manual: e.cfg.backend == BackendNone,
		chunk:  max(1, int(e.cfg.tickPeriod.Seconds()*float64(sr))),
	}
	c.sched = sequencer.NewScheduler(gctx, e.stepLength, e.trigger(c), e.cfg.tickPeriod)
	c.ramp.Apply(params, false)
	e.core.Store(c)
	e.logger.Info("audio engine initialized", "sampleRate", sr, "backend", string(e.cfg.backend))
	return nil
}

// SetEmotion replaces the emotion read by the next triggered note.
func (e *Engine) SetEmotion(valence, arousal float64) {
	e.emotion.Store(&mood.Emotion{Valence: valence, Arousal: arousal})
}

// SetParams replaces the macro parameters and glides the mix controls
// toward them.
func (e *Engine) SetParams(p MacroParams) {
	e.tmu.Lock()
	defer e.tmu.Unlock()
	e.params.Store(&p)
	if c := e.core.Load(); c != nil && !e.closed.Load() {
		c.ramp.Apply(p, e.play.Load())
	}
}

// Emotion returns the current emotion.
func (e *Engine) Emotion() Emotion { return *e.emotion.Load() }

// Params returns the current macro parameters.
func (e *Engine) Params() MacroParams { return *e.params.Load() }

// TogglePlay starts a stopped transport or stops a running one. An
// uninitialized engine is initialized first; if that fails the error is
// returned and nothing else changes.
func (e *Engine) TogglePlay() error {
	if e.closed.Load() {
		return ErrClosed
	}
	if e.core.Load() == nil {
		ctx, cancel := context.WithTimeout(context.Background(), e.cfg.initTimeout)
		defer cancel()
		if err := e.Initialize(ctx); err != nil {
			return err
		}
	}
	c := e.core.Load()
	if c == nil {
		return ErrNotInitialized
	}

	e.tmu.Lock()
	defer e.tmu.Unlock()
	if e.closed.Load() {
		return ErrClosed
	}
	if e.play.Load() {
		e.play.Store(false)
		c.sched.Stop()
		c.ramp.Fade(0)
		e.logger.Info("transport stopped")
		return nil
	}
	e.play.Store(true)
	c.ramp.Fade(e.params.Load().MasterVolume)
	if c.manual {
		c.sched.Reset(c.ctx.CurrentTime())
	} else {
		c.sched.Start()
	}
	e.logger.Info("transport started", "tempo", e.params.Load().Tempo)
	return nil
}

// IsInitialized reports whether Initialize has succeeded.
func (e *Engine) IsInitialized() bool { return e.core.Load() != nil }

// IsPlaying reports whether the transport is running.
func (e *Engine) IsPlaying() bool { return e.play.Load() }

// Level returns the RMS of the most recently rendered buffer.
func (e *Engine) Level() float32 { return e.meter.Level() }

// CurrentTime returns the audio clock in seconds, or 0 before Initialize.
func (e *Engine) CurrentTime() float64 {
	if c := e.core.Load(); c != nil {
		return c.ctx.CurrentTime()
	}
	return 0
}

// Position returns the next step to be scheduled and its start time.
func (e *Engine) Position() (step int, at float64) {
	if c := e.core.Load(); c != nil {
		return c.sched.Position()
	}
	return 0, 0
}

// Render pulls frames through an engine opened with BackendNone, running
// the scheduler between chunks the way the ticker would.
func (e *Engine) Render(dst []float32) error {
	if e.closed.Load() {
		return ErrClosed
	}
	c := e.core.Load()
	if c == nil {
		return ErrNotInitialized
	}
	if !c.manual {
		return ErrNotManual
	}
	chunk := c.chunk * 2
	for len(dst) > 0 {
		n := min(chunk, len(dst))
		if e.play.Load() {
			c.sched.Tick(c.ctx.CurrentTime())
		}
		c.ctx.Process(dst[:n])
		dst = dst[n:]
	}
	return nil
}

// Close stops the transport and releases the output, ending the engine's
// life. IsInitialized keeps reporting whether Initialize ever succeeded;
// later calls to Initialize, TogglePlay and Render return ErrClosed.
func (e *Engine) Close() error {
	e.initMu.Lock()
	defer e.initMu.Unlock()
	if e.closed.Swap(true) {
		return nil
	}
	c := e.core.Load()
	if c == nil {
		return nil
	}
	e.tmu.Lock()
	e.play.Store(false)
	c.sched.Stop()
	e.tmu.Unlock()

	if err := c.sink.Close(); err != nil {
		return fmt.Errorf("soundscape: close output: %w", err)
	}
	return nil
}

func (e *Engine) stepLength() float64 {
	return e.params.Load().SecondsPerSixteenth()
}

func (e *Engine) trigger(c *core) sequencer.TriggerFunc {
	return func(at float64, step int) {
		st := mood.State{Emotion: *e.emotion.Load(), Params: *e.params.Load()}
		fired := c.synth.Trigger(st, at, step)
		if e.observe != nil {
			e.observe(at, step, st, fired)
		}
	}
}

func (e *Engine) tap(buf []float32) {
	e.meter.Observe(buf)
	if e.cfg.sampleTap != nil {
		e.cfg.sampleTap(buf)
	}
}
