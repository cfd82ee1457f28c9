package soundscape

import "context"

// RenderOffline plays the engine for seconds of audio time without a
// device and returns the interleaved stereo output. The transport starts at
// time zero; opts may set the emotion, parameters and random source.
func RenderOffline(seconds float64, opts ...Option) ([]float32, error) {
	e, err := NewEngine(append(append([]Option(nil), opts...), WithBackend(BackendNone))...)
	if err != nil {
		return nil, err
	}
	defer e.Close()
	if err := e.Initialize(context.Background()); err != nil {
		return nil, err
	}
	if err := e.TogglePlay(); err != nil {
		return nil, err
	}
	frames := int(float64(e.cfg.sampleRate) * seconds)
	out := make([]float32, frames*2)
	if err := e.Render(out); err != nil {
		return nil, err
	}
	return out, nil
}
