package audio

import (
	"context"
	"fmt"
	"strings"
)

// Backend names an output implementation.
type Backend string

const (
	BackendEbiten   Backend = "ebiten"
	BackendOto      Backend = "oto"
	BackendHeadless Backend = "headless"
	// BackendNone opens nothing; the caller pulls frames itself.
	BackendNone Backend = "none"
)

// ParseBackend accepts a backend name in any case.
func ParseBackend(name string) (Backend, error) {
	switch b := Backend(strings.ToLower(strings.TrimSpace(name))); b {
	case BackendEbiten, BackendOto, BackendHeadless, BackendNone:
		return b, nil
	case "":
		return BackendEbiten, nil
	default:
		return "", fmt.Errorf("%w %q (expected ebiten|oto|headless|none)", ErrUnknownBackend, name)
	}
}

// Sink is an open output that pulls from its source until closed.
type Sink interface {
	Close() error
}

// Open starts pulling src through the named backend at sampleRate.
// Device failures wrap ErrNoDevice. ctx bounds how long Open waits for a
// device to become ready.
func Open(ctx context.Context, backend Backend, sampleRate int, src SampleSource) (Sink, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("audio: sample rate must be positive, got %d", sampleRate)
	}
	switch backend {
	case BackendEbiten, "":
		return newEbitenSink(sampleRate, src)
	case BackendOto:
		return newOtoSink(ctx, sampleRate, src)
	case BackendHeadless:
		return NewHeadlessSink(sampleRate, src, DefaultHeadlessChunk), nil
	case BackendNone:
		return nopSink{}, nil
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownBackend, backend)
	}
}

type nopSink struct{}

func (nopSink) Close() error { return nil }
