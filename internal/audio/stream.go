// Package audio connects the engine's render path to an output device.
//
// Every sink pulls interleaved stereo float32 frames from a SampleSource.
// The clock of the engine advances only as fast as a sink pulls, so a sink
// is what turns rendered frames into audio time.
package audio

import (
	"encoding/binary"
	"errors"
	"io"
	"math"
	"sync"
)

// SampleSource renders interleaved stereo float32 frames into dst.
type SampleSource interface {
	Process(dst []float32)
}

var (
	// ErrNoDevice reports that no output device could be opened or resumed.
	ErrNoDevice = errors.New("audio: output device unavailable")
	// ErrUnknownBackend reports a backend name that no sink implements.
	ErrUnknownBackend = errors.New("audio: unknown backend")
)

const bytesPerFrame = 8 // two float32 channels

// StreamReader exposes a SampleSource as the little-endian float32 byte
// stream device players read. After Close it reports io.EOF.
type StreamReader struct {
	mu     sync.Mutex
	source SampleSource
	buf    []float32
	closed bool
}

func NewStreamReader(source SampleSource) *StreamReader {
	return &StreamReader{source: source}
}

func (r *StreamReader) Read(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return 0, io.EOF
	}

	frames := len(p) / bytesPerFrame
	if frames == 0 {
		return 0, nil
	}
	need := frames * 2
	if cap(r.buf) < need {
		r.buf = make([]float32, need)
	}
	r.buf = r.buf[:need]
	r.source.Process(r.buf)
	for i, s := range r.buf {
		binary.LittleEndian.PutUint32(p[i*4:], math.Float32bits(s))
	}
	return frames * bytesPerFrame, nil
}

func (r *StreamReader) Close() error {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()
	return nil
}
