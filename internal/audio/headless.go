package audio

import (
	"sync"
	"time"
)

// DefaultHeadlessChunk is the frames pulled per wakeup by a headless sink.
const DefaultHeadlessChunk = 480

// HeadlessSink pulls frames at real-time pace and discards them. It keeps
// the engine clock moving on machines without an audio device.
type HeadlessSink struct {
	src    SampleSource
	frames int
	period time.Duration

	stop chan struct{}
	done chan struct{}
	once sync.Once
}

// NewHeadlessSink starts pulling chunk frames from src every chunk/sampleRate seconds.
func NewHeadlessSink(sampleRate int, src SampleSource, chunk int) *HeadlessSink {
	if chunk <= 0 {
		chunk = DefaultHeadlessChunk
	}
	s := &HeadlessSink{
		src:    src,
		frames: chunk,
		period: time.Duration(float64(chunk) / float64(sampleRate) * float64(time.Second)),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	go s.run()
	return s
}

func (s *HeadlessSink) run() {
	defer close(s.done)
	buf := make([]float32, s.frames*2)
	ticker := time.NewTicker(s.period)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.src.Process(buf)
		}
	}
}

// Close stops pulling and waits for the last buffer to finish.
func (s *HeadlessSink) Close() error {
	s.once.Do(func() { close(s.stop) })
	<-s.done
	return nil
}
