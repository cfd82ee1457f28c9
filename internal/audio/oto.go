package audio

import (
	"context"
	"fmt"
	"sync"

	"github.com/ebitengine/oto/v3"
)

var (
	otoOnce       sync.Once
	otoContext    *oto.Context
	otoReady      chan struct{}
	otoErr        error
	otoSampleRate int
)

// oto allows one context per process; later opens must agree on the rate.
func sharedOtoContext(sampleRate int) (*oto.Context, chan struct{}, error) {
	otoOnce.Do(func() {
		otoSampleRate = sampleRate
		otoContext, otoReady, otoErr = oto.NewContext(&oto.NewContextOptions{
			SampleRate:   sampleRate,
			ChannelCount: 2,
			Format:       oto.FormatFloat32LE,
		})
	})
	if otoErr != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrNoDevice, otoErr)
	}
	if otoSampleRate != sampleRate {
		return nil, nil, fmt.Errorf("oto context already initialized at %d Hz (requested %d Hz)", otoSampleRate, sampleRate)
	}
	return otoContext, otoReady, nil
}

type otoSink struct {
	player *oto.Player
	reader *StreamReader
}

func newOtoSink(ctx context.Context, sampleRate int, src SampleSource) (*otoSink, error) {
	octx, ready, err := sharedOtoContext(sampleRate)
	if err != nil {
		return nil, err
	}
	select {
	case <-ready:
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: waiting for device: %w", ErrNoDevice, ctx.Err())
	}
	reader := NewStreamReader(src)
	player := octx.NewPlayer(reader)
	player.Play()
	return &otoSink{player: player, reader: reader}, nil
}

func (s *otoSink) Close() error {
	s.player.Pause()
	_ = s.reader.Close()
	return s.player.Close()
}
