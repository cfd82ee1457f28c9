package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"math"
	"math/rand"
	"os"
	"os/signal"
	"time"

	"github.com/cbegin/soundscape-go"
	"github.com/cbegin/soundscape-go/internal/config"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to a YAML config file (default: user config dir)")
		saveConfig = flag.Bool("save-config", false, "write the effective settings back to -config and exit")
		sampleRate = flag.Int("sample-rate", 0, "output sample rate (overrides config)")
		backend    = flag.String("backend", "", "audio output: ebiten|oto|headless|none (overrides config)")
		valence    = flag.Float64("valence", math.NaN(), "initial valence (-1..1)")
		arousal    = flag.Float64("arousal", math.NaN(), "initial arousal (-1..1)")
		tempo      = flag.Float64("tempo", 0, "tempo in BPM (80..160)")
		volume     = flag.Float64("volume", -1, "master volume (0..1)")
		limiter    = flag.Bool("limiter", false, "enable the output limiter")
		duration   = flag.Duration("duration", 0, "stop after this long (0 = until interrupted)")
		wander     = flag.Float64("wander", 0, "random-walk the emotion by this much per bar")
		verbose    = flag.Bool("v", false, "log engine events to stderr")
	)
	flag.Parse()

	path := *configPath
	if path == "" {
		p, err := config.Path()
		if err != nil {
			log.Fatal(err)
		}
		path = p
	}
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatal(err)
	}
	if *sampleRate > 0 {
		cfg.SampleRate = *sampleRate
	}
	if *backend != "" {
		cfg.Backend = *backend
	}
	if !math.IsNaN(*valence) {
		cfg.Emotion.Valence = *valence
	}
	if !math.IsNaN(*arousal) {
		cfg.Emotion.Arousal = *arousal
	}
	if *tempo > 0 {
		cfg.Params.Tempo = *tempo
	}
	if *volume >= 0 {
		cfg.Params.MasterVolume = *volume
	}
	if *limiter {
		cfg.Limiter = true
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}
	if cfg.Backend == string(soundscape.BackendNone) && !*saveConfig {
		log.Fatal("backend none has no clock of its own; use headless to run without a device")
	}
	if *saveConfig {
		if err := cfg.Save(path); err != nil {
			log.Fatal(err)
		}
		fmt.Println("saved", path)
		return
	}

	opts := cfg.Options()
	if *verbose {
		opts = append(opts, soundscape.WithLogger(slog.New(slog.NewTextHandler(os.Stderr, nil))))
	}
	engine, err := soundscape.NewEngine(opts...)
	if err != nil {
		log.Fatal(err)
	}
	defer engine.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if *duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *duration)
		defer cancel()
	}

	if err := engine.Initialize(ctx); err != nil {
		log.Fatal(err)
	}
	if err := engine.TogglePlay(); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("playing at %.0f BPM, valence %.2f arousal %.2f\n",
		cfg.Params.Tempo, cfg.Emotion.Valence, cfg.Emotion.Arousal)

	bar := time.Duration(16 * cfg.Params.SecondsPerSixteenth() * float64(time.Second))
	ticker := time.NewTicker(bar)
	defer ticker.Stop()
	e := cfg.Emotion
	for {
		select {
		case <-ctx.Done():
			if err := engine.TogglePlay(); err != nil {
				log.Fatal(err)
			}
			// let the fade finish before the output closes
			time.Sleep(500 * time.Millisecond)
			return
		case <-ticker.C:
			if *wander > 0 {
				e.Valence = clamp(e.Valence+drift(*wander), -1, 1)
				e.Arousal = clamp(e.Arousal+drift(*wander), -1, 1)
				engine.SetEmotion(e.Valence, e.Arousal)
			}
			step, _ := engine.Position()
			fmt.Printf("t=%6.2fs step %2d  valence %+.2f arousal %+.2f  level %.3f\n",
				engine.CurrentTime(), step, e.Valence, e.Arousal, engine.Level())
		}
	}
}

func drift(amount float64) float64 {
	return (rand.Float64()*2 - 1) * amount
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
