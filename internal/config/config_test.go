package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/cbegin/soundscape-go"
	"github.com/cbegin/soundscape-go/internal/mood"
)

func TestDecodeKeepsDefaultsForMissingFields(t *testing.T) {
	cfg, err := Decode(strings.NewReader(`
backend: headless
tickPeriod: 25ms
emotion:
  valence: 0.5
  arousal: -0.25
params:
  tempo: 132
`))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Backend != "headless" || cfg.TickPeriod != 25*time.Millisecond {
		t.Errorf("got backend %q tick %v", cfg.Backend, cfg.TickPeriod)
	}
	if cfg.SampleRate != soundscape.DefaultSampleRate {
		t.Errorf("sample rate %d", cfg.SampleRate)
	}
	if cfg.Emotion != (mood.Emotion{Valence: 0.5, Arousal: -0.25}) {
		t.Errorf("emotion %+v", cfg.Emotion)
	}
	want := mood.DefaultParams()
	want.Tempo = 132
	if cfg.Params != want {
		t.Errorf("params %+v, want %+v", cfg.Params, want)
	}
}

func TestDecodeEmptyIsDefault(t *testing.T) {
	cfg, err := Decode(strings.NewReader(""))
	if err != nil {
		t.Fatal(err)
	}
	if *cfg != *Default() {
		t.Errorf("got %+v", cfg)
	}
}

func TestDecodeRejectsBadInput(t *testing.T) {
	cases := map[string]string{
		"unknown key":   "volume: 3\n",
		"bad backend":   "backend: alsa\n",
		"zero rate":     "sampleRate: 0\n",
		"slow ticker":   "tickPeriod: 200ms\n",
		"not a mapping": "- 1\n- 2\n",
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Decode(strings.NewReader(in)); err == nil {
				t.Fatalf("expected error for %q", in)
			}
		})
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := Default()
	cfg.Backend = "oto"
	cfg.Limiter = true
	cfg.Params.Reverb = 0.8
	if err := cfg.Save(path); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if *got != *cfg {
		t.Errorf("got %+v, want %+v", got, cfg)
	}
}

func TestLoadMissingFileIsDefault(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if *cfg != *Default() {
		t.Errorf("got %+v", cfg)
	}
}

func TestLoadReportsPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	if err := os.WriteFile(path, []byte("sampleRate: [\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), path) {
		t.Fatalf("got %v", err)
	}
}

func TestOptionsBuildEngine(t *testing.T) {
	cfg := Default()
	cfg.Backend = "none"
	cfg.Emotion = mood.Emotion{Valence: -0.3, Arousal: 0.9}
	cfg.Params.Tempo = 150
	e, err := soundscape.NewEngine(cfg.Options()...)
	if err != nil {
		t.Fatal(err)
	}
	if e.Emotion() != cfg.Emotion || e.Params() != cfg.Params {
		t.Errorf("engine did not pick up the configured snapshots")
	}
}
