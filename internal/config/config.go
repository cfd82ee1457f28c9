// Package config loads and saves engine settings as YAML.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cbegin/soundscape-go"
	"github.com/cbegin/soundscape-go/internal/mood"
	"github.com/cbegin/soundscape-go/internal/sequencer"
)

// Config is the on-disk engine configuration. Missing fields keep their
// defaults.
type Config struct {
	SampleRate int              `yaml:"sampleRate"`
	Backend    string           `yaml:"backend"`
	TickPeriod time.Duration    `yaml:"tickPeriod"`
	Limiter    bool             `yaml:"limiter"`
	Emotion    mood.Emotion     `yaml:"emotion"`
	Params     mood.MacroParams `yaml:"params"`
}

// Default returns the settings used when no file exists.
func Default() *Config {
	return &Config{
		SampleRate: soundscape.DefaultSampleRate,
		Backend:    string(soundscape.BackendEbiten),
		TickPeriod: sequencer.DefaultTickPeriod,
		Params:     mood.DefaultParams(),
	}
}

// Dir returns the per-user configuration directory.
func Dir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "soundscape"), nil
}

// Path returns the default config file location.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Decode reads YAML over the defaults. Unknown keys are rejected.
func Decode(r io.Reader) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load reads path. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Save writes c to path, creating the directory if needed.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Validate checks the fields the engine cannot tolerate. Macro parameters
// are left alone; the engine copes with values outside their dial ranges.
func (c *Config) Validate() error {
	if c.SampleRate <= 0 {
		return fmt.Errorf("config: sampleRate must be positive, got %d", c.SampleRate)
	}
	if c.TickPeriod <= 0 || c.TickPeriod >= time.Duration(sequencer.LookAhead*float64(time.Second)) {
		return fmt.Errorf("config: tickPeriod %v must be positive and shorter than the look-ahead window", c.TickPeriod)
	}
	if _, err := soundscape.ParseBackend(c.Backend); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Options converts c into engine options.
func (c *Config) Options() []soundscape.Option {
	backend, _ := soundscape.ParseBackend(c.Backend)
	return []soundscape.Option{
		soundscape.WithSampleRate(c.SampleRate),
		soundscape.WithBackend(backend),
		soundscape.WithTickPeriod(c.TickPeriod),
		soundscape.WithLimiter(c.Limiter),
		soundscape.WithInitialEmotion(c.Emotion),
		soundscape.WithInitialParams(c.Params),
	}
}
