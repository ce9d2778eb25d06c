package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/Pandicon/snails-of-pursuit/internal/pursuit"
	"github.com/Pandicon/snails-of-pursuit/internal/session"
)

const (
	DefaultStepsPerFrame = 1
	DefaultMaxSteps      = 1_000_000
	DefaultMode          = "iterative"
	DefaultLogLevel      = "info"
)

// Config is read from YAML, or from TOML when the file name ends in .toml.
type Config struct {
	Bodies        int     `yaml:"bodies" toml:"bodies"`
	Radius        float64 `yaml:"radius" toml:"radius"`
	Speed         float64 `yaml:"speed" toml:"speed"`
	Timestep      float64 `yaml:"timestep" toml:"timestep"`
	StepsPerFrame int     `yaml:"steps_per_frame" toml:"steps_per_frame"`
	Mode          string  `yaml:"mode" toml:"mode"`
	MaxSteps      int     `yaml:"max_steps" toml:"max_steps"`
	LogLevel      string  `yaml:"log_level" toml:"log_level"`
}

func DefaultConfig() *Config {
	return &Config{
		Bodies:        pursuit.DefaultBodyCount,
		Radius:        pursuit.DefaultRadius,
		Speed:         pursuit.DefaultSpeed,
		Timestep:      pursuit.DefaultTimestep,
		StepsPerFrame: DefaultStepsPerFrame,
		Mode:          DefaultMode,
		MaxSteps:      DefaultMaxSteps,
		LogLevel:      DefaultLogLevel,
	}
}

func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := cfg.Overlay(path); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Overlay reads the file at path on top of c. Keys missing from the file
// keep their current value.
func (c *Config) Overlay(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if isTOML(path) {
		_, err = toml.Decode(string(data), c)
	} else {
		err = yaml.Unmarshal(data, c)
	}
	if err != nil {
		return fmt.Errorf("config %s: %w", path, err)
	}
	return nil
}

func Save(path string, cfg *Config) error {
	var data []byte
	if isTOML(path) {
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
			return err
		}
		data = buf.Bytes()
	} else {
		var err error
		if data, err = yaml.Marshal(cfg); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0644)
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// Pursuit returns the engine parameters.
func (c *Config) Pursuit() pursuit.Config {
	return pursuit.Config{
		BodyCount: c.Bodies,
		Radius:    c.Radius,
		Speed:     c.Speed,
		Timestep:  c.Timestep,
	}
}

// SessionMode parses the configured mode.
func (c *Config) SessionMode() (session.Mode, error) {
	return session.ParseMode(c.Mode)
}

// SessionOptions returns the session options implied by the file.
func (c *Config) SessionOptions() ([]session.Option, error) {
	mode, err := c.SessionMode()
	if err != nil {
		return nil, err
	}
	return []session.Option{
		session.WithMode(mode),
		session.WithStepsPerFrame(c.StepsPerFrame),
	}, nil
}
