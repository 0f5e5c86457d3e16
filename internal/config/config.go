package config

import (
	"fmt"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/gravsim/internal/nbody"
)

const (
	DefaultWidth  = 800.0
	DefaultHeight = 600.0
	DefaultFrames = 600
	DefaultFPS    = 60
)

type Config struct {
	Bodies        int            `yaml:"bodies"`
	G             float64        `yaml:"g"`
	Mass          float64        `yaml:"mass"`
	OrbitFraction float64        `yaml:"orbit_fraction"`
	SpeedFraction float64        `yaml:"speed_fraction"`
	Seed          int64          `yaml:"seed"`
	Workers       int            `yaml:"workers"`
	Viewport      ViewportConfig `yaml:"viewport"`
	Run           RunConfig      `yaml:"run"`
}

type ViewportConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

type RunConfig struct {
	Frames   int  `yaml:"frames"`
	FPS      int  `yaml:"fps"`
	Validate bool `yaml:"validate"`
}

func DefaultConfig() *Config {
	return &Config{
		Bodies:        nbody.DefaultBodies,
		G:             nbody.DefaultG,
		Mass:          nbody.DefaultMass,
		OrbitFraction: nbody.DefaultOrbitFraction,
		SpeedFraction: nbody.DefaultSpeedFraction,
		Seed:          nbody.DefaultSeed,
		Viewport: ViewportConfig{
			Width:  DefaultWidth,
			Height: DefaultHeight,
		},
		Run: RunConfig{
			Frames:   DefaultFrames,
			FPS:      DefaultFPS,
			Validate: true,
		},
	}
}

// Load reads a YAML file on top of DefaultConfig, so omitted keys keep their defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := LoadInto(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadInto reads a YAML file on top of cfg. Keys missing from the file keep
// the values already in cfg.
func LoadInto(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return err
	}
	return cfg.Validate()
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Params converts the file representation into engine parameters.
// Workers == 0 selects one worker per CPU.
func (c *Config) Params() nbody.Params {
	workers := c.Workers
	if workers == 0 {
		workers = runtime.NumCPU()
	}
	return nbody.Params{
		Bodies:        c.Bodies,
		G:             c.G,
		Mass:          c.Mass,
		OrbitFraction: c.OrbitFraction,
		SpeedFraction: c.SpeedFraction,
		Seed:          c.Seed,
		Workers:       workers,
	}
}

func (c *Config) Size() nbody.Size {
	return nbody.Size{Width: c.Viewport.Width, Height: c.Viewport.Height}
}

func (c *Config) Validate() error {
	if err := c.Params().Validate(); err != nil {
		return err
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must be non-negative, got %d", c.Workers)
	}
	if c.Viewport.Width < 0 || c.Viewport.Height < 0 {
		return fmt.Errorf("viewport must be non-negative, got %.0fx%.0f", c.Viewport.Width, c.Viewport.Height)
	}
	if c.Run.Frames < 0 {
		return fmt.Errorf("frames must be non-negative, got %d", c.Run.Frames)
	}
	if c.Run.FPS <= 0 {
		return fmt.Errorf("fps must be positive, got %d", c.Run.FPS)
	}
	return nil
}
