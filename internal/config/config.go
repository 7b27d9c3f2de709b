package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ark1700/fractal-generator/internal/fractal"
	"github.com/ark1700/fractal-generator/internal/render"
	"gopkg.in/yaml.v3"
)

const (
	DefaultWidth      = 800
	DefaultHeight     = 600
	DefaultIterations = 100
	DefaultZoom       = 1.0
	DefaultCenterX    = -0.5
	DefaultCenterY    = 0.0
	DefaultMode       = "whole"
	DefaultBackend    = "cpu"
	DefaultDebounceMs = 300
)

type Config struct {
	Width      int          `yaml:"width"`
	Height     int          `yaml:"height"`
	Iterations int          `yaml:"iterations"`
	Zoom       float64      `yaml:"zoom"`
	Center     CenterConfig `yaml:"center"`
	Mode       string       `yaml:"mode"`
	Render     RenderConfig `yaml:"render"`
	Live       LiveConfig   `yaml:"live"`
}

type CenterConfig struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

type RenderConfig struct {
	Backend  string `yaml:"backend"`
	BandRows int    `yaml:"band_rows"`
}

type LiveConfig struct {
	DebounceMs  int  `yaml:"debounce_ms"`
	Progressive bool `yaml:"progressive"`
}

func DefaultConfig() *Config {
	return &Config{
		Width:      DefaultWidth,
		Height:     DefaultHeight,
		Iterations: DefaultIterations,
		Zoom:       DefaultZoom,
		Center:     CenterConfig{X: DefaultCenterX, Y: DefaultCenterY},
		Mode:       DefaultMode,
		Render: RenderConfig{
			Backend:  DefaultBackend,
			BandRows: fractal.BandRows,
		},
		Live: LiveConfig{
			DebounceMs:  DefaultDebounceMs,
			Progressive: true,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Params converts the image section to generation parameters.
func (c *Config) Params() fractal.Params {
	return fractal.Params{
		Width:         c.Width,
		Height:        c.Height,
		MaxIterations: c.Iterations,
		Zoom:          c.Zoom,
		CenterX:       c.Center.X,
		CenterY:       c.Center.Y,
	}
}

func (c *Config) RenderMode() (render.Mode, error) {
	return render.ParseMode(c.Mode)
}

func (c *Config) Debounce() time.Duration {
	return time.Duration(c.Live.DebounceMs) * time.Millisecond
}

// Validate checks everything a run needs before any work starts.
func (c *Config) Validate() error {
	if err := c.Params().Validate(); err != nil {
		return err
	}
	if _, err := c.RenderMode(); err != nil {
		return err
	}
	if c.Render.BandRows <= 0 {
		return fmt.Errorf("band_rows must be positive, got %d", c.Render.BandRows)
	}
	if c.Live.DebounceMs < 0 {
		return fmt.Errorf("debounce_ms must not be negative, got %d", c.Live.DebounceMs)
	}
	return nil
}
