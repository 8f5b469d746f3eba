package config

import (
	"fmt"
	"os"

	"github.com/san-kum/clothsim/internal/dynamo"
	"gopkg.in/yaml.v3"
)

const (
	DefaultCols       = 8
	DefaultRows       = 8
	DefaultCanvasW    = 800.0
	DefaultCanvasH    = 600.0
	DefaultDt         = 1.0 / 60.0
	DefaultGravity    = 9.8
	DefaultIterations = 10
	DefaultStiffness  = 0.9
	DefaultWind       = 15.0
	DefaultWindSpeed  = 0.2
	DefaultHitRadius  = 20.0
	DefaultMargin     = 10.0
	DefaultTPS        = 60
)

type Config struct {
	Lattice     LatticeConfig     `yaml:"lattice"`
	Canvas      CanvasConfig      `yaml:"canvas"`
	Physics     PhysicsConfig     `yaml:"physics"`
	Wind        WindConfig        `yaml:"wind"`
	Interaction InteractionConfig `yaml:"interaction"`
	Image       ImageConfig       `yaml:"image"`
	Window      WindowConfig      `yaml:"window"`
}

type LatticeConfig struct {
	Cols int `yaml:"cols"`
	Rows int `yaml:"rows"`
}

type CanvasConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

type PhysicsConfig struct {
	Dt         float64 `yaml:"dt"`
	Gravity    float64 `yaml:"gravity"`
	Iterations int     `yaml:"iterations"`
	Stiffness  float64 `yaml:"stiffness"`
}

type WindConfig struct {
	Strength float64 `yaml:"strength"`
	Speed    float64 `yaml:"speed"`
	Mode     string  `yaml:"mode"`
	Seed     int64   `yaml:"seed"`
}

type InteractionConfig struct {
	HitRadius float64 `yaml:"hit_radius"`
	Margin    float64 `yaml:"margin"`
}

// ImageConfig names the cloth texture: a file path or an http(s) URL. Empty
// selects the built-in checkerboard.
type ImageConfig struct {
	Source string `yaml:"source"`
}

type WindowConfig struct {
	Scale float64 `yaml:"scale"`
	Title string  `yaml:"title"`
	TPS   int     `yaml:"tps"`
}

func DefaultConfig() *Config {
	return &Config{
		Lattice: LatticeConfig{Cols: DefaultCols, Rows: DefaultRows},
		Canvas:  CanvasConfig{Width: DefaultCanvasW, Height: DefaultCanvasH},
		Physics: PhysicsConfig{
			Dt:         DefaultDt,
			Gravity:    DefaultGravity,
			Iterations: DefaultIterations,
			Stiffness:  DefaultStiffness,
		},
		Wind: WindConfig{
			Strength: DefaultWind,
			Speed:    DefaultWindSpeed,
			Mode:     dynamo.WindFlutter,
			Seed:     1,
		},
		Interaction: InteractionConfig{HitRadius: DefaultHitRadius, Margin: DefaultMargin},
		Window:      WindowConfig{Scale: 1, Title: "clothsim", TPS: DefaultTPS},
	}
}

// Load overlays the YAML file at path onto base, or onto the defaults when
// base is nil.
func Load(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := DefaultConfig()
	if base != nil {
		c := *base
		cfg = &c
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
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

// Params converts the configuration into validated simulation tunables.
func (c *Config) Params() (dynamo.Params, error) {
	p := dynamo.Params{
		Cols:         c.Lattice.Cols,
		Rows:         c.Lattice.Rows,
		CanvasW:      c.Canvas.Width,
		CanvasH:      c.Canvas.Height,
		Dt:           c.Physics.Dt,
		Gravity:      c.Physics.Gravity,
		Iterations:   c.Physics.Iterations,
		Stiffness:    c.Physics.Stiffness,
		WindStrength: c.Wind.Strength,
		WindSpeed:    c.Wind.Speed,
		WindMode:     c.Wind.Mode,
		Seed:         c.Wind.Seed,
		HitRadius:    c.Interaction.HitRadius,
		Margin:       c.Interaction.Margin,
	}
	if err := p.Validate(); err != nil {
		return p, fmt.Errorf("config: %w", err)
	}
	return p, nil
}
