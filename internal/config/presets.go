package config

import (
	"sort"

	"github.com/san-kum/clothsim/internal/dynamo"
)

type Preset struct {
	Description string
	Apply       func(*Config)
}

var Presets = map[string]Preset{
	"mobile": {
		Description: "8x8 lattice, the stock tuning",
		Apply:       func(*Config) {},
	},
	"desktop": {
		Description: "16x12 lattice on a 1280x800 canvas",
		Apply: func(c *Config) {
			c.Lattice = LatticeConfig{Cols: 16, Rows: 12}
			c.Canvas = CanvasConfig{Width: 1280, Height: 800}
		},
	},
	"calm": {
		Description: "light breeze",
		Apply: func(c *Config) {
			c.Wind.Strength = 4
		},
	},
	"storm": {
		Description: "strong gusting wind",
		Apply: func(c *Config) {
			c.Wind.Strength = 45
			c.Wind.Speed = 0.6
			c.Wind.Mode = dynamo.WindGust
		},
	},
	"stiff": {
		Description: "inextensible links, 30 relaxation passes",
		Apply: func(c *Config) {
			c.Physics.Iterations = 30
			c.Physics.Stiffness = 1
		},
	},
}

// GetPreset returns a fresh copy of the defaults with the named preset
// applied, or nil if there is no such preset.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	p.Apply(cfg)
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
