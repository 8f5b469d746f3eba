package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/clothsim/internal/dynamo"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	p, err := cfg.Params()
	if err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if p != dynamo.DefaultParams() {
		t.Errorf("config defaults %+v differ from dynamo defaults %+v", p, dynamo.DefaultParams())
	}
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cloth.yaml")
	data := []byte("lattice:\n  cols: 12\nwind:\n  strength: 30\n  mode: gust\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path, nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Lattice.Cols != 12 || cfg.Lattice.Rows != DefaultRows {
		t.Errorf("lattice = %+v, want 12x%d", cfg.Lattice, DefaultRows)
	}
	if cfg.Wind.Strength != 30 || cfg.Wind.Mode != dynamo.WindGust {
		t.Errorf("wind = %+v", cfg.Wind)
	}
	if cfg.Physics.Iterations != DefaultIterations {
		t.Errorf("untouched field changed: iterations = %d", cfg.Physics.Iterations)
	}
}

func TestLoadOntoPreset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cloth.yaml")
	if err := os.WriteFile(path, []byte("physics:\n  gravity: 20\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path, GetPreset("storm"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Wind.Strength != 45 || cfg.Physics.Gravity != 20 {
		t.Errorf("file should overlay preset: wind %f gravity %f", cfg.Wind.Strength, cfg.Physics.Gravity)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), nil); err == nil {
		t.Error("expected error for missing file")
	}
	path := filepath.Join(t.TempDir(), "bad.yaml")
	os.WriteFile(path, []byte("lattice: [1, 2"), 0644)
	if _, err := Load(path, nil); err == nil {
		t.Error("expected error for malformed yaml")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	want := GetPreset("desktop")
	want.Image.Source = "flag.png"
	if err := Save(path, want); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	if *got != *want {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, want)
	}
}

func TestParamsValidation(t *testing.T) {
	tests := []struct {
		name string
		mod  func(*Config)
		want error
	}{
		{"one column", func(c *Config) { c.Lattice.Cols = 1 }, dynamo.ErrInvalidLattice},
		{"zero dt", func(c *Config) { c.Physics.Dt = 0 }, dynamo.ErrParameterBounds},
		{"no iterations", func(c *Config) { c.Physics.Iterations = 0 }, dynamo.ErrParameterBounds},
		{"stiffness above one", func(c *Config) { c.Physics.Stiffness = 1.5 }, dynamo.ErrParameterBounds},
		{"negative wind", func(c *Config) { c.Wind.Strength = -1 }, dynamo.ErrParameterBounds},
		{"unknown mode", func(c *Config) { c.Wind.Mode = "hurricane" }, dynamo.ErrParameterBounds},
		{"tiny canvas", func(c *Config) { c.Canvas.Width = 15 }, dynamo.ErrParameterBounds},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mod(cfg)
			if _, err := cfg.Params(); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("storm")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Wind.Mode != dynamo.WindGust {
		t.Errorf("expected gust mode, got %s", cfg.Wind.Mode)
	}

	// Presets must not leak into each other or the defaults.
	cfg.Wind.Strength = 99
	if GetPreset("storm").Wind.Strength != 45 {
		t.Error("preset mutated by caller")
	}
	if DefaultConfig().Wind.Strength != DefaultWind {
		t.Error("defaults mutated by preset")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	names := ListPresets()
	if len(names) != len(Presets) {
		t.Fatalf("got %d presets, want %d", len(names), len(Presets))
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			t.Errorf("presets not sorted: %v", names)
		}
	}
	for _, name := range names {
		if _, err := GetPreset(name).Params(); err != nil {
			t.Errorf("preset %s invalid: %v", name, err)
		}
	}
}
