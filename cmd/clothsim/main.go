package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/san-kum/clothsim/internal/asset"
	"github.com/san-kum/clothsim/internal/config"
	"github.com/san-kum/clothsim/internal/dynamo"
	"github.com/san-kum/clothsim/internal/gui"
	"github.com/san-kum/clothsim/internal/sim"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	configFile string
	preset     string
	imageSrc   string

	cols       int
	rows       int
	iterations int
	stiffness  float64
	gravity    float64
	windForce  float64
	windSpeed  float64
	windMode   string
	seed       int64
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "clothsim",
		Short: "interactive cloth simulation",
		Long:  "clothsim hangs a textured cloth from its left edge, blows wind through it and lets you drag it around.",
		RunE:  runWindow,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", ".clothsim", "data directory")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "use preset configuration")
	pf.StringVar(&imageSrc, "image", "", "cloth texture: file path or http(s) URL")
	pf.IntVar(&cols, "cols", config.DefaultCols, "lattice columns")
	pf.IntVar(&rows, "rows", config.DefaultRows, "lattice rows")
	pf.IntVar(&iterations, "iterations", config.DefaultIterations, "constraint relaxation passes per frame")
	pf.Float64Var(&stiffness, "stiffness", config.DefaultStiffness, "link length limit as a fraction of the lattice spacing")
	pf.Float64Var(&gravity, "gravity", config.DefaultGravity, "downward acceleration")
	pf.Float64Var(&windForce, "wind", config.DefaultWind, "wind strength")
	pf.Float64Var(&windSpeed, "wind-speed", config.DefaultWindSpeed, "wind phase advance per frame")
	pf.StringVar(&windMode, "wind-mode", dynamo.WindFlutter, "wind mode: flutter or gust")
	pf.Int64Var(&seed, "seed", 1, "wind random seed")

	rootCmd.AddCommand(
		newRunCmd(),
		newLiveCmd(),
		newRenderCmd(),
		newListCmd(),
		newPlotCmd(),
		newAnalyzeCmd(),
		newExportCSVCmd(),
		newExportSVGCmd(),
		newPresetsCmd(),
		newSweepCmd(),
		newMonteCarloCmd(),
		newBenchCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig resolves defaults < --preset < --config < explicit flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}
	if configFile != "" {
		loaded, err := config.Load(configFile, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("cols") {
		cfg.Lattice.Cols = cols
	}
	if flags.Changed("rows") {
		cfg.Lattice.Rows = rows
	}
	if flags.Changed("iterations") {
		cfg.Physics.Iterations = iterations
	}
	if flags.Changed("stiffness") {
		cfg.Physics.Stiffness = stiffness
	}
	if flags.Changed("gravity") {
		cfg.Physics.Gravity = gravity
	}
	if flags.Changed("wind") {
		cfg.Wind.Strength = windForce
	}
	if flags.Changed("wind-speed") {
		cfg.Wind.Speed = windSpeed
	}
	if flags.Changed("wind-mode") {
		cfg.Wind.Mode = windMode
	}
	if flags.Changed("seed") {
		cfg.Wind.Seed = seed
	}
	if flags.Changed("image") {
		cfg.Image.Source = imageSrc
	}
	return cfg, nil
}

func loadParams(cmd *cobra.Command) (*config.Config, dynamo.Params, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, dynamo.Params{}, err
	}
	p, err := cfg.Params()
	if err != nil {
		return nil, dynamo.Params{}, err
	}
	return cfg, p, nil
}

// texture starts loading the configured image, or returns the built-in
// checkerboard.
func texture(ctx context.Context, cfg *config.Config) *asset.Image {
	if cfg.Image.Source == "" {
		return asset.Default()
	}
	return asset.Load(ctx, cfg.Image.Source)
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runWindow(cmd *cobra.Command, args []string) error {
	cfg, p, err := loadParams(cmd)
	if err != nil {
		return err
	}
	s, err := sim.New(p)
	if err != nil {
		return err
	}
	return gui.Run(s, texture(context.Background(), cfg), gui.Options{
		Title: cfg.Window.Title,
		Scale: cfg.Window.Scale,
		TPS:   cfg.Window.TPS,
	})
}
