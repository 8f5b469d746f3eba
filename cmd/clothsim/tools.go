package main

import (
	"context"
	"fmt"
	"image"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/san-kum/clothsim/internal/automation"
	"github.com/san-kum/clothsim/internal/config"
	"github.com/san-kum/clothsim/internal/dynamo"
	"github.com/san-kum/clothsim/internal/experiment"
	"github.com/san-kum/clothsim/internal/export"
	"github.com/san-kum/clothsim/internal/optim"
	"github.com/san-kum/clothsim/internal/sim"
	"github.com/spf13/cobra"
)

var (
	renderOut   string
	renderGIF   bool
	renderEvery int
	wireColor   string
	svgOut      string
	svgRun      string
	metricName  string
	gridIters   string
	gridStiff   string
	sweepParam  string
	sweepMin    float64
	sweepMax    float64
	sweepSteps  int
	trials      int
	imageWait   time.Duration
)

func newRenderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render",
		Short: "render the textured cloth to a PNG or animated GIF",
		RunE:  renderFrames,
	}
	cmd.Flags().Int("frames", 120, "frames to simulate")
	cmd.Flags().BoolVar(&renderGIF, "gif", false, "write every --every frames as an animated GIF")
	cmd.Flags().IntVar(&renderEvery, "every", 3, "GIF frame stride")
	cmd.Flags().StringVar(&renderOut, "out", "", "output path (default frame.png or cloth.gif)")
	cmd.Flags().StringVar(&wireColor, "wireframe", "", "stroke links in this colour over the texture")
	cmd.Flags().DurationVar(&imageWait, "image-timeout", 30*time.Second, "how long to wait for the texture")
	return cmd
}

func renderFrames(cmd *cobra.Command, args []string) error {
	frames, _ := cmd.Flags().GetInt("frames")
	if frames <= 0 {
		return fmt.Errorf("--frames must be positive")
	}
	cfg, p, err := loadParams(cmd)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	src := texture(ctx, cfg)
	waitCtx, waitCancel := context.WithTimeout(ctx, imageWait)
	defer waitCancel()
	if err := src.Wait(waitCtx); err != nil {
		return fmt.Errorf("texture %s: %w", src, err)
	}

	s, err := sim.New(p)
	if err != nil {
		return err
	}

	out := renderOut
	if renderGIF {
		if out == "" {
			out = "cloth.gif"
		}
		anim := export.NewAnimation(renderEvery * 100 / 60)
		opts := export.RenderOptions{Every: renderEvery, Wireframe: wireColor}
		if err := export.Render(ctx, s, src, frames, opts, func(_ int, img *image.RGBA) { anim.Add(img) }); err != nil {
			return err
		}
		f, err := os.Create(out)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := anim.Encode(f); err != nil {
			return err
		}
		fmt.Printf("wrote %d frames to %s\n", anim.Len(), out)
		return nil
	}

	if out == "" {
		out = "frame.png"
	}
	var last *image.RGBA
	opts := export.RenderOptions{Every: frames, Wireframe: wireColor}
	if err := export.Render(ctx, s, src, frames, opts, func(_ int, img *image.RGBA) { last = img }); err != nil {
		return err
	}
	f, err := os.Create(out)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := export.WritePNG(f, last); err != nil {
		return err
	}
	fmt.Printf("wrote frame %d to %s\n", s.Frame(), out)
	return nil
}

func newExportSVGCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export-svg",
		Short: "export the wireframe after N frames, or a saved node path with --run",
		RunE: func(cmd *cobra.Command, args []string) error {
			frames, _ := cmd.Flags().GetInt("frames")
			if svgRun != "" {
				meta, _, path, _, err := loadTrajectory(svgRun, node)
				if err != nil {
					return err
				}
				svg := export.TrajectoryToSVG(path, int(meta.Params.CanvasW), int(meta.Params.CanvasH), "#00ccff")
				return writeText(svgOut, svg)
			}

			_, p, err := loadParams(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := signalContext()
			defer cancel()

			expCfg := experiment.Config{Params: p, Frames: frames}
			if scenario != "" {
				sc, err := automation.LoadScenario(scenario)
				if err != nil {
					return err
				}
				expCfg.Input = sc.Compile()
			}
			exp := experiment.New(expCfg)
			if err := exp.Setup(); err != nil {
				return err
			}
			if _, err := exp.Run(ctx); err != nil {
				return err
			}

			s := exp.GetSimulator()
			opts := export.DefaultSVGOptions()
			opts.Highlight = s.Drag().Index()
			return writeText(svgOut, export.MeshToSVG(s.Mesh(), opts))
		},
	}
	cmd.Flags().Int("frames", 120, "frames to simulate")
	cmd.Flags().StringVar(&scenario, "scenario", "", "gesture scenario file (yaml)")
	cmd.Flags().StringVar(&svgRun, "run", "", "draw the path of --node from this saved run instead")
	cmd.Flags().IntVar(&node, "node", -1, "node index for --run (default: bottom-right corner)")
	cmd.Flags().StringVar(&svgOut, "out", "cloth.svg", "output path")
	return cmd
}

func writeText(path, text string) error {
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}

func newPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			for _, name := range config.ListPresets() {
				fmt.Fprintf(w, "  %s\t%s\n", name, config.Presets[name].Description)
			}
			return w.Flush()
		},
	}
}

func newSweepCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "grid search iterations x stiffness, or sweep one tunable with --param",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, p, err := loadParams(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := signalContext()
			defer cancel()

			frames, _ := cmd.Flags().GetInt("frames")
			if sweepParam != "" {
				return sweepOne(ctx, p, frames)
			}

			iters, err := parseFloats(gridIters)
			if err != nil {
				return fmt.Errorf("--grid-iterations: %w", err)
			}
			stiff, err := parseFloats(gridStiff)
			if err != nil {
				return fmt.Errorf("--grid-stiffness: %w", err)
			}

			gs := optim.NewGridSearch([]string{"iterations", "stiffness"}, [][]float64{iters, stiff})
			fmt.Printf("searching %d combinations over %d frames...\n", len(gs.Combinations()), frames)
			best, value, points, err := gs.Search(ctx, p, frames, metricName)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "ITERATIONS\tSTIFFNESS\t%s\n", strings.ToUpper(metricName))
			for _, pt := range optim.Rank(points) {
				if pt.Err != nil {
					fmt.Fprintf(w, "%.0f\t%.3f\t%v\n", pt.Params["iterations"], pt.Params["stiffness"], pt.Err)
					continue
				}
				fmt.Fprintf(w, "%.0f\t%.3f\t%.6f\n", pt.Params["iterations"], pt.Params["stiffness"], pt.Value)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Printf("\nbest: iterations=%.0f stiffness=%.3f %s=%.6f\n", best["iterations"], best["stiffness"], metricName, value)
			return nil
		},
	}
	cmd.Flags().Int("frames", 300, "frames per evaluation")
	cmd.Flags().StringVar(&metricName, "metric", "max_stretch", "metric to minimise")
	cmd.Flags().StringVar(&gridIters, "grid-iterations", "5,10,20,30", "iteration counts to try")
	cmd.Flags().StringVar(&gridStiff, "grid-stiffness", "0.7,0.8,0.9,1", "stiffness values to try")
	cmd.Flags().StringVar(&sweepParam, "param", "", "sweep this single tunable instead: "+strings.Join(experiment.NewRegistry().ListParams(), ", "))
	cmd.Flags().Float64Var(&sweepMin, "min", 0, "sweep start")
	cmd.Flags().Float64Var(&sweepMax, "max", 1, "sweep end")
	cmd.Flags().IntVar(&sweepSteps, "steps", 5, "sweep points")
	return cmd
}

func sweepOne(ctx context.Context, p dynamo.Params, frames int) error {
	results, err := automation.RunSweep(ctx, &automation.ParameterSweep{
		Base:      p,
		ParamName: sweepParam,
		ParamMin:  sweepMin,
		ParamMax:  sweepMax,
		NumSteps:  sweepSteps,
		Frames:    frames,
	}, experiment.NewRegistry())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tMAX_STRETCH\tPIN_DRIFT\tBOUNDS\tSTABLE\n", strings.ToUpper(sweepParam))
	for _, r := range results {
		fmt.Fprintf(w, "%.4f\t%.4f\t%.4f\t%.0f\t%v\n", r.ParamValue,
			r.Metrics["max_stretch"], r.Metrics["pin_drift"], r.Metrics["bounds_violations"], r.Stable)
	}
	return w.Flush()
}

func newMonteCarloCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "montecarlo",
		Short: "run the same tunables under random wind seeds",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, p, err := loadParams(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := signalContext()
			defer cancel()

			frames, _ := cmd.Flags().GetInt("frames")
			results, err := automation.RunMonteCarlo(ctx, &automation.MonteCarloConfig{
				Base:      p,
				NumTrials: trials,
				Frames:    frames,
				Seed:      p.Seed,
			})
			if err != nil {
				return err
			}

			worst := 0.0
			for _, r := range results {
				if r.MaxStretch > worst {
					worst = r.MaxStretch
				}
			}
			stable, unstable := automation.MonteCarloStats(results)
			fmt.Printf("trials: %d\n", len(results))
			fmt.Printf("stable: %d\n", stable)
			fmt.Printf("unstable: %d\n", unstable)
			fmt.Printf("worst max stretch: %.4f\n", worst)
			return nil
		},
	}
	cmd.Flags().Int("frames", 300, "frames per trial")
	cmd.Flags().IntVar(&trials, "trials", 20, "number of trials")
	return cmd
}

func newBenchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "measure frame throughput for several lattice sizes",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, base, err := loadParams(cmd)
			if err != nil {
				return err
			}
			frames, _ := cmd.Flags().GetInt("frames")
			if frames <= 0 {
				return fmt.Errorf("--frames must be positive")
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "LATTICE\tNODES\tLINKS\tFRAMES/S\tUS/FRAME")
			for _, n := range []int{8, 16, 32, 64} {
				p := base
				p.Cols, p.Rows = n, n
				s, err := sim.New(p)
				if err != nil {
					return err
				}

				start := time.Now()
				for i := 0; i < frames; i++ {
					s.Tick()
				}
				elapsed := time.Since(start)

				m := s.Mesh()
				perFrame := elapsed / time.Duration(frames)
				fmt.Fprintf(w, "%dx%d\t%d\t%d\t%.0f\t%d\n", n, n, m.Len(), len(m.Links),
					float64(frames)/elapsed.Seconds(), perFrame.Microseconds())
			}
			return w.Flush()
		},
	}
	cmd.Flags().Int("frames", 1000, "frames per lattice")
	return cmd
}

func parseFloats(s string) ([]float64, error) {
	var out []float64
	for _, f := range strings.Split(s, ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no values in %q", s)
	}
	return out, nil
}
