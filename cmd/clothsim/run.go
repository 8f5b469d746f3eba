package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/clothsim/internal/analysis"
	"github.com/san-kum/clothsim/internal/automation"
	"github.com/san-kum/clothsim/internal/dynamo"
	"github.com/san-kum/clothsim/internal/experiment"
	"github.com/san-kum/clothsim/internal/metrics"
	"github.com/san-kum/clothsim/internal/sim"
	"github.com/san-kum/clothsim/internal/storage"
	"github.com/san-kum/clothsim/internal/tui"
	"github.com/san-kum/clothsim/internal/viz"
	"github.com/spf13/cobra"
)

var (
	scenario    string
	live        bool
	frameRate   int
	ensemble    int
	recordEvery int
	jsonOut     string
	node        int
	outPath     string
	theme       string
	gifPath     string
	menu        bool
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "run the cloth headless and save the run",
		RunE:  runSimulation,
	}
	cmd.Flags().Int("frames", 600, "frames to simulate")
	cmd.Flags().StringVar(&scenario, "scenario", "", "gesture scenario file (yaml)")
	cmd.Flags().BoolVar(&live, "live", false, "draw an ANSI wireframe while running")
	cmd.Flags().IntVar(&frameRate, "fps", 30, "live redraw rate")
	cmd.Flags().IntVar(&ensemble, "ensemble", 0, "run this many wind seeds concurrently instead of one saved run")
	cmd.Flags().IntVar(&recordEvery, "record-every", 1, "save positions every n frames")
	cmd.Flags().StringVar(&jsonOut, "json", "", "also write the run as JSON to this path")
	return cmd
}

func runSimulation(cmd *cobra.Command, args []string) error {
	frames, _ := cmd.Flags().GetInt("frames")
	var sc *automation.Scenario
	if scenario != "" {
		loaded, err := automation.LoadScenario(scenario)
		if err != nil {
			return err
		}
		sc = loaded
		if sc.Preset != "" && preset == "" {
			preset = sc.Preset
		}
	}

	_, p, err := loadParams(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	if ensemble > 0 {
		return runEnsemble(ctx, p, frames)
	}

	expCfg := experiment.Config{
		Params:      p,
		Frames:      frames,
		Record:      true,
		RecordEvery: recordEvery,
	}
	var script *automation.Script
	if sc != nil {
		script = sc.Compile()
		expCfg.Input = script
		if !cmd.Flags().Changed("frames") {
			expCfg.Frames = sc.Frames
			if expCfg.Frames <= 0 {
				expCfg.Frames = script.Len()
			}
		}
	}

	exp := experiment.New(expCfg)
	if err := exp.Setup(); err != nil {
		return err
	}

	if live {
		r := tui.NewLiveRenderer("clothsim", frameRate)
		exp.GetSimulator().AddObserver(r)
		r.Start()
		defer r.Stop()
	}

	fmt.Printf("running %dx%d cloth for %d frames...\n", p.Cols, p.Rows, expCfg.Frames)
	start := time.Now()
	result, err := exp.Run(ctx)
	if err != nil && result == nil {
		return err
	}
	elapsed := time.Since(start)
	if err != nil {
		fmt.Printf("interrupted: %v\n", err)
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	meta := storage.RunMetadata{
		Preset: preset,
		Frames: result.Frames,
		Nodes:  p.Cols * p.Rows,
		Params: p,
	}
	if sc != nil {
		meta.Scenario = sc.Name
	}
	runID, err := st.Save(meta, result)
	if err != nil {
		return err
	}
	if jsonOut != "" {
		if err := storage.ExportJSON(jsonOut, storage.NewExport(p, result)); err != nil {
			return err
		}
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("frames: %d\n", result.Frames)
	if script != nil {
		fmt.Printf("presses: %d captured, %d missed\n", script.Captured, script.Missed)
	}
	for _, e := range result.Errors {
		fmt.Printf("error: %v\n", e)
	}
	fmt.Println("\nmetrics:")
	for _, name := range sortedKeys(result.Metrics) {
		fmt.Printf("  %s: %.6f\n", name, result.Metrics[name])
	}
	return nil
}

func runEnsemble(ctx context.Context, p dynamo.Params, frames int) error {
	e := sim.NewEnsemble(p, ensemble, p.Seed, func() []sim.Metric {
		return metrics.Standard(p.Margin, nil)
	})
	fmt.Printf("running %d seeds for %d frames...\n", ensemble, frames)
	results, err := e.Run(ctx, sim.RunConfig{Frames: frames, ValidateState: true})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEED\tFRAMES\tMAX_STRETCH\tMOTION\tBOUNDS\tERRORS")
	for i, r := range results {
		fmt.Fprintf(w, "%d\t%d\t%.4f\t%.4f\t%.0f\t%d\n",
			p.Seed+int64(i), r.Frames, r.Metrics["max_stretch"], r.Metrics["motion"],
			r.Metrics["bounds_violations"], len(r.Errors))
	}
	return w.Flush()
}

func newLiveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "live",
		Short: "drag the cloth in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, p, err := loadParams(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := signalContext()
			defer cancel()

			opts := viz.Options{Title: preset, Theme: theme, GIFPath: gifPath, Source: texture(ctx, cfg)}
			if menu {
				return viz.RunInteractive(opts)
			}
			s, err := sim.New(p)
			if err != nil {
				return err
			}
			return viz.Run(s, opts)
		},
	}
	cmd.Flags().StringVar(&theme, "theme", "linen", "color theme: "+fmt.Sprint(viz.ThemeNames()))
	cmd.Flags().StringVar(&gifPath, "gif", "clothsim.gif", "where G saves the recording")
	cmd.Flags().BoolVar(&menu, "menu", false, "pick a preset from a menu first")
	return cmd
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			runs, err := storage.New(dataDir).List()
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Println("no runs found")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTIME\tPRESET\tSCENARIO\tLATTICE\tFRAMES\tMAX_STRETCH")
			for _, run := range runs {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%dx%d\t%d\t%.4f\n",
					run.ID,
					run.Timestamp.Format("2006-01-02 15:04:05"),
					orDash(run.Preset),
					orDash(run.Scenario),
					run.Params.Cols, run.Params.Rows,
					run.Frames,
					run.Metrics["max_stretch"],
				)
			}
			return w.Flush()
		},
	}
}

// loadTrajectory reads the recorded path of one node; a negative index picks
// the bottom-right corner.
func loadTrajectory(runID string, idx int) (*storage.RunMetadata, []float64, []dynamo.Vec2, int, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, nil, 0, err
	}
	positions, times, err := st.LoadPositions(runID)
	if err != nil {
		return nil, nil, nil, 0, err
	}
	if idx < 0 {
		idx = meta.Nodes - 1
	}
	path, err := storage.Trajectory(positions, idx)
	if err != nil {
		return nil, nil, nil, 0, err
	}
	return meta, times, path, idx, nil
}

func newPlotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a node trajectory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			meta, _, path, idx, err := loadTrajectory(args[0], node)
			if err != nil {
				return err
			}
			if len(path) < 2 {
				return fmt.Errorf("no data to plot")
			}

			fmt.Printf("run: %s\n", meta.ID)
			fmt.Printf("node: %d\n", idx)
			fmt.Printf("samples: %d\n\n", len(path))

			xs, ys := make([]float64, len(path)), make([]float64, len(path))
			for i, p := range path {
				xs[i], ys[i] = p.X, -p.Y
			}
			fmt.Println(asciigraph.Plot(xs, asciigraph.Height(10), asciigraph.Width(80), asciigraph.Caption("x (px)")))
			fmt.Println()
			fmt.Println(asciigraph.Plot(ys, asciigraph.Height(10), asciigraph.Width(80), asciigraph.Caption("height (-y px)")))
			fmt.Println()
			fmt.Println("path:")
			fmt.Print(analysis.NewPortrait(path, false).ASCII(60, 20))
			return nil
		},
	}
	cmd.Flags().IntVar(&node, "node", -1, "node index (default: bottom-right corner)")
	return cmd
}

func newAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "flutter frequency analysis of a node",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			meta, times, path, idx, err := loadTrajectory(args[0], node)
			if err != nil {
				return err
			}
			if len(times) < 2 {
				return fmt.Errorf("run %s has too few samples", meta.ID)
			}
			spec := analysis.FlutterSpectrum(analysis.Xs(path), times[1]-times[0])

			fmt.Printf("run: %s\n", meta.ID)
			fmt.Printf("node: %d\n", idx)
			fmt.Printf("samples: %d\n", len(path))
			fmt.Printf("dominant frequency: %.3f Hz\n", spec.Dominant)
			fmt.Printf("amplitude: %.3f\n\n", spec.Amplitude)

			if len(spec.Power) > 2 {
				half := spec.Power[1 : len(spec.Power)/2+1]
				fmt.Println(asciigraph.Plot(half, asciigraph.Height(10), asciigraph.Width(80), asciigraph.Caption("power spectrum (x)")))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&node, "node", -1, "node index (default: bottom-right corner)")
	return cmd
}

func newExportCSVCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export a node trajectory to CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, times, path, idx, err := loadTrajectory(args[0], node)
			if err != nil {
				return err
			}

			out := os.Stdout
			if outPath != "" {
				f, err := os.Create(outPath)
				if err != nil {
					return err
				}
				defer f.Close()
				out = f
			}

			w := csv.NewWriter(out)
			if err := w.Write([]string{"time", "node", "x", "y"}); err != nil {
				return err
			}
			for i, p := range path {
				row := []string{
					strconv.FormatFloat(times[i], 'f', 6, 64),
					strconv.Itoa(idx),
					strconv.FormatFloat(p.X, 'f', 6, 64),
					strconv.FormatFloat(p.Y, 'f', 6, 64),
				}
				if err := w.Write(row); err != nil {
					return err
				}
			}
			w.Flush()
			return w.Error()
		},
	}
	cmd.Flags().IntVar(&node, "node", -1, "node index (default: bottom-right corner)")
	cmd.Flags().StringVar(&outPath, "out", "", "output file (default stdout)")
	return cmd
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
