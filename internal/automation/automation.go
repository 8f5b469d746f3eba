package automation

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"time"

	"github.com/san-kum/clothsim/internal/dynamo"
	"github.com/san-kum/clothsim/internal/experiment"
	"github.com/san-kum/clothsim/internal/sim"
	"gopkg.in/yaml.v3"
)

// Scenario is a scripted gesture sequence replayed against a headless cloth.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Preset      string         `yaml:"preset"`
	Frames      int            `yaml:"frames"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is one of: wait n frames, press at a point, move to a point,
// or release.
type ScenarioStep struct {
	Wait    int         `yaml:"wait,omitempty"`
	Press   *[2]float64 `yaml:"press,omitempty"`
	Move    *[2]float64 `yaml:"move,omitempty"`
	Release bool        `yaml:"release,omitempty"`
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(data)
}

func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if err := scenario.Validate(); err != nil {
		return nil, err
	}
	return &scenario, nil
}

func (s *Scenario) Validate() error {
	for i, st := range s.Steps {
		n := 0
		if st.Wait != 0 {
			n++
		}
		if st.Press != nil {
			n++
		}
		if st.Move != nil {
			n++
		}
		if st.Release {
			n++
		}
		if n != 1 {
			return fmt.Errorf("scenario step %d: exactly one of wait, press, move, release required", i+1)
		}
		if st.Wait < 0 {
			return fmt.Errorf("scenario step %d: negative wait", i+1)
		}
	}
	return nil
}

type event struct {
	kind  int
	point dynamo.Vec2
}

const (
	evPress = iota
	evMove
	evRelease
)

// Script is a compiled scenario; it satisfies sim.Input. Events sharing a
// frame fire in step order before that frame's tick.
type Script struct {
	events map[int][]event
	length int
	// Captured counts presses that grabbed a node.
	Captured int
	Missed   int
}

func (s *Scenario) Compile() *Script {
	sc := &Script{events: make(map[int][]event)}
	frame := 0
	for _, st := range s.Steps {
		switch {
		case st.Wait > 0:
			frame += st.Wait
		case st.Press != nil:
			sc.events[frame] = append(sc.events[frame], event{evPress, dynamo.Vec2{X: st.Press[0], Y: st.Press[1]}})
		case st.Move != nil:
			sc.events[frame] = append(sc.events[frame], event{evMove, dynamo.Vec2{X: st.Move[0], Y: st.Move[1]}})
		case st.Release:
			sc.events[frame] = append(sc.events[frame], event{kind: evRelease})
		}
	}
	sc.length = frame + 1
	return sc
}

// Len is the number of frames the script needs to play every event.
func (sc *Script) Len() int { return sc.length }

func (sc *Script) Apply(g sim.Gestures, frame int) {
	for _, ev := range sc.events[frame] {
		switch ev.kind {
		case evPress:
			if g.Press(ev.point) {
				sc.Captured++
			} else {
				sc.Missed++
			}
		case evMove:
			g.Move(ev.point)
		case evRelease:
			g.Release()
		}
	}
}

// Frames returns the frames that carry events, ascending.
func (sc *Script) Frames() []int {
	out := make([]int, 0, len(sc.events))
	for f := range sc.events {
		out = append(out, f)
	}
	sort.Ints(out)
	return out
}

// RunScenario plays the scenario over p. The run lasts Frames frames, or
// just long enough for the script when Frames is unset.
func RunScenario(ctx context.Context, scenario *Scenario, p dynamo.Params, record bool) (*sim.Result, *Script, error) {
	script := scenario.Compile()
	frames := scenario.Frames
	if frames <= 0 {
		frames = script.Len()
	}

	exp := experiment.New(experiment.Config{
		Params: p,
		Frames: frames,
		Record: record,
		Input:  script,
	})
	if err := exp.Setup(); err != nil {
		return nil, script, err
	}
	result, err := exp.Run(ctx)
	if err != nil {
		return result, script, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}
	return result, script, nil
}

// ParameterSweep runs one headless cloth per value of a named tunable.
type ParameterSweep struct {
	Base      dynamo.Params
	ParamName string
	ParamMin  float64
	ParamMax  float64
	NumSteps  int
	Frames    int
}

type SweepResult struct {
	ParamValue float64
	Metrics    map[string]float64
	Stable     bool
}

func RunSweep(ctx context.Context, sweep *ParameterSweep, registry *experiment.Registry) ([]SweepResult, error) {
	if sweep.NumSteps < 2 {
		return nil, fmt.Errorf("sweep needs at least 2 steps, got %d", sweep.NumSteps)
	}
	results := make([]SweepResult, 0, sweep.NumSteps)
	paramStep := (sweep.ParamMax - sweep.ParamMin) / float64(sweep.NumSteps-1)

	for i := 0; i < sweep.NumSteps; i++ {
		paramVal := sweep.ParamMin + float64(i)*paramStep

		p, err := registry.Apply(sweep.Base, map[string]float64{sweep.ParamName: paramVal})
		if err != nil {
			return nil, err
		}

		exp := experiment.New(experiment.Config{Params: p, Frames: sweep.Frames})
		if err := exp.Setup(); err != nil {
			return nil, err
		}
		result, err := exp.Run(ctx)
		if err != nil {
			return nil, err
		}

		results = append(results, SweepResult{
			ParamValue: paramVal,
			Metrics:    result.Metrics,
			Stable:     stable(result),
		})
	}

	return results, nil
}

// MonteCarloConfig runs the same tunables under random wind seeds.
type MonteCarloConfig struct {
	Base      dynamo.Params
	NumTrials int
	Frames    int
	Seed      int64
}

type MonteCarloResult struct {
	TrialID    int
	WindSeed   int64
	MaxStretch float64
	Stable     bool // finite, inside the margin, pins held
}

func RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig) ([]MonteCarloResult, error) {
	results := make([]MonteCarloResult, 0, cfg.NumTrials)

	rng := rand.New(rand.NewSource(cfg.Seed))
	if cfg.Seed == 0 {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	for trial := 0; trial < cfg.NumTrials; trial++ {
		p := cfg.Base
		p.Seed = rng.Int63()

		exp := experiment.New(experiment.Config{Params: p, Frames: cfg.Frames})
		if err := exp.Setup(); err != nil {
			return nil, err
		}
		result, err := exp.Run(ctx)
		if err != nil {
			return nil, err
		}

		results = append(results, MonteCarloResult{
			TrialID:    trial,
			WindSeed:   p.Seed,
			MaxStretch: result.Metrics["max_stretch"],
			Stable:     stable(result),
		})
	}

	return results, nil
}

func stable(r *sim.Result) bool {
	return len(r.Errors) == 0 && r.Metrics["bounds_violations"] == 0 && r.Metrics["pin_drift"] == 0
}

// MonteCarloStats computes summary statistics from Monte Carlo results
func MonteCarloStats(results []MonteCarloResult) (stableCount int, unstableCount int) {
	for _, r := range results {
		if r.Stable {
			stableCount++
		} else {
			unstableCount++
		}
	}
	return
}
