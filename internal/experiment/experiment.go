package experiment

import (
	"context"
	"fmt"

	"github.com/san-kum/clothsim/internal/dynamo"
	"github.com/san-kum/clothsim/internal/metrics"
	"github.com/san-kum/clothsim/internal/sim"
)

// Config is one headless run: tunables, length and an optional gesture
// source.
type Config struct {
	Params      dynamo.Params
	Frames      int
	Record      bool
	RecordEvery int
	Input       sim.Input
}

type Experiment struct {
	cfg       Config
	simulator *sim.Simulator
}

func New(cfg Config) *Experiment {
	return &Experiment{cfg: cfg}
}

// Setup builds the simulator and attaches the standard cloth metrics plus
// any extras.
func (e *Experiment) Setup(extra ...sim.Metric) error {
	s, err := sim.New(e.cfg.Params)
	if err != nil {
		return fmt.Errorf("experiment setup: %w", err)
	}
	metrics.Attach(s)
	for _, m := range extra {
		s.AddMetric(m)
	}
	e.simulator = s
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	return e.simulator.Run(ctx, sim.RunConfig{
		Frames:        e.cfg.Frames,
		Record:        e.cfg.Record,
		RecordEvery:   e.cfg.RecordEvery,
		ValidateState: true,
		Input:         e.cfg.Input,
	})
}

// GetSimulator returns the underlying simulator for adding observers
func (e *Experiment) GetSimulator() *sim.Simulator {
	return e.simulator
}

func (e *Experiment) Config() Config { return e.cfg }
