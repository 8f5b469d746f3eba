package sim

import (
	"context"
	"fmt"

	"github.com/san-kum/clothsim/internal/constraint"
	"github.com/san-kum/clothsim/internal/control"
	"github.com/san-kum/clothsim/internal/dynamo"
	"github.com/san-kum/clothsim/internal/integrators"
	"github.com/san-kum/clothsim/internal/mesh"
	"github.com/san-kum/clothsim/internal/wind"
)

// Simulator is the frame driver. It owns the mesh and every component that
// touches it; frontends call Tick once per display refresh and forward
// pointer events through Press, Move and Release between ticks.
type Simulator struct {
	params dynamo.Params

	mesh   *mesh.Mesh
	wind   *wind.Field
	verlet *integrators.Verlet
	solver *constraint.Solver
	drag   *control.Drag

	frame     int
	metrics   []Metric
	observers []Observer
}

func New(p dynamo.Params) (*Simulator, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	s := &Simulator{
		params: p,
		verlet: integrators.NewVerlet(p.Dt, p.Gravity, p.Margin),
		solver: constraint.NewSolver(p.Iterations),
		drag:   control.NewDrag(p.HitRadius),
	}
	if err := s.build(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Simulator) build() error {
	m, err := mesh.New(s.params.Cols, s.params.Rows, s.params.CanvasW, s.params.CanvasH, s.params.Stiffness)
	if err != nil {
		return fmt.Errorf("build mesh: %w", err)
	}
	s.mesh = m
	s.wind = wind.New(s.params.Cols, s.params.Rows, s.params.WindStrength, s.params.WindSpeed,
		wind.Mode(s.params.WindMode), s.params.Seed)
	s.frame = 0
	return nil
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Tick advances one frame: relax links, refresh wind, integrate.
func (s *Simulator) Tick() {
	active := s.drag.Index()
	s.solver.Relax(s.mesh, active)
	s.wind.Update()
	s.verlet.Step(s.mesh, s.wind.Values(), active)
	s.frame++
}

func (s *Simulator) Press(p dynamo.Vec2) bool { return s.drag.Start(s.mesh, p) }
func (s *Simulator) Move(p dynamo.Vec2)       { s.drag.Move(s.mesh, p) }
func (s *Simulator) Release()                 { s.drag.End() }

// Reset rebuilds the mesh and wind from the construction parameters and
// drops any gesture in progress.
func (s *Simulator) Reset() {
	s.drag.End()
	// Parameters were validated in New, so the rebuild cannot fail.
	_ = s.build()
}

func (s *Simulator) Mesh() *mesh.Mesh      { return s.mesh }
func (s *Simulator) Wind() *wind.Field     { return s.wind }
func (s *Simulator) Drag() *control.Drag   { return s.drag }
func (s *Simulator) Params() dynamo.Params { return s.params }
func (s *Simulator) Frame() int            { return s.frame }

// Valid reports whether every node position is finite.
func (s *Simulator) Valid() bool {
	for i := range s.mesh.Nodes {
		if !s.mesh.Nodes[i].Pos.IsValid() {
			return false
		}
	}
	return true
}

// Run steps cfg.Frames frames from the current state. Cancellation is checked
// between frames; a cancelled run returns the partial result with ctx.Err().
func (s *Simulator) Run(ctx context.Context, cfg RunConfig) (*Result, error) {
	if cfg.Frames <= 0 {
		return nil, fmt.Errorf("%w: frames must be positive, got %d", dynamo.ErrParameterBounds, cfg.Frames)
	}
	every := cfg.RecordEvery
	if every <= 0 {
		every = 1
	}

	result := &Result{
		Times:      make([]float64, 0, cfg.Frames+1),
		MaxStretch: make([]float64, 0, cfg.Frames),
		Metrics:    make(map[string]float64),
	}
	if cfg.Record {
		result.Positions = make([][]dynamo.Vec2, 0, cfg.Frames/every+1)
		result.Positions = append(result.Positions, s.mesh.Positions(nil))
		result.Times = append(result.Times, s.time())
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	for i := 0; i < cfg.Frames; i++ {
		select {
		case <-ctx.Done():
			s.collect(result)
			return result, ctx.Err()
		default:
		}

		if cfg.Input != nil {
			cfg.Input.Apply(s, s.frame)
		}
		s.Tick()

		if cfg.ValidateState && !s.Valid() {
			result.Errors = append(result.Errors, &dynamo.FrameError{Frame: s.frame, Wrapped: dynamo.ErrUnstable})
			break
		}

		result.Frames++
		maxStretch, _ := constraint.Stretch(s.mesh)
		result.MaxStretch = append(result.MaxStretch, maxStretch)

		for _, m := range s.metrics {
			m.Observe(s.mesh, s.frame)
		}
		for _, o := range s.observers {
			o.OnFrame(s.mesh, s.frame)
		}

		if cfg.Record && result.Frames%every == 0 {
			result.Positions = append(result.Positions, s.mesh.Positions(nil))
			result.Times = append(result.Times, s.time())
		}
	}

	s.collect(result)
	return result, nil
}

func (s *Simulator) collect(r *Result) {
	for _, m := range s.metrics {
		r.Metrics[m.Name()] = m.Value()
	}
}

func (s *Simulator) time() float64 { return float64(s.frame) * s.params.Dt }
