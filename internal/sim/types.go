package sim

import (
	"github.com/san-kum/clothsim/internal/dynamo"
	"github.com/san-kum/clothsim/internal/mesh"
)

// Metric accumulates a scalar over a run. Observe is called once per frame,
// after the frame has been integrated.
type Metric interface {
	Name() string
	Observe(m *mesh.Mesh, frame int)
	Value() float64
	Reset()
}

type Observer interface {
	OnFrame(m *mesh.Mesh, frame int)
}

// Gestures is the pointer triple the interaction controller understands.
type Gestures interface {
	Press(p dynamo.Vec2) bool
	Move(p dynamo.Vec2)
	Release()
}

// Input feeds gestures into a headless run. Apply is called before each
// frame so every gesture completes before the frame that reads it.
type Input interface {
	Apply(g Gestures, frame int)
}

type InputFunc func(g Gestures, frame int)

func (f InputFunc) Apply(g Gestures, frame int) { f(g, frame) }

type RunConfig struct {
	Frames int
	// Record keeps a position snapshot every RecordEvery frames (1 if unset).
	Record        bool
	RecordEvery   int
	ValidateState bool
	Input         Input
}

type Result struct {
	Frames    int
	Times     []float64
	Positions [][]dynamo.Vec2
	// MaxStretch holds the largest link ratio d/MaxDist after each frame.
	MaxStretch []float64
	Metrics    map[string]float64
	Errors     []error
}
