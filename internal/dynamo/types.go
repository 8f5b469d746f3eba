package dynamo

import (
	"fmt"
	"math"
)

// Vec2 is a point or displacement in canvas space (pixels, y down).
type Vec2 struct {
	X, Y float64
}

func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

func (v Vec2) Scale(f float64) Vec2 { return Vec2{v.X * f, v.Y * f} }

func (v Vec2) Len() float64 { return math.Sqrt(v.X*v.X + v.Y*v.Y) }

// Dist returns the Euclidean distance between v and o.
func (v Vec2) Dist(o Vec2) float64 { return v.Sub(o).Len() }

func (v Vec2) IsValid() bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}

// Wind modes understood by the wind package.
const (
	WindFlutter = "flutter"
	WindGust    = "gust"
)

// Params holds the tunable constants of one simulation. They are fixed at
// construction; a running simulation never re-reads them.
type Params struct {
	Cols, Rows int

	CanvasW, CanvasH float64

	Dt         float64
	Gravity    float64
	Iterations int
	Stiffness  float64

	WindStrength float64
	WindSpeed    float64
	WindMode     string
	Seed         int64

	HitRadius float64
	Margin    float64
}

func DefaultParams() Params {
	return Params{
		Cols:         8,
		Rows:         8,
		CanvasW:      800,
		CanvasH:      600,
		Dt:           1.0 / 60.0,
		Gravity:      9.8,
		Iterations:   10,
		Stiffness:    0.9,
		WindStrength: 15,
		WindSpeed:    0.2,
		WindMode:     WindFlutter,
		Seed:         1,
		HitRadius:    20,
		Margin:       10,
	}
}

func (p Params) Validate() error {
	if p.Cols < 2 || p.Rows < 2 {
		return fmt.Errorf("%w: got %dx%d", ErrInvalidLattice, p.Cols, p.Rows)
	}
	if p.Dt <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %f", ErrParameterBounds, p.Dt)
	}
	if p.Iterations < 1 {
		return fmt.Errorf("%w: iterations must be at least 1, got %d", ErrParameterBounds, p.Iterations)
	}
	if p.Stiffness <= 0 || p.Stiffness > 1 {
		return fmt.Errorf("%w: stiffness must be in (0,1], got %f", ErrParameterBounds, p.Stiffness)
	}
	if p.Margin < 0 {
		return fmt.Errorf("%w: margin must be non-negative, got %f", ErrParameterBounds, p.Margin)
	}
	if p.CanvasW <= 2*p.Margin || p.CanvasH <= 2*p.Margin {
		return fmt.Errorf("%w: canvas %.0fx%.0f leaves no room inside margin %.0f", ErrParameterBounds, p.CanvasW, p.CanvasH, p.Margin)
	}
	if p.WindStrength < 0 {
		return fmt.Errorf("%w: wind strength must be non-negative, got %f", ErrParameterBounds, p.WindStrength)
	}
	if p.HitRadius <= 0 {
		return fmt.Errorf("%w: hit radius must be positive, got %f", ErrParameterBounds, p.HitRadius)
	}
	switch p.WindMode {
	case "", WindFlutter, WindGust:
	default:
		return fmt.Errorf("%w: unknown wind mode %q", ErrParameterBounds, p.WindMode)
	}
	return nil
}
