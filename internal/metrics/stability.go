package metrics

import (
	"github.com/san-kum/clothsim/internal/mesh"
)

// Bounds counts frames on which some node outside the active gesture lies
// beyond the canvas margin.
type Bounds struct {
	name       string
	margin     float64
	active     func() int
	violations int
}

// NewBounds checks against margin. active reports the dragged node to
// exempt; nil exempts none.
func NewBounds(margin float64, active func() int) *Bounds {
	return &Bounds{
		name:   "bounds_violations",
		margin: margin,
		active: active,
	}
}

func (s *Bounds) Name() string {
	return s.name
}

func (s *Bounds) Observe(m *mesh.Mesh, frame int) {
	skip := mesh.None
	if s.active != nil {
		skip = s.active()
	}
	lo := s.margin
	for i, n := range m.Nodes {
		if i == skip {
			continue
		}
		if n.Pos.X < lo || n.Pos.Y < lo || n.Pos.X > m.Width-lo || n.Pos.Y > m.Height-lo {
			s.violations++
			return
		}
	}
}

func (s *Bounds) Value() float64 {
	return float64(s.violations)
}

func (s *Bounds) Reset() {
	s.violations = 0
}
