// Package constraint relaxes the cloth's maximum-distance links.
package constraint

import (
	"math"

	"github.com/san-kum/clothsim/internal/mesh"
)

// Solver enforces link.length <= MaxDist by sequential (Gauss-Seidel)
// relaxation over a fixed number of passes.
type Solver struct {
	Iterations int
}

func NewSolver(iterations int) *Solver {
	return &Solver{Iterations: iterations}
}

// Relax runs Iterations passes over every link in construction order. A
// stretched link is pulled back by half the excess on each endpoint; pinned
// nodes and the active node are never written, so the movable side only
// receives its own half. Compressed links are left alone.
func (s *Solver) Relax(m *mesh.Mesh, active int) {
	maxDist := m.MaxDist
	for iter := 0; iter < s.Iterations; iter++ {
		for _, l := range m.Links {
			first := &m.Nodes[l.First]
			second := &m.Nodes[l.Second]

			dx := first.Pos.X - second.Pos.X
			dy := first.Pos.Y - second.Pos.Y
			d := math.Sqrt(dx*dx + dy*dy)
			if d <= maxDist {
				continue
			}

			diff := (maxDist - d) / d
			tx := dx * 0.5 * diff
			ty := dy * 0.5 * diff

			if !first.Pinned && l.First != active {
				first.Pos.X += tx
				first.Pos.Y += ty
			}
			if !second.Pinned && l.Second != active {
				second.Pos.X -= tx
				second.Pos.Y -= ty
			}
		}
	}
}

// Stretch reports how far links exceed MaxDist, as ratios length/MaxDist:
// the largest ratio and the mean over all links.
func Stretch(m *mesh.Mesh) (max, mean float64) {
	if len(m.Links) == 0 || m.MaxDist <= 0 {
		return 0, 0
	}
	var sum float64
	for _, l := range m.Links {
		r := m.LinkLength(l) / m.MaxDist
		sum += r
		if r > max {
			max = r
		}
	}
	return max, sum / float64(len(m.Links))
}

// Residual returns the largest excess length beyond MaxDist over all links,
// or 0 when every link is within bounds. Links between two pinned nodes are
// included; with stiffness below 1 they stay at Delta-MaxDist forever.
func Residual(m *mesh.Mesh) float64 {
	var worst float64
	for _, l := range m.Links {
		if ex := m.LinkLength(l) - m.MaxDist; ex > worst {
			worst = ex
		}
	}
	return worst
}
