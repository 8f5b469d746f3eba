package integrators

import (
	"github.com/san-kum/clothsim/internal/dynamo"
	"github.com/san-kum/clothsim/internal/mesh"
)

// Verlet advances free nodes by one fixed step using position Verlet:
// velocity is the previous frame's displacement plus acceleration*dt.
// Wind pushes along +x and gravity along +y.
type Verlet struct {
	Dt      float64
	Gravity float64
	Margin  float64
}

func NewVerlet(dt, gravity, margin float64) *Verlet {
	return &Verlet{Dt: dt, Gravity: gravity, Margin: margin}
}

// Step integrates every node that is neither pinned nor active. wind holds
// one magnitude per node; active is the dragged node or mesh.None.
//
// After integration the position is clamped into the canvas minus Margin.
// Last is left untouched by the clamp, so the next step sees a reduced
// displacement and the node loses the velocity that pushed it into the wall.
func (v *Verlet) Step(m *mesh.Mesh, wind []float64, active int) {
	minX, maxX := v.Margin, m.Width-v.Margin
	minY, maxY := v.Margin, m.Height-v.Margin

	for i := range m.Nodes {
		n := &m.Nodes[i]
		if n.Pinned || i == active {
			continue
		}

		acc := dynamo.Vec2{Y: v.Gravity}
		if i < len(wind) {
			acc.X = wind[i]
		}

		vel := n.Pos.Sub(n.Last).Add(acc.Scale(v.Dt))
		next := n.Pos.Add(vel)

		n.Last = n.Pos
		n.Pos = next

		if n.Pos.X < minX {
			n.Pos.X = minX
		}
		if n.Pos.Y < minY {
			n.Pos.Y = minY
		}
		if n.Pos.X > maxX {
			n.Pos.X = maxX
		}
		if n.Pos.Y > maxY {
			n.Pos.Y = maxY
		}
	}
}
