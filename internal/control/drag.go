package control

import (
	"github.com/san-kum/clothsim/internal/dynamo"
	"github.com/san-kum/clothsim/internal/mesh"
)

type Phase int

const (
	Idle Phase = iota
	Dragging
)

func (p Phase) String() string {
	if p == Dragging {
		return "dragging"
	}
	return "idle"
}

// Drag owns the active-node marker. It is the only writer of the active
// node's position while a gesture is in progress.
type Drag struct {
	radius float64
	phase  Phase
	node   int
}

func NewDrag(radius float64) *Drag {
	return &Drag{radius: radius, node: mesh.None}
}

// Start hit-tests p against the mesh and, on a hit, snaps that node to p and
// enters Dragging. Pinned nodes are never selected. It reports whether a node
// was captured.
func (d *Drag) Start(m *mesh.Mesh, p dynamo.Vec2) bool {
	if d.phase == Dragging {
		return false
	}

	i := HitTest(m, p, d.radius)
	if i == mesh.None {
		return false
	}

	d.phase = Dragging
	d.node = i
	snap(&m.Nodes[i], p)
	return true
}

// Move snaps the active node to p. It is a no-op while Idle.
func (d *Drag) Move(m *mesh.Mesh, p dynamo.Vec2) {
	if d.phase != Dragging {
		return
	}
	snap(&m.Nodes[d.node], p)
}

// End releases the active node. Its Pos and Last are equal from the last
// snap, so it resumes with zero velocity.
func (d *Drag) End() {
	d.phase = Idle
	d.node = mesh.None
}

// Active returns the dragged node and true, or (mesh.None, false) when Idle.
func (d *Drag) Active() (int, bool) {
	return d.node, d.phase == Dragging
}

// Index returns the dragged node or mesh.None.
func (d *Drag) Index() int { return d.node }

func (d *Drag) Phase() Phase { return d.phase }

func (d *Drag) Radius() float64 { return d.radius }

// HitTest returns the first unpinned node, in construction order, whose
// distance to p is strictly less than radius, or mesh.None.
func HitTest(m *mesh.Mesh, p dynamo.Vec2, radius float64) int {
	for i := range m.Nodes {
		if m.Nodes[i].Pinned {
			continue
		}
		if m.Nodes[i].Pos.Dist(p) < radius {
			return i
		}
	}
	return mesh.None
}

func snap(n *mesh.Node, p dynamo.Vec2) {
	n.Pos = p
	n.Last = p
}
