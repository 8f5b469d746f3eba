package control

import (
	"testing"

	"github.com/san-kum/clothsim/internal/dynamo"
	"github.com/san-kum/clothsim/internal/mesh"
)

func newMesh(t *testing.T) *mesh.Mesh {
	t.Helper()
	m, err := mesh.New(4, 4, 400, 400, 0.9)
	if err != nil {
		t.Fatalf("mesh.New failed: %v", err)
	}
	return m
}

func TestDragLifecycle(t *testing.T) {
	m := newMesh(t)
	d := NewDrag(20)

	target := m.Index(2, 1)
	p := m.Nodes[target].Pos.Add(dynamo.Vec2{X: 5, Y: -3})

	if !d.Start(m, p) {
		t.Fatal("expected press near node to capture it")
	}
	if d.Phase() != Dragging {
		t.Errorf("phase = %v, want dragging", d.Phase())
	}
	if i, ok := d.Active(); !ok || i != target {
		t.Errorf("Active() = (%d, %v), want (%d, true)", i, ok, target)
	}
	if n := m.Nodes[target]; n.Pos != p || n.Last != p {
		t.Errorf("node not snapped: pos %v last %v, want %v", n.Pos, n.Last, p)
	}

	for _, q := range []dynamo.Vec2{{X: 10, Y: 10}, {X: 50, Y: 70}, {X: 100, Y: 100}} {
		d.Move(m, q)
		if n := m.Nodes[target]; n.Pos != q || n.Last != q {
			t.Errorf("after move to %v: pos %v last %v", q, n.Pos, n.Last)
		}
	}

	d.End()
	if i, ok := d.Active(); ok || i != mesh.None {
		t.Errorf("Active() after End = (%d, %v), want (None, false)", i, ok)
	}
	n := m.Nodes[target]
	if n.Pos.Sub(n.Last) != (dynamo.Vec2{}) {
		t.Errorf("released node has implied velocity %v", n.Pos.Sub(n.Last))
	}
}

func TestDragMissIsNoop(t *testing.T) {
	m := newMesh(t)
	d := NewDrag(20)
	before := m.Positions(nil)

	if d.Start(m, dynamo.Vec2{X: 0, Y: 0}) {
		t.Fatal("press far from every node captured one")
	}
	d.Move(m, dynamo.Vec2{X: 200, Y: 200})

	if d.Phase() != Idle {
		t.Errorf("phase = %v, want idle", d.Phase())
	}
	for i, n := range m.Nodes {
		if n.Pos != before[i] {
			t.Errorf("node %d moved on missed gesture", i)
		}
	}
}

func TestDragFirstMatchWins(t *testing.T) {
	m := newMesh(t)
	a, b := m.Index(1, 1), m.Index(2, 1)
	mid := m.Nodes[a].Pos.Add(m.Nodes[b].Pos).Scale(0.5)

	if got := HitTest(m, mid, m.Delta); got != a {
		t.Errorf("HitTest between %d and %d = %d, want first in order %d", a, b, got, a)
	}

	closerToB := mid.Add(dynamo.Vec2{X: 5})
	if got := HitTest(m, closerToB, m.Delta); got != a {
		t.Errorf("HitTest nearer %d = %d, want first match %d", b, got, a)
	}
}

func TestDragRadiusIsStrict(t *testing.T) {
	m := newMesh(t)
	i := m.Index(3, 3)
	p := m.Nodes[i].Pos.Add(dynamo.Vec2{X: 20})

	if got := HitTest(m, p, 20); got == i {
		t.Errorf("node at exactly the hit radius was selected")
	}
}

func TestDragSkipsPinned(t *testing.T) {
	m := newMesh(t)
	pinned := m.Nodes[m.Index(0, 2)].Pos
	d := NewDrag(5)

	if d.Start(m, pinned) {
		t.Errorf("pinned node %d was captured", d.Index())
	}
}

func TestDragNearPinPrefersColumnOne(t *testing.T) {
	m := newMesh(t)
	pin, next := m.Index(0, 0), m.Index(1, 0)
	mid := m.Nodes[pin].Pos.Add(m.Nodes[next].Pos).Scale(0.5)

	if m.Nodes[pin].Pos.Dist(mid) >= 20 {
		t.Fatalf("pin at %f from pointer, want inside radius", m.Nodes[pin].Pos.Dist(mid))
	}
	if got := HitTest(m, mid, 20); got != next {
		t.Errorf("HitTest = %d, want column-1 node %d", got, next)
	}

	before := m.Nodes[pin].Pos
	d := NewDrag(20)
	d.Start(m, mid)
	d.Move(m, dynamo.Vec2{X: 300, Y: 300})
	if m.Nodes[pin].Pos != before {
		t.Errorf("pinned node moved to %v", m.Nodes[pin].Pos)
	}
}

func TestDragSecondPressIgnored(t *testing.T) {
	m := newMesh(t)
	d := NewDrag(20)
	first := m.Index(1, 1)
	second := m.Index(3, 3)

	d.Start(m, m.Nodes[first].Pos)
	secondPos := m.Nodes[second].Pos
	if d.Start(m, secondPos) {
		t.Error("second press captured a node while dragging")
	}
	if d.Index() != first {
		t.Errorf("active node = %d, want %d", d.Index(), first)
	}
	if m.Nodes[second].Pos != secondPos {
		t.Error("second press moved a node")
	}
}

func TestPhaseString(t *testing.T) {
	if Idle.String() != "idle" || Dragging.String() != "dragging" {
		t.Errorf("unexpected phase names %q %q", Idle, Dragging)
	}
}
