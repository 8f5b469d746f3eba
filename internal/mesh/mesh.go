// Package mesh holds the cloth lattice: nodes, links and texture coordinates.
//
// Nodes are stored row-major; node (col, row) lives at index row*Cols+col.
// The link set is built once and never changes. Every node in column 0 is
// pinned.
package mesh

import (
	"fmt"
	"math"

	"github.com/san-kum/clothsim/internal/dynamo"
)

// None marks the absence of a node index (no active node).
const None = -1

// Node is a point mass with its current and previous position. Velocity is
// implicit: Pos - Last.
type Node struct {
	Pos    dynamo.Vec2
	Last   dynamo.Vec2
	Pinned bool
}

// Link is a one-sided maximum-distance constraint between two lattice
// neighbours.
type Link struct {
	First, Second int
}

// UV is a normalised texture coordinate in [0,1]².
type UV struct {
	U, V float64
}

// Mesh is a cols×rows cloth lattice laid out on a canvas. Nodes, UVs and
// the initial positions share the row-major index; Links is fixed at
// construction.
type Mesh struct {
	Cols, Rows int
	Width      float64 // canvas width
	Height     float64 // canvas height
	Delta      float64 // lattice spacing
	MaxDist    float64 // upper bound on every link length

	Nodes []Node
	Links []Link
	UVs   []UV

	initial []dynamo.Vec2
}

// New lays out a cols×rows lattice centred on a canvasW×canvasH canvas.
func New(cols, rows int, canvasW, canvasH, stiffness float64) (*Mesh, error) {
	if cols < 2 || rows < 2 {
		return nil, fmt.Errorf("mesh %dx%d: %w", cols, rows, dynamo.ErrInvalidLattice)
	}
	if stiffness <= 0 || stiffness > 1 {
		return nil, fmt.Errorf("mesh stiffness %f: %w", stiffness, dynamo.ErrParameterBounds)
	}

	delta := math.Min(canvasW/2/(float64(cols)*1.5), canvasH/2/(float64(rows)*1.5))
	count := cols * rows

	m := &Mesh{
		Cols:    cols,
		Rows:    rows,
		Width:   canvasW,
		Height:  canvasH,
		Delta:   delta,
		MaxDist: delta * stiffness,
		Nodes:   make([]Node, count),
		UVs:     make([]UV, count),
		Links:   make([]Link, 0, (cols-1)*rows+cols*(rows-1)),
		initial: make([]dynamo.Vec2, count),
	}

	originX := canvasW/2 - float64(cols)/2*delta
	originY := canvasH/2 - float64(rows)/2*delta
	for i := 0; i < count; i++ {
		col, row := i%cols, i/cols
		p := dynamo.Vec2{X: originX + float64(col)*delta, Y: originY + float64(row)*delta}
		m.Nodes[i] = Node{Pos: p, Last: p, Pinned: col == 0}
		m.UVs[i] = UV{U: float64(col) / float64(cols-1), V: float64(row) / float64(rows-1)}
		m.initial[i] = p
	}

	// Horizontal links first, then vertical; the solver visits them in this order.
	for i := 0; i < count-1; i++ {
		if (i+1)%cols > 0 {
			m.Links = append(m.Links, Link{First: i, Second: i + 1})
		}
	}
	for i := 0; i < count-cols; i++ {
		m.Links = append(m.Links, Link{First: i, Second: i + cols})
	}

	return m, nil
}

func (m *Mesh) Len() int { return len(m.Nodes) }

// Index returns the node index of lattice position (col, row).
func (m *Mesh) Index(col, row int) int { return row*m.Cols + col }

// Node returns a pointer to node i, or an error if i is out of range.
func (m *Mesh) Node(i int) (*Node, error) {
	if i < 0 || i >= len(m.Nodes) {
		return nil, fmt.Errorf("node %d of %d: %w", i, len(m.Nodes), dynamo.ErrNodeIndex)
	}
	return &m.Nodes[i], nil
}

// Initial returns the construction-time position of node i.
func (m *Mesh) Initial(i int) dynamo.Vec2 { return m.initial[i] }

// LinkLength returns the current Euclidean length of link l.
func (m *Mesh) LinkLength(l Link) float64 {
	return m.Nodes[l.First].Pos.Dist(m.Nodes[l.Second].Pos)
}

// Positions copies the current node positions into dst, growing it if needed.
func (m *Mesh) Positions(dst []dynamo.Vec2) []dynamo.Vec2 {
	if cap(dst) < len(m.Nodes) {
		dst = make([]dynamo.Vec2, len(m.Nodes))
	}
	dst = dst[:len(m.Nodes)]
	for i := range m.Nodes {
		dst[i] = m.Nodes[i].Pos
	}
	return dst
}

// Quad returns the corner indices of lattice cell (col, row):
// top-left, top-right, bottom-left, bottom-right.
func (m *Mesh) Quad(col, row int) (i0, i1, i2, i3 int) {
	i0 = row*m.Cols + col
	i1 = i0 + 1
	i2 = i0 + m.Cols
	i3 = i2 + 1
	return
}
