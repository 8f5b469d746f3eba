package viz

import (
	"strings"

	"github.com/san-kum/clothsim/internal/dynamo"
	"github.com/san-kum/clothsim/internal/mesh"
)

// Each terminal cell holds a 2x4 braille dot matrix:
//
//	1 4
//	2 5
//	3 6
//	7 8
//
// Unicode offset 0x2800
const brailleBase = 0x2800

var pixelMap = [4][2]rune{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

// Braille is a dot canvas of Width x Height cells, (Width*2) x (Height*4)
// dots.
type Braille struct {
	Width, Height int
	Grid          [][]rune
}

func NewBraille(w, h int) *Braille {
	b := &Braille{Width: w, Height: h, Grid: make([][]rune, h)}
	for i := range b.Grid {
		b.Grid[i] = make([]rune, w)
	}
	b.Clear()
	return b
}

// Set lights the dot at (x, y). Out-of-range dots are ignored.
func (b *Braille) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= b.Width || row >= b.Height {
		return
	}
	b.Grid[row][col] |= pixelMap[y%4][x%2]
}

// Lit reports whether the dot at (x, y) is set.
func (b *Braille) Lit(x, y int) bool {
	if x < 0 || y < 0 || x/2 >= b.Width || y/4 >= b.Height {
		return false
	}
	return b.Grid[y/4][x/2]&pixelMap[y%4][x%2] != 0
}

func (b *Braille) Clear() {
	for i := range b.Grid {
		for j := range b.Grid[i] {
			b.Grid[i][j] = brailleBase
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (b *Braille) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		b.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// DrawMesh strokes every link of m and marks the active node with a cross.
func (b *Braille) DrawMesh(m *mesh.Mesh, v Viewport, active int) {
	for _, l := range m.Links {
		x0, y0 := v.Dot(m.Nodes[l.First].Pos)
		x1, y1 := v.Dot(m.Nodes[l.Second].Pos)
		b.DrawLine(x0, y0, x1, y1)
	}
	if active >= 0 && active < m.Len() {
		x, y := v.Dot(m.Nodes[active].Pos)
		b.DrawLine(x-1, y-1, x+1, y+1)
		b.DrawLine(x-1, y+1, x+1, y-1)
	}
}

func (b *Braille) String() string {
	var sb strings.Builder
	for i, row := range b.Grid {
		sb.WriteString(string(row))
		if i < len(b.Grid)-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// Viewport maps canvas space onto a braille grid of Cols x Rows cells.
type Viewport struct {
	CanvasW, CanvasH float64
	Cols, Rows       int
}

// Dot returns the braille dot under canvas point p.
func (v Viewport) Dot(p dynamo.Vec2) (int, int) {
	x := p.X / v.CanvasW * float64(v.Cols*2)
	y := p.Y / v.CanvasH * float64(v.Rows*4)
	return int(x), int(y)
}

// Point returns the canvas point at the centre of cell (col, row).
func (v Viewport) Point(col, row int) dynamo.Vec2 {
	return dynamo.Vec2{
		X: (float64(col) + 0.5) / float64(v.Cols) * v.CanvasW,
		Y: (float64(row) + 0.5) / float64(v.Rows) * v.CanvasH,
	}
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
