// Package tui prints a plain ANSI wireframe of the cloth while a headless run
// is in progress. It needs no terminal library and works over a pipe.
package tui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/san-kum/clothsim/internal/constraint"
	"github.com/san-kum/clothsim/internal/mesh"
)

const (
	width       = 70
	height      = 20
	clearScreen = "\033[2J\033[H"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"
)

// LiveRenderer is a sim.Observer that redraws at most frameRate times per
// second of wall time.
type LiveRenderer struct {
	out       io.Writer
	title     string
	frameRate int
	lastFrame time.Time
	canvas    [][]rune
	now       func() time.Time
}

func NewLiveRenderer(title string, frameRate int) *LiveRenderer {
	return NewLiveRendererTo(os.Stdout, title, frameRate)
}

func NewLiveRendererTo(out io.Writer, title string, frameRate int) *LiveRenderer {
	if frameRate <= 0 {
		frameRate = 30
	}
	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
	}
	return &LiveRenderer{
		out:       out,
		title:     title,
		frameRate: frameRate,
		canvas:    canvas,
		now:       time.Now,
	}
}

func (r *LiveRenderer) OnFrame(m *mesh.Mesh, frame int) {
	now := r.now()
	if now.Sub(r.lastFrame) < time.Second/time.Duration(r.frameRate) {
		return
	}
	r.lastFrame = now

	r.clear()
	r.drawMesh(m)
	r.render(m, frame)
}

func (r *LiveRenderer) clear() {
	for y := range r.canvas {
		for x := range r.canvas[y] {
			r.canvas[y][x] = ' '
		}
	}
}

func (r *LiveRenderer) set(x, y int, c rune) {
	if x >= 0 && x < width && y >= 0 && y < height {
		r.canvas[y][x] = c
	}
}

func (r *LiveRenderer) line(x1, y1, x2, y2 int, c rune) {
	dx := abs(x2 - x1)
	dy := abs(y2 - y1)
	sx, sy := 1, 1
	if x1 > x2 {
		sx = -1
	}
	if y1 > y2 {
		sy = -1
	}
	err := dx - dy
	for {
		r.set(x1, y1, c)
		if x1 == x2 && y1 == y2 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// cell maps a canvas position to a character cell.
func (r *LiveRenderer) cell(m *mesh.Mesh, i int) (int, int) {
	p := m.Nodes[i].Pos
	return int(p.X / m.Width * width), int(p.Y / m.Height * height)
}

func (r *LiveRenderer) drawMesh(m *mesh.Mesh) {
	for _, l := range m.Links {
		x1, y1 := r.cell(m, l.First)
		x2, y2 := r.cell(m, l.Second)
		c := '-'
		if l.Second-l.First != 1 {
			c = '|'
		}
		r.line(x1, y1, x2, y2, c)
	}
	for i := range m.Nodes {
		x, y := r.cell(m, i)
		if m.Nodes[i].Pinned {
			r.set(x, y, '+')
		} else {
			r.set(x, y, 'o')
		}
	}
}

func (r *LiveRenderer) render(m *mesh.Mesh, frame int) {
	var b strings.Builder
	b.WriteString(clearScreen)
	b.WriteString(fmt.Sprintf("  %s  frame=%d\n", r.title, frame))
	b.WriteString("  " + strings.Repeat("-", width) + "\n")

	for _, row := range r.canvas {
		b.WriteString("  ")
		b.WriteString(string(row))
		b.WriteString("\n")
	}

	b.WriteString("  " + strings.Repeat("-", width) + "\n")

	maxStretch, meanStretch := constraint.Stretch(m)
	b.WriteString(fmt.Sprintf("  stretch max=%.3f mean=%.3f residual=%.2f\n",
		maxStretch, meanStretch, constraint.Residual(m)))

	fmt.Fprint(r.out, b.String())
}

func (r *LiveRenderer) Start() { fmt.Fprint(r.out, hideCursor) }
func (r *LiveRenderer) Stop()  { fmt.Fprint(r.out, showCursor) }

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
