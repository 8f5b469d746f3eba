package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/clothsim/internal/dynamo"
	"github.com/san-kum/clothsim/internal/mesh"
)

type SVGOptions struct {
	Background string
	Stroke     string
	PinFill    string
	LineWidth  float64
	// Highlight draws a ring around this node; mesh.None disables it.
	Highlight int
}

func DefaultSVGOptions() SVGOptions {
	return SVGOptions{
		Background: "#0a0a0a",
		Stroke:     "#f5e6d3",
		PinFill:    "#e04f5f",
		LineWidth:  1.2,
		Highlight:  mesh.None,
	}
}

// MeshToSVG draws the mesh links as line segments in canvas coordinates,
// with pinned nodes marked.
func MeshToSVG(m *mesh.Mesh, opts SVGOptions) string {
	if m == nil {
		return ""
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
<g stroke="%s" stroke-width="%.1f" stroke-linecap="round">
`, m.Width, m.Height, m.Width, m.Height, opts.Background, opts.Stroke, opts.LineWidth))

	for _, l := range m.Links {
		a, b := m.Nodes[l.First].Pos, m.Nodes[l.Second].Pos
		sb.WriteString(fmt.Sprintf(`<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f"/>
`, a.X, a.Y, b.X, b.Y))
	}
	sb.WriteString("</g>\n")

	sb.WriteString(fmt.Sprintf("<g fill=%q>\n", opts.PinFill))
	for _, n := range m.Nodes {
		if n.Pinned {
			sb.WriteString(fmt.Sprintf(`<circle cx="%.2f" cy="%.2f" r="%.1f"/>
`, n.Pos.X, n.Pos.Y, opts.LineWidth*2.5))
		}
	}
	sb.WriteString("</g>\n")

	if opts.Highlight >= 0 && opts.Highlight < len(m.Nodes) {
		p := m.Nodes[opts.Highlight].Pos
		sb.WriteString(fmt.Sprintf(`<circle cx="%.2f" cy="%.2f" r="%.1f" fill="none" stroke=%q stroke-width="%.1f"/>
`, p.X, p.Y, opts.LineWidth*6, opts.PinFill, opts.LineWidth))
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// TrajectoryToSVG creates an SVG of a node path, scaled to fit. Screen y
// grows downward, as on the canvas.
func TrajectoryToSVG(points []dynamo.Vec2, width, height int, strokeColor string) string {
	if len(points) < 2 {
		return ""
	}

	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	minY -= rangeY * 0.1
	rangeX *= 1.2
	rangeY *= 1.2

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor))

	for i, p := range points {
		x := (p.X - minX) / rangeX * float64(width)
		y := (p.Y - minY) / rangeY * float64(height)

		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
