package analysis

import (
	"strings"

	"github.com/san-kum/clothsim/internal/dynamo"
)

// Portrait is a sequence of 2D points, typically one node's path or its
// displacement against velocity.
type Portrait struct {
	Points []dynamo.Vec2
}

// NewPortrait plots a node path. With velocity set it plots x against the
// per-frame x displacement instead.
func NewPortrait(path []dynamo.Vec2, velocity bool) *Portrait {
	p := &Portrait{Points: make([]dynamo.Vec2, 0, len(path))}
	if !velocity {
		p.Points = append(p.Points, path...)
		return p
	}
	for i := 1; i < len(path); i++ {
		p.Points = append(p.Points, dynamo.Vec2{X: path[i].X, Y: path[i].X - path[i-1].X})
	}
	return p
}

// ASCII renders the portrait into a width×height character grid. Screen y
// grows downward, so rows are not flipped.
func (portrait *Portrait) ASCII(width, height int) string {
	if portrait == nil || len(portrait.Points) == 0 || width < 2 || height < 2 {
		return ""
	}

	minX, maxX := portrait.Points[0].X, portrait.Points[0].X
	minY, maxY := portrait.Points[0].Y, portrait.Points[0].Y
	for _, p := range portrait.Points {
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

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	for k, p := range portrait.Points {
		col := int((p.X - minX) / rangeX * float64(width-1))
		row := int((p.Y - minY) / rangeY * float64(height-1))
		if row < 0 || row >= height || col < 0 || col >= width {
			continue
		}
		switch {
		case k == len(portrait.Points)-1:
			canvas[row][col] = '@'
		case canvas[row][col] == ' ':
			canvas[row][col] = '•'
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(strings.TrimRight(string(row), " "))
		sb.WriteRune('\n')
	}
	return sb.String()
}

// Xs returns the x coordinates of a path.
func Xs(path []dynamo.Vec2) []float64 {
	out := make([]float64, len(path))
	for i, p := range path {
		out[i] = p.X
	}
	return out
}
